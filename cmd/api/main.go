package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/usercoursecontrol-api/api/swagger"
	"github.com/noah-isme/usercoursecontrol-api/internal/handler"
	internalmiddleware "github.com/noah-isme/usercoursecontrol-api/internal/middleware"
	"github.com/noah-isme/usercoursecontrol-api/internal/repository"
	"github.com/noah-isme/usercoursecontrol-api/internal/service"
	"github.com/noah-isme/usercoursecontrol-api/pkg/config"
	"github.com/noah-isme/usercoursecontrol-api/pkg/database"
	"github.com/noah-isme/usercoursecontrol-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/usercoursecontrol-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/usercoursecontrol-api/pkg/middleware/requestid"
)

// @title User Course Control API
// @version 1.0.0
// @description RPC functions for grade status, enrolment suspension and assignment deadlines
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	schema := database.NewSchema(cfg.Database.TablePrefix)
	userRepo := repository.NewUserRepository(db, schema)
	courseRepo := repository.NewCourseRepository(db, schema)
	enrollmentRepo := repository.NewEnrollmentRepository(db, schema)
	gradeRepo := repository.NewGradeRepository(db, schema)
	turnitinRepo := repository.NewTurnitinRepository(db, schema)
	assignmentRepo := repository.NewAssignmentRepository(db, schema)
	capabilityRepo := repository.NewCapabilityRepository(db, schema)

	metricsSvc := service.NewMetricsService()
	verifier := service.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	authorizer := service.NewCapabilityAuthorizer(capabilityRepo, cfg.Platform.SiteAdmins)
	plugins := service.NewEnrolPluginRegistry(enrollmentRepo, cfg.Platform.EnrolPlugins, time.Now)

	gradeSvc := service.NewGradeService(courseRepo, userRepo, gradeRepo, authorizer, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, plugins, authorizer, nil, logr)
	assignmentSvc := service.NewAssignmentService(turnitinRepo, assignmentRepo, authorizer, service.AssignmentServiceOptions{
		Location: cfg.Platform.DisplayLocation(),
		Metrics:  metricsSvc,
		Logger:   logr,
	})

	registry := handler.NewFunctionRegistry()
	handler.NewGradeHandler(gradeSvc).Register(registry)
	handler.NewEnrollmentHandler(enrollmentSvc).Register(registry)
	handler.NewAssignmentHandler(assignmentSvc).Register(registry)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(verifier))
	api.Use(internalmiddleware.Audit(logr, registry.IsWrite))
	registry.Mount(api)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "functions", len(registry.ServiceFunctions(handler.ServiceUserCourseControl)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	waitForShutdown(srv, logr)
}

func waitForShutdown(srv *http.Server, logr *zap.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}

	logr.Info("server stopped")
}

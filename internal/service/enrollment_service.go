package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/usercoursecontrol-api/internal/dto"
	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	appErrors "github.com/noah-isme/usercoursecontrol-api/pkg/errors"
)

type enrollmentRepository interface {
	ListSuspendedCourses(ctx context.Context, userID int64) ([]models.SuspendedCourse, error)
	ListByUserAndCourse(ctx context.Context, userID, courseID int64) ([]models.UserEnrolmentMethod, error)
	FindEnrolInstance(ctx context.Context, id int64) (*models.EnrolInstance, error)
	ListCourseEnrolments(ctx context.Context, filter models.CourseEnrolmentFilter) ([]models.CourseEnrolment, error)
}

type enrolPluginLookup interface {
	Lookup(method string) (EnrolPlugin, bool)
}

// EnrollmentService lists and reverses course suspensions and lists a user's courses.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	users     userReader
	plugins   enrolPluginLookup
	auth      Authorizer
	validator *validator.Validate
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, users userReader, plugins enrolPluginLookup, auth Authorizer, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		courses:   courses,
		users:     users,
		plugins:   plugins,
		auth:      auth,
		validator: validate,
		logger:    logger,
		tracer:    otel.Tracer("github.com/noah-isme/usercoursecontrol-api/internal/service/enrollment"),
	}
}

// ListSuspendedCourses returns the courses in which the user is suspended.
func (s *EnrollmentService) ListSuspendedCourses(ctx context.Context, actor models.Actor, req dto.UsernameRequest) ([]dto.SuspendedCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suspended course parameters")
	}
	if err := requireCapability(ctx, s.auth, actor, models.CapUserViewDetails, models.SystemScope()); err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, s.users, req.Username)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListSuspendedCourses(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suspended courses")
	}
	result := make([]dto.SuspendedCourse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.SuspendedCourse{
			CourseID:            row.CourseID,
			Fullname:            row.Fullname,
			Shortname:           row.Shortname,
			SuspensionTimestamp: row.SuspensionTimestamp.Int64,
		})
	}
	return result, nil
}

// Unsuspend reactivates the first suspended enrolment of the user in the course.
func (s *EnrollmentService) Unsuspend(ctx context.Context, actor models.Actor, req dto.UnsuspendRequest) (*dto.UnsuspendResult, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.unsuspend")
	defer span.End()
	span.SetAttributes(attribute.Int64("course.id", req.CourseID), attribute.Int64("actor.id", actor.UserID))

	result, err := s.unsuspend(ctx, actor, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsuspend failed")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("unsuspend.success", result.Success))
	return result, nil
}

func (s *EnrollmentService) unsuspend(ctx context.Context, actor models.Actor, req dto.UnsuspendRequest) (*dto.UnsuspendResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unsuspend parameters")
	}
	course, err := loadCourse(ctx, s.courses, req.CourseID)
	if err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, s.users, req.Username)
	if err != nil {
		return nil, err
	}

	enrolments, err := s.repo.ListByUserAndCourse(ctx, user.ID, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolments")
	}
	if len(enrolments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is not enrolled in the specified course")
	}

	var suspended *models.UserEnrolmentMethod
	hasActive := false
	for i := range enrolments {
		switch enrolments[i].Status {
		case models.EnrolmentStatusSuspended:
			if suspended == nil {
				suspended = &enrolments[i]
			}
		case models.EnrolmentStatusActive:
			hasActive = true
		}
	}

	if suspended == nil {
		if hasActive {
			active := int(models.EnrolmentStatusActive)
			return &dto.UnsuspendResult{Success: false, PreviousStatus: &active, NewStatus: &active}, nil
		}
		return &dto.UnsuspendResult{Success: false}, nil
	}

	plugin, ok := s.plugins.Lookup(suspended.Enrol)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrol plugin not available: "+suspended.Enrol)
	}
	if err := requireCapability(ctx, s.auth, actor, models.EnrolManageCapability(suspended.Enrol), models.CourseScope(course.ID)); err != nil {
		return nil, err
	}

	instance, err := s.repo.FindEnrolInstance(ctx, suspended.EnrolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrol instance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrol instance")
	}
	if err := plugin.UpdateUserEnrol(ctx, *instance, user.ID, models.EnrolmentStatusActive, actor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrolment")
	}

	s.logger.Info("user enrolment unsuspended",
		zap.Int64("user_id", user.ID),
		zap.Int64("course_id", course.ID),
		zap.Int64("enrol_id", instance.ID),
		zap.String("enrol", suspended.Enrol),
		zap.Int64("actor_id", actor.UserID),
	)

	previous := int(models.EnrolmentStatusSuspended)
	next := int(models.EnrolmentStatusActive)
	return &dto.UnsuspendResult{Success: true, PreviousStatus: &previous, NewStatus: &next}, nil
}

// GetUserCoursesFiltered lists the user's enrolments narrowed by fullname and shortname filters.
func (s *EnrollmentService) GetUserCoursesFiltered(ctx context.Context, actor models.Actor, req dto.UserCoursesRequest) ([]dto.UserCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user course parameters")
	}
	if err := requireCapability(ctx, s.auth, actor, models.CapUserViewDetails, models.SystemScope()); err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, s.users, req.Username)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListCourseEnrolments(ctx, models.CourseEnrolmentFilter{
		UserID:     user.ID,
		Fullnames:  splitFilter(req.CourseFullnameFilter),
		Shortnames: splitFilter(req.CourseShortnameFilter),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list user courses")
	}
	result := make([]dto.UserCourse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.UserCourse{
			CourseID:              row.CourseID,
			Fullname:              row.Fullname,
			Shortname:             row.Shortname,
			Category:              row.Category,
			StartDate:             row.StartDate,
			EndDate:               row.EndDate,
			EnrolmentStatus:       row.EnrolmentStatus,
			EnrolmentTimeCreated:  row.EnrolmentTimeCreated.Int64,
			EnrolmentTimeModified: row.EnrolmentTimeModified.Int64,
			EnrolMethod:           row.EnrolMethod,
		})
	}
	return result, nil
}

// splitFilter splits a comma or line separated filter into trimmed, non-empty entries.
func splitFilter(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\r' || r == '\n'
	})
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			result = append(result, f)
		}
	}
	return result
}

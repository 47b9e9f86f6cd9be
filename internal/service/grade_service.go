package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/usercoursecontrol-api/internal/dto"
	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	appErrors "github.com/noah-isme/usercoursecontrol-api/pkg/errors"
)

type courseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type userReader interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type gradeReader interface {
	ListItems(ctx context.Context, filter models.GradeItemFilter) ([]models.GradeItem, error)
	ActivityExists(ctx context.Context, module string, instanceID int64) (bool, error)
	FindGrade(ctx context.Context, itemID, userID int64) (*models.Grade, error)
	LatestDifferingHistory(ctx context.Context, itemID, userID int64, current *float64) (*models.GradeHistory, error)
}

// GradeService reports per-item grade status with a modification indicator.
type GradeService struct {
	courses   courseReader
	users     userReader
	grades    gradeReader
	auth      Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(courses courseReader, users userReader, grades gradeReader, auth Authorizer, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{courses: courses, users: users, grades: grades, auth: auth, validator: validate, logger: logger}
}

// GetGradeStatus returns the user's grade status for every visible item in the course, or one item.
func (s *GradeService) GetGradeStatus(ctx context.Context, actor models.Actor, req dto.GradeStatusRequest) ([]dto.GradeItemStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade status parameters")
	}
	course, err := loadCourse(ctx, s.courses, req.CourseID)
	if err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, s.users, req.Username)
	if err != nil {
		return nil, err
	}

	capability := models.CapGradeViewAll
	if actor.UserID == user.ID {
		capability = models.CapGradeView
	}
	if err := requireCapability(ctx, s.auth, actor, capability, models.CourseScope(course.ID)); err != nil {
		return nil, err
	}

	items, err := s.grades.ListItems(ctx, models.GradeItemFilter{CourseID: course.ID, ItemID: req.GradeItemID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade items")
	}

	result := make([]dto.GradeItemStatus, 0, len(items))
	for _, item := range items {
		if item.HasActivity() {
			exists, err := s.grades.ActivityExists(ctx, item.ItemModule.String, item.ItemInstance.Int64)
			if err != nil {
				s.logger.Warn("failed to check grade item activity", zap.Int64("item_id", item.ID), zap.String("module", item.ItemModule.String), zap.Error(err))
				continue
			}
			if !exists {
				continue
			}
		}
		status, err := s.itemStatus(ctx, item, user.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, nil
}

func (s *GradeService) itemStatus(ctx context.Context, item models.GradeItem, userID int64) (dto.GradeItemStatus, error) {
	status := dto.GradeItemStatus{
		GradeItemID: item.ID,
		ItemName:    item.ItemName.String,
		ItemType:    item.ItemType,
		ItemModule:  item.ItemModule.String,
		GradeMax:    nullFloat(item.GradeMax),
	}

	grade, err := s.grades.FindGrade(ctx, item.ID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return status, nil
	}
	if err != nil {
		return status, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	status.CurrentFinalGrade = nullFloat(grade.FinalGrade)
	status.LastModified = grade.TimeModified.Int64

	history, err := s.grades.LatestDifferingHistory(ctx, item.ID, userID, status.CurrentFinalGrade)
	if errors.Is(err, sql.ErrNoRows) {
		return status, nil
	}
	if err != nil {
		return status, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade history")
	}
	previous := history.FinalGrade
	status.WasModified = true
	status.PreviousFinalGrade = &previous
	status.LastModified = history.TimeModified.Int64
	status.ModifierUserID = history.ModifierID()
	return status, nil
}

func loadCourse(ctx context.Context, courses courseReader, id int64) (*models.Course, error) {
	course, err := courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func loadUser(ctx context.Context, users userReader, username string) (*models.User, error) {
	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

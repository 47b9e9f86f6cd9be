package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

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

// displayDateLayout renders dates as dd-mm-yyyy.
const displayDateLayout = "02-01-2006"

type turnitinStore interface {
	ListDue(ctx context.Context, filter models.DueDateFilter) ([]models.TurnitinPartDetail, error)
	FindPart(ctx context.Context, partID int64) (*models.TurnitinPart, error)
	SetAllowLate(ctx context.Context, partID int64, allowLate bool) error
}

type assignmentStore interface {
	ListDue(ctx context.Context, filter models.DueDateFilter) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	SetCutoff(ctx context.Context, id, cutoff int64) error
}

// AssignmentServiceOptions carries optional collaborators of AssignmentService.
type AssignmentServiceOptions struct {
	Location  *time.Location
	Now       func() time.Time
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// AssignmentService queries due Turnitin parts and native assignments and mutates their
// late-submission settings, one at a time or in bulk.
type AssignmentService struct {
	turnitin    turnitinStore
	assignments assignmentStore
	auth        Authorizer
	location    *time.Location
	now         func() time.Time
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(turnitin turnitinStore, assignments assignmentStore, auth Authorizer, opts AssignmentServiceOptions) *AssignmentService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &AssignmentService{
		turnitin:    turnitin,
		assignments: assignments,
		auth:        auth,
		location:    opts.Location,
		now:         opts.Now,
		metrics:     opts.Metrics,
		validator:   opts.Validator,
		logger:      opts.Logger,
		tracer:      otel.Tracer("github.com/noah-isme/usercoursecontrol-api/internal/service/assignment"),
	}
}

// GetTurnitinAssignments lists Turnitin parts due in the window for the named courses.
func (s *AssignmentService) GetTurnitinAssignments(ctx context.Context, actor models.Actor, req dto.DueDateRequest) ([]dto.TurnitinAssignment, error) {
	filter, err := s.dueDateFilter(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	result := []dto.TurnitinAssignment{}
	if len(filter.CourseNames) == 0 {
		return result, nil
	}

	parts, err := s.turnitin.ListDue(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list turnitin assignments")
	}
	for _, p := range parts {
		result = append(result, dto.TurnitinAssignment{
			PartID:           p.PartID,
			AssignmentID:     p.AssignmentID,
			AssignmentName:   p.AssignmentName,
			PartName:         p.PartName,
			TiiAssignID:      p.TiiAssignID,
			CourseID:         p.CourseID,
			CourseShortname:  p.CourseShortname,
			CourseFullname:   p.CourseFullname,
			DueDate:          p.DueDate,
			DueDateFormatted: s.formatDate(p.DueDate),
			AllowLate:        p.AllowLate == 1,
			ReportGenSpeed:   p.ReportGenSpeed,
		})
	}
	return result, nil
}

// GetAssignments lists native assignments due in the window for the named courses.
func (s *AssignmentService) GetAssignments(ctx context.Context, actor models.Actor, req dto.DueDateRequest) ([]dto.Assignment, error) {
	filter, err := s.dueDateFilter(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	result := []dto.Assignment{}
	if len(filter.CourseNames) == 0 {
		return result, nil
	}

	rows, err := s.assignments.ListDue(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	now := s.now().Unix()
	for _, a := range rows {
		result = append(result, dto.Assignment{
			AssignmentID:                      a.AssignmentID,
			AssignmentName:                    a.AssignmentName,
			CourseID:                          a.CourseID,
			CourseShortname:                   a.CourseShortname,
			CourseFullname:                    a.CourseFullname,
			CMID:                              a.CMID,
			Visible:                           a.Visible == 1,
			DueDate:                           a.DueDate,
			DueDateFormatted:                  s.formatDate(a.DueDate),
			CutoffDate:                        a.CutoffDate,
			CutoffDateFormatted:               s.formatDate(a.CutoffDate),
			AllowSubmissionsFromDate:          a.AllowSubmissionsFromDate,
			AllowSubmissionsFromDateFormatted: s.formatDate(a.AllowSubmissionsFromDate),
			GradeMax:                          a.GradeMax,
			SubmissionsOpen:                   submissionsOpen(a, now),
		})
	}
	return result, nil
}

// dueDateFilter validates the request before any authorization or storage access.
func (s *AssignmentService) dueDateFilter(ctx context.Context, actor models.Actor, req dto.DueDateRequest) (models.DueDateFilter, error) {
	if len(req.CourseNames) == 0 {
		return models.DueDateFilter{}, appErrors.Clone(appErrors.ErrValidation, "at least one course name must be provided")
	}
	if err := s.validator.Struct(req); err != nil {
		return models.DueDateFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "due date range is required")
	}
	if *req.DueDateStart > *req.DueDateEnd {
		return models.DueDateFilter{}, appErrors.Clone(appErrors.ErrValidation, "start date must be before or equal to end date")
	}
	if err := requireCapability(ctx, s.auth, actor, models.CapCourseView, models.SystemScope()); err != nil {
		return models.DueDateFilter{}, err
	}

	names := make([]string, 0, len(req.CourseNames))
	for _, name := range req.CourseNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return models.DueDateFilter{CourseNames: names, Start: *req.DueDateStart, End: *req.DueDateEnd}, nil
}

func (s *AssignmentService) formatDate(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).In(s.location).Format(displayDateLayout)
}

func submissionsOpen(a models.AssignmentDetail, now int64) bool {
	if a.CutoffDate > 0 && now > a.CutoffDate {
		return false
	}
	if a.AllowSubmissionsFromDate > 0 && now < a.AllowSubmissionsFromDate {
		return false
	}
	return true
}

// ToggleAllowLate sets the late-submission flag of one Turnitin part.
func (s *AssignmentService) ToggleAllowLate(ctx context.Context, actor models.Actor, req dto.ToggleAllowLateRequest) (*dto.ToggleAllowLateResult, error) {
	ctx, span := s.tracer.Start(ctx, "assignment.toggle_allowlate")
	defer span.End()
	span.SetAttributes(attribute.Int64("turnitin.part_id", req.PartID))

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allowlate parameters")
	}
	if err := s.applyAllowLate(ctx, actor, req.PartID, *req.AllowLate); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "toggle failed")
		return nil, err
	}
	return &dto.ToggleAllowLateResult{Success: true, PartID: req.PartID, AllowLate: *req.AllowLate}, nil
}

// BulkToggleAllowLate applies the late-submission flag to each part, counting failures.
func (s *AssignmentService) BulkToggleAllowLate(ctx context.Context, actor models.Actor, req dto.BulkToggleAllowLateRequest) (*dto.BulkResult, error) {
	ctx, span := s.tracer.Start(ctx, "assignment.bulk_toggle_allowlate")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk allowlate parameters")
	}
	allowLate := *req.AllowLate
	result := s.runBulk(ctx, dto.FunctionBulkToggleAllowLate, req.PartIDs, func(ctx context.Context, id int64) error {
		return s.applyAllowLate(ctx, actor, id, allowLate)
	})
	span.SetAttributes(attribute.Int("bulk.total", result.Total), attribute.Int("bulk.failed", result.Failed))
	return &result, nil
}

// SetCutoff sets the cutoff date of one assignment; 0 removes it.
func (s *AssignmentService) SetCutoff(ctx context.Context, actor models.Actor, req dto.SetCutoffRequest) (*dto.SetCutoffResult, error) {
	ctx, span := s.tracer.Start(ctx, "assignment.set_cutoff")
	defer span.End()
	span.SetAttributes(attribute.Int64("assignment.id", req.AssignmentID))

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cutoff parameters")
	}
	if err := s.applyCutoff(ctx, actor, req.AssignmentID, *req.CutoffDate); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "set cutoff failed")
		return nil, err
	}
	return &dto.SetCutoffResult{Success: true, AssignmentID: req.AssignmentID, CutoffDate: *req.CutoffDate}, nil
}

// BulkSetCutoff applies the cutoff date to each assignment, counting failures.
func (s *AssignmentService) BulkSetCutoff(ctx context.Context, actor models.Actor, req dto.BulkSetCutoffRequest) (*dto.BulkResult, error) {
	ctx, span := s.tracer.Start(ctx, "assignment.bulk_set_cutoff")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk cutoff parameters")
	}
	cutoff := *req.CutoffDate
	result := s.runBulk(ctx, dto.FunctionBulkSetAssignmentCutoff, req.AssignmentIDs, func(ctx context.Context, id int64) error {
		return s.applyCutoff(ctx, actor, id, cutoff)
	})
	span.SetAttributes(attribute.Int("bulk.total", result.Total), attribute.Int("bulk.failed", result.Failed))
	return &result, nil
}

func (s *AssignmentService) applyAllowLate(ctx context.Context, actor models.Actor, partID int64, allowLate bool) error {
	part, err := s.turnitin.FindPart(ctx, partID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "turnitin part not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load turnitin part")
	}
	if err := requireCapability(ctx, s.auth, actor, models.CapCourseManageActivities, models.CourseScope(part.CourseID)); err != nil {
		return err
	}
	if err := s.turnitin.SetAllowLate(ctx, part.ID, allowLate); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update allowlate")
	}
	return nil
}

func (s *AssignmentService) applyCutoff(ctx context.Context, actor models.Actor, assignmentID, cutoff int64) error {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := requireCapability(ctx, s.auth, actor, models.CapCourseManageActivities, models.CourseScope(assignment.CourseID)); err != nil {
		return err
	}
	if err := s.assignments.SetCutoff(ctx, assignment.ID, cutoff); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cutoff")
	}
	return nil
}

// runBulk folds apply over ids. Item failures are classified, logged and counted, never returned.
func (s *AssignmentService) runBulk(ctx context.Context, function string, ids []int64, apply func(ctx context.Context, id int64) error) dto.BulkResult {
	result := dto.BulkResult{Total: len(ids)}
	for _, id := range ids {
		err := apply(ctx, id)
		outcome := bulkOutcome(err)
		s.metrics.RecordBulkItem(function, outcome)
		if err != nil {
			result.Failed++
			s.logger.Debug("bulk item failed", zap.String("function", function), zap.Int64("id", id), zap.String("result", outcome), zap.Error(err))
			continue
		}
		result.Success++
	}
	return result
}

func bulkOutcome(err error) string {
	switch {
	case err == nil:
		return BulkResultSuccess
	case appErrors.HasCode(err, appErrors.ErrNotFound.Code):
		return BulkResultNotFound
	case appErrors.IsAuthorization(err):
		return BulkResultForbidden
	default:
		return BulkResultError
	}
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/usercoursecontrol-api/internal/dto"
	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	"github.com/noah-isme/usercoursecontrol-api/pkg/response"
)

type assignmentService interface {
	GetTurnitinAssignments(ctx context.Context, actor models.Actor, req dto.DueDateRequest) ([]dto.TurnitinAssignment, error)
	GetAssignments(ctx context.Context, actor models.Actor, req dto.DueDateRequest) ([]dto.Assignment, error)
	ToggleAllowLate(ctx context.Context, actor models.Actor, req dto.ToggleAllowLateRequest) (*dto.ToggleAllowLateResult, error)
	BulkToggleAllowLate(ctx context.Context, actor models.Actor, req dto.BulkToggleAllowLateRequest) (*dto.BulkResult, error)
	SetCutoff(ctx context.Context, actor models.Actor, req dto.SetCutoffRequest) (*dto.SetCutoffResult, error)
	BulkSetCutoff(ctx context.Context, actor models.Actor, req dto.BulkSetCutoffRequest) (*dto.BulkResult, error)
}

// AssignmentHandler exposes Turnitin and native assignment functions.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Register adds the assignment functions to the registry. All of them are also
// advertised to the mobile app.
func (h *AssignmentHandler) Register(r *FunctionRegistry) {
	services := []string{ServiceUserCourseControl, ServiceMobileApp}
	for _, fn := range []Function{
		{Name: dto.FunctionGetTurnitinAssignments, Description: "Get Turnitin assignments filtered by course names and due date range", Type: dto.FunctionTypeRead, Handle: h.GetTurnitinAssignments},
		{Name: dto.FunctionToggleTurnitinAllowLate, Description: "Toggle the allow late submissions setting of a Turnitin part", Type: dto.FunctionTypeWrite, Handle: h.ToggleAllowLate},
		{Name: dto.FunctionBulkToggleAllowLate, Description: "Toggle the allow late submissions setting of multiple Turnitin parts", Type: dto.FunctionTypeWrite, Handle: h.BulkToggleAllowLate},
		{Name: dto.FunctionGetAssignments, Description: "Get assignments filtered by course names and due date range", Type: dto.FunctionTypeRead, Handle: h.GetAssignments},
		{Name: dto.FunctionSetAssignmentCutoff, Description: "Set the cutoff date of an assignment", Type: dto.FunctionTypeWrite, Handle: h.SetCutoff},
		{Name: dto.FunctionBulkSetAssignmentCutoff, Description: "Set the cutoff date of multiple assignments", Type: dto.FunctionTypeWrite, Handle: h.BulkSetCutoff},
	} {
		fn.Services = services
		r.Register(fn)
	}
}

// GetTurnitinAssignments handles local_usercoursecontrol_get_turnitin_assignments.
func (h *AssignmentHandler) GetTurnitinAssignments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.DueDateRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.assignments.GetTurnitinAssignments(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetAssignments handles local_usercoursecontrol_get_assignments.
func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.DueDateRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.assignments.GetAssignments(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ToggleAllowLate handles local_usercoursecontrol_toggle_turnitin_allowlate.
func (h *AssignmentHandler) ToggleAllowLate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.ToggleAllowLateRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.assignments.ToggleAllowLate(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// BulkToggleAllowLate handles local_usercoursecontrol_bulk_toggle_turnitin_allowlate.
func (h *AssignmentHandler) BulkToggleAllowLate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.BulkToggleAllowLateRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.assignments.BulkToggleAllowLate(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetCutoff handles local_usercoursecontrol_set_assignment_cutoff.
func (h *AssignmentHandler) SetCutoff(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.SetCutoffRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.assignments.SetCutoff(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// BulkSetCutoff handles local_usercoursecontrol_bulk_set_assignment_cutoff.
func (h *AssignmentHandler) BulkSetCutoff(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.BulkSetCutoffRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.assignments.BulkSetCutoff(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/usercoursecontrol-api/internal/dto"
	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	"github.com/noah-isme/usercoursecontrol-api/pkg/response"
)

type gradeStatusService interface {
	GetGradeStatus(ctx context.Context, actor models.Actor, req dto.GradeStatusRequest) ([]dto.GradeItemStatus, error)
}

// GradeHandler exposes grade functions.
type GradeHandler struct {
	grades gradeStatusService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades gradeStatusService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// Register adds the grade functions to the registry.
func (h *GradeHandler) Register(r *FunctionRegistry) {
	r.Register(Function{
		Name:        dto.FunctionGetGradeStatus,
		Description: "Get grade status for a user in a course, including whether each grade was modified",
		Type:        dto.FunctionTypeRead,
		Services:    []string{ServiceUserCourseControl},
		Handle:      h.GetGradeStatus,
	})
}

// GetGradeStatus handles local_usercoursecontrol_get_grade_status.
func (h *GradeHandler) GetGradeStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.GradeStatusRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.grades.GetGradeStatus(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

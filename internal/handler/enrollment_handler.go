package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/usercoursecontrol-api/internal/dto"
	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	"github.com/noah-isme/usercoursecontrol-api/pkg/response"
)

type enrollmentService interface {
	ListSuspendedCourses(ctx context.Context, actor models.Actor, req dto.UsernameRequest) ([]dto.SuspendedCourse, error)
	Unsuspend(ctx context.Context, actor models.Actor, req dto.UnsuspendRequest) (*dto.UnsuspendResult, error)
	GetUserCoursesFiltered(ctx context.Context, actor models.Actor, req dto.UserCoursesRequest) ([]dto.UserCourse, error)
}

// EnrollmentHandler exposes enrolment functions.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs handler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Register adds the enrolment functions to the registry.
func (h *EnrollmentHandler) Register(r *FunctionRegistry) {
	services := []string{ServiceUserCourseControl}
	r.Register(Function{
		Name:        dto.FunctionListSuspendedCourses,
		Description: "List courses where the user is enrolled but suspended",
		Type:        dto.FunctionTypeRead,
		Services:    services,
		Handle:      h.ListSuspendedCourses,
	})
	r.Register(Function{
		Name:        dto.FunctionUnsuspendUser,
		Description: "Reactivate a suspended enrolment of a user in a course",
		Type:        dto.FunctionTypeWrite,
		Services:    services,
		Handle:      h.Unsuspend,
	})
	r.Register(Function{
		Name:        dto.FunctionGetUserCoursesFiltered,
		Description: "List a user's courses filtered by fullname and shortname",
		Type:        dto.FunctionTypeRead,
		Services:    services,
		Handle:      h.GetUserCoursesFiltered,
	})
}

// ListSuspendedCourses handles local_usercoursecontrol_list_suspended_courses.
func (h *EnrollmentHandler) ListSuspendedCourses(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UsernameRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.enrollments.ListSuspendedCourses(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Unsuspend handles local_usercoursecontrol_unsuspend_user.
func (h *EnrollmentHandler) Unsuspend(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UnsuspendRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.enrollments.Unsuspend(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetUserCoursesFiltered handles local_usercoursecontrol_get_user_courses_filtered.
func (h *EnrollmentHandler) GetUserCoursesFiltered(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UserCoursesRequest
	if !bindParams(c, &req) {
		return
	}
	result, err := h.enrollments.GetUserCoursesFiltered(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

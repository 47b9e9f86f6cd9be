package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/usercoursecontrol-api/internal/dto"
	"github.com/noah-isme/usercoursecontrol-api/internal/middleware"
	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	appErrors "github.com/noah-isme/usercoursecontrol-api/pkg/errors"
)

type fakeGradeSrv struct {
	lastActor models.Actor
	lastReq   dto.GradeStatusRequest
	result    []dto.GradeItemStatus
	err       error
}

func (f *fakeGradeSrv) GetGradeStatus(_ context.Context, actor models.Actor, req dto.GradeStatusRequest) ([]dto.GradeItemStatus, error) {
	f.lastActor = actor
	f.lastReq = req
	return f.result, f.err
}

type fakeEnrollmentSrv struct {
	unsuspendReq dto.UnsuspendRequest
	filterReq    dto.UserCoursesRequest
}

func (f *fakeEnrollmentSrv) ListSuspendedCourses(context.Context, models.Actor, dto.UsernameRequest) ([]dto.SuspendedCourse, error) {
	return []dto.SuspendedCourse{}, nil
}

func (f *fakeEnrollmentSrv) Unsuspend(_ context.Context, _ models.Actor, req dto.UnsuspendRequest) (*dto.UnsuspendResult, error) {
	f.unsuspendReq = req
	return &dto.UnsuspendResult{Success: false}, nil
}

func (f *fakeEnrollmentSrv) GetUserCoursesFiltered(_ context.Context, _ models.Actor, req dto.UserCoursesRequest) ([]dto.UserCourse, error) {
	f.filterReq = req
	return []dto.UserCourse{{CourseID: 7, Shortname: "BIO101"}}, nil
}

type fakeAssignmentSrv struct {
	bulkReq dto.BulkToggleAllowLateRequest
	err     error
}

func (f *fakeAssignmentSrv) GetTurnitinAssignments(context.Context, models.Actor, dto.DueDateRequest) ([]dto.TurnitinAssignment, error) {
	return []dto.TurnitinAssignment{}, f.err
}

func (f *fakeAssignmentSrv) GetAssignments(context.Context, models.Actor, dto.DueDateRequest) ([]dto.Assignment, error) {
	return []dto.Assignment{}, f.err
}

func (f *fakeAssignmentSrv) ToggleAllowLate(_ context.Context, _ models.Actor, req dto.ToggleAllowLateRequest) (*dto.ToggleAllowLateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ToggleAllowLateResult{Success: true, PartID: req.PartID, AllowLate: *req.AllowLate}, nil
}

func (f *fakeAssignmentSrv) BulkToggleAllowLate(_ context.Context, _ models.Actor, req dto.BulkToggleAllowLateRequest) (*dto.BulkResult, error) {
	f.bulkReq = req
	return &dto.BulkResult{Success: 1, Failed: 2, Total: 3}, nil
}

func (f *fakeAssignmentSrv) SetCutoff(_ context.Context, _ models.Actor, req dto.SetCutoffRequest) (*dto.SetCutoffResult, error) {
	return &dto.SetCutoffResult{Success: true, AssignmentID: req.AssignmentID, CutoffDate: *req.CutoffDate}, nil
}

func (f *fakeAssignmentSrv) BulkSetCutoff(context.Context, models.Actor, dto.BulkSetCutoffRequest) (*dto.BulkResult, error) {
	return &dto.BulkResult{}, nil
}

type testServer struct {
	router      *gin.Engine
	registry    *FunctionRegistry
	grades      *fakeGradeSrv
	enrollments *fakeEnrollmentSrv
	assignments *fakeAssignmentSrv
}

func newTestServer(authenticated bool) *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		registry:    NewFunctionRegistry(),
		grades:      &fakeGradeSrv{},
		enrollments: &fakeEnrollmentSrv{},
		assignments: &fakeAssignmentSrv{},
	}
	NewGradeHandler(s.grades).Register(s.registry)
	NewEnrollmentHandler(s.enrollments).Register(s.registry)
	NewAssignmentHandler(s.assignments).Register(s.registry)

	s.router = gin.New()
	if authenticated {
		s.router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 3, Username: "teacher1"})
			c.Next()
		})
	}
	s.registry.Mount(s.router.Group("/api/v1"))
	return s
}

func (s *testServer) call(function, body string, headers map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rpc/"+function, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestDispatchUnknownFunction(t *testing.T) {
	s := newTestServer(true)
	rec := s.call("core_user_delete_users", `{}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrFunctionNotFound.Code, decode(t, rec).Error.Code)
}

func TestDispatchEnforcesServiceProfile(t *testing.T) {
	s := newTestServer(true)
	mobile := map[string]string{ServiceProfileHeader: ServiceMobileApp}

	rec := s.call(dto.FunctionGetGradeStatus, `{"username":"student1","courseid":7}`, mobile)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.call(dto.FunctionBulkToggleAllowLate, `{"partids":[10,11,12],"allowlate":true}`, mobile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":1,"failed":2,"total":3}`, string(decode(t, rec).Data))
	assert.Equal(t, []int64{10, 11, 12}, s.assignments.bulkReq.PartIDs)
}

func TestDispatchPassesActorAndParams(t *testing.T) {
	s := newTestServer(true)
	rec := s.call(dto.FunctionGetGradeStatus, `{"username":"student1","courseid":7,"gradeitemid":3}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Actor{UserID: 3, Username: "teacher1"}, s.grades.lastActor)
	assert.Equal(t, dto.GradeStatusRequest{Username: "student1", CourseID: 7, GradeItemID: 3}, s.grades.lastReq)
	assert.JSONEq(t, `[]`, string(decode(t, rec).Data))

	rec = s.call(dto.FunctionGetUserCoursesFiltered, `{"username":"student1","coursefullnamefilter":"Intro, Algebra"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Intro, Algebra", s.enrollments.filterReq.CourseFullnameFilter)
}

func TestDispatchMapsErrors(t *testing.T) {
	s := newTestServer(true)
	rec := s.call(dto.FunctionUnsuspendUser, `{"username":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, rec).Error.Code)

	s.assignments.err = appErrors.Clone(appErrors.ErrForbidden, "missing capability moodle/course:manageactivities")
	rec = s.call(dto.FunctionToggleTurnitinAllowLate, `{"partid":10,"allowlate":true}`, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	s.assignments.err = appErrors.Clone(appErrors.ErrValidation, "start date must be before or equal to end date")
	rec = s.call(dto.FunctionGetAssignments, `{"coursenames":["BIO101"],"duedatestart":2,"duedateend":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "start date must be before or equal to end date", decode(t, rec).Error.Message)
}

func TestDispatchRequiresActor(t *testing.T) {
	s := newTestServer(false)
	rec := s.call(dto.FunctionGetAssignments, `{"coursenames":["BIO101"]}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServiceFunctions(t *testing.T) {
	s := newTestServer(true)

	all := s.registry.ServiceFunctions(ServiceUserCourseControl)
	assert.Len(t, all, 10)
	mobile := s.registry.ServiceFunctions(ServiceMobileApp)
	require.Len(t, mobile, 6)
	for _, fn := range mobile {
		assert.NotEqual(t, dto.FunctionGetGradeStatus, fn.Name)
	}

	assert.True(t, s.registry.IsWrite(dto.FunctionUnsuspendUser))
	assert.True(t, s.registry.IsWrite(dto.FunctionBulkSetAssignmentCutoff))
	assert.False(t, s.registry.IsWrite(dto.FunctionGetAssignments))
	assert.False(t, s.registry.IsWrite("unknown"))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services/"+ServiceMobileApp+"/functions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var infos []dto.FunctionInfo
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &infos))
	assert.Len(t, infos, 6)

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services/unknown/functions", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/usercoursecontrol-api/internal/dto"
	appErrors "github.com/noah-isme/usercoursecontrol-api/pkg/errors"
	"github.com/noah-isme/usercoursecontrol-api/pkg/response"
)

// Service profiles functions are advertised to.
const (
	ServiceUserCourseControl = "local_usercoursecontrol_service"
	ServiceMobileApp         = "moodle_mobile_app"
)

// ServiceProfileHeader optionally names the profile a client is calling through.
const ServiceProfileHeader = "X-Service-Profile"

// Function is one callable RPC function.
type Function struct {
	Name        string
	Description string
	Type        string
	Services    []string
	Handle      gin.HandlerFunc
}

func (f Function) advertisedTo(service string) bool {
	for _, s := range f.Services {
		if s == service {
			return true
		}
	}
	return false
}

// FunctionRegistry maps function names to handlers and service profiles.
type FunctionRegistry struct {
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register adds or replaces a function.
func (r *FunctionRegistry) Register(fn Function) {
	r.functions[fn.Name] = fn
}

// Lookup returns a function by name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// IsWrite reports whether name is a registered write function.
func (r *FunctionRegistry) IsWrite(name string) bool {
	fn, ok := r.functions[name]
	return ok && fn.Type == dto.FunctionTypeWrite
}

// ServiceFunctions lists the functions advertised to a service profile, sorted by name.
func (r *FunctionRegistry) ServiceFunctions(service string) []dto.FunctionInfo {
	infos := []dto.FunctionInfo{}
	for _, fn := range r.functions {
		if fn.advertisedTo(service) {
			infos = append(infos, dto.FunctionInfo{Name: fn.Name, Description: fn.Description, Type: fn.Type})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (r *FunctionRegistry) knownService(service string) bool {
	for _, fn := range r.functions {
		if fn.advertisedTo(service) {
			return true
		}
	}
	return false
}

// Dispatch godoc
// @Summary Call an RPC function
// @Tags RPC
// @Accept json
// @Produce json
// @Param function path string true "Function name"
// @Param X-Service-Profile header string false "Service profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rpc/{function} [post]
func (r *FunctionRegistry) Dispatch(c *gin.Context) {
	fn, ok := r.Lookup(c.Param("function"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrFunctionNotFound, "function not found: "+c.Param("function")))
		return
	}
	if profile := c.GetHeader(ServiceProfileHeader); profile != "" && !fn.advertisedTo(profile) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "function not available to service "+profile))
		return
	}
	fn.Handle(c)
}

// Functions godoc
// @Summary List functions advertised to a service profile
// @Tags RPC
// @Produce json
// @Param service path string true "Service profile"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /services/{service}/functions [get]
func (r *FunctionRegistry) Functions(c *gin.Context) {
	service := c.Param("service")
	if !r.knownService(service) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "service not found"))
		return
	}
	response.JSON(c, http.StatusOK, r.ServiceFunctions(service))
}

// Mount attaches the RPC routes to a router group.
func (r *FunctionRegistry) Mount(group *gin.RouterGroup) {
	group.POST("/rpc/:function", r.Dispatch)
	group.GET("/services/:service/functions", r.Functions)
}

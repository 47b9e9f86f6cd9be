package models

import "strings"

// Capabilities checked by the endpoints.
const (
	CapGradeView              = "moodle/grade:view"
	CapGradeViewAll           = "moodle/grade:viewall"
	CapUserViewDetails        = "moodle/user:viewdetails"
	CapCourseView             = "moodle/course:view"
	CapCourseManageActivities = "moodle/course:manageactivities"
)

// EnrolManageCapability returns the per-method manage capability, e.g. enrol/manual:manage.
func EnrolManageCapability(method string) string {
	return "enrol/" + strings.ToLower(method) + ":manage"
}

// ScopeLevel mirrors the host's context levels.
type ScopeLevel int

// Supported scope levels.
const (
	ScopeSystem ScopeLevel = 10
	ScopeCourse ScopeLevel = 50
)

// Scope is the context a capability is checked in.
type Scope struct {
	Level      ScopeLevel
	InstanceID int64
}

// SystemScope is the site-wide scope.
func SystemScope() Scope {
	return Scope{Level: ScopeSystem}
}

// CourseScope is the scope of a single course.
func CourseScope(courseID int64) Scope {
	return Scope{Level: ScopeCourse, InstanceID: courseID}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID   int64
	Username string
}

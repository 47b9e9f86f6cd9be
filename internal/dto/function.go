package dto

// RPC function names as advertised to clients.
const (
	FunctionGetGradeStatus          = "local_usercoursecontrol_get_grade_status"
	FunctionListSuspendedCourses    = "local_usercoursecontrol_list_suspended_courses"
	FunctionUnsuspendUser           = "local_usercoursecontrol_unsuspend_user"
	FunctionGetUserCoursesFiltered  = "local_usercoursecontrol_get_user_courses_filtered"
	FunctionGetTurnitinAssignments  = "local_usercoursecontrol_get_turnitin_assignments"
	FunctionToggleTurnitinAllowLate = "local_usercoursecontrol_toggle_turnitin_allowlate"
	FunctionBulkToggleAllowLate     = "local_usercoursecontrol_bulk_toggle_turnitin_allowlate"
	FunctionGetAssignments          = "local_usercoursecontrol_get_assignments"
	FunctionSetAssignmentCutoff     = "local_usercoursecontrol_set_assignment_cutoff"
	FunctionBulkSetAssignmentCutoff = "local_usercoursecontrol_bulk_set_assignment_cutoff"
)

// Function types.
const (
	FunctionTypeRead  = "read"
	FunctionTypeWrite = "write"
)

// FunctionInfo describes an RPC function advertised to a service profile.
type FunctionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

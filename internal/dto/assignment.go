package dto

// DueDateRequest is the parameter bag of get_turnitin_assignments and get_assignments.
type DueDateRequest struct {
	CourseNames  []string `json:"coursenames"`
	DueDateStart *int64   `json:"duedatestart" validate:"required"`
	DueDateEnd   *int64   `json:"duedateend" validate:"required"`
}

// TurnitinAssignment is one Turnitin part due in the requested window.
type TurnitinAssignment struct {
	PartID           int64  `json:"partId"`
	AssignmentID     int64  `json:"assignmentId"`
	AssignmentName   string `json:"assignmentName"`
	PartName         string `json:"partName"`
	TiiAssignID      int64  `json:"tiiAssignId"`
	CourseID         int64  `json:"courseId"`
	CourseShortname  string `json:"courseShortname"`
	CourseFullname   string `json:"courseFullname"`
	DueDate          int64  `json:"dueDate"`
	DueDateFormatted string `json:"dueDateFormatted"`
	AllowLate        bool   `json:"allowLate"`
	ReportGenSpeed   int    `json:"reportGenSpeed"`
}

// Assignment is one native assignment due in the requested window.
type Assignment struct {
	AssignmentID                      int64   `json:"assignmentId"`
	AssignmentName                    string  `json:"assignmentName"`
	CourseID                          int64   `json:"courseId"`
	CourseShortname                   string  `json:"courseShortname"`
	CourseFullname                    string  `json:"courseFullname"`
	CMID                              int64   `json:"cmId"`
	Visible                           bool    `json:"visible"`
	DueDate                           int64   `json:"dueDate"`
	DueDateFormatted                  string  `json:"dueDateFormatted"`
	CutoffDate                        int64   `json:"cutoffDate"`
	CutoffDateFormatted               string  `json:"cutoffDateFormatted"`
	AllowSubmissionsFromDate          int64   `json:"allowSubmissionsFromDate"`
	AllowSubmissionsFromDateFormatted string  `json:"allowSubmissionsFromDateFormatted"`
	GradeMax                          float64 `json:"gradeMax"`
	SubmissionsOpen                   bool    `json:"submissionsOpen"`
}

// ToggleAllowLateRequest is the parameter bag of toggle_turnitin_allowlate.
type ToggleAllowLateRequest struct {
	PartID    int64 `json:"partid" validate:"required,gt=0"`
	AllowLate *bool `json:"allowlate" validate:"required"`
}

// ToggleAllowLateResult echoes the applied value.
type ToggleAllowLateResult struct {
	Success   bool  `json:"success"`
	PartID    int64 `json:"partid"`
	AllowLate bool  `json:"allowlate"`
}

// BulkToggleAllowLateRequest is the parameter bag of bulk_toggle_turnitin_allowlate.
type BulkToggleAllowLateRequest struct {
	PartIDs   []int64 `json:"partids" validate:"required"`
	AllowLate *bool   `json:"allowlate" validate:"required"`
}

// SetCutoffRequest is the parameter bag of set_assignment_cutoff.
type SetCutoffRequest struct {
	AssignmentID int64  `json:"assignmentid" validate:"required,gt=0"`
	CutoffDate   *int64 `json:"cutoffdate" validate:"required,gte=0"`
}

// SetCutoffResult echoes the applied value.
type SetCutoffResult struct {
	Success      bool  `json:"success"`
	AssignmentID int64 `json:"assignmentid"`
	CutoffDate   int64 `json:"cutoffdate"`
}

// BulkSetCutoffRequest is the parameter bag of bulk_set_assignment_cutoff.
type BulkSetCutoffRequest struct {
	AssignmentIDs []int64 `json:"assignmentids" validate:"required"`
	CutoffDate    *int64  `json:"cutoffdate" validate:"required,gte=0"`
}

// BulkResult counts the outcome of a bulk mutation.
type BulkResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

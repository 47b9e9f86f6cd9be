package models

// DueDateFilter selects items whose due date lies in [Start, End] in courses matching
// any name token (exact shortname or case-insensitive fullname substring).
type DueDateFilter struct {
	CourseNames []string
	Start       int64
	End         int64
}

// TurnitinPart identifies a Turnitin assignment part and its owning course.
type TurnitinPart struct {
	ID         int64 `db:"id"`
	TurnitinID int64 `db:"turnitintooltwoid"`
	CourseID   int64 `db:"course"`
}

// TurnitinPartDetail is a Turnitin part with assignment and course context.
type TurnitinPartDetail struct {
	PartID          int64  `db:"partid"`
	AssignmentID    int64  `db:"assignmentid"`
	AssignmentName  string `db:"assignmentname"`
	PartName        string `db:"partname"`
	TiiAssignID     int64  `db:"tiiassignid"`
	CourseID        int64  `db:"courseid"`
	CourseShortname string `db:"courseshortname"`
	CourseFullname  string `db:"coursefullname"`
	DueDate         int64  `db:"duedate"`
	AllowLate       int    `db:"allowlate"`
	ReportGenSpeed  int    `db:"reportgenspeed"`
}

// Assignment identifies a native assignment and its owning course.
type Assignment struct {
	ID         int64 `db:"id"`
	CourseID   int64 `db:"course"`
	CutoffDate int64 `db:"cutoffdate"`
}

// AssignmentDetail is a native assignment with course-module and course context.
type AssignmentDetail struct {
	AssignmentID             int64   `db:"assignmentid"`
	AssignmentName           string  `db:"assignmentname"`
	CourseID                 int64   `db:"courseid"`
	DueDate                  int64   `db:"duedate"`
	CutoffDate               int64   `db:"cutoffdate"`
	AllowSubmissionsFromDate int64   `db:"allowsubmissionsfromdate"`
	GradeMax                 float64 `db:"grademax"`
	CMID                     int64   `db:"cmid"`
	Visible                  int     `db:"visible"`
	CourseShortname          string  `db:"courseshortname"`
	CourseFullname           string  `db:"coursefullname"`
}

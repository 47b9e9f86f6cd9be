package dto

// GradeStatusRequest is the parameter bag of get_grade_status.
type GradeStatusRequest struct {
	Username    string `json:"username" validate:"required"`
	CourseID    int64  `json:"courseid" validate:"required,gt=0"`
	GradeItemID int64  `json:"gradeitemid" validate:"gte=0"`
}

// GradeItemStatus reports a user's grade on one item and whether it was changed.
type GradeItemStatus struct {
	GradeItemID        int64    `json:"gradeitemid"`
	ItemName           string   `json:"itemname"`
	ItemType           string   `json:"itemtype"`
	ItemModule         string   `json:"itemmodule"`
	GradeMax           *float64 `json:"grademax"`
	CurrentFinalGrade  *float64 `json:"current_final_grade"`
	WasModified        bool     `json:"was_modified"`
	LastModified       int64    `json:"last_modified"`
	ModifierUserID     *int64   `json:"modifier_userid"`
	PreviousFinalGrade *float64 `json:"previous_final_grade"`
}

package models

import "database/sql"

// Grade item types with special handling.
const (
	GradeItemTypeCourse = "course"
	GradeItemTypeMod    = "mod"
)

// GradeEpsilon is the tolerance under which two grade values are treated as equal.
const GradeEpsilon = 0.001

// GradeItem is a gradable component of a course.
type GradeItem struct {
	ID           int64           `db:"id"`
	CourseID     int64           `db:"courseid"`
	ItemType     string          `db:"itemtype"`
	ItemModule   sql.NullString  `db:"itemmodule"`
	ItemInstance sql.NullInt64   `db:"iteminstance"`
	ItemName     sql.NullString  `db:"itemname"`
	GradeMax     sql.NullFloat64 `db:"grademax"`
	Hidden       int64           `db:"hidden"`
}

// HasActivity reports whether the item is owned by an activity instance.
func (g GradeItem) HasActivity() bool {
	return g.ItemType == GradeItemTypeMod && g.ItemModule.String != "" && g.ItemInstance.Int64 != 0
}

// GradeItemFilter selects visible, non course-total items; ItemID 0 means all.
type GradeItemFilter struct {
	CourseID int64
	ItemID   int64
}

// Grade is the current grade of a user on an item.
type Grade struct {
	ID           int64           `db:"id"`
	FinalGrade   sql.NullFloat64 `db:"finalgrade"`
	TimeModified sql.NullInt64   `db:"timemodified"`
}

// GradeHistory is one logged prior value of a grade.
type GradeHistory struct {
	ID           int64         `db:"id"`
	FinalGrade   float64       `db:"finalgrade"`
	TimeModified sql.NullInt64 `db:"timemodified"`
	UserModified sql.NullInt64 `db:"usermodified"`
	LoggedUser   sql.NullInt64 `db:"loggeduser"`
	Action       int           `db:"action"`
}

// ModifierID returns the user who wrote the entry; host versions record it in one of two fields.
func (h GradeHistory) ModifierID() *int64 {
	if h.UserModified.Valid && h.UserModified.Int64 != 0 {
		id := h.UserModified.Int64
		return &id
	}
	if h.LoggedUser.Valid && h.LoggedUser.Int64 != 0 {
		id := h.LoggedUser.Int64
		return &id
	}
	return nil
}

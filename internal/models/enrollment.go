package models

import "database/sql"

// EnrolmentStatus is the status of a single user enrolment row.
type EnrolmentStatus int

// User enrolment statuses as stored by the host.
const (
	EnrolmentStatusActive    EnrolmentStatus = 0
	EnrolmentStatusSuspended EnrolmentStatus = 1
)

// Enrol instance statuses. A disabled instance hides all of its enrolments.
const (
	EnrolInstanceEnabled  = 0
	EnrolInstanceDisabled = 1
)

// EnrolInstance is one enrolment method configured on a course.
type EnrolInstance struct {
	ID       int64  `db:"id" json:"id"`
	CourseID int64  `db:"courseid" json:"courseid"`
	Enrol    string `db:"enrol" json:"enrol"`
	Status   int    `db:"status" json:"status"`
}

// UserEnrolment is a user's membership row under one enrol instance.
type UserEnrolment struct {
	ID           int64           `db:"id" json:"id"`
	EnrolID      int64           `db:"enrolid" json:"enrolid"`
	UserID       int64           `db:"userid" json:"userid"`
	Status       EnrolmentStatus `db:"status" json:"status"`
	TimeCreated  sql.NullInt64   `db:"timecreated" json:"-"`
	TimeModified sql.NullInt64   `db:"timemodified" json:"-"`
}

// UserEnrolmentMethod couples an enrolment row with its method name.
type UserEnrolmentMethod struct {
	UserEnrolment
	Enrol string `db:"enrol"`
}

// SuspendedCourse is a course in which a user holds a suspended enrolment.
type SuspendedCourse struct {
	CourseID            int64         `db:"courseid"`
	Fullname            string        `db:"fullname"`
	Shortname           string        `db:"shortname"`
	SuspensionTimestamp sql.NullInt64 `db:"suspensiontimestamp"`
}

// CourseEnrolment joins a course with one of the user's enrolments in it.
type CourseEnrolment struct {
	CourseID              int64         `db:"courseid"`
	Fullname              string        `db:"fullname"`
	Shortname             string        `db:"shortname"`
	Category              int64         `db:"category"`
	StartDate             int64         `db:"startdate"`
	EndDate               int64         `db:"enddate"`
	EnrolmentStatus       int           `db:"enrolmentstatus"`
	EnrolmentTimeCreated  sql.NullInt64 `db:"enrolmenttimecreated"`
	EnrolmentTimeModified sql.NullInt64 `db:"enrolmenttimemodified"`
	EnrolMethod           string        `db:"enrolmethod"`
}

// CourseEnrolmentFilter narrows a user's enrolments. Fullnames are OR-ed substrings,
// Shortnames OR-ed exact values; the two groups are AND-ed when both are set.
type CourseEnrolmentFilter struct {
	UserID     int64
	Fullnames  []string
	Shortnames []string
}

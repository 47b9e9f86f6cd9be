package dto

// UsernameRequest is the parameter bag of list_suspended_courses.
type UsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

// SuspendedCourse is one course where the user is suspended.
type SuspendedCourse struct {
	CourseID            int64  `json:"courseid"`
	Fullname            string `json:"fullname"`
	Shortname           string `json:"shortname"`
	SuspensionTimestamp int64  `json:"suspensiontimestamp"`
}

// UnsuspendRequest is the parameter bag of unsuspend_user.
type UnsuspendRequest struct {
	Username string `json:"username" validate:"required"`
	CourseID int64  `json:"courseid" validate:"required,gt=0"`
}

// UnsuspendResult reports the outcome of an unsuspend call. Statuses are null when
// the user had neither a suspended nor an active enrolment.
type UnsuspendResult struct {
	Success        bool `json:"success"`
	PreviousStatus *int `json:"previous_status"`
	NewStatus      *int `json:"new_status"`
}

// UserCoursesRequest is the parameter bag of get_user_courses_filtered.
type UserCoursesRequest struct {
	Username              string `json:"username" validate:"required"`
	CourseFullnameFilter  string `json:"coursefullnamefilter"`
	CourseShortnameFilter string `json:"courseshortnamefilter"`
}

// UserCourse is one enrolment of the user with course metadata.
type UserCourse struct {
	CourseID              int64  `json:"courseid"`
	Fullname              string `json:"fullname"`
	Shortname             string `json:"shortname"`
	Category              int64  `json:"category"`
	StartDate             int64  `json:"startdate"`
	EndDate               int64  `json:"enddate"`
	EnrolmentStatus       int    `json:"enrolmentstatus"`
	EnrolmentTimeCreated  int64  `json:"enrolmenttimecreated"`
	EnrolmentTimeModified int64  `json:"enrolmenttimemodified"`
	EnrolMethod           string `json:"enrolmethod"`
}

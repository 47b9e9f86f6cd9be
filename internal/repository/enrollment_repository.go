package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	"github.com/noah-isme/usercoursecontrol-api/pkg/database"
	qb "github.com/noah-isme/usercoursecontrol-api/pkg/querybuilder"
)

// EnrollmentRepository handles user enrolment rows and their enrol instances.
type EnrollmentRepository struct {
	db     *sqlx.DB
	schema database.Schema
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB, schema database.Schema) *EnrollmentRepository {
	return &EnrollmentRepository{db: db, schema: schema}
}

func (r *EnrollmentRepository) enrolmentJoin() string {
	return fmt.Sprintf(`FROM %s ue
JOIN %s e ON e.id = ue.enrolid
JOIN %s c ON c.id = e.courseid`, r.schema.Table("user_enrolments"), r.schema.Table("enrol"), r.schema.Table("course"))
}

// ListSuspendedCourses returns each course where the user is suspended under an enabled enrol instance.
func (r *EnrollmentRepository) ListSuspendedCourses(ctx context.Context, userID int64) ([]models.SuspendedCourse, error) {
	where, args := qb.Where(
		qb.Eq("ue.userid", userID),
		qb.Eq("ue.status", int(models.EnrolmentStatusSuspended)),
		qb.Eq("e.status", models.EnrolInstanceEnabled),
	).SQL()
	query := r.db.Rebind(`SELECT c.id AS courseid, c.fullname, c.shortname, ue.timemodified AS suspensiontimestamp
        ` + r.enrolmentJoin() + where)

	rows := []models.SuspendedCourse{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list suspended courses: %w", err)
	}
	return collapseSuspendedCourses(rows), nil
}

// collapseSuspendedCourses keeps one entry per course, in first-seen order, carrying the
// most recent suspension time of the user's enrolments in it.
func collapseSuspendedCourses(rows []models.SuspendedCourse) []models.SuspendedCourse {
	courses := make([]models.SuspendedCourse, 0, len(rows))
	index := make(map[int64]int, len(rows))
	for _, row := range rows {
		i, seen := index[row.CourseID]
		if !seen {
			index[row.CourseID] = len(courses)
			courses = append(courses, row)
			continue
		}
		if row.SuspensionTimestamp.Valid && (!courses[i].SuspensionTimestamp.Valid || row.SuspensionTimestamp.Int64 > courses[i].SuspensionTimestamp.Int64) {
			courses[i].SuspensionTimestamp = row.SuspensionTimestamp
		}
	}
	return courses
}

// ListByUserAndCourse returns every enrolment row of the user in the course, in storage order.
func (r *EnrollmentRepository) ListByUserAndCourse(ctx context.Context, userID, courseID int64) ([]models.UserEnrolmentMethod, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT ue.id, ue.enrolid, ue.userid, ue.status, ue.timecreated, ue.timemodified, e.enrol
        FROM %s ue
        JOIN %s e ON e.id = ue.enrolid
        WHERE e.courseid = ? AND ue.userid = ?`, r.schema.Table("user_enrolments"), r.schema.Table("enrol")))

	enrolments := []models.UserEnrolmentMethod{}
	if err := r.db.SelectContext(ctx, &enrolments, query, courseID, userID); err != nil {
		return nil, fmt.Errorf("list user course enrolments: %w", err)
	}
	return enrolments, nil
}

// FindEnrolInstance returns an enrol instance by id. sql.ErrNoRows is returned unwrapped when absent.
func (r *EnrollmentRepository) FindEnrolInstance(ctx context.Context, id int64) (*models.EnrolInstance, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT id, courseid, enrol, status FROM %s WHERE id = ?`, r.schema.Table("enrol")))
	var instance models.EnrolInstance
	if err := r.db.GetContext(ctx, &instance, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find enrol instance: %w", err)
	}
	return &instance, nil
}

// UpdateUserEnrolStatus sets the status of the user's enrolment under one enrol instance.
func (r *EnrollmentRepository) UpdateUserEnrolStatus(ctx context.Context, enrolID, userID int64, status models.EnrolmentStatus, modifierID, modifiedAt int64) error {
	query := r.db.Rebind(fmt.Sprintf(`UPDATE %s SET status = ?, timemodified = ?, modifierid = ? WHERE enrolid = ? AND userid = ?`, r.schema.Table("user_enrolments")))
	if _, err := r.db.ExecContext(ctx, query, int(status), modifiedAt, modifierID, enrolID, userID); err != nil {
		return fmt.Errorf("update user enrolment status: %w", err)
	}
	return nil
}

// ListCourseEnrolments returns the user's enrolments under enabled instances, narrowed by
// the filter and ordered by course fullname.
func (r *EnrollmentRepository) ListCourseEnrolments(ctx context.Context, filter models.CourseEnrolmentFilter) ([]models.CourseEnrolment, error) {
	builder := qb.Where(
		qb.Eq("ue.userid", filter.UserID),
		qb.Eq("e.status", models.EnrolInstanceEnabled),
	)
	if len(filter.Fullnames) > 0 {
		preds := make([]qb.Predicate, len(filter.Fullnames))
		for i, name := range filter.Fullnames {
			preds[i] = qb.Contains("c.fullname", name)
		}
		builder.And(qb.Or(preds...))
	}
	if len(filter.Shortnames) > 0 {
		builder.And(qb.InStrings("c.shortname", filter.Shortnames))
	}
	where, args := builder.SQL()

	query := r.db.Rebind(`SELECT c.id AS courseid, c.fullname, c.shortname, c.category, c.startdate, c.enddate,
        ue.status AS enrolmentstatus, ue.timecreated AS enrolmenttimecreated, ue.timemodified AS enrolmenttimemodified,
        e.enrol AS enrolmethod
        ` + r.enrolmentJoin() + where + ` ORDER BY c.fullname ASC`)

	enrolments := []models.CourseEnrolment{}
	if err := r.db.SelectContext(ctx, &enrolments, query, args...); err != nil {
		return nil, fmt.Errorf("list course enrolments: %w", err)
	}
	return enrolments, nil
}

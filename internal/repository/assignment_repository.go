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

const assignModuleName = "assign"

// AssignmentRepository reads and updates native assignments.
type AssignmentRepository struct {
	db     *sqlx.DB
	schema database.Schema
}

// NewAssignmentRepository creates an assignment repository.
func NewAssignmentRepository(db *sqlx.DB, schema database.Schema) *AssignmentRepository {
	return &AssignmentRepository{db: db, schema: schema}
}

// ListDue returns assignments due within the filter window whose course module is not being deleted.
func (r *AssignmentRepository) ListDue(ctx context.Context, filter models.DueDateFilter) ([]models.AssignmentDetail, error) {
	where, args := qb.Where(
		qb.Between("a.duedate", filter.Start, filter.End),
		courseNameMatch(filter.CourseNames),
		qb.Eq("cm.deletioninprogress", 0),
	).SQL()
	query := r.db.Rebind(fmt.Sprintf(`SELECT a.id AS assignmentid, a.name AS assignmentname, a.course AS courseid,
        a.duedate, a.cutoffdate, a.allowsubmissionsfromdate, a.grade AS grademax,
        cm.id AS cmid, cm.visible, c.shortname AS courseshortname, c.fullname AS coursefullname
        FROM %s a
        JOIN %s c ON c.id = a.course
        JOIN %s cm ON cm.course = a.course AND cm.instance = a.id
        JOIN %s m ON m.id = cm.module AND m.name = '%s'`,
		r.schema.Table("assign"), r.schema.Table("course"), r.schema.Table("course_modules"),
		r.schema.Table("modules"), assignModuleName) +
		where + ` ORDER BY a.duedate ASC, c.fullname ASC, a.name ASC`)

	assignments := []models.AssignmentDetail{}
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindByID returns an assignment. sql.ErrNoRows is returned unwrapped when absent.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT id, course, cutoffdate FROM %s WHERE id = ?`, r.schema.Table("assign")))
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// SetCutoff stores the cutoff date; 0 clears it.
func (r *AssignmentRepository) SetCutoff(ctx context.Context, id, cutoff int64) error {
	query := r.db.Rebind(fmt.Sprintf(`UPDATE %s SET cutoffdate = ? WHERE id = ?`, r.schema.Table("assign")))
	if _, err := r.db.ExecContext(ctx, query, cutoff, id); err != nil {
		return fmt.Errorf("update assignment cutoff: %w", err)
	}
	return nil
}

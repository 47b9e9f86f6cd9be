package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	"github.com/noah-isme/usercoursecontrol-api/pkg/database"
)

// CourseRepository reads host courses.
type CourseRepository struct {
	db     *sqlx.DB
	schema database.Schema
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB, schema database.Schema) *CourseRepository {
	return &CourseRepository{db: db, schema: schema}
}

// FindByID returns a course by id. sql.ErrNoRows is returned unwrapped when absent.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT id, fullname, shortname, category, startdate, enddate FROM %s WHERE id = ?`, r.schema.Table("course")))
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

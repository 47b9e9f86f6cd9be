package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	"github.com/noah-isme/usercoursecontrol-api/pkg/database"
	qb "github.com/noah-isme/usercoursecontrol-api/pkg/querybuilder"
)

var moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// GradeRepository reads grade items, current grades and grade history.
type GradeRepository struct {
	db     *sqlx.DB
	schema database.Schema
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB, schema database.Schema) *GradeRepository {
	return &GradeRepository{db: db, schema: schema}
}

// ListItems returns visible, non course-total grade items ordered by id.
func (r *GradeRepository) ListItems(ctx context.Context, filter models.GradeItemFilter) ([]models.GradeItem, error) {
	builder := qb.Where(
		qb.Eq("courseid", filter.CourseID),
		qb.Ne("itemtype", models.GradeItemTypeCourse),
		qb.Eq("hidden", 0),
	)
	if filter.ItemID > 0 {
		builder.And(qb.Eq("id", filter.ItemID))
	}
	where, args := builder.SQL()
	query := r.db.Rebind(fmt.Sprintf(`SELECT id, courseid, itemtype, itemmodule, iteminstance, itemname, grademax, hidden
        FROM %s`, r.schema.Table("grade_items")) + where + ` ORDER BY id ASC`)

	items := []models.GradeItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list grade items: %w", err)
	}
	return items, nil
}

// ActivityExists reports whether the activity instance owning a grade item still exists.
// Module names that are not plain identifiers never match.
func (r *GradeRepository) ActivityExists(ctx context.Context, module string, instanceID int64) (bool, error) {
	if !moduleNamePattern.MatchString(module) {
		return false, nil
	}
	query := r.db.Rebind(fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ? LIMIT 1`, r.schema.Table(module)))
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, instanceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check activity %s: %w", module, err)
	}
	return true, nil
}

// FindGrade returns the user's current grade on an item. sql.ErrNoRows is returned unwrapped when absent.
func (r *GradeRepository) FindGrade(ctx context.Context, itemID, userID int64) (*models.Grade, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT id, finalgrade, timemodified FROM %s WHERE itemid = ? AND userid = ?`, r.schema.Table("grade_grades")))
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, itemID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find grade: %w", err)
	}
	return &grade, nil
}

// LatestDifferingHistory returns the most recent history entry with a non-null value that
// differs from current by more than models.GradeEpsilon. A nil current accepts any value.
// sql.ErrNoRows is returned unwrapped when there is none.
func (r *GradeRepository) LatestDifferingHistory(ctx context.Context, itemID, userID int64, current *float64) (*models.GradeHistory, error) {
	builder := qb.Where(
		qb.Eq("itemid", itemID),
		qb.Eq("userid", userID),
		qb.IsNotNull("finalgrade"),
	)
	if current != nil {
		builder.And(qb.Raw("ABS(finalgrade - ?) > ?", *current, models.GradeEpsilon))
	}
	where, args := builder.SQL()
	query := r.db.Rebind(fmt.Sprintf(`SELECT id, finalgrade, timemodified, usermodified, loggeduser, action
        FROM %s`, r.schema.Table("grade_grades_history")) + where + ` ORDER BY timemodified DESC, id DESC LIMIT 1`)

	var entry models.GradeHistory
	if err := r.db.GetContext(ctx, &entry, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find grade history: %w", err)
	}
	return &entry, nil
}

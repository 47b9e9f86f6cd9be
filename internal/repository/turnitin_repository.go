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

// TurnitinRepository reads and updates Turnitin assignment parts.
type TurnitinRepository struct {
	db     *sqlx.DB
	schema database.Schema
}

// NewTurnitinRepository creates a Turnitin repository.
func NewTurnitinRepository(db *sqlx.DB, schema database.Schema) *TurnitinRepository {
	return &TurnitinRepository{db: db, schema: schema}
}

// ListDue returns parts due within the filter window in courses matching the name tokens.
func (r *TurnitinRepository) ListDue(ctx context.Context, filter models.DueDateFilter) ([]models.TurnitinPartDetail, error) {
	where, args := qb.Where(
		qb.Between("tp.dtdue", filter.Start, filter.End),
		courseNameMatch(filter.CourseNames),
	).SQL()
	query := r.db.Rebind(fmt.Sprintf(`SELECT tp.id AS partid, t.id AS assignmentid, t.name AS assignmentname,
        tp.partname, tp.tiiassignid, c.id AS courseid, c.shortname AS courseshortname,
        c.fullname AS coursefullname, tp.dtdue AS duedate, tp.allowlate, tp.reportgenspeed
        FROM %s tp
        JOIN %s t ON t.id = tp.turnitintooltwoid
        JOIN %s c ON c.id = t.course`,
		r.schema.Table("turnitintooltwo_parts"), r.schema.Table("turnitintooltwo"), r.schema.Table("course")) +
		where + ` ORDER BY tp.dtdue ASC, c.fullname ASC, t.name ASC`)

	parts := []models.TurnitinPartDetail{}
	if err := r.db.SelectContext(ctx, &parts, query, args...); err != nil {
		return nil, fmt.Errorf("list turnitin parts: %w", err)
	}
	return parts, nil
}

// FindPart returns a part with its owning course. sql.ErrNoRows is returned unwrapped when absent.
func (r *TurnitinRepository) FindPart(ctx context.Context, partID int64) (*models.TurnitinPart, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT tp.id, tp.turnitintooltwoid, t.course
        FROM %s tp
        JOIN %s t ON t.id = tp.turnitintooltwoid
        WHERE tp.id = ?`, r.schema.Table("turnitintooltwo_parts"), r.schema.Table("turnitintooltwo")))
	var part models.TurnitinPart
	if err := r.db.GetContext(ctx, &part, query, partID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find turnitin part: %w", err)
	}
	return &part, nil
}

// SetAllowLate stores the late-submission flag of a part.
func (r *TurnitinRepository) SetAllowLate(ctx context.Context, partID int64, allowLate bool) error {
	value := 0
	if allowLate {
		value = 1
	}
	query := r.db.Rebind(fmt.Sprintf(`UPDATE %s SET allowlate = ? WHERE id = ?`, r.schema.Table("turnitintooltwo_parts")))
	if _, err := r.db.ExecContext(ctx, query, value, partID); err != nil {
		return fmt.Errorf("update turnitin allowlate: %w", err)
	}
	return nil
}

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

// UserRepository reads host user accounts.
type UserRepository struct {
	db     *sqlx.DB
	schema database.Schema
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB, schema database.Schema) *UserRepository {
	return &UserRepository{db: db, schema: schema}
}

// FindByUsername returns a non-deleted user. sql.ErrNoRows is returned unwrapped when absent.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT id, username, deleted FROM %s WHERE username = ? AND deleted = 0`, r.schema.Table("user")))
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

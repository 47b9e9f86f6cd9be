package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db, testSchema)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, deleted FROM mdl_user WHERE username = $1 AND deleted = 0")).
		WithArgs("student1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "deleted"}).AddRow(42, "student1", 0))

	user, err := repo.FindByUsername(context.Background(), "student1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByUsernameMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db, testSchema)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_user")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db, testSchema)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_course WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "fullname", "shortname", "category", "startdate", "enddate"}).
			AddRow(7, "Biology 101", "BIO101", 1, 0, 0))

	course, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "BIO101", course.Shortname)

	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_course WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnError(errors.New("connection reset"))
	_, err = repo.FindByID(context.Background(), 8)
	require.Error(t, err)
	assert.False(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

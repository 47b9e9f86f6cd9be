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

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
)

func TestGradeRepositoryListItems(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db, testSchema)
	columns := []string{"id", "courseid", "itemtype", "itemmodule", "iteminstance", "itemname", "grademax", "hidden"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_grade_items WHERE courseid = $1 AND itemtype <> $2 AND hidden = $3 ORDER BY id ASC")).
		WithArgs(int64(7), "course", 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 7, "mod", "assign", 3, "Essay", 100.0, 0).
			AddRow(2, 7, "manual", nil, nil, "Participation", 10.0, 0))

	items, err := repo.ListItems(context.Background(), models.GradeItemFilter{CourseID: 7})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].HasActivity())
	assert.False(t, items[1].HasActivity())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE courseid = $1 AND itemtype <> $2 AND hidden = $3 AND id = $4")).
		WithArgs(int64(7), "course", 0, int64(2)).
		WillReturnRows(sqlmock.NewRows(columns))
	items, err = repo.ListItems(context.Background(), models.GradeItemFilter{CourseID: 7, ItemID: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryActivityExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db, testSchema)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM mdl_assign WHERE id = $1 LIMIT 1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM mdl_quiz WHERE id = $1 LIMIT 1")).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ActivityExists(context.Background(), "assign", 3)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ActivityExists(context.Background(), "quiz", 4)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ActivityExists(context.Background(), "assign; DROP TABLE mdl_user", 1)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindGradeMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db, testSchema)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_grade_grades WHERE itemid = $1 AND userid = $2")).
		WithArgs(int64(1), int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindGrade(context.Background(), 1, 42)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryLatestDifferingHistory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db, testSchema)
	columns := []string{"id", "finalgrade", "timemodified", "usermodified", "loggeduser", "action"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_grade_grades_history WHERE itemid = $1 AND userid = $2 AND finalgrade IS NOT NULL AND ABS(finalgrade - $3) > $4 ORDER BY timemodified DESC, id DESC LIMIT 1")).
		WithArgs(int64(1), int64(42), 85.0, models.GradeEpsilon).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(9, 70.0, 1700000000, nil, 5, 2))

	current := 85.0
	entry, err := repo.LatestDifferingHistory(context.Background(), 1, 42, &current)
	require.NoError(t, err)
	assert.Equal(t, 70.0, entry.FinalGrade)
	require.NotNil(t, entry.ModifierID())
	assert.Equal(t, int64(5), *entry.ModifierID())

	mock.ExpectQuery(regexp.QuoteMeta("AND finalgrade IS NOT NULL ORDER BY timemodified DESC")).
		WithArgs(int64(1), int64(42)).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.LatestDifferingHistory(context.Background(), 1, 42, nil)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryHistoryWithNullTimestamp(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db, testSchema)
	columns := []string{"id", "finalgrade", "timemodified", "usermodified", "loggeduser", "action"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_grade_grades_history")).
		WithArgs(int64(1), int64(42), 85.0, models.GradeEpsilon).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(5, 70.0, nil, 3, nil, 2))

	current := 85.0
	entry, err := repo.LatestDifferingHistory(context.Background(), 1, 42, &current)
	require.NoError(t, err)
	assert.False(t, entry.TimeModified.Valid)
	assert.Zero(t, entry.TimeModified.Int64)
	require.NotNil(t, entry.ModifierID())
	assert.Equal(t, int64(3), *entry.ModifierID())
	require.NoError(t, mock.ExpectationsWereMet())
}

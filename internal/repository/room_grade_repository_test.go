package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

func TestRoomRepositoryListAllCanonicalOrder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms ORDER BY name ASC, id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "building", "created_at", "updated_at"}).
			AddRow("r-1", "Room 101", nil, now, now).
			AddRow("r-2", "Science Lab", "Annex", now, now))

	rooms, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Nil(t, rooms[0].Building)
	assert.Equal(t, "Annex", *rooms[1].Building)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryExistsByNameExcludesSelf(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM rooms WHERE LOWER(name) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("room 101", "r-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err := repo.ExistsByName(context.Background(), "room 101", "r-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListScopesBandAndPages(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	band := models.LevelBandSHS
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND g.subject = $1 AND NULLIF(substring(s.grade_level from '[0-9]+'), '')::int >= $2 AND NULLIF(substring(s.grade_level from '[0-9]+'), '')::int <= $3 ORDER BY g.recorded_on DESC, g.created_at DESC LIMIT 10 OFFSET 10")).
		WithArgs("Mathematics", 11, 12).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "subject", "assessment", "grade_value", "recorded_on", "recorded_by", "created_at", "updated_at", "student_name"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM grades g JOIN students s")).
		WithArgs("Mathematics", 11, 12).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	grades, total, err := repo.List(context.Background(), models.GradeFilter{Subject: "Mathematics", Band: &band, Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, grades)
	assert.Equal(t, 14, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryCreateDefaultsRecordedOn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec("INSERT INTO grades").
		WillReturnResult(sqlmock.NewResult(1, 1))

	grade := &models.Grade{StudentID: "stu-1", Subject: "English 7", Assessment: "Quiz 1", GradeValue: 92}
	require.NoError(t, repo.Create(context.Background(), grade))
	assert.NotEmpty(t, grade.ID)
	assert.False(t, grade.RecordedOn.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

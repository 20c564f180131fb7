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

var studentRowColumns = []string{"id", "student_number", "first_name", "middle_name", "last_name", "date_of_birth", "grade_level", "homeroom_teacher", "section_id", "created_at", "updated_at", "section_name"}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows(studentRowColumns).
		AddRow("1", "2024-001", "Juan", "P", "Dela Cruz", time.Now(), "Grade 7", nil, "sec-1", time.Now(), time.Now(), "Grade 7-A")
	mock.ExpectQuery(regexp.QuoteMeta("FROM students s LEFT JOIN sections sec ON sec.id = s.section_id WHERE 1=1 ORDER BY s.last_name ASC, s.id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s LEFT JOIN sections sec ON sec.id = s.section_id WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Juan P. Dela Cruz", students[0].FullName())
	assert.Equal(t, "Grade 7-A", *students[0].SectionName)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListBandFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	band := models.LevelBandSHS
	expr := gradeNumberExpr("s.grade_level")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND "+expr+" >= $1 AND "+expr+" <= $2 ORDER BY")).
		WithArgs(11, 12).
		WillReturnRows(sqlmock.NewRows(studentRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s")).
		WithArgs(11, 12).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.StudentFilter{Band: &band})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), "2024-002", "Maria", nil, "Santos", nil, sqlmock.AnyArg(), nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	grade := "Grade 8"
	student := &models.Student{StudentNumber: "2024-002", FirstName: "Maria", LastName: "Santos", GradeLevel: &grade}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
}

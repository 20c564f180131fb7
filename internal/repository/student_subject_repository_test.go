package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

func TestStudentSubjectInsertSkipsConflicts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentSubjectRepository(db)

	teacher := "t-1"
	section := "sec-1"
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id) DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), "stu-1", "sub-1", teacher, section, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id) DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), "stu-1", "sub-2", nil, section, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	links := []models.StudentSubject{
		{StudentID: "stu-1", SubjectID: "sub-1", TeacherID: &teacher, SectionID: &section},
		{StudentID: "stu-1", SubjectID: "sub-2", SectionID: &section},
	}
	inserted, err := repo.InsertWithTx(context.Background(), tx, links)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(1), inserted)
	assert.NotEmpty(t, links[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentSubjectListSubjectIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT subject_id FROM student_subjects WHERE student_id = $1")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id"}).AddRow("sub-1").AddRow("sub-2"))

	ids, err := repo.ListSubjectIDs(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub-1", "sub-2"}, ids)
}

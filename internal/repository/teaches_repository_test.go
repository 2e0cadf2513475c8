package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

func TestTeachesRepositoryAdd(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachesRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teaches (tutor_id, student_id) VALUES ($1, $2)")).
		WithArgs(int64(10), int64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Add(context.Background(), 10, 3))
}

func TestTeachesRepositoryAddDuplicatePair(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachesRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teaches")).
		WithArgs(int64(10), int64(3)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "unique_tutor_student"})

	err := repo.Add(context.Background(), 10, 3)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
	assert.Contains(t, err.Error(), "relationship already exists")
}

func TestTeachesRepositoryStudentsOfTutor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachesRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN teaches t ON t.student_id = u.id")).
		WithArgs(int64(10)).
		WillReturnRows(userRows(models.User{ID: 3, IsStudent: true}, models.User{ID: 4, IsStudent: true}))

	students, err := repo.StudentsOfTutor(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, int64(3), students[0].ID)
}

func TestTeachesRepositoryStudentsNotTaughtBy(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachesRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("NOT EXISTS")).
		WithArgs(int64(10)).
		WillReturnRows(userRows(models.User{ID: 8, IsStudent: true}))

	students, err := repo.StudentsNotTaughtBy(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, int64(8), students[0].ID)
}

func TestTeachesRepositoryTutorsOfStudentEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachesRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN teaches t ON t.tutor_id = u.id")).
		WithArgs(int64(3)).
		WillReturnRows(userRows())

	tutors, err := repo.TutorsOfStudent(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, tutors)
}

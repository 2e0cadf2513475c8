package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

type rosterUserRepository interface {
	ListByRole(ctx context.Context, flag models.RoleFlag) ([]models.User, error)
	FindByIDsWithRole(ctx context.Context, ids []int64, flag models.RoleFlag) ([]models.User, error)
}

type teachesReader interface {
	StudentsOfTutor(ctx context.Context, tutorID int64) ([]models.User, error)
	StudentsNotTaughtBy(ctx context.Context, tutorID int64) ([]models.User, error)
	TutorsOfStudent(ctx context.Context, studentID int64) ([]models.User, error)
}

// RosterService answers the read-only roster queries: role-scoped listings,
// id-set resolution, and tutor/student relationship lookups. All results are
// duplicate-free; no ordering is guaranteed.
type RosterService struct {
	users   rosterUserRepository
	teaches teachesReader
	logger  *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(users rosterUserRepository, teaches teachesReader, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{users: users, teaches: teaches, logger: logger}
}

// ListStudents returns every user with the student flag.
func (s *RosterService) ListStudents(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return users, nil
}

// ListTutors returns every user with the tutor flag.
func (s *RosterService) ListTutors(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListByRole(ctx, models.RoleTutor)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}
	return users, nil
}

// StudentsByIDs resolves an id set to the students among them. The input is
// deduplicated first; ids that do not exist or are not students simply drop
// out of the result.
func (s *RosterService) StudentsByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	users, err := s.users.FindByIDsWithRole(ctx, dedupeIDs(ids), models.RoleStudent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve students")
	}
	return users, nil
}

// TutorsByIDs resolves an id set to the tutors among them.
func (s *RosterService) TutorsByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	users, err := s.users.FindByIDsWithRole(ctx, dedupeIDs(ids), models.RoleTutor)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve tutors")
	}
	return users, nil
}

// StudentsByTutor returns the students taught by the given tutor, or with
// invert set, all students NOT taught by that tutor.
func (s *RosterService) StudentsByTutor(ctx context.Context, tutorID int64, invert bool) ([]models.User, error) {
	var (
		users []models.User
		err   error
	)
	if invert {
		users, err = s.teaches.StudentsNotTaughtBy(ctx, tutorID)
	} else {
		users, err = s.teaches.StudentsOfTutor(ctx, tutorID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query students by tutor")
	}
	return users, nil
}

// TutorsOfStudent returns the tutors teaching the given student.
func (s *RosterService) TutorsOfStudent(ctx context.Context, studentID int64) ([]models.User, error) {
	users, err := s.teaches.TutorsOfStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query tutors of student")
	}
	return users, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

type relationshipStore interface {
	Add(ctx context.Context, tutorID, studentID int64) error
}

type relationshipUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Per-pair failure reasons. Domain failures never abort the batch; every pair
// is reported individually.
const (
	reasonTutorInvalid   = "tutor does not exist or is not a tutor"
	reasonStudentInvalid = "student does not exist or is not a student"
	reasonPairExists     = "relationship already exists"
)

// RelationshipService links tutors to students. Role checks happen here; pair
// uniqueness is left to the store so concurrent duplicates resolve atomically.
type RelationshipService struct {
	teaches relationshipStore
	users   relationshipUserReader
	logger  *zap.Logger
}

// NewRelationshipService constructs a RelationshipService.
func NewRelationshipService(teaches relationshipStore, users relationshipUserReader, logger *zap.Logger) *RelationshipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelationshipService{teaches: teaches, users: users, logger: logger}
}

// AddRelationships processes a batch of link requests. Each (tutor, student)
// pair lands in the report exactly once, as a success or as an error with a
// reason. Only unexpected store failures abort the whole call.
func (s *RelationshipService) AddRelationships(ctx context.Context, reqs []models.TeachesRequest) (*models.RelationshipReport, error) {
	report := &models.RelationshipReport{}

	for _, req := range reqs {
		tutorOK, err := s.hasRole(ctx, req.TutorID, models.RoleTutor)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
		}

		for _, studentID := range dedupeIDs(req.StudentIDs) {
			pair := [2]int64{req.TutorID, studentID}

			if !tutorOK {
				report.Errors = append(report.Errors, models.PairError{Pair: pair, Reason: reasonTutorInvalid})
				continue
			}

			studentOK, err := s.hasRole(ctx, studentID, models.RoleStudent)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
			}
			if !studentOK {
				report.Errors = append(report.Errors, models.PairError{Pair: pair, Reason: reasonStudentInvalid})
				continue
			}

			if err := s.teaches.Add(ctx, req.TutorID, studentID); err != nil {
				if appErrors.Is(err, appErrors.ErrDuplicate) {
					report.Errors = append(report.Errors, models.PairError{Pair: pair, Reason: reasonPairExists})
					continue
				}
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add relationship")
			}

			report.Success = append(report.Success, pair)
		}
	}

	return report, nil
}

func (s *RelationshipService) hasRole(ctx context.Context, id int64, flag models.RoleFlag) (bool, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return user.HasRole(flag), nil
}

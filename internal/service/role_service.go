package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

type transitionRepository interface {
	PromoteStudents(ctx context.Context, ids []int64) ([]int64, error)
	DemoteTutors(ctx context.Context, ids []int64) ([]int64, error)
}

// RoleService runs the bulk student/tutor role transitions. Each call is a
// single store transaction; the returned partition covers the deduplicated
// input exactly: every id is either transitioned or rejected.
type RoleService struct {
	repo    transitionRepository
	logger  *zap.Logger
	metrics *MetricsService
}

// NewRoleService constructs a RoleService.
func NewRoleService(repo transitionRepository, logger *zap.Logger, metrics *MetricsService) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{repo: repo, logger: logger, metrics: metrics}
}

// Promote grants tutor status to the listed students. Ids that do not exist
// or are not students land in Rejected.
func (s *RoleService) Promote(ctx context.Context, ids []int64) (*models.TransitionResult, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_ids must not be empty")
	}

	promoted, err := s.repo.PromoteStudents(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to promote students")
	}

	s.metrics.RecordRoleTransition("promote", len(promoted))
	return &models.TransitionResult{Transitioned: promoted, Rejected: difference(ids, promoted)}, nil
}

// Demote is the symmetric transition from tutor back to student.
func (s *RoleService) Demote(ctx context.Context, ids []int64) (*models.TransitionResult, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "tutor_ids must not be empty")
	}

	demoted, err := s.repo.DemoteTutors(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to demote tutors")
	}

	s.metrics.RecordRoleTransition("demote", len(demoted))
	return &models.TransitionResult{Transitioned: demoted, Rejected: difference(ids, demoted)}, nil
}

// dedupeIDs removes duplicates preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// difference returns the ids present in all but absent from accepted,
// preserving the order of all.
func difference(all, accepted []int64) []int64 {
	in := make(map[int64]struct{}, len(accepted))
	for _, id := range accepted {
		in[id] = struct{}{}
	}
	out := []int64{}
	for _, id := range all {
		if _, ok := in[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campushq/its-api/pkg/errors"
)

type transitionRepoStub struct {
	gotIDs     []int64
	promoted   []int64
	demoted    []int64
	promoteErr error
	demoteErr  error
}

func (s *transitionRepoStub) PromoteStudents(ctx context.Context, ids []int64) ([]int64, error) {
	s.gotIDs = ids
	return s.promoted, s.promoteErr
}

func (s *transitionRepoStub) DemoteTutors(ctx context.Context, ids []int64) ([]int64, error) {
	s.gotIDs = ids
	return s.demoted, s.demoteErr
}

func TestRoleServicePromoteDeduplicatesAndPartitions(t *testing.T) {
	repo := &transitionRepoStub{promoted: []int64{5}}
	svc := NewRoleService(repo, nil, nil)

	result, err := svc.Promote(context.Background(), []int64{5, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, repo.gotIDs)
	assert.Equal(t, []int64{5}, result.Transitioned)
	assert.Equal(t, []int64{6}, result.Rejected)
}

func TestRoleServicePromoteAllAccepted(t *testing.T) {
	repo := &transitionRepoStub{promoted: []int64{1, 2}}
	svc := NewRoleService(repo, nil, nil)

	result, err := svc.Promote(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Empty(t, result.Rejected)
}

func TestRoleServicePromoteEmptyInput(t *testing.T) {
	svc := NewRoleService(&transitionRepoStub{}, nil, nil)

	_, err := svc.Promote(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRoleServiceDemotePartitions(t *testing.T) {
	repo := &transitionRepoStub{demoted: []int64{9}}
	svc := NewRoleService(repo, nil, nil)

	result, err := svc.Demote(context.Background(), []int64{9, 11})
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, result.Transitioned)
	assert.Equal(t, []int64{11}, result.Rejected)
}

func TestRoleServiceDemoteRepositoryError(t *testing.T) {
	repo := &transitionRepoStub{demoteErr: errors.New("boom")}
	svc := NewRoleService(repo, nil, nil)

	_, err := svc.Demote(context.Background(), []int64{9})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

type authRepoStub struct {
	users     map[int64]*models.User
	byEmail   map[string]*models.User
	created   *models.User
	createErr error
	newHash   string
}

func (s *authRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = 1
	s.created = user
	return nil
}

func (s *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) UpdateProfile(ctx context.Context, id int64, username, organisation string) error {
	return nil
}

func (s *authRepoStub) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	s.newHash = passwordHash
	return nil
}

type revocationStub struct {
	revoked   map[string]time.Duration
	revokeErr error
	checkErr  error
}

func newRevocationStub() *revocationStub {
	return &revocationStub{revoked: map[string]time.Duration{}}
}

func (s *revocationStub) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revoked[jti] = ttl
	return nil
}

func (s *revocationStub) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	_, ok := s.revoked[jti]
	return ok, nil
}

func newTestAuthService(repo *authRepoStub, revoked *revocationStub) *AuthService {
	return NewAuthService(repo, revoked, nil, nil, nil, AuthConfig{
		Secret:            "test-secret",
		Issuer:            "its-api-test",
		AccessExpiration:  15 * time.Minute,
		RefreshExpiration: 24 * time.Hour,
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceSignUpDefaultsToStudent(t *testing.T) {
	repo := &authRepoStub{}
	svc := newTestAuthService(repo, newRevocationStub())

	user, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    "Ada@Example.com",
		Password: "secret123",
		Username: "ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsStudent)
	assert.False(t, user.IsTutor)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestAuthServiceSignUpExplicitRoles(t *testing.T) {
	repo := &authRepoStub{}
	svc := newTestAuthService(repo, newRevocationStub())

	isStudent := false
	user, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:     "tutor@example.com",
		Password:  "secret123",
		IsStudent: &isStudent,
		IsTutor:   true,
	})
	require.NoError(t, err)
	assert.False(t, user.IsStudent)
	assert.True(t, user.IsTutor)
}

func TestAuthServiceSignUpValidation(t *testing.T) {
	svc := newTestAuthService(&authRepoStub{}, newRevocationStub())

	_, err := svc.SignUp(context.Background(), models.SignUpRequest{Email: "not-an-email", Password: "secret123"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.SignUp(context.Background(), models.SignUpRequest{Email: "ok@example.com", Password: "short"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceSignUpDuplicateEmail(t *testing.T) {
	repo := &authRepoStub{createErr: appErrors.Clone(appErrors.ErrDuplicate, "email already in use")}
	svc := newTestAuthService(repo, newRevocationStub())

	_, err := svc.SignUp(context.Background(), models.SignUpRequest{Email: "dup@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
}

func TestAuthServiceSignInIssuesTokens(t *testing.T) {
	repo := &authRepoStub{byEmail: map[string]*models.User{
		"ada@example.com": {ID: 1, Email: "ada@example.com", PasswordHash: mustHash(t, "secret123"), IsStudent: true, IsActive: true},
	}}
	svc := newTestAuthService(repo, newRevocationStub())

	res, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "Ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, int64(1), res.User.ID)

	claims, err := svc.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.True(t, claims.IsStudent)
}

func TestAuthServiceSignInWrongPassword(t *testing.T) {
	repo := &authRepoStub{byEmail: map[string]*models.User{
		"ada@example.com": {ID: 1, Email: "ada@example.com", PasswordHash: mustHash(t, "secret123"), IsActive: true},
	}}
	svc := newTestAuthService(repo, newRevocationStub())

	_, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ada@example.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceSignInUnknownEmail(t *testing.T) {
	svc := newTestAuthService(&authRepoStub{}, newRevocationStub())

	_, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ghost@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceSignInInactiveAccount(t *testing.T) {
	repo := &authRepoStub{byEmail: map[string]*models.User{
		"ada@example.com": {ID: 1, Email: "ada@example.com", PasswordHash: mustHash(t, "secret123"), IsActive: false},
	}}
	svc := newTestAuthService(repo, newRevocationStub())

	_, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ada@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInactiveAccount))
}

func TestAuthServiceSignOutRevokesRefreshToken(t *testing.T) {
	user := &models.User{ID: 1, Email: "ada@example.com", PasswordHash: mustHash(t, "secret123"), IsActive: true}
	repo := &authRepoStub{
		byEmail: map[string]*models.User{"ada@example.com": user},
		users:   map[int64]*models.User{1: user},
	}
	revoked := newRevocationStub()
	svc := newTestAuthService(repo, revoked)

	res, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(context.Background(), res.RefreshToken))
	require.Len(t, revoked.revoked, 1)

	err = svc.SignOut(context.Background(), res.RefreshToken)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceSignOutRejectsAccessToken(t *testing.T) {
	user := &models.User{ID: 1, Email: "ada@example.com", PasswordHash: mustHash(t, "secret123"), IsActive: true}
	repo := &authRepoStub{byEmail: map[string]*models.User{"ada@example.com": user}}
	svc := newTestAuthService(repo, newRevocationStub())

	res, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = svc.SignOut(context.Background(), res.AccessToken)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	user := &models.User{ID: 1, Email: "ada@example.com", PasswordHash: mustHash(t, "secret123"), IsActive: true}
	repo := &authRepoStub{
		byEmail: map[string]*models.User{"ada@example.com": user},
		users:   map[int64]*models.User{1: user},
	}
	revoked := newRevocationStub()
	svc := newTestAuthService(repo, revoked)

	res, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	require.Len(t, revoked.revoked, 1)

	// The rotated-out token is on the revocation list now.
	_, err = svc.Refresh(context.Background(), res.RefreshToken)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	repo := &authRepoStub{users: map[int64]*models.User{
		1: {ID: 1, PasswordHash: mustHash(t, "secret123")},
	}}
	svc := newTestAuthService(repo, newRevocationStub())

	err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{OldPassword: "wrong-pass", NewPassword: "newsecret"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := &authRepoStub{users: map[int64]*models.User{
		1: {ID: 1, PasswordHash: mustHash(t, "secret123")},
	}}
	svc := newTestAuthService(repo, newRevocationStub())

	require.NoError(t, svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newsecret"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.newHash), []byte("newsecret")))
}

func TestAuthServiceUpdateProfilePartial(t *testing.T) {
	repo := &authRepoStub{users: map[int64]*models.User{
		1: {ID: 1, Username: "ada", Organisation: "Old Org"},
	}}
	svc := newTestAuthService(repo, newRevocationStub())

	org := "New Org"
	user, err := svc.UpdateProfile(context.Background(), 1, models.UpdateProfileRequest{Organisation: &org})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "New Org", user.Organisation)
}

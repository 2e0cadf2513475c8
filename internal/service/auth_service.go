package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

type authUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, username, organisation string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// revocationList is the store of refresh tokens invalidated ahead of natural
// expiry. Access tokens already in the wild stay valid until they expire.
type revocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret            string
	Issuer            string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
}

// AuthService provides signup, credential verification, token issuance and
// revocation, and the self-service account operations.
type AuthService struct {
	repo      authUserRepository
	revoked   revocationList
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, revoked revocationList, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, revoked: revoked, validator: validate, logger: logger, metrics: metrics, config: config}
}

// SignUp creates an account. A missing is_student flag defaults to true so a
// bare signup lands as a student.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	isStudent := true
	if req.IsStudent != nil {
		isStudent = *req.IsStudent
	}

	user := &models.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Username:     req.Username,
		Organisation: req.Organisation,
		IsStudent:    isStudent,
		IsTutor:      req.IsTutor,
		IsManager:    req.IsManager,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if appErrors.Is(err, appErrors.ErrDuplicate) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.metrics.RecordSignup()
	return user, nil
}

// SignIn authenticates a user and returns issued tokens. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (*models.SignInResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if !user.IsActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue tokens")
	}

	s.metrics.RecordLogin()
	return &models.SignInResponse{TokenPair: *pair, User: user}, nil
}

// SignOut places the refresh token's jti on the revocation list so it can no
// longer mint access tokens. The entry expires together with the token.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid refresh token")
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "revocation list unavailable")
	}
	if revoked {
		return appErrors.Clone(appErrors.ErrUnauthorized, "refresh token is revoked")
	}

	if err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke token")
	}

	s.metrics.RecordTokenRevoked()
	return nil
}

// Refresh rotates a refresh token: the presented jti is revoked and a fresh
// token pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid refresh token")
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "revocation list unavailable")
	}
	if revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token is revoked")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "associated user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.IsActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "")
	}

	if err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("failed to revoke rotated refresh token", zap.Error(err))
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue tokens")
	}
	return pair, nil
}

// ChangePassword changes the password for the given user ID.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password payload")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "old password does not match")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}
	return nil
}

// CurrentUser loads the authenticated user's profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// UpdateProfile applies the self-editable fields and returns the updated
// profile. Fields absent from the request keep their current value.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Organisation != nil {
		user.Organisation = *req.Organisation
	}

	if err := s.repo.UpdateProfile(ctx, userID, user.Username, user.Organisation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return user, nil
}

// ValidateAccessToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateAccessToken(tokenString string) (*models.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.AccessClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) parseRefreshToken(tokenString string) (*models.RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.RefreshClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.RefreshClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token claims")
	}
	if claims.TokenType != models.TokenTypeRefresh || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("token is not a refresh token")
	}
	return claims, nil
}

func (s *AuthService) issueTokens(user *models.User) (*models.TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.config.AccessExpiration.Seconds()),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.AccessClaims{
		UserID:      user.ID,
		Email:       user.Email,
		IsStudent:   user.IsStudent,
		IsTutor:     user.IsTutor,
		IsManager:   user.IsManager,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessExpiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.RefreshClaims{
		UserID:    user.ID,
		TokenType: models.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.RefreshExpiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

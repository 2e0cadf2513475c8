package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeRefresh marks refresh tokens so access tokens can never be used in
// their place.
const TokenTypeRefresh = "refresh"

// SignUpRequest is the account creation payload. When no role flag is sent the
// account defaults to a student.
type SignUpRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Username     string `json:"username" validate:"omitempty,max=100"`
	Organisation string `json:"organisation" validate:"omitempty,max=100"`
	IsStudent    *bool  `json:"is_student"`
	IsTutor      bool   `json:"is_tutor"`
	IsManager    bool   `json:"is_manager"`
}

// SignInRequest holds login credentials.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair bundles the issued tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SignInResponse returns the issued tokens plus the authenticated user.
type SignInResponse struct {
	TokenPair
	User *User `json:"user"`
}

// ChangePasswordRequest updates the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// AccessClaims is the JWT payload of access tokens. The role flags travel in
// the token so route guards never need a store round trip.
type AccessClaims struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	IsStudent   bool   `json:"is_student"`
	IsTutor     bool   `json:"is_tutor"`
	IsManager   bool   `json:"is_manager"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the given role flag.
func (c *AccessClaims) HasRole(flag RoleFlag) bool {
	switch flag {
	case RoleStudent:
		return c.IsStudent
	case RoleTutor:
		return c.IsTutor
	case RoleManager:
		return c.IsManager
	}
	return false
}

// RefreshClaims is the JWT payload of refresh tokens. The jti (RegisteredClaims.ID)
// is the handle recorded on the revocation list at logout.
type RefreshClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

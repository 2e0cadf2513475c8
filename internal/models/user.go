package models

import "time"

// RoleFlag names one of the boolean role columns on the users table. Only the
// constants below are ever interpolated into SQL.
type RoleFlag string

const (
	RoleStudent RoleFlag = "is_student"
	RoleTutor   RoleFlag = "is_tutor"
	RoleManager RoleFlag = "is_manager"
)

// User represents a platform account stored in the users table. Role flags are
// independent booleans, not an enum: a user can hold several roles at once.
// The password hash and the superuser/active flags never appear in responses.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Username     string    `db:"username" json:"username"`
	Organisation string    `db:"organisation" json:"organisation"`
	IsStudent    bool      `db:"is_student" json:"is_student"`
	IsTutor      bool      `db:"is_tutor" json:"is_tutor"`
	IsManager    bool      `db:"is_manager" json:"is_manager"`
	IsSuperuser  bool      `db:"is_superuser" json:"-"`
	IsActive     bool      `db:"is_active" json:"-"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
}

// HasRole reports whether the given role flag is set on the user.
func (u *User) HasRole(flag RoleFlag) bool {
	switch flag {
	case RoleStudent:
		return u.IsStudent
	case RoleTutor:
		return u.IsTutor
	case RoleManager:
		return u.IsManager
	}
	return false
}

// UpdateProfileRequest carries the self-service profile fields. Only username
// and organisation are user-editable; absent fields are left unchanged.
type UpdateProfileRequest struct {
	Username     *string `json:"username" validate:"omitempty,max=100"`
	Organisation *string `json:"organisation" validate:"omitempty,max=100"`
}

// TransitionResult partitions a promote/demote input set into the ids that
// changed role and the ids that were skipped because they did not exist or
// did not hold the source role.
type TransitionResult struct {
	Transitioned []int64
	Rejected     []int64
}

// TransitionResponse is the wire shape for promote/demote calls.
type TransitionResponse struct {
	Message string             `json:"message"`
	Warning *TransitionWarning `json:"warning,omitempty"`
}

// TransitionWarning lists ids skipped by a bulk role transition.
type TransitionWarning struct {
	Message string  `json:"message"`
	IDs     []int64 `json:"ids"`
}

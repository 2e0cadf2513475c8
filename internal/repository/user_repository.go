package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

const userColumns = "id, email, password_hash, username, organisation, is_student, is_tutor, is_manager, is_superuser, is_active, date_joined"

// UserRepository provides database access for platform accounts, including
// the bulk role transitions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// roleColumn maps a role flag onto its column name. Flags are the only values
// ever interpolated into SQL, and only after this whitelist check.
func roleColumn(flag models.RoleFlag) (string, error) {
	switch flag {
	case models.RoleStudent, models.RoleTutor, models.RoleManager:
		return string(flag), nil
	}
	return "", fmt.Errorf("unknown role flag %q", flag)
}

// Create inserts a new user and fills in the generated id. A duplicate email
// surfaces as a domain duplicate error, not a raw constraint violation.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	const query = `INSERT INTO users (email, password_hash, username, organisation, is_student, is_tutor, is_manager, is_superuser, is_active, date_joined)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.PasswordHash, user.Username, user.Organisation,
		user.IsStudent, user.IsTutor, user.IsManager, user.IsSuperuser,
		user.IsActive, user.DateJoined,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicate, "email already in use")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// UpdateProfile stores the self-editable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, organisation string) error {
	const query = `UPDATE users SET username = $2, organisation = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, username, organisation); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ListByRole returns every user holding the given role flag.
func (r *UserRepository) ListByRole(ctx context.Context, flag models.RoleFlag) ([]models.User, error) {
	column, err := roleColumn(flag)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = TRUE", userColumns, column)
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// FindByIDsWithRole resolves an id set to the users that exist and hold the
// given role flag. Ids are matched by primary key, so the result is
// duplicate-free as long as the caller deduplicates the input.
func (r *UserRepository) FindByIDsWithRole(ctx context.Context, ids []int64, flag models.RoleFlag) ([]models.User, error) {
	column, err := roleColumn(flag)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ANY($1) AND %s = TRUE", userColumns, column)
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find users by ids: %w", err)
	}
	return users, nil
}

// PromoteStudents grants is_tutor to every listed user that is currently a
// student, returning the affected ids. The source flag is kept for privileged
// users: is_student becomes (is_superuser OR is_manager), so managers and
// superusers retain dual-role status while plain students lose it. One
// transaction per call keeps the batch invisible to readers until commit.
func (r *UserRepository) PromoteStudents(ctx context.Context, ids []int64) ([]int64, error) {
	const query = `UPDATE users SET is_tutor = TRUE, is_student = (is_superuser OR is_manager)
        WHERE id = ANY($1) AND is_student = TRUE RETURNING id`
	return r.transition(ctx, query, ids)
}

// DemoteTutors is the mirror of PromoteStudents: is_student is granted and
// is_tutor becomes (is_superuser OR is_manager).
func (r *UserRepository) DemoteTutors(ctx context.Context, ids []int64) ([]int64, error) {
	const query = `UPDATE users SET is_student = TRUE, is_tutor = (is_superuser OR is_manager)
        WHERE id = ANY($1) AND is_tutor = TRUE RETURNING id`
	return r.transition(ctx, query, ids)
}

func (r *UserRepository) transition(ctx context.Context, query string, ids []int64) (affected []int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin role transition: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	affected = []int64{}
	if err = tx.SelectContext(ctx, &affected, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("apply role transition: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit role transition: %w", err)
	}
	return affected, nil
}

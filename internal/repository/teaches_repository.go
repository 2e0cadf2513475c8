package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
)

// TeachesRepository persists tutor-student relationships. Pair uniqueness is
// enforced by the unique_tutor_student constraint, so concurrent inserts of
// the same pair serialize at the database: exactly one succeeds, the rest map
// to a domain duplicate error.
type TeachesRepository struct {
	db *sqlx.DB
}

// NewTeachesRepository constructs a TeachesRepository.
func NewTeachesRepository(db *sqlx.DB) *TeachesRepository {
	return &TeachesRepository{db: db}
}

// Add links a tutor to a student. The insert is the atomic check-and-set:
// no prior existence read, the constraint decides.
func (r *TeachesRepository) Add(ctx context.Context, tutorID, studentID int64) error {
	const query = `INSERT INTO teaches (tutor_id, student_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, tutorID, studentID); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicate, "relationship already exists")
		}
		return fmt.Errorf("add teaches pair: %w", err)
	}
	return nil
}

// StudentsOfTutor returns every student taught by the given tutor. The unique
// pair constraint and the join on the primary key keep the list duplicate-free.
func (r *TeachesRepository) StudentsOfTutor(ctx context.Context, tutorID int64) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u
        JOIN teaches t ON t.student_id = u.id
        WHERE t.tutor_id = $1`, prefixedUserColumns("u"))
	students := []models.User{}
	if err := r.db.SelectContext(ctx, &students, query, tutorID); err != nil {
		return nil, fmt.Errorf("students of tutor: %w", err)
	}
	return students, nil
}

// StudentsNotTaughtBy returns the complement set: all students the given tutor
// does not teach.
func (r *TeachesRepository) StudentsNotTaughtBy(ctx context.Context, tutorID int64) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u
        WHERE u.is_student = TRUE
        AND NOT EXISTS (SELECT 1 FROM teaches t WHERE t.tutor_id = $1 AND t.student_id = u.id)`, prefixedUserColumns("u"))
	students := []models.User{}
	if err := r.db.SelectContext(ctx, &students, query, tutorID); err != nil {
		return nil, fmt.Errorf("students not taught by tutor: %w", err)
	}
	return students, nil
}

// TutorsOfStudent returns every tutor teaching the given student.
func (r *TeachesRepository) TutorsOfStudent(ctx context.Context, studentID int64) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u
        JOIN teaches t ON t.tutor_id = u.id
        WHERE t.student_id = $1`, prefixedUserColumns("u"))
	tutors := []models.User{}
	if err := r.db.SelectContext(ctx, &tutors, query, studentID); err != nil {
		return nil, fmt.Errorf("tutors of student: %w", err)
	}
	return tutors, nil
}

func prefixedUserColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.email, %[1]s.password_hash, %[1]s.username, %[1]s.organisation, %[1]s.is_student, %[1]s.is_tutor, %[1]s.is_manager, %[1]s.is_superuser, %[1]s.is_active, %[1]s.date_joined", alias)
}

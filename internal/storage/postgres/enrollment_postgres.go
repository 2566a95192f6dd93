package postgres

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

const selectEnrollment = `
	SELECT id, user_id, user_name, course_id, course_title, course_price::text,
	       enrolled_at, last_accessed, completed_lessons, progress, completed, completed_at
	FROM enrollments
`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var (
		e     models.Enrollment
		price string
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.UserName,
		&e.CourseID,
		&e.CourseTitle,
		&price,
		&e.EnrolledAt,
		&e.LastAccessed,
		&e.CompletedLessons,
		&e.Progress,
		&e.Completed,
		&e.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.CoursePrice, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price of enrollment %s: %w", e.ID, err)
	}
	if e.CompletedLessons == nil {
		e.CompletedLessons = []string{}
	}
	return &e, nil
}

func (r *EnrollmentPostgres) Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	e, err := scanEnrollment(r.db.QueryRow(ctx, selectEnrollment+`WHERE user_id = $1 AND course_id = $2`, userID, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EnrollmentPostgres) CreateEnrollment(ctx context.Context, e models.Enrollment) error {
	const query = `
		INSERT INTO enrollments (
			id, user_id, user_name, course_id, course_title, course_price,
			enrolled_at, last_accessed, completed_lessons, progress, completed, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.UserID, e.UserName, e.CourseID, e.CourseTitle, e.CoursePrice.String(),
		e.EnrolledAt, e.LastAccessed, lessonsOrEmpty(e.CompletedLessons), e.Progress, e.Completed, e.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return app_errors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

// SaveEnrollment replaces the mutable part of the record in a single statement.
func (r *EnrollmentPostgres) SaveEnrollment(ctx context.Context, e models.Enrollment) error {
	const query = `
		UPDATE enrollments
		   SET user_name         = $3,
		       last_accessed     = $4,
		       completed_lessons = $5,
		       progress          = $6,
		       completed         = $7,
		       completed_at      = $8
		 WHERE user_id = $1 AND course_id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query,
		e.UserID, e.CourseID, e.UserName, e.LastAccessed,
		lessonsOrEmpty(e.CompletedLessons), e.Progress, e.Completed, e.CompletedAt,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrEnrollmentNotFound
	}
	return nil
}

func (r *EnrollmentPostgres) EnrollmentsByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	return r.list(ctx, selectEnrollment+`WHERE user_id = $1 ORDER BY enrolled_at, id`, userID)
}

func (r *EnrollmentPostgres) AllEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return r.list(ctx, selectEnrollment+`ORDER BY enrolled_at, id`)
}

func (r *EnrollmentPostgres) list(ctx context.Context, query string, args ...any) ([]models.Enrollment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var list []models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func lessonsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

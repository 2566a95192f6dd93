package postgres

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

const selectCourse = `
	SELECT id, title, description, instructor, price::text, student_count, modules
	FROM courses
`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var (
		course  models.Course
		price   string
		modules []byte
	)
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Instructor,
		&price,
		&course.StudentCount,
		&modules,
	)
	if err != nil {
		return nil, err
	}
	if course.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price of course %s: %w", course.ID, err)
	}
	if err := json.Unmarshal(modules, &course.Modules); err != nil {
		return nil, fmt.Errorf("decode modules of course %s: %w", course.ID, err)
	}
	return &course, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, selectCourse+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (r *CoursePostgres) Courses(ctx context.Context) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, selectCourse+`ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// UpsertCourse never overwrites student_count of an existing row.
func (r *CoursePostgres) UpsertCourse(ctx context.Context, course models.Course) error {
	modules, err := json.Marshal(course.Modules)
	if err != nil {
		return fmt.Errorf("encode modules: %w", err)
	}
	const query = `
		INSERT INTO courses (id, title, description, instructor, price, student_count, modules)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
		ON CONFLICT (id) DO UPDATE
		   SET title         = EXCLUDED.title,
		       description   = EXCLUDED.description,
		       instructor    = EXCLUDED.instructor,
		       price         = EXCLUDED.price,
		       modules       = EXCLUDED.modules
	`
	_, err = r.db.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Instructor,
		course.Price.String(),
		course.StudentCount,
		modules,
	)
	return err
}

func (r *CoursePostgres) DeleteCourse(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) IncrementStudentCount(ctx context.Context, id string) error {
	const query = `
        UPDATE courses
           SET student_count = student_count + 1
         WHERE id = $1
    `
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

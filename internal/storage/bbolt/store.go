// Package bbolt is an embedded single-file storage driver. Records are stored
// as JSON, keyed so that every enrollment write touches exactly one key.
package bbolt

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	courseBucket     = "courses"
	enrollmentBucket = "enrollments"
	awardBucket      = "awards"
	userBucket       = "users"
	usernameBucket   = "usernames"
	tokenBucket      = "refresh_tokens"
)

var buckets = []string{courseBucket, enrollmentBucket, awardBucket, userBucket, usernameBucket, tokenBucket}

// Store provides a BoltDB-backed implementation of every repository.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func pairKey(a, b string) []byte {
	return []byte(a + "\x00" + b)
}

func prefixKey(a string) []byte {
	return []byte(a + "\x00")
}

func get[T any](tx *bbolt.Tx, bucket string, key []byte, notFound error) (T, error) {
	var v T
	payload := tx.Bucket([]byte(bucket)).Get(key)
	if payload == nil {
		return v, notFound
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("unmarshal %s: %w", bucket, err)
	}
	return v, nil
}

func put(tx *bbolt.Tx, bucket string, key []byte, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", bucket, err)
	}
	return tx.Bucket([]byte(bucket)).Put(key, payload)
}

// scan decodes every value under prefix; a nil prefix walks the whole bucket.
func scan[T any](tx *bbolt.Tx, bucket string, prefix []byte) ([]T, error) {
	var out []T
	c := tx.Bucket([]byte(bucket)).Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", bucket, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var course models.Course
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		course, err = get[models.Course](tx, courseBucket, []byte(id), app_errors.ErrCourseNotFound)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *Store) Courses(ctx context.Context) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var courses []models.Course
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		courses, err = scan[models.Course](tx, courseBucket, nil)
		return err
	})
	return courses, err
}

func (s *Store) UpsertCourse(ctx context.Context, course models.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(course.ID) == "" {
		return fmt.Errorf("course id is required")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		existing, err := get[models.Course](tx, courseBucket, []byte(course.ID), app_errors.ErrCourseNotFound)
		switch {
		case err == nil:
			course.StudentCount = existing.StudentCount
		case !errors.Is(err, app_errors.ErrCourseNotFound):
			return err
		}
		return put(tx, courseBucket, []byte(course.ID), course)
	})
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(courseBucket))
		if b.Get([]byte(id)) == nil {
			return app_errors.ErrCourseNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (s *Store) IncrementStudentCount(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		course, err := get[models.Course](tx, courseBucket, []byte(id), app_errors.ErrCourseNotFound)
		if err != nil {
			return err
		}
		course.StudentCount++
		return put(tx, courseBucket, []byte(id), course)
	})
}

func (s *Store) Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var e models.Enrollment
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		e, err = get[models.Enrollment](tx, enrollmentBucket, pairKey(userID, courseID), app_errors.ErrEnrollmentNotFound)
		return err
	})
	if err != nil {
		return nil, err
	}
	e = e.Clone()
	return &e, nil
}

func (s *Store) CreateEnrollment(ctx context.Context, e models.Enrollment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := pairKey(e.UserID, e.CourseID)
		if tx.Bucket([]byte(enrollmentBucket)).Get(key) != nil {
			return app_errors.ErrAlreadyEnrolled
		}
		return put(tx, enrollmentBucket, key, e)
	})
}

func (s *Store) SaveEnrollment(ctx context.Context, e models.Enrollment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := pairKey(e.UserID, e.CourseID)
		if tx.Bucket([]byte(enrollmentBucket)).Get(key) == nil {
			return app_errors.ErrEnrollmentNotFound
		}
		return put(tx, enrollmentBucket, key, e)
	})
}

func (s *Store) EnrollmentsByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	return s.enrollments(ctx, prefixKey(userID))
}

func (s *Store) AllEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return s.enrollments(ctx, nil)
}

func (s *Store) enrollments(ctx context.Context, prefix []byte) ([]models.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []models.Enrollment
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		list, err = scan[models.Enrollment](tx, enrollmentBucket, prefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b models.Enrollment) int {
		return a.EnrolledAt.Compare(b.EnrolledAt)
	})
	return list, nil
}

func (s *Store) AppendAward(ctx context.Context, a models.Award) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := pairKey(a.UserID, a.AchievementID)
		if tx.Bucket([]byte(awardBucket)).Get(key) != nil {
			return app_errors.ErrAchievementAlreadyEarned
		}
		return put(tx, awardBucket, key, a)
	})
}

func (s *Store) AwardsByUser(ctx context.Context, userID string) ([]models.Award, error) {
	return s.awards(ctx, prefixKey(userID))
}

func (s *Store) AllAwards(ctx context.Context) ([]models.Award, error) {
	return s.awards(ctx, nil)
}

func (s *Store) awards(ctx context.Context, prefix []byte) ([]models.Award, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []models.Award
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		list, err = scan[models.Award](tx, awardBucket, prefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b models.Award) int {
		return a.EarnedAt.Compare(b.EarnedAt)
	})
	return list, nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	nameKey := []byte(strings.ToLower(user.Username))
	err := s.db.Update(func(tx *bbolt.Tx) error {
		names := tx.Bucket([]byte(usernameBucket))
		if names.Get(nameKey) != nil {
			return app_errors.ErrUserExists
		}
		if err := names.Put(nameKey, []byte(user.ID)); err != nil {
			return err
		}
		return put(tx, userBucket, []byte(user.ID), user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = get[models.User](tx, userBucket, []byte(id), app_errors.ErrUserNotFound)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		users, err = scan[models.User](tx, userBucket, nil)
		return err
	})
	return users, err
}

func (s *Store) UserByName(ctx context.Context, name string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket([]byte(usernameBucket)).Get([]byte(strings.ToLower(name)))
		if id == nil {
			return app_errors.ErrUserNotFound
		}
		var err error
		user, err = get[models.User](tx, userBucket, id, app_errors.ErrUserNotFound)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Create(ctx context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	rt := models.RefreshToken{
		UserID:      userID,
		HashedToken: storage.HashToken(token.Raw),
		CreatedAt:   time.Now().UTC(),
	}
	if expiresAt != nil {
		rt.ExpiresAt = expiresAt.Time
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, tokenBucket, pairKey(userID, rt.HashedToken), rt)
	})
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *Store) ByPrimaryKey(ctx context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rt models.RefreshToken
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		rt, err = get[models.RefreshToken](tx, tokenBucket, pairKey(userID, storage.HashToken(token.Raw)), app_errors.ErrTokenNotFound)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *Store) DeleteUserTokens(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(tokenBucket))
		prefix := prefixKey(userID)
		c := b.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Seek(prefix) {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

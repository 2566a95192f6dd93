package app

import (
	"EliteRegistry/internal/config"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/storage/bbolt"
	"EliteRegistry/internal/storage/memory"
	"EliteRegistry/internal/storage/postgres"
	"EliteRegistry/pkg/logger"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"
)

type courseStore interface {
	CourseByID(ctx context.Context, id string) (*models.Course, error)
	Courses(ctx context.Context) ([]models.Course, error)
	UpsertCourse(ctx context.Context, course models.Course) error
	DeleteCourse(ctx context.Context, id string) error
	IncrementStudentCount(ctx context.Context, id string) error
}

type enrollmentStore interface {
	Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	CreateEnrollment(ctx context.Context, e models.Enrollment) error
	SaveEnrollment(ctx context.Context, e models.Enrollment) error
	EnrollmentsByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	AllEnrollments(ctx context.Context) ([]models.Enrollment, error)
}

type achievementStore interface {
	AppendAward(ctx context.Context, a models.Award) error
	AwardsByUser(ctx context.Context, userID string) ([]models.Award, error)
	AllAwards(ctx context.Context) ([]models.Award, error)
}

type userStore interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	Users(ctx context.Context) ([]models.User, error)
}

type tokenStore interface {
	Create(ctx context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID string) error
}

type courseSearch interface {
	Index(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, size int) ([]string, error)
	Count(ctx context.Context, query string) (int, error)
}

type repositories struct {
	courses      courseStore
	enrollments  enrollmentStore
	achievements achievementStore
	users        userStore
	tokens       tokenStore
	close        func()
}

func openRepositories(ctx context.Context, cfg *config.Config, log logger.Log) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("memory storage selected, data is lost on restart")
		s := memory.New()
		return &repositories{
			courses:      s,
			enrollments:  s,
			achievements: s,
			users:        s,
			tokens:       s,
			close:        func() {},
		}, nil

	case config.DriverBbolt:
		if dir := filepath.Dir(cfg.Storage.BboltPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		s, err := bbolt.Open(cfg.Storage.BboltPath)
		if err != nil {
			return nil, err
		}
		return &repositories{
			courses:      s,
			enrollments:  s,
			achievements: s,
			users:        s,
			tokens:       s,
			close: func() {
				if err := s.Close(); err != nil {
					log.ErrorErr("error closing bbolt store", err)
				}
			},
		}, nil

	case config.DriverPostgres:
		pg, err := postgres.NewPostgresPool(ctx, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
		if err != nil {
			return nil, err
		}
		if err := pg.InitSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return &repositories{
			courses:      postgres.NewCoursePostgres(pg.Pool),
			enrollments:  postgres.NewEnrollmentPostgres(pg.Pool),
			achievements: postgres.NewAchievementPostgres(pg.Pool),
			users:        postgres.NewUserPostgres(pg.Pool),
			tokens:       postgres.NewTokensPostgres(pg.Pool),
			close:        pg.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

package postgres

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AchievementPostgres struct {
	db *pgxpool.Pool
}

func NewAchievementPostgres(db *pgxpool.Pool) *AchievementPostgres {
	return &AchievementPostgres{db: db}
}

func (r *AchievementPostgres) AppendAward(ctx context.Context, a models.Award) error {
	const query = `
		INSERT INTO achievements (user_id, achievement_id, title, description, icon, points, earned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, a.UserID, a.AchievementID, a.Title, a.Description, a.Icon, a.Points, a.EarnedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return app_errors.ErrAchievementAlreadyEarned
		}
		return fmt.Errorf("failed to insert achievement: %w", err)
	}
	return nil
}

func (r *AchievementPostgres) AwardsByUser(ctx context.Context, userID string) ([]models.Award, error) {
	return r.list(ctx, `WHERE user_id = $1 ORDER BY earned_at`, userID)
}

func (r *AchievementPostgres) AllAwards(ctx context.Context) ([]models.Award, error) {
	return r.list(ctx, `ORDER BY earned_at`)
}

func (r *AchievementPostgres) list(ctx context.Context, where string, args ...any) ([]models.Award, error) {
	query := `
		SELECT user_id, achievement_id, title, description, icon, points, earned_at
		FROM achievements
	` + where
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var awards []models.Award
	for rows.Next() {
		var a models.Award
		if err := rows.Scan(&a.UserID, &a.AchievementID, &a.Title, &a.Description, &a.Icon, &a.Points, &a.EarnedAt); err != nil {
			return nil, err
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

package achievement

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/events"
	"EliteRegistry/internal/models"
	"EliteRegistry/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	pointsPerLevel     = 1000
	DefaultLeaderboard = 10
	perfectQuizScore   = 100
)

// Built-in achievements granted from domain events.
var (
	FirstStep = models.Award{
		AchievementID: "first-step",
		Title:         "First Step",
		Description:   "Complete your first course",
		Icon:          "🚀",
		Points:        100,
	}
	PerfectScore = models.Award{
		AchievementID: "perfect-score",
		Title:         "Perfect Score",
		Description:   "Score 100% on a quiz",
		Icon:          "🎯",
		Points:        300,
	}
)

type achievementRepo interface {
	AppendAward(ctx context.Context, a models.Award) error
	AwardsByUser(ctx context.Context, userID string) ([]models.Award, error)
	AllAwards(ctx context.Context) ([]models.Award, error)
}

type AwardInput struct {
	AchievementID string `json:"achievementId" binding:"required"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Points        int    `json:"points" binding:"gte=0"`
}

type AchievementService struct {
	log  logger.Log
	repo achievementRepo
	now  func() time.Time
}

func NewAchievementService(log logger.Log, repo achievementRepo) *AchievementService {
	return &AchievementService{
		log:  log,
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *AchievementService) Summary(ctx context.Context, userID string) (*models.AchievementSummary, error) {
	awards, err := s.repo.AwardsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if awards == nil {
		awards = []models.Award{}
	}
	total := totalPoints(awards)
	return &models.AchievementSummary{
		Achievements:    awards,
		TotalPoints:     total,
		Level:           level(total),
		NextLevelPoints: pointsPerLevel - total%pointsPerLevel,
	}, nil
}

func (s *AchievementService) Award(ctx context.Context, userID string, in AwardInput) (*models.Award, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(in.AchievementID) == "" {
		return nil, fmt.Errorf("%w: user id and achievement id are required", app_errors.ErrInvalidInput)
	}
	a := models.Award{
		UserID:        userID,
		AchievementID: in.AchievementID,
		Title:         in.Title,
		Description:   in.Description,
		Icon:          in.Icon,
		Points:        in.Points,
	}
	if a.Title == "" {
		a.Title = "New Achievement"
	}
	if a.Icon == "" {
		a.Icon = "🏆"
	}
	if a.Points == 0 {
		a.Points = 100
	}
	return s.grant(ctx, a)
}

func (s *AchievementService) grant(ctx context.Context, a models.Award) (*models.Award, error) {
	a.EarnedAt = s.now()
	if err := s.repo.AppendAward(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Leaderboard ranks users by earned points, highest first.
func (s *AchievementService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboard
	}
	awards, err := s.repo.AllAwards(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*models.LeaderboardEntry)
	for _, a := range awards {
		entry, ok := byUser[a.UserID]
		if !ok {
			entry = &models.LeaderboardEntry{UserID: a.UserID}
			byUser[a.UserID] = entry
		}
		entry.Points += a.Points
		entry.AchievementsCount++
	}

	board := make([]models.LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		e.Level = level(e.Points)
		board = append(board, *e)
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Points != board[j].Points {
			return board[i].Points > board[j].Points
		}
		return board[i].UserID < board[j].UserID
	})
	if len(board) > limit {
		board = board[:limit]
	}
	return board, nil
}

func (s *AchievementService) OnCourseCompleted(ctx context.Context, ev events.Event) error {
	return s.grantOnce(ctx, ev.Enrollment.UserID, FirstStep)
}

func (s *AchievementService) OnQuizGraded(ctx context.Context, ev events.Event) error {
	if ev.Score < perfectQuizScore {
		return nil
	}
	return s.grantOnce(ctx, ev.Enrollment.UserID, PerfectScore)
}

func (s *AchievementService) grantOnce(ctx context.Context, userID string, tmpl models.Award) error {
	tmpl.UserID = userID
	a, err := s.grant(ctx, tmpl)
	if errors.Is(err, app_errors.ErrAchievementAlreadyEarned) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("grant %s: %w", tmpl.AchievementID, err)
	}
	s.log.Info("achievement unlocked", "user_id", userID, "achievement", a.AchievementID, "points", a.Points)
	return nil
}

func totalPoints(awards []models.Award) int {
	total := 0
	for _, a := range awards {
		total += a.Points
	}
	return total
}

func level(points int) int {
	return points/pointsPerLevel + 1
}

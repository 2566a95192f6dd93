package models

import "time"

type Award struct {
	UserID        string    `json:"userId"`
	AchievementID string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Points        int       `json:"points"`
	EarnedAt      time.Time `json:"earnedAt"`
}

type AchievementSummary struct {
	Achievements    []Award `json:"achievements"`
	TotalPoints     int     `json:"totalPoints"`
	Level           int     `json:"level"`
	NextLevelPoints int     `json:"nextLevelPoints"`
}

type LeaderboardEntry struct {
	UserID            string `json:"userId"`
	Points            int    `json:"points"`
	Level             int    `json:"level"`
	AchievementsCount int    `json:"achievementsCount"`
}

package achievement

import (
	"EliteRegistry/internal/delivery/http/controllers"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/service/achievement"
	"EliteRegistry/pkg/logger"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AchievementService interface {
	Summary(ctx context.Context, userID string) (*models.AchievementSummary, error)
	Award(ctx context.Context, userID string, in achievement.AwardInput) (*models.Award, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type AchievementHandler struct {
	log     logger.Log
	service AchievementService
}

func NewAchievementHandler(log logger.Log, s AchievementService) *AchievementHandler {
	return &AchievementHandler{log: log, service: s}
}

func (h *AchievementHandler) Summary(c *gin.Context) {
	sum, err := h.service.Summary(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *AchievementHandler) Award(c *gin.Context) {
	var in achievement.AwardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	award, err := h.service.Award(c.Request.Context(), c.Param("user_id"), in)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Achievement awarded!", "achievement": award})
}

func (h *AchievementHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(achievement.DefaultLeaderboard)))
	board, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

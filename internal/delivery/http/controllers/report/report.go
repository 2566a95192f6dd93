package report

import (
	"EliteRegistry/internal/delivery/http/controllers"
	"EliteRegistry/internal/models"
	"EliteRegistry/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReportService interface {
	Stats(ctx context.Context) (*models.Stats, error)
	Activity(ctx context.Context) ([]models.ActivityDay, error)
}

type ReportHandler struct {
	log     logger.Log
	service ReportService
}

func NewReportHandler(log logger.Log, s ReportService) *ReportHandler {
	return &ReportHandler{log: log, service: s}
}

func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) Activity(c *gin.Context) {
	days, err := h.service.Activity(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	driver string
}

func NewStatusHandler(driver string) *StatusHandler {
	return &StatusHandler{driver: driver}
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Available", "storage": h.driver})
}

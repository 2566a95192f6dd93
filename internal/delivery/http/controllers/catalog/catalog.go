package catalog

import (
	"EliteRegistry/internal/delivery/http/controllers"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/service/catalog"
	"EliteRegistry/pkg/logger"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogService interface {
	Course(ctx context.Context, id string) (*models.Course, error)
	Courses(ctx context.Context) ([]models.Course, error)
	Search(ctx context.Context, query string, limit int) (*catalog.SearchResult, error)
	UpsertCourse(ctx context.Context, course models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

type CatalogHandler struct {
	log     logger.Log
	service CatalogService
}

func NewCatalogHandler(log logger.Log, s CatalogService) *CatalogHandler {
	return &CatalogHandler{log: log, service: s}
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	res, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CatalogHandler) Course(c *gin.Context) {
	course, err := h.service.Course(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CatalogHandler) UpsertCourse(c *gin.Context) {
	var course models.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if course.ID == "" {
		course.ID = c.Param("course_id")
	}
	if course.ID != c.Param("course_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course id in body does not match path"})
		return
	}

	saved, err := h.service.UpsertCourse(c.Request.Context(), course)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	if err := h.service.DeleteCourse(c.Request.Context(), c.Param("course_id")); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

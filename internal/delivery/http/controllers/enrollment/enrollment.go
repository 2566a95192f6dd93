package enrollment

import (
	"EliteRegistry/internal/delivery/http/controllers"
	"EliteRegistry/internal/delivery/http/controllers/middleware"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/service/enrollment"
	"EliteRegistry/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID, displayName string) (*models.Enrollment, error)
	ToggleLesson(ctx context.Context, userID, courseID, lessonID string, isCompleted bool) (*enrollment.ToggleResult, error)
	SubmitQuiz(ctx context.Context, userID, courseID, lessonID string, answers map[string]int) (*enrollment.QuizResult, error)
	Detail(ctx context.Context, userID, courseID string) (*models.EnrollmentDetail, error)
	Enrollments(ctx context.Context, userID string) ([]models.EnrollmentWithCourse, error)
	AllEnrollments(ctx context.Context) ([]models.Enrollment, error)
}

type EnrollmentHandler struct {
	log     logger.Log
	service EnrollmentService
}

func NewEnrollmentHandler(log logger.Log, s EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{log: log, service: s}
}

// targetUser resolves the user a request acts on: the explicit id when the
// caller may act for it, otherwise the caller. ok is false after a 403.
func targetUser(c *gin.Context, explicit string) (string, bool) {
	if explicit == "" {
		id, ok := middleware.ClientID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		}
		return id, ok
	}
	if !middleware.CanActFor(c, explicit) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot act for another user"})
		return "", false
	}
	return explicit, true
}

type enrollRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	userID, ok := targetUser(c, req.UserID)
	if !ok {
		return
	}
	name := req.UserName
	if name == "" && req.UserID == "" {
		name = c.GetString(middleware.ClientNameCtx)
	}

	e, err := h.service.Enroll(c.Request.Context(), userID, c.Param("course_id"), name)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

type progressRequest struct {
	UserID      string `json:"userId"`
	LessonID    string `json:"lessonId" binding:"required"`
	IsCompleted *bool  `json:"isCompleted" binding:"required"`
}

func (h *EnrollmentHandler) Progress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, ok := targetUser(c, req.UserID)
	if !ok {
		return
	}

	res, err := h.service.ToggleLesson(c.Request.Context(), userID, c.Param("course_id"), req.LessonID, *req.IsCompleted)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type quizRequest struct {
	UserID  string         `json:"userId"`
	Answers map[string]int `json:"answers" binding:"required"`
}

func (h *EnrollmentHandler) SubmitQuiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, ok := targetUser(c, req.UserID)
	if !ok {
		return
	}

	res, err := h.service.SubmitQuiz(c.Request.Context(), userID, c.Param("course_id"), c.Param("lesson_id"), req.Answers)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EnrollmentHandler) Enrollment(c *gin.Context) {
	userID, ok := targetUser(c, c.Query("userId"))
	if !ok {
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), userID, c.Param("course_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *EnrollmentHandler) UserEnrollments(c *gin.Context) {
	list, err := h.service.Enrollments(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *EnrollmentHandler) AllEnrollments(c *gin.Context) {
	list, err := h.service.AllEnrollments(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.Enrollment{}
	}
	c.JSON(http.StatusOK, list)
}

package controllers

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var statusByError = []struct {
	err    error
	status int
}{
	{app_errors.ErrAlreadyEnrolled, http.StatusConflict},
	{app_errors.ErrAchievementAlreadyEarned, http.StatusConflict},
	{app_errors.ErrUserExists, http.StatusConflict},
	{app_errors.ErrEnrollmentNotFound, http.StatusNotFound},
	{app_errors.ErrCourseNotFound, http.StatusNotFound},
	{app_errors.ErrLessonNotFound, http.StatusNotFound},
	{app_errors.ErrUserNotFound, http.StatusNotFound},
	{app_errors.ErrIndeterminateProgress, http.StatusUnprocessableEntity},
	{app_errors.ErrEmptyQuiz, http.StatusUnprocessableEntity},
	{app_errors.ErrNotQuizLesson, http.StatusUnprocessableEntity},
	{app_errors.ErrNotEligible, http.StatusForbidden},
	{app_errors.ErrRepositoryWrite, http.StatusServiceUnavailable},
	{app_errors.ErrHandoffUnavailable, http.StatusServiceUnavailable},
	{app_errors.ErrInvalidInput, http.StatusBadRequest},
	{app_errors.ErrInvalidCourse, http.StatusBadRequest},
	{app_errors.ErrIncorrectPassword, http.StatusBadRequest},
}

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// WriteError responds with the mapped status. Unexpected errors are logged
// and reported without detail.
func WriteError(c *gin.Context, log logger.Log, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.ErrorErr("unhandled error", err, "method", c.Request.Method, "path", c.FullPath())
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	if status == http.StatusServiceUnavailable {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

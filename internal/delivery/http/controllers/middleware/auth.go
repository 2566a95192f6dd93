package middleware

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/service/auth"
	"EliteRegistry/pkg/logger"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	AccessClaims(ctx context.Context, token string) (*auth.AccessTokenClaims, error)
	User(ctx context.Context, id string) (*models.User, error)
}

type AuthMiddlewareProvider struct {
	log     logger.Log
	service AuthService
}

func NewAuthMiddlewareProvider(log logger.Log, s AuthService) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:     log,
		service: s,
	}
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims, err := h.service.AccessClaims(c.Request.Context(), token)
	if err != nil {
		h.log.Debug("failed to parse token", logger.Err(err))
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
		return
	}

	user, err := h.service.User(c.Request.Context(), claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	c.Set(ClientIDCtx, user.ID)
	c.Set(ClientNameCtx, user.Username)
	c.Set(ClientRolesCtx, user.Roles)
	c.Next()
}

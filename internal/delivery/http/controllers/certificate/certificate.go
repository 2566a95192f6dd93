package certificate

import (
	"EliteRegistry/internal/delivery/http/controllers"
	"EliteRegistry/internal/delivery/http/controllers/middleware"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/service/certificate"
	"EliteRegistry/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CertificateService interface {
	Certificate(ctx context.Context, userID, courseID string) (models.Certificate, error)
	Publish(ctx context.Context, userID, courseID string) (string, error)
}

type CertificateHandler struct {
	log     logger.Log
	service CertificateService
}

func NewCertificateHandler(log logger.Log, s CertificateService) *CertificateHandler {
	return &CertificateHandler{log: log, service: s}
}

func (h *CertificateHandler) resolveUser(c *gin.Context) (string, bool) {
	userID := c.Query("userId")
	if userID == "" {
		userID, _ = middleware.ClientID(c)
	}
	if !middleware.CanActFor(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot access another user's certificate"})
		return "", false
	}
	return userID, true
}

type certificateResponse struct {
	models.Certificate
	Handoff *models.CertificateHandoff `json:"handoff,omitempty"`
}

// Certificate reports eligibility. Ineligible enrollments are not an error
// here; the body carries eligible=false.
func (h *CertificateHandler) Certificate(c *gin.Context) {
	userID, ok := h.resolveUser(c)
	if !ok {
		return
	}
	cert, err := h.service.Certificate(c.Request.Context(), userID, c.Param("course_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	resp := certificateResponse{Certificate: cert}
	if cert.Eligible {
		handoff := certificate.Handoff(cert)
		resp.Handoff = &handoff
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CertificateHandler) Publish(c *gin.Context) {
	userID, ok := h.resolveUser(c)
	if !ok {
		return
	}
	url, err := h.service.Publish(c.Request.Context(), userID, c.Param("course_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

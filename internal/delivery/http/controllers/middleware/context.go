package middleware

import (
	"EliteRegistry/internal/models"
	"slices"

	"github.com/gin-gonic/gin"
)

const (
	ClientIDCtx    = "client_id"
	ClientNameCtx  = "client_name"
	ClientRolesCtx = "client_roles"
)

func ClientID(c *gin.Context) (string, bool) {
	id := c.GetString(ClientIDCtx)
	return id, id != ""
}

func HasRole(c *gin.Context, role string) bool {
	raw, ok := c.Get(ClientRolesCtx)
	if !ok {
		return false
	}
	roles, ok := raw.([]string)
	return ok && slices.Contains(roles, role)
}

// CanActFor reports whether the caller may read or change userID's data.
func CanActFor(c *gin.Context, userID string) bool {
	if HasRole(c, models.AdminRole) {
		return true
	}
	id, ok := ClientID(c)
	return ok && id == userID
}

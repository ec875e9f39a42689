package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
	"merchant-crm.backend/internal/interfaces/http/middleware"
)

// actor extracts the authenticated actor from the gin context. Aborts with
// 401 when the auth middleware did not run.
func actor(c *gin.Context) (uuid.UUID, entities.UserRole, bool) {
	id, okID := middleware.GetUserID(c)
	role, okRole := middleware.GetUserRole(c)
	if !okID || !okRole {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, "", false
	}
	return id, role, true
}

// merchantIDParam parses the :merchantId path parameter. Aborts with 400 on
// a malformed UUID.
func merchantIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("merchantId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid merchant ID"})
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muselink/muselink-api/internal/middleware"
	"github.com/muselink/muselink-api/internal/models"
)

// sessionClaims extracts the authenticated session from the gin context.
func sessionClaims(c *gin.Context) (*models.SessionClaims, bool) {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.SessionClaims)
	return claims, ok
}

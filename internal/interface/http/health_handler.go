package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health GET /api/health
func Health(c *gin.Context) {
	c.String(http.StatusOK, "API running")
}

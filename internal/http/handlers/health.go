package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/markoori/variant-backend/internal/http/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok"})
}

// Root keeps the legacy status body some clients poll.
func (h *HealthHandler) Root(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"status":   "Variant Backend is Active",
		"database": "Connected",
	})
}

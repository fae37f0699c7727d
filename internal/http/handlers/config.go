package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/markoori/variant-backend/internal/http/response"
	"github.com/markoori/variant-backend/internal/services"
)

type ConfigHandler struct {
	assignments services.AssignmentService
}

func NewConfigHandler(assignments services.AssignmentService) *ConfigHandler {
	return &ConfigHandler{assignments: assignments}
}

// GetConfig returns the variant assignment for every active experiment as
// a flat list, the shape the client SDKs consume.
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	userID := c.Query("userId")
	assignments, err := h.assignments.GetAssignments(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, assignments)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markoori/variant-backend/internal/http/response"
	"github.com/markoori/variant-backend/internal/services"
)

type TrackHandler struct {
	tracking services.TrackingService
}

func NewTrackHandler(tracking services.TrackingService) *TrackHandler {
	return &TrackHandler{tracking: tracking}
}

// Track appends one event. No field is required at this layer; absent
// fields are recorded empty.
func (h *TrackHandler) Track(c *gin.Context) {
	var input services.TrackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := h.tracking.Record(c.Request.Context(), input); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"status": "recorded"})
}

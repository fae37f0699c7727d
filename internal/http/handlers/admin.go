package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markoori/variant-backend/internal/auth"
	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/http/response"
	"github.com/markoori/variant-backend/internal/services"
)

type AdminHandler struct {
	experiments services.ExperimentService
	reporting   services.ReportingService
	authorizer  auth.Authorizer
}

func NewAdminHandler(experiments services.ExperimentService, reporting services.ReportingService, authorizer auth.Authorizer) *AdminHandler {
	return &AdminHandler{
		experiments: experiments,
		reporting:   reporting,
		authorizer:  authorizer,
	}
}

func (h *AdminHandler) CreateExperiment(c *gin.Context) {
	var input services.CreateExperimentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	id, err := h.experiments.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"message": "Experiment created",
		"id":      id,
	})
}

// experimentSummary is the admin list row: the identifier is omitted.
type experimentSummary struct {
	Name     string           `json:"name"`
	Key      string           `json:"key"`
	Status   string           `json:"status"`
	Variants []domain.Variant `json:"variants"`
}

func (h *AdminHandler) ListExperiments(c *gin.Context) {
	experiments, err := h.experiments.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]experimentSummary, 0, len(experiments))
	for _, exp := range experiments {
		out = append(out, experimentSummary{
			Name:     exp.Name,
			Key:      exp.Key,
			Status:   exp.Status,
			Variants: exp.Variants,
		})
	}
	response.RespondOK(c, out)
}

func (h *AdminHandler) UpdateExperiment(c *gin.Context) {
	var input services.UpdateExperimentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := h.experiments.Update(c.Request.Context(), c.Param("key"), input); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Experiment updated"})
}

func (h *AdminHandler) DeleteExperiment(c *gin.Context) {
	if err := h.experiments.Delete(c.Request.Context(), c.Param("key")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Experiment deleted"})
}

func (h *AdminHandler) ResetStats(c *gin.Context) {
	deleted, err := h.reporting.ResetStats(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": fmt.Sprintf("Cleared %d events", deleted)})
}

func (h *AdminHandler) Summary(c *gin.Context) {
	summary, err := h.reporting.Summarize(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, summary)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if !h.authorizer.Authorize(req.Password) {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid password"))
		return
	}
	response.RespondOK(c, gin.H{"status": "ok"})
}

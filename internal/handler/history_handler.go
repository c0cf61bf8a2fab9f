package handler

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/service"
	"github.com/jengzang/location-history-go/pkg/response"
)

// HistoryHandler serves the summarized travel history
type HistoryHandler struct {
	service *service.SummaryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service *service.SummaryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// GetView handles GET /api/v1/history/:view
func (h *HistoryHandler) GetView(c *gin.Context) {
	name := c.Param("view")
	if !slices.Contains(models.Views, name) {
		response.NotFound(c, "Unknown history view")
		return
	}

	view, err := h.service.View(c.Request.Context(), name)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to summarize history", err)
		return
	}

	response.Success(c, gin.H{
		"view":  name,
		"data":  view,
		"total": len(view),
	})
}

// ListViews handles GET /api/v1/history
func (h *HistoryHandler) ListViews(c *gin.Context) {
	response.Success(c, models.Views)
}

// GetStatistics handles GET /api/v1/stats
func (h *HistoryHandler) GetStatistics(c *gin.Context) {
	st, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to summarize history", err)
		return
	}
	response.Success(c, st)
}

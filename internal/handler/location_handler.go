package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/metrics"
	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/service"
	"github.com/jengzang/location-history-go/pkg/response"
)

// LocationHandler handles HTTP requests for location updates
type LocationHandler struct {
	service *service.LocationService
	now     func() time.Time
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service *service.LocationService) *LocationHandler {
	return &LocationHandler{service: service, now: time.Now}
}

// UpdateLocation handles POST /api/v1/location
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req models.OwnTracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LocationUpdates.WithLabelValues(metrics.OutcomeRejected, "body").Inc()
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	at := h.now().UTC()
	if req.Tst > 0 {
		at = time.Unix(req.Tst, 0).UTC()
	}
	_, skipCheck := c.GetQuery("skip_check")

	resp, err := h.service.Update(c.Request.Context(), service.UpdateRequest{
		Lat:       req.Lat,
		Lon:       req.Lon,
		Time:      at,
		SkipCheck: skipCheck,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSkipped):
			response.Message(c, err.Error())
			return
		case errors.Is(err, service.ErrCountryNotFound):
			h.failed(c, req, "country", "country not found", err)
		case errors.Is(err, service.ErrTimezoneNotFound):
			h.failed(c, req, "timezone", "timezone not found", err)
		default:
			h.failed(c, req, "internal", "Failed to update location", err)
		}
		return
	}

	response.Created(c, resp.Message, resp)
}

func (h *LocationHandler) failed(c *gin.Context, req models.OwnTracksRequest, reason, message string, err error) {
	metrics.LocationUpdates.WithLabelValues(metrics.OutcomeFailed, reason).Inc()
	logging.With("location").Error().Err(err).
		Float64("lat", req.Lat).Float64("lon", req.Lon).Int64("tst", req.Tst).
		Msg(message)
	response.InternalError(c, message, err)
}

// GetLatest handles GET /api/v1/location
func (h *LocationHandler) GetLatest(c *gin.Context) {
	latest, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to get location", err)
		return
	}
	if latest == nil {
		response.NotFound(c, "No location recorded yet")
		return
	}
	response.Success(c, latest)
}

package alerts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/andromeda/internal/logging"
	"github.com/mbd888/andromeda/internal/metrics"
)

// EventEmitter broadcasts alert review changes.
type EventEmitter interface {
	EmitAlertUpdated(alert *Alert)
}

// Handler provides HTTP endpoints for alerts
type Handler struct {
	store  Store
	events EventEmitter
}

// NewHandler creates a new alerts handler
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// WithEvents adds event emitter
func (h *Handler) WithEvents(events EventEmitter) *Handler {
	h.events = events
	return h
}

// RegisterRoutes sets up alert routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/alerts", h.ListAlerts)
	r.GET("/alerts/counts", h.GetCounts)
	r.GET("/alerts/:id", h.GetAlert)
	r.PATCH("/alerts/:id", h.UpdateStatus)
}

// ListAlerts handles GET /alerts?status=&severity=&wallet=&limit=
func (h *Handler) ListAlerts(c *gin.Context) {
	filter := Filter{
		Status:   Status(c.Query("status")),
		Severity: Severity(c.Query("severity")),
		Wallet:   c.Query("wallet"),
		Limit:    100,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_status",
			"message": "status must be one of active, investigating, resolved, false_positive",
		})
		return
	}
	if filter.Severity != "" && !filter.Severity.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_severity",
			"message": "severity must be one of low, medium, high, critical",
		})
		return
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			filter.Limit = parsed
		}
	}

	list, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "list_failed",
			"message": "Failed to list alerts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": list,
		"count":  len(list),
	})
}

// GetCounts handles GET /alerts/counts
func (h *Handler) GetCounts(c *gin.Context) {
	counts, err := h.store.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "count_failed",
			"message": "Failed to count alerts",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// GetAlert handles GET /alerts/:id
func (h *Handler) GetAlert(c *gin.Context) {
	alert, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Alert not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// UpdateStatusRequest moves an alert through review.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /alerts/:id
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	alert, err := h.store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		metrics.AlertStatusUpdatesTotal.WithLabelValues(statusLabel(req.Status), "rejected").Inc()
		switch {
		case errors.Is(err, ErrAlertNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Alert not found"})
		case errors.Is(err, ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status", "message": err.Error()})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed", "message": "Failed to update alert"})
		}
		return
	}

	metrics.AlertStatusUpdatesTotal.WithLabelValues(string(alert.Status), "applied").Inc()
	logging.L(c.Request.Context()).Info("alert status updated",
		"alert_id", alert.ID, "status", alert.Status, "wallet", alert.WalletAddress)

	if h.events != nil {
		h.events.EmitAlertUpdated(alert)
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// statusLabel keeps client-supplied statuses out of metric labels.
func statusLabel(s Status) string {
	if !s.IsValid() {
		return "invalid"
	}
	return string(s)
}

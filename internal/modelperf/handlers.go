package modelperf

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler provides HTTP endpoints for model performance
type Handler struct {
	tracker *Tracker
}

// NewHandler creates a new model performance handler
func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// RegisterRoutes sets up model routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/models", h.GetModels)
	r.POST("/models/retrain", h.Retrain)
}

// GetModels handles GET /models
func (h *Handler) GetModels(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

// Retrain handles POST /models/retrain. The retrain outlives the request.
func (h *Handler) Retrain(c *gin.Context) {
	if _, err := h.tracker.Retrain(context.WithoutCancel(c.Request.Context())); err != nil {
		if errors.Is(err, ErrRetrainInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "retrain_in_progress",
				"message": "A retrain is already running",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "retrain_failed",
			"message": "Failed to start retrain",
		})
		return
	}
	c.JSON(http.StatusAccepted, h.tracker.Snapshot())
}

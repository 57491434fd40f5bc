package monitor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/logging"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/simulator"
	"github.com/mbd888/andromeda/internal/validation"
)

// Handler provides HTTP endpoints for the live feed
type Handler struct {
	monitor *Monitor
}

// NewHandler creates a new feed handler
func NewHandler(m *Monitor) *Handler {
	return &Handler{monitor: m}
}

// RegisterRoutes sets up feed and transaction routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/feed", h.GetFeed)
	r.GET("/feed/stats", h.GetStats)
	r.GET("/feed/status", h.GetStatus)
	r.POST("/feed/pause", h.Pause)
	r.POST("/feed/resume", h.Resume)
	r.POST("/feed/tick", h.Tick)

	r.GET("/transactions/:id", h.GetTransaction)
	r.GET("/transactions/:id/breakdown", h.GetBreakdown)
	r.POST("/transactions/:id/simulate", h.Simulate)
	r.GET("/transactions/:id/prompt", h.GetPrompt)
}

// ParseFilter reads feed filter query parameters:
// search, risk, classification, minGas, pattern, limit.
func ParseFilter(c *gin.Context) (Filter, error) {
	f := Filter{
		Search:         validation.SanitizeString(c.Query("search"), 128),
		Band:           RiskBand(c.Query("risk")),
		Classification: risk.Classification(c.Query("classification")),
		Pattern:        validation.SanitizeString(c.Query("pattern"), 64),
	}
	if f.Band == "all" {
		f.Band = ""
	}
	if f.Classification == "all" {
		f.Classification = ""
	}
	if f.Band != "" && !f.Band.IsValid() {
		return f, errors.New("risk must be one of low, medium, high")
	}
	if f.Classification != "" && !f.Classification.IsValid() {
		return f, errors.New("classification must be one of normal, suspicious, malicious")
	}
	if g := c.Query("minGas"); g != "" {
		parsed, err := strconv.ParseUint(g, 10, 64)
		if err != nil {
			return f, errors.New("minGas must be a non-negative integer")
		}
		f.MinGas = parsed
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			f.Limit = parsed
		}
	}
	return f, nil
}

// GetFeed handles GET /feed
func (h *Handler) GetFeed(c *gin.Context) {
	f, err := ParseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_filter",
			"message": err.Error(),
		})
		return
	}

	entries := h.monitor.Feed(f)
	c.JSON(http.StatusOK, gin.H{
		"transactions": entries,
		"count":        len(entries),
		"stats":        h.monitor.Stats(),
	})
}

// GetStats handles GET /feed/stats
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.monitor.Stats()})
}

// GetStatus handles GET /feed/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Status())
}

// Pause handles POST /feed/pause
func (h *Handler) Pause(c *gin.Context) {
	h.monitor.Pause()
	c.JSON(http.StatusOK, h.monitor.Status())
}

// Resume handles POST /feed/resume
func (h *Handler) Resume(c *gin.Context) {
	h.monitor.Resume()
	c.JSON(http.StatusOK, h.monitor.Status())
}

// Tick handles POST /feed/tick, running the pipeline once on demand.
func (h *Handler) Tick(c *gin.Context) {
	ev, err := h.monitor.Tick(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("manual tick failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "tick_failed",
			"message": "Failed to record tick",
		})
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *Handler) lookup(c *gin.Context) (ledger.Entry, bool) {
	entry, err := h.monitor.Lookup(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Transaction not found in the live feed",
		})
		return ledger.Entry{}, false
	}
	return entry, true
}

// GetTransaction handles GET /transactions/:id
func (h *Handler) GetTransaction(c *gin.Context) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}

// GetBreakdown handles GET /transactions/:id/breakdown
func (h *Handler) GetBreakdown(c *gin.Context) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, risk.Explain(entry.Transaction, entry.Analysis))
}

// Simulate handles POST /transactions/:id/simulate
func (h *Handler) Simulate(c *gin.Context) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}
	results := simulator.Simulate(entry.Transaction, entry.Analysis)
	c.JSON(http.StatusOK, gin.H{
		"transactionId": entry.ID,
		"results":       results,
		"count":         len(results),
	})
}

// GetPrompt handles GET /transactions/:id/prompt?action=analyze|explain
func (h *Handler) GetPrompt(c *gin.Context) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}
	prompt, ok := Prompt(entry, PromptAction(c.DefaultQuery("action", string(ActionExplain))))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_action",
			"message": "action must be one of analyze, explain",
		})
		return
	}
	c.JSON(http.StatusOK, prompt)
}

package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/andromeda/internal/alerts"
	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/logging"
	"github.com/mbd888/andromeda/internal/monitor"
)

const contentType = "text/csv; charset=utf-8"

// FeedSource returns the filtered live feed.
type FeedSource interface {
	Feed(f monitor.Filter) []ledger.Entry
}

// Handler serves CSV downloads
type Handler struct {
	feed   FeedSource
	alerts alerts.Store
	now    func() time.Time
}

// NewHandler creates a new export handler
func NewHandler(feed FeedSource, store alerts.Store) *Handler {
	return &Handler{feed: feed, alerts: store, now: time.Now}
}

// RegisterRoutes sets up export routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/feed/export.csv", h.ExportFeed)
	r.GET("/alerts/export.csv", h.ExportAlerts)
}

func (h *Handler) filename(kind string) string {
	return fmt.Sprintf("%s-%s.csv", kind, h.now().UTC().Format("2006-01-02"))
}

func (h *Handler) send(c *gin.Context, name string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ExportFeed handles GET /feed/export.csv, accepting the same filters as /feed.
func (h *Handler) ExportFeed(c *gin.Context) {
	f, err := monitor.ParseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_filter",
			"message": err.Error(),
		})
		return
	}

	var buf bytes.Buffer
	if err := Transactions(&buf, h.feed.Feed(f)); err != nil {
		logging.L(c.Request.Context()).Error("transaction export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "export_failed",
			"message": "Failed to export transactions",
		})
		return
	}
	h.send(c, h.filename("security-transactions"), &buf)
}

// ExportAlerts handles GET /alerts/export.csv?status=&severity=
func (h *Handler) ExportAlerts(c *gin.Context) {
	filter := alerts.Filter{
		Status:   alerts.Status(c.Query("status")),
		Severity: alerts.Severity(c.Query("severity")),
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

	ctx := c.Request.Context()
	list, err := h.alerts.List(ctx, filter)
	if err != nil {
		logging.L(ctx).Error("alert listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "list_failed",
			"message": "Failed to list alerts",
		})
		return
	}

	var buf bytes.Buffer
	if err := Alerts(&buf, list); err != nil {
		logging.L(ctx).Error("alert export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "export_failed",
			"message": "Failed to export alerts",
		})
		return
	}
	h.send(c, h.filename("security-alerts"), &buf)
}

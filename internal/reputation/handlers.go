package reputation

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/andromeda/internal/validation"
)

// Handler provides HTTP endpoints for wallet reputation
type Handler struct {
	service       *Service
	snapshotStore SnapshotStore
}

// NewHandler creates a new reputation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// WithSnapshots enables the reputation history endpoint.
func (h *Handler) WithSnapshots(store SnapshotStore) *Handler {
	h.snapshotStore = store
	return h
}

// RegisterRoutes sets up reputation endpoints
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	addr := validation.AddressParamMiddleware()
	r.GET("/wallets", h.ListWallets)
	r.GET("/wallets/:address", addr, h.GetWallet)
	r.GET("/wallets/:address/reputation-history", addr, h.GetReputationHistory)
}

// ListWallets handles GET /wallets?search=&risk=
func (h *Handler) ListWallets(c *gin.Context) {
	f := Filter{
		Search:    validation.SanitizeString(c.Query("search"), 64),
		RiskLevel: RiskLevel(c.Query("risk")),
	}
	if f.RiskLevel == "all" {
		f.RiskLevel = ""
	}
	if f.RiskLevel != "" && !f.RiskLevel.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_risk_level",
			"message": "risk must be one of low, medium, high, blocked",
		})
		return
	}

	wallets := h.service.List(f)
	c.JSON(http.StatusOK, gin.H{
		"wallets": wallets,
		"count":   len(wallets),
		"counts":  Counts(h.service.List(Filter{})),
	})
}

// GetWallet handles GET /wallets/:address
func (h *Handler) GetWallet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"wallet": h.service.Get(c.Param("address"))})
}

// GetReputationHistory returns historical reputation snapshots.
// GET /v1/wallets/:address/reputation-history?from=&to=&limit=
func (h *Handler) GetReputationHistory(c *gin.Context) {
	address := c.Param("address")

	if h.snapshotStore == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":   "not_available",
			"message": "Historical reputation data is not available",
		})
		return
	}

	q := HistoryQuery{
		Address: address,
		Limit:   100,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			q.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			q.To = t
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			q.Limit = parsed
			if q.Limit > 1000 {
				q.Limit = 1000
			}
		}
	}

	snapshots, err := h.snapshotStore.Query(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to query reputation history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":   address,
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

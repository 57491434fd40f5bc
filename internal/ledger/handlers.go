package ledger

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/andromeda/internal/validation"
)

// EventEmitter broadcasts block list changes.
type EventEmitter interface {
	EmitWalletBlocked(address string, blocked bool)
}

// Handler provides HTTP endpoints for wallet ledger operations
type Handler struct {
	ledger *Ledger
	events EventEmitter
	logger *slog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(ledger *Ledger, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, logger: logger}
}

// WithEvents adds event emitter
func (h *Handler) WithEvents(events EventEmitter) *Handler {
	h.events = events
	return h
}

// RegisterRoutes sets up ledger routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	addr := validation.AddressParamMiddleware()
	r.GET("/wallets/blocked", h.ListBlocked)
	r.GET("/wallets/:address/history", addr, h.GetHistory)
	r.POST("/wallets/:address/block", addr, h.Block)
	r.DELETE("/wallets/:address/block", addr, h.Unblock)
}

// ListBlocked handles GET /wallets/blocked
func (h *Handler) ListBlocked(c *gin.Context) {
	blocked := h.ledger.Blocked()
	c.JSON(http.StatusOK, gin.H{
		"wallets": blocked,
		"count":   len(blocked),
	})
}

// GetHistory handles GET /wallets/:address/history?limit=
func (h *Handler) GetHistory(c *gin.Context) {
	address := c.Param("address")
	entries := h.ledger.History(address)

	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed < len(entries) {
			entries = entries[:parsed]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"blocked": h.ledger.IsBlocked(address),
		"entries": entries,
		"count":   len(entries),
	})
}

// Block handles POST /wallets/:address/block
func (h *Handler) Block(c *gin.Context) {
	address := c.Param("address")
	if h.ledger.Block(address) {
		h.logger.Info("wallet blocked", "address", address)
		if h.events != nil {
			h.events.EmitWalletBlocked(address, true)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"blocked": true,
	})
}

// Unblock handles DELETE /wallets/:address/block
func (h *Handler) Unblock(c *gin.Context) {
	address := c.Param("address")
	if h.ledger.Unblock(address) {
		h.logger.Info("wallet unblocked", "address", address)
		if h.events != nil {
			h.events.EmitWalletBlocked(address, false)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"blocked": false,
	})
}

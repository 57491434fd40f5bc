package chat

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/andromeda/internal/logging"
	"github.com/mbd888/andromeda/internal/validation"
)

// StatsProvider supplies the live counters data-bearing replies render with.
type StatsProvider interface {
	ChatStats(ctx context.Context) Stats
}

// Handler provides HTTP endpoints for the assistant
type Handler struct {
	service *Service
	stats   StatsProvider
}

// NewHandler creates a new chat handler
func NewHandler(service *Service, stats StatsProvider) *Handler {
	return &Handler{service: service, stats: stats}
}

// RegisterRoutes sets up chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)
	r.GET("/chat/welcome", h.GetWelcome)
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	Language       string `json:"language"`
	Mode           Mode   `json:"mode"`
	ConversationID string `json:"conversationId"`
}

// Chat handles POST /chat
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "message is required",
		})
		return
	}

	if errs := validation.Validate(
		validation.Required("message", req.Message),
		validation.MaxLength("message", req.Message, validation.MaxMessageLength),
		validation.MaxLength("language", req.Language, 8),
		validation.MaxLength("conversationId", req.ConversationID, 64),
		validation.OneOf("mode", string(req.Mode), string(ModeAssistant), string(ModeThreat), string(ModeEducation)),
	); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": errs.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	var stats Stats
	if h.stats != nil {
		stats = h.stats.ChatStats(ctx)
	}

	reply, err := h.service.Reply(ctx, req.ConversationID, Request{
		Message:  validation.SanitizeString(req.Message, validation.MaxMessageLength),
		Language: req.Language,
		Mode:     req.Mode,
		Stats:    stats,
	})
	if err != nil {
		logging.L(ctx).Debug("chat reply abandoned", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "cancelled",
			"message": "Request cancelled before a reply was ready",
		})
		return
	}

	c.JSON(http.StatusOK, reply)
}

// GetWelcome handles GET /chat/welcome?lang=
func (h *Handler) GetWelcome(c *gin.Context) {
	c.JSON(http.StatusOK, Welcome(c.DefaultQuery("lang", DefaultLanguage)))
}

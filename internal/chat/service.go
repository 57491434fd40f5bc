package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbd888/andromeda/internal/metrics"
	"github.com/mbd888/andromeda/internal/rng"
	"github.com/mbd888/andromeda/internal/traces"
)

// Reply is a resolved Response stamped with identifiers.
type Reply struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Timestamp      int64  `json:"timestamp"`
	Response
}

// Service wraps the resolver with a "thinking" delay, IDs and telemetry.
type Service struct {
	resolver *Resolver
	src      rng.Source
	minDelay time.Duration
	maxDelay time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a chat service with no delay.
func NewService(resolver *Resolver, src rng.Source, logger *slog.Logger) *Service {
	return &Service{
		resolver: resolver,
		src:      src,
		now:      time.Now,
		logger:   logger,
	}
}

// WithDelay sets the window the thinking delay is drawn from.
func (s *Service) WithDelay(lo, hi time.Duration) *Service {
	if hi < lo {
		hi = lo
	}
	s.minDelay, s.maxDelay = lo, hi
	return s
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Reply waits out the thinking delay and resolves req. It returns ctx.Err()
// if the caller goes away first. conversationID is generated when empty.
func (s *Service) Reply(ctx context.Context, conversationID string, req Request) (*Reply, error) {
	ctx, span := traces.StartSpan(ctx, "chat.reply")
	defer span.End()

	if err := s.think(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := s.resolver.Resolve(req)
	span.SetAttributes(
		traces.ChatIntent(resp.Intent),
		traces.Language(resp.Language),
	)
	metrics.ChatRepliesTotal.WithLabelValues(string(resp.Category), metricLanguage(resp.Language)).Inc()

	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	s.logger.Debug("chat reply",
		"conversation_id", conversationID,
		"intent", resp.Intent,
		"language", resp.Language,
	)

	return &Reply{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Timestamp:      s.now().UnixMilli(),
		Response:       resp,
	}, nil
}

func (s *Service) think(ctx context.Context) error {
	if s.maxDelay <= 0 {
		return ctx.Err()
	}
	d := s.minDelay + time.Duration(rng.Uniform(s.src, 0, float64(s.maxDelay-s.minDelay)))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package server wires the security dashboard together and serves its API.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mbd888/andromeda/internal/alerts"
	"github.com/mbd888/andromeda/internal/chat"
	"github.com/mbd888/andromeda/internal/config"
	"github.com/mbd888/andromeda/internal/export"
	"github.com/mbd888/andromeda/internal/health"
	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/logging"
	"github.com/mbd888/andromeda/internal/metrics"
	"github.com/mbd888/andromeda/internal/modelperf"
	"github.com/mbd888/andromeda/internal/monitor"
	"github.com/mbd888/andromeda/internal/ratelimit"
	"github.com/mbd888/andromeda/internal/realtime"
	"github.com/mbd888/andromeda/internal/reputation"
	"github.com/mbd888/andromeda/internal/retry"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/rng"
	"github.com/mbd888/andromeda/internal/security"
	"github.com/mbd888/andromeda/internal/sink"
	"github.com/mbd888/andromeda/internal/traces"
	"github.com/mbd888/andromeda/internal/txgen"
	"github.com/mbd888/andromeda/internal/validation"
)

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg            *config.Config
	version        string
	rngs           *rng.Factory
	ledger         *ledger.Ledger
	alerts         alerts.Store
	monitor        *monitor.Monitor
	chat           *chat.Service
	models         *modelperf.Tracker
	reputation     *reputation.Service
	snapshots      reputation.SnapshotStore
	snapshotWorker *reputation.Worker
	fanout         *sink.Fanout
	extraSinks     []sink.Sink
	realtimeHub    *realtime.Hub
	checks         *health.Registry
	rateLimiter    *ratelimit.Limiter
	router         *gin.Engine
	httpSrv        *http.Server
	logger         *slog.Logger
	drainDelay     time.Duration
	shutdownTraces func(context.Context) error
	cancelRunCtx   context.CancelFunc // cancels background goroutines started in Run

	// Health state
	ready   atomic.Bool
	healthy atomic.Bool
}

// Option configures the server
type Option func(*Server)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /health
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithSinks adds event sinks on top of the ones the config enables.
func WithSinks(sinks ...sink.Sink) Option {
	return func(s *Server) {
		s.extraSinks = append(s.extraSinks, sinks...)
	}
}

// WithDrainDelay sets how long shutdown waits for load balancers to notice
// the failing readiness check before closing listeners.
func WithDrainDelay(d time.Duration) Option {
	return func(s *Server) {
		s.drainDelay = d
	}
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		version:    "dev",
		logger:     logging.New(cfg.LogLevel, cfg.LogFormat),
		drainDelay: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()

	s.rngs = rng.FromSeed(cfg.RNGSeed)
	if s.rngs.Mode() == rng.Deterministic {
		s.logger.Info("deterministic simulation", "seed", cfg.RNGSeed)
	}

	shutdownTraces, err := traces.Init(ctx, cfg.OTLPEndpoint, s.version, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	s.shutdownTraces = shutdownTraces

	s.realtimeHub = realtime.NewHub(s.logger).WithAllowedOrigins(cfg.AllowedOrigins)
	s.checks = health.NewRegistry()

	// Event sinks. One that still cannot connect after retrying is fatal.
	sinks := append([]sink.Sink(nil), s.extraSinks...)
	if len(cfg.Kafka.Brokers) > 0 {
		var ks *sink.KafkaSink
		err := s.connectSink(ctx, "kafka", func() (err error) {
			ks, err = sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, nil)
			return err
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, ks)
		s.logger.Info("kafka sink enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	if cfg.Redis.URL != "" {
		var rs *sink.RedisSink
		err := s.connectSink(ctx, "redis", func() (err error) {
			rs, err = sink.NewRedisSink(ctx, cfg.Redis.URL, cfg.Redis.Channel)
			return err
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, rs)
		s.checks.Register("redis", health.Ping("redis", rs, 2*time.Second))
		s.logger.Info("redis sink enabled", "channel", cfg.Redis.Channel)
	}
	s.fanout = sink.NewFanout(s.logger, sinks...)
	if s.fanout.Len() > 0 {
		s.checks.Register("sinks", sinkBreakerCheck(s.fanout))
	}

	// Detection pipeline
	s.ledger = ledger.New()
	s.alerts = alerts.NewMemoryStore()
	pipeline := monitor.NewPipeline(
		txgen.New(s.rngs.Stream("txgen"), s.ledger),
		risk.NewScorer(s.rngs.Stream("risk")),
		alerts.NewEmitter(s.rngs.Stream("alerts")),
		s.ledger,
		s.alerts,
	)

	publishers := []monitor.Publisher{&hubPublisher{hub: s.realtimeHub}}
	if s.fanout.Len() > 0 {
		publishers = append(publishers, s.fanout)
	}
	s.monitor = monitor.New(pipeline, s.alerts, s.rngs.Stream("monitor"), s.logger).
		WithInterval(cfg.Feed.MinInterval, cfg.Feed.MaxInterval).
		WithPublishers(publishers...)
	if !cfg.Feed.Autostart {
		s.monitor.Pause()
	}
	s.checks.Register("feed", health.Freshness("feed",
		s.monitor.LastTick,
		3*cfg.Feed.MaxInterval,
		func() bool {
			st := s.monitor.Status()
			return !st.Running || st.Paused
		},
		nil,
	))

	// Assistant
	resolver := chat.NewResolver(s.rngs.Stream("chat"), chat.TranslatorFor(cfg.Chat.Translator))
	s.chat = chat.NewService(resolver, s.rngs.Stream("chat.delay"), s.logger).
		WithDelay(cfg.Chat.MinDelay, cfg.Chat.MaxDelay)

	// Model performance
	s.models = modelperf.New(s.rngs.Stream("models"), s.logger).
		WithRetrainDuration(cfg.Models.RetrainDuration).
		WithEvents(&modelEventEmitter{hub: s.realtimeHub})

	// Wallet reputation
	s.reputation = reputation.NewService(s.ledger, reputation.NewCalculator(), txgen.Pool)
	s.snapshots = reputation.NewMemorySnapshotStore()
	if cfg.ReputationSnapshotInterval > 0 {
		s.snapshotWorker = reputation.NewWorker(s.reputation, s.snapshots, cfg.ReputationSnapshotInterval, s.logger)
	}

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)
	return s, nil
}

const (
	sinkConnectAttempts = 4
	sinkConnectBackoff  = 500 * time.Millisecond
)

func (s *Server) connectSink(ctx context.Context, name string, connect func() error) error {
	return retry.DoNotify(ctx, sinkConnectAttempts, sinkConnectBackoff, connect,
		func(attempt int, err error, wait time.Duration) {
			s.logger.Warn("sink connect failed, retrying",
				"sink", name, "attempt", attempt, "wait", wait, "error", err)
		})
}

// sinkBreakerCheck reports unhealthy while any sink is being skipped.
func sinkBreakerCheck(f *sink.Fanout) health.Checker {
	return func(context.Context) health.Status {
		if tripped := f.Tripped(); len(tripped) > 0 {
			return health.Status{Healthy: false, Detail: "circuit open: " + strings.Join(tripped, ", ")}
		}
		return health.Status{Healthy: true}
	}
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) setupMiddleware() {
	// Recovery with logging
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}))

	s.router.Use(security.HeadersMiddleware())
	s.router.Use(security.CORSMiddleware(s.cfg.AllowedOrigins))
	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))

	s.rateLimiter = ratelimit.New(ratelimit.ForRPM(s.cfg.RateLimitRPM))
	s.router.Use(s.rateLimiter.Middleware())

	s.router.Use(metrics.Middleware())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := logging.L(c.Request.Context())

		switch {
		case status >= 500:
			logger.Error("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		case status >= 400:
			logger.Warn("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		case path == "/health/live" || path == "/health/ready" || path == "/metrics":
			// Health check and scrape traffic
			logger.Debug("request completed", "path", path, "status", status)
		default:
			logger.Info("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}
	}
}

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	// Health & metrics endpoints
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/health/live", s.livenessHandler)
	s.router.GET("/health/ready", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	// WebSocket for real-time streaming
	s.router.GET("/ws", func(c *gin.Context) {
		s.realtimeHub.HandleWebSocket(c.Writer, c.Request)
	})

	v1 := s.router.Group("/v1")

	monitor.NewHandler(s.monitor).RegisterRoutes(v1)
	export.NewHandler(s.monitor, s.alerts).RegisterRoutes(v1)
	alerts.NewHandler(s.alerts).
		WithEvents(&alertEventEmitter{hub: s.realtimeHub}).
		RegisterRoutes(v1)
	ledger.NewHandler(s.ledger, s.logger).
		WithEvents(&walletEventEmitter{hub: s.realtimeHub}).
		RegisterRoutes(v1)
	reputation.NewHandler(s.reputation).
		WithSnapshots(s.snapshots).
		RegisterRoutes(v1)
	chat.NewHandler(s.chat, s.monitor).RegisterRoutes(v1)
	modelperf.NewHandler(s.models).RegisterRoutes(v1)

	v1.GET("/realtime/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.realtimeHub.Stats())
	})
}

// -----------------------------------------------------------------------------
// Health
// -----------------------------------------------------------------------------

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
	Details   []health.Status   `json:"details,omitempty"`
	Timestamp string            `json:"timestamp"`
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ok, statuses := s.checks.CheckAll(ctx)
	checks := make(map[string]string, len(statuses))
	for _, st := range statuses {
		if st.Healthy {
			checks[st.Name] = "healthy"
		} else {
			checks[st.Name] = "unhealthy"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !ok {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   s.version,
		Checks:    checks,
		Details:   statuses,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Run starts the HTTP server and every background loop, and blocks until a
// signal arrives, ctx is cancelled or a loop fails.
func (s *Server) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRunCtx = cancel

	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		s.realtimeHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		metrics.StartRuntimeCollector(gctx, 15*time.Second)
		return nil
	})
	g.Go(func() error {
		return s.monitor.Run(gctx)
	})
	g.Go(func() error {
		return s.models.Run(gctx, s.cfg.Models.DriftInterval)
	})
	if s.fanout.Len() > 0 {
		g.Go(func() error {
			return s.fanout.Run(gctx)
		})
	}
	if s.snapshotWorker != nil {
		g.Go(func() error {
			s.snapshotWorker.Start(gctx)
			return nil
		})
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"port", s.cfg.Port,
			"env", s.cfg.Env,
			"feed_autostart", s.cfg.Feed.Autostart,
			"sinks", s.fanout.Len(),
		)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Background loops only return early on failure.
	loopsDone := make(chan error, 1)
	go func() {
		loopsDone <- g.Wait()
	}()

	go func() {
		time.Sleep(100 * time.Millisecond)
		s.ready.Store(true)
		s.logger.Info("server ready")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	loopsFinished := false
	select {
	case err := <-errChan:
		runErr = fmt.Errorf("server error: %w", err)
	case err := <-loopsDone:
		loopsFinished = true
		if err != nil {
			runErr = fmt.Errorf("background loop failed: %w", err)
		}
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	if err := s.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	if !loopsFinished {
		if err := <-loopsDone; err != nil && runErr == nil {
			runErr = fmt.Errorf("background loop failed: %w", err)
		}
	}
	return runErr
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	// Give load balancers time to stop sending traffic
	if s.drainDelay > 0 {
		time.Sleep(s.drainDelay)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var shutdownErr error
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			shutdownErr = err
		}
	}

	// Stops the feed, hub, drift loop, sink fanout and snapshot worker.
	if s.cancelRunCtx != nil {
		s.cancelRunCtx()
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
		s.logger.Info("rate limiter stopped")
	}

	if s.shutdownTraces != nil {
		if err := s.shutdownTraces(ctx); err != nil {
			s.logger.Error("trace exporter shutdown error", "error", err)
		}
	}

	s.logger.Info("server stopped")
	return shutdownErr
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Monitor returns the live feed for testing
func (s *Server) Monitor() *monitor.Monitor {
	return s.monitor
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

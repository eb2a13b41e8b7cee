// Package server sets up the HTTP server with all routes
package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/CodeMesh15/fraud-detection-service/internal/config"
	"github.com/CodeMesh15/fraud-detection-service/internal/denylist"
	"github.com/CodeMesh15/fraud-detection-service/internal/event"
	"github.com/CodeMesh15/fraud-detection-service/internal/fraud"
	"github.com/CodeMesh15/fraud-detection-service/internal/health"
	"github.com/CodeMesh15/fraud-detection-service/internal/history"
	"github.com/CodeMesh15/fraud-detection-service/internal/logging"
	"github.com/CodeMesh15/fraud-detection-service/internal/metrics"
	"github.com/CodeMesh15/fraud-detection-service/internal/ratelimit"
	"github.com/CodeMesh15/fraud-detection-service/internal/realtime"
	"github.com/CodeMesh15/fraud-detection-service/internal/security"
	"github.com/CodeMesh15/fraud-detection-service/internal/traces"
	"github.com/CodeMesh15/fraud-detection-service/internal/validation"
)

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg            *config.Config
	historyStore   *history.Store
	deny           *denylist.Denylist
	analyzer       *fraud.Analyzer
	auditStore     fraud.Store
	realtimeHub    *realtime.Hub
	healthRegistry *health.Registry
	rateLimiter    *ratelimit.Limiter
	db             *sql.DB // nil if using in-memory audit trail
	router         *gin.Engine
	httpSrv        *http.Server
	logger         *slog.Logger
	tracesShutdown func(context.Context) error
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

// WithAuditStore sets a custom audit store (for testing)
func WithAuditStore(store fraud.Store) Option {
	return func(s *Server) {
		s.auditStore = store
	}
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logging.New(cfg.LogLevel, "json"),
	}

	// Apply options first (may set audit store/logger)
	for _, opt := range opts {
		opt(s)
	}

	// Context for initialization
	ctx := context.Background()

	// Session history is always in-memory: evaluation reads the full
	// per-session event log under a lock, and that log must be local.
	var storeOpts []history.Option
	if cfg.MaxSessionEvents > 0 {
		storeOpts = append(storeOpts, history.WithMaxEvents(cfg.MaxSessionEvents))
	}
	s.historyStore = history.NewStore(storeOpts...)

	// Static denylist, immutable after startup
	s.deny = denylist.New(cfg.DenylistIPs...)
	s.logger.Info("IP denylist loaded", "entries", s.deny.Len())

	// Audit trail (Postgres if DATABASE_URL set, otherwise in-memory)
	if s.auditStore == nil {
		if cfg.DatabaseURL != "" {
			db, err := sql.Open("postgres", cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("failed to open database: %w", err)
			}

			// Configure connection pool
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)

			// Test connection
			if err := db.Ping(); err != nil {
				return nil, fmt.Errorf("failed to connect to database: %w", err)
			}

			s.db = db
			pgStore := fraud.NewPostgresStore(db)
			if err := pgStore.Migrate(ctx); err != nil {
				s.logger.Warn("failed to migrate fraud check store", "error", err)
			}
			s.auditStore = pgStore
			s.logger.Info("using PostgreSQL audit trail", "url", maskDSN(cfg.DatabaseURL))
		} else {
			s.auditStore = fraud.NewMemoryStore()
			s.logger.Info("using in-memory audit trail (data will not persist)")
		}
	}

	// Tracing (no-op when no endpoint configured)
	shutdown, err := traces.Init(ctx, cfg.OTLPEndpoint, s.logger)
	if err != nil {
		s.logger.Warn("failed to initialize tracing", "error", err)
	} else {
		s.tracesShutdown = shutdown
	}

	// Create realtime hub for WebSocket alert streaming
	s.realtimeHub = realtime.NewHub(s.logger)
	s.logger.Info("realtime alert streaming enabled")

	// Fraud analyzer wires history, denylist, audit trail, and alerts
	s.analyzer = fraud.NewAnalyzer(s.historyStore, s.deny, s.auditStore).
		WithFlagThreshold(cfg.FlagThreshold).
		WithEmitter(&hubAlertEmitter{s.realtimeHub})
	s.logger.Info("fraud engine initialized",
		"flag_threshold", cfg.FlagThreshold,
		"max_session_events", cfg.MaxSessionEvents,
	)

	s.setupHealthChecks()

	// Configure gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)

	return s, nil
}

// maskDSN hides password in connection string for logging
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

func (s *Server) setupHealthChecks() {
	s.healthRegistry = health.NewRegistry()

	s.healthRegistry.Register("history_store", func(ctx context.Context) health.Status {
		return health.Status{
			Name:    "history_store",
			Healthy: true,
			Detail:  strconv.Itoa(s.historyStore.Sessions()) + " sessions tracked",
		}
	})

	if s.db != nil {
		s.healthRegistry.Register("database", func(ctx context.Context) health.Status {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := s.db.PingContext(ctx); err != nil {
				return health.Status{Name: "database", Healthy: false, Detail: err.Error()}
			}
			return health.Status{Name: "database", Healthy: true}
		})
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

	// Security headers
	s.router.Use(security.HeadersMiddleware())

	// CORS (allow all origins for demo - restrict in production)
	s.router.Use(security.CORSMiddleware([]string{"*"}))

	// Request size limit (1MB)
	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))

	// Rate limiting
	rlCfg := ratelimit.DefaultConfig()
	if s.cfg.RateLimitRPM > 0 {
		rlCfg.RequestsPerMinute = s.cfg.RateLimitRPM
	}
	s.rateLimiter = ratelimit.New(rlCfg)
	s.router.Use(s.rateLimiter.Middleware())

	// Prometheus metrics
	s.router.Use(metrics.Middleware())

	// Request ID
	s.router.Use(s.requestIDMiddleware())

	// Logging
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		// Add to context
		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		// Set response header
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

		// Log level based on status code
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

	// WebSocket for real-time fraud alerts
	s.router.GET("/ws", func(c *gin.Context) {
		s.realtimeHub.HandleWebSocket(c.Writer, c.Request)
	})

	// API info
	s.router.GET("/api", s.infoHandler)

	// V1 API group
	v1 := s.router.Group("/api/v1")

	fraudHandler := fraud.NewHandler(s.analyzer)
	fraudHandler.RegisterRoutes(v1)

	v1.GET("/denylist", s.denylistHandler)
	v1.GET("/stats", s.statsHandler)
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// HealthResponse for health check endpoints
type HealthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Checks    []health.Status `json:"checks,omitempty"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) healthHandler(c *gin.Context) {
	healthy, statuses := s.healthRegistry.CheckAll(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   "0.1.0",
		Checks:    statuses,
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

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "fraud-detection-service",
		"description": "Real-time behavioral fraud scoring for session events",
		"version":     "0.1.0",
	})
}

// denylistHandler returns the static IP denylist for operator inspection
func (s *Server) denylistHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ips":   s.deny.IPs(),
		"count": s.deny.Len(),
	})
}

// statsHandler returns engine counters for demos and dashboards
func (s *Server) statsHandler(c *gin.Context) {
	stats := gin.H{
		"trackedSessions": s.historyStore.Sessions(),
		"trackedEvents":   s.historyStore.Events(),
		"denylistEntries": s.deny.Len(),
		"flagThreshold":   s.cfg.FlagThreshold,
	}
	if s.realtimeHub != nil {
		stats["realtime"] = s.realtimeHub.Stats()
	}
	c.JSON(http.StatusOK, stats)
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Run starts the HTTP server with graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	// Create a cancellable context for background goroutines so Shutdown() can stop them.
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

	// Channel to catch server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		s.logger.Info("starting server",
			"port", s.cfg.Port,
			"env", s.cfg.Env,
		)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Start realtime hub
	if s.realtimeHub != nil {
		go s.realtimeHub.Run(runCtx)
	}

	// Sample DB pool stats into Prometheus
	if s.db != nil {
		go metrics.StartDBStatsCollector(runCtx, s.db, 15*time.Second)
	}

	// Keep the tracked-session gauge current
	go s.trackSessionGauge(runCtx)

	// Mark as ready after brief delay for startup
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.ready.Store(true)
		s.logger.Info("server ready")
	}()

	// Wait for shutdown signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown()
}

func (s *Server) trackSessionGauge(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.TrackedSessions.Set(float64(s.historyStore.Sessions()))
		}
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	// Cancel the context for all background goroutines (hub, collectors)
	if s.cancelRunCtx != nil {
		s.cancelRunCtx()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
		s.logger.Info("rate limiter stopped")
	}

	// Flush pending trace spans
	if s.tracesShutdown != nil {
		if err := s.tracesShutdown(ctx); err != nil {
			s.logger.Error("traces shutdown error", "error", err)
		}
	}

	// Close database connection pool
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("database close error", "error", err)
		} else {
			s.logger.Info("database connection closed")
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Analyzer returns the fraud analyzer for testing
func (s *Server) Analyzer() *fraud.Analyzer {
	return s.analyzer
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

// hubAlertEmitter adapts realtime.Hub to fraud.AlertEmitter
type hubAlertEmitter struct {
	hub *realtime.Hub
}

func (e *hubAlertEmitter) EmitFraudAlert(result *fraud.CheckResult, ev *event.Event) {
	if e.hub == nil {
		return
	}
	e.hub.BroadcastFraudAlert(map[string]interface{}{
		"checkId":        result.ID,
		"sessionId":      result.SessionID,
		"fraudScore":     float64(result.FraudScore),
		"flagged":        result.Flagged,
		"reasons":        result.Reasons,
		"eventType":      string(ev.Type),
		"ipAddress":      ev.IPAddress,
		"checkTimestamp": result.CheckTimestamp,
	})
}

// Package metrics provides Prometheus instrumentation for the fraud
// detection service.
package metrics

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frauddetect",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "frauddetect",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ChecksTotal counts fraud checks by verdict.
	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frauddetect",
			Name:      "checks_total",
			Help:      "Total fraud checks by verdict (flagged or clean).",
		},
		[]string{"verdict"},
	)

	// RuleFiredTotal counts rule contributions by rule name.
	RuleFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frauddetect",
			Name:      "rule_fired_total",
			Help:      "Total times each scoring rule contributed to a check.",
		},
		[]string{"rule"},
	)

	// FraudScore observes the distribution of final scores.
	FraudScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "frauddetect",
		Name:      "score",
		Help:      "Distribution of fraud scores.",
		Buckets:   []float64{0, 10, 25, 40, 50, 60, 75, 90, 120, 200},
	})

	// TrackedSessions tracks sessions held in the history store.
	TrackedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "frauddetect",
		Name:      "tracked_sessions",
		Help:      "Number of sessions currently held in the history store.",
	})

	// ActiveWebSocketClients tracks connected alert-stream clients.
	ActiveWebSocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "frauddetect",
		Name:      "active_websocket_clients",
		Help:      "Number of currently connected WebSocket clients.",
	})

	// DBOpenConnections tracks open audit-store connections.
	DBOpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "frauddetect", Name: "db_open_connections",
		Help: "Number of open database connections.",
	})
	// DBIdleConnections tracks idle audit-store connections.
	DBIdleConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "frauddetect", Name: "db_idle_connections",
		Help: "Number of idle database connections.",
	})
	// DBInUseConnections tracks in-use audit-store connections.
	DBInUseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "frauddetect", Name: "db_in_use_connections",
		Help: "Number of in-use database connections.",
	})
	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "frauddetect", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ChecksTotal,
		RuleFiredTotal,
		FraudScore,
		TrackedSessions,
		ActiveWebSocketClients,
		DBOpenConnections,
		DBIdleConnections,
		DBInUseConnections,
		GoroutineCount,
	)
}

// ObserveCheck records the outcome of one fraud check.
func ObserveCheck(score int, flagged bool) {
	verdict := "clean"
	if flagged {
		verdict = "flagged"
	}
	ChecksTotal.WithLabelValues(verdict).Inc()
	FraudScore.Observe(float64(score))
}

// StartDBStatsCollector periodically samples sql.DBStats and runtime
// goroutine count into Prometheus gauges. Call in a goroutine; exits
// when ctx is done.
func StartDBStatsCollector(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			DBOpenConnections.Set(float64(stats.OpenConnections))
			DBIdleConnections.Set(float64(stats.Idle))
			DBInUseConnections.Set(float64(stats.InUse))
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

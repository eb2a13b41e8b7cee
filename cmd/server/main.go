// Fraud detection service - real-time behavioral scoring for session events
package main

import (
	"context"
	"os"

	"github.com/CodeMesh15/fraud-detection-service/internal/config"
	"github.com/CodeMesh15/fraud-detection-service/internal/logging"
	"github.com/CodeMesh15/fraud-detection-service/internal/server"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Create logger
	logger := logging.New("info", "text")

	logger.Info("starting fraud detection service",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"flag_threshold", cfg.FlagThreshold,
		"denylist_entries", len(cfg.DenylistIPs),
	)

	// Create and run server
	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

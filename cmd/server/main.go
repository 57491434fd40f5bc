// Andromeda - synthetic blockchain security dashboard
package main

import (
	"context"
	"os"

	"github.com/mbd888/andromeda/internal/config"
	"github.com/mbd888/andromeda/internal/logging"
	"github.com/mbd888/andromeda/internal/server"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting andromeda",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)
	logger.Info("configuration loaded",
		"env", cfg.Env,
		"rng_seed", cfg.RNGSeed,
		"autostart", cfg.Feed.Autostart,
		"kafka", len(cfg.Kafka.Brokers) > 0,
		"redis", cfg.Redis.URL != "",
	)

	// Create and run server
	srv, err := server.New(cfg, server.WithLogger(logger), server.WithVersion(Version))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(context.Background()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

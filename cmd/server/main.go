// Command server runs the web client: it renders the pages, holds the
// signed-in identity, and proxies every read and write to the backend API.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/arefin/qoverflow/internal/config"
	"github.com/arefin/qoverflow/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var logHandler slog.Handler
	if cfg.PrettyLogs {
		logHandler = tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(logHandler)

	if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0755); err != nil {
		logger.Error("failed to create data directory",
			slog.String("dir", filepath.Dir(cfg.SessionDBPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(*cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

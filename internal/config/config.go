// Package config loads application configuration from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	// Port the page server listens on. The upstream API conventionally owns
	// 8080, so the client defaults to 3000.
	Port int

	// APIBaseURL is the root of the remote Q&A REST API.
	APIBaseURL string

	// SessionDBPath is the SQLite file holding the durable session slot.
	SessionDBPath string

	TemplateDir string
	StaticDir   string

	// PrettyLogs switches the slog handler to the colorized tint handler.
	PrettyLogs bool
	Debug      bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          3000,
		APIBaseURL:    "http://localhost:8080",
		SessionDBPath: "data/session.db",
		TemplateDir:   "web/templates",
		StaticDir:     "web/static",
		PrettyLogs:    true,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("SESSION_DB_PATH"); v != "" {
		cfg.SessionDBPath = v
	}
	if v := os.Getenv("TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.PrettyLogs = v != "text"
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

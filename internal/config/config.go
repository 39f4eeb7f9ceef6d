// Package config reads the CLI settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings the folio command starts with.
// Flags override every field.
type Config struct {
	Root     string
	LogLevel slog.Level
	Addr     string
}

// Load reads an optional .env file from the working directory and then the
// process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("ignoring .env file", "error", err)
	}

	return &Config{
		Root:     getEnv("FOLIO_ROOT", ""),
		LogLevel: parseLevel(getEnv("FOLIO_LOG_LEVEL", "info")),
		Addr:     getEnv("FOLIO_ADDR", "127.0.0.1:8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

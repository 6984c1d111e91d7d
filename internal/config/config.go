// Package config loads the gateway's runtime configuration from the
// process environment, following cmd/chrc/main.go's env(key, default)
// lookup pattern.
package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds everything cmd/gateway/main.go needs to stand up the server.
type Config struct {
	Host           string
	Port           string
	LogLevel       slog.Level
	AllowedOrigins []string
	RemoteBrowser  string
}

// Load reads configuration from the environment, applying the same
// defaults the teacher's entry point uses for unset values.
func Load() Config {
	return Config{
		Host:           env("HOST", "0.0.0.0"),
		Port:           env("PORT", "8085"),
		LogLevel:       parseLevel(env("LOG_LEVEL", "info")),
		AllowedOrigins: splitCSV(env("ALLOWED_ORIGINS", "*")),
		RemoteBrowser:  env("REMOTE_BROWSER_URL", ""),
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver       string
	DatabaseURL    string
	MigrationsPath string
	ServerPort     int
	LogFormat      string
	AllowedOrigins []string
	// Requests per second allowed on mutating routes. 0 disables the limiter.
	WriteRateLimit float64
	// Average match length plus changeover, used for court wait estimates.
	MatchDuration time.Duration
}

// Load reads configuration from the environment, loading a .env file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so it can be tested without touching the process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	driver := env("DB_DRIVER", "sqlite3")
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", driver)
	}

	dbURL := env("DATABASE_URL", "")
	if dbURL == "" {
		if driver == "postgres" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		dbURL = "pickleball.db?_journal_mode=WAL"
	}

	port, err := strconv.Atoi(env("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	logFormat := env("LOG_FORMAT", "text")
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", logFormat)
	}

	var origins []string
	for _, o := range strings.Split(env("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	rateLimit, err := strconv.ParseFloat(env("WRITE_RATE_LIMIT", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_RATE_LIMIT environment variable: %w", err)
	}
	if rateLimit < 0 {
		return nil, fmt.Errorf("WRITE_RATE_LIMIT must not be negative, got %g", rateLimit)
	}

	minutes, err := strconv.Atoi(env("MATCH_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_MINUTES environment variable: %w", err)
	}
	if minutes <= 0 {
		return nil, fmt.Errorf("MATCH_MINUTES must be positive, got %d", minutes)
	}

	return &Config{
		DBDriver:       driver,
		DatabaseURL:    dbURL,
		MigrationsPath: env("MIGRATIONS_PATH", "file://migrations"),
		ServerPort:     port,
		LogFormat:      logFormat,
		AllowedOrigins: origins,
		WriteRateLimit: rateLimit,
		MatchDuration:  time.Duration(minutes) * time.Minute,
	}, nil
}

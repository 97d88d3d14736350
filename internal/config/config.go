// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the back-office server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFormat is "json" (default) or "text".
	LogFormat string

	// LogFile, when set, sends logs to a rotating file instead of stdout.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"]. Set CORS_ORIGINS to a
	// comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RedisURL enables the dashboard cache when set.
	RedisURL string

	// DashboardCacheTTL is how long a cached dashboard lives. Defaults to 5m.
	DashboardCacheTTL time.Duration

	// AMQPURL enables status-change events when set.
	AMQPURL string

	// RealtimeDebounce is the quiet window before a refetch. Defaults to 3s.
	RealtimeDebounce time.Duration

	// RealtimeUrgentDebounce is the window for reservation changes. Defaults to 1s.
	RealtimeUrgentDebounce time.Duration

	// NoteAutosaveDelay is the pause after the last keystroke before a daily
	// note is written. Defaults to 1s.
	NoteAutosaveDelay time.Duration

	// DefaultBoatCapacity is used for boats without a usable capacity. Defaults to 10.
	DefaultBoatCapacity int

	// TourLocation resolves "today" for the day views. Defaults to America/Guatemala.
	TourLocation *time.Location

	// AutoMigrate applies pending migrations at boot.
	AutoMigrate bool
}

// LoadDotEnv loads path into the environment when the file exists. Variables
// already set win over the file.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// value that does not parse.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		LogFile:     os.Getenv("LOG_FILE"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisURL:    os.Getenv("REDIS_URL"),
		AMQPURL:     os.Getenv("AMQP_URL"),
	}

	var missing, invalid []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	p := parser{invalid: &invalid}
	cfg.MaxBodyBytes = int64(p.int("MAX_BODY_BYTES", 1<<20))
	cfg.DashboardCacheTTL = p.duration("DASHBOARD_CACHE_TTL", 5*time.Minute)
	cfg.RealtimeDebounce = p.duration("REALTIME_DEBOUNCE", 3*time.Second)
	cfg.RealtimeUrgentDebounce = p.duration("REALTIME_URGENT_DEBOUNCE", time.Second)
	cfg.NoteAutosaveDelay = p.duration("NOTE_AUTOSAVE_DELAY", time.Second)
	cfg.DefaultBoatCapacity = p.int("DEFAULT_BOAT_CAPACITY", 10)
	cfg.AutoMigrate = p.bool("AUTO_MIGRATE", false)

	loc, err := time.LoadLocation(getEnv("TOUR_TIMEZONE", "America/Guatemala"))
	if err != nil {
		invalid = append(invalid, "TOUR_TIMEZONE")
	}
	cfg.TourLocation = loc

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		invalid = append(invalid, "LOG_FORMAT")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// parser reads typed values and records the names of those that fail.
type parser struct {
	invalid *[]string
}

func (p parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return n
}

func (p parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return d
}

func (p parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return b
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

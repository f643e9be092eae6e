// Package config loads server and CLI settings from environment variables,
// reading a .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config errors
var (
	ErrUnknownStore   = errors.New("CLUB_STORE must be json or sqlite")
	ErrUnknownZone    = errors.New("CLUB_TIMEZONE is not a known time zone")
	ErrInvalidRate    = errors.New("CLUB_RATE_LIMIT_RPS and CLUB_RATE_LIMIT_BURST must be positive")
	ErrInvalidLogging = errors.New("CLUB_LOG_FORMAT must be text or json")
	ErrShortCSRFKey   = errors.New("CLUB_CSRF_KEY must be at least 32 bytes")
)

// Log configures the process logger.
type Log struct {
	Level      string
	Format     string // text or json
	File       string // empty logs to stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Email configures admin notices. An empty ResendKey disables sending.
type Email struct {
	ResendKey  string
	From       string
	AdminEmail string
}

// Config holds every setting the binaries read.
type Config struct {
	Environment string
	Addr        string

	// Storage
	DataDir    string
	Store      string
	SQLitePath string
	BackupDir  string
	StaticDir  string

	// Dates
	Location *time.Location

	// HTTP
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	CSRFKey        []byte
	SlowRequestMs  int
	SlowStoreMs    int
	ShutdownWait   time.Duration

	Log   Log
	Email Email

	// Tracing; empty disables export.
	OTLPEndpoint string
}

// Load reads the environment. A missing .env file is not an error.
// POST: returned config passed Validate
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	dataDir := envOrDefault("CLUB_DATA_DIR", "data")
	addr := envOrDefault("CLUB_ADDR", "")
	if addr == "" {
		addr = ":" + envOrDefault("CLUB_PORT", "3000")
	}

	zone := envOrDefault("CLUB_TIMEZONE", "Local")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, zone)
	}

	c := &Config{
		Environment: envOrDefault("CLUB_ENV", "development"),
		Addr:        addr,

		DataDir:    dataDir,
		Store:      strings.ToLower(envOrDefault("CLUB_STORE", StoreJSON)),
		SQLitePath: envOrDefault("CLUB_SQLITE_PATH", filepath.Join(dataDir, "club.db")),
		BackupDir:  envOrDefault("CLUB_BACKUP_DIR", filepath.Join(dataDir, "backups")),
		StaticDir:  envOrDefault("CLUB_STATIC_DIR", "public"),

		Location: loc,

		CORSOrigins:    envList("CLUB_CORS_ORIGINS", []string{"*"}),
		RateLimitRPS:   envFloat("CLUB_RATE_LIMIT_RPS", 20),
		RateLimitBurst: envInt("CLUB_RATE_LIMIT_BURST", 40),
		CSRFKey:        []byte(os.Getenv("CLUB_CSRF_KEY")),
		SlowRequestMs:  envInt("CLUB_SLOW_REQUEST_MS", 200),
		SlowStoreMs:    envInt("CLUB_SLOW_STORE_MS", 100),
		ShutdownWait:   time.Duration(envInt("CLUB_SHUTDOWN_SECONDS", 10)) * time.Second,

		Log: Log{
			Level:      envOrDefault("CLUB_LOG_LEVEL", "info"),
			Format:     strings.ToLower(envOrDefault("CLUB_LOG_FORMAT", "text")),
			File:       os.Getenv("CLUB_LOG_FILE"),
			MaxSizeMB:  envInt("CLUB_LOG_MAX_SIZE_MB", 50),
			MaxBackups: envInt("CLUB_LOG_MAX_BACKUPS", 5),
			MaxAgeDays: envInt("CLUB_LOG_MAX_AGE_DAYS", 28),
		},
		Email: Email{
			ResendKey:  os.Getenv("CLUB_RESEND_KEY"),
			From:       envOrDefault("CLUB_EMAIL_FROM", "Clubhouse <noreply@example.com>"),
			AdminEmail: os.Getenv("CLUB_ADMIN_EMAIL"),
		},

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges and enumerations.
// PRE: Config is populated
// POST: Returns the first invalid setting, nil otherwise
func (c *Config) Validate() error {
	if c.Store != StoreJSON && c.Store != StoreSQLite {
		return ErrUnknownStore
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return ErrInvalidRate
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return ErrInvalidLogging
	}
	if len(c.CSRFKey) > 0 && len(c.CSRFKey) < 32 {
		return ErrShortCSRFKey
	}
	return nil
}

// IsProduction reports whether CLUB_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Today returns the calendar date in the configured zone.
func (c *Config) Today(now time.Time) time.Time {
	y, m, d := now.In(c.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

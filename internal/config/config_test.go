package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("CLUB_TIMEZONE", "UTC")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if c.Addr != ":3000" {
		t.Errorf("Addr = %q, want %q", c.Addr, ":3000")
	}
	if c.Store != StoreJSON {
		t.Errorf("Store = %q, want %q", c.Store, StoreJSON)
	}
	if want := filepath.Join("data", "backups"); c.BackupDir != want {
		t.Errorf("BackupDir = %q, want %q", c.BackupDir, want)
	}
	if c.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CLUB_TIMEZONE", "Pacific/Auckland")
	t.Setenv("CLUB_PORT", "9000")
	t.Setenv("CLUB_STORE", "SQLite")
	t.Setenv("CLUB_DATA_DIR", "/srv/club")
	t.Setenv("CLUB_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CLUB_RATE_LIMIT_RPS", "2.5")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if c.Addr != ":9000" {
		t.Errorf("Addr = %q, want %q", c.Addr, ":9000")
	}
	if c.Store != StoreSQLite {
		t.Errorf("Store = %q, want %q", c.Store, StoreSQLite)
	}
	if want := filepath.Join("/srv/club", "club.db"); c.SQLitePath != want {
		t.Errorf("SQLitePath = %q, want %q", c.SQLitePath, want)
	}
	if len(c.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", c.CORSOrigins)
	}
	if c.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v, want 2.5", c.RateLimitRPS)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{"unknown store", "CLUB_STORE", "postgres", ErrUnknownStore},
		{"unknown zone", "CLUB_TIMEZONE", "Mars/Olympus", ErrUnknownZone},
		{"zero burst", "CLUB_RATE_LIMIT_BURST", "0", ErrInvalidRate},
		{"log format", "CLUB_LOG_FORMAT", "xml", ErrInvalidLogging},
		{"short csrf key", "CLUB_CSRF_KEY", "short", ErrShortCSRFKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLUB_TIMEZONE", "UTC")
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			if !errors.Is(err, tt.want) {
				t.Errorf("FromEnv() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestToday_UsesConfiguredZone(t *testing.T) {
	loc, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	c := &Config{Location: loc}
	// 20:00 UTC on Friday is Saturday morning in Auckland.
	now := time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)
	got := c.Today(now)
	if got.Format("2006-01-02") != "2025-03-08" {
		t.Errorf("Today() = %s, want 2025-03-08", got.Format("2006-01-02"))
	}
}

// Package bootstrap builds the long-lived dependencies both binaries share.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/adapters/storage"
	"clubhouse/internal/adapters/storage/jsonfile"
	"clubhouse/internal/adapters/storage/sqlite"
	"clubhouse/internal/config"
)

// OpenStore opens the configured driver and wraps it for serialized access.
// collector may be nil.
// PRE: cfg passed Validate
// POST: caller closes the returned store
func OpenStore(ctx context.Context, cfg *config.Config, collector *perf.Collector) (*storage.Serialized, error) {
	season := cfg.Today(time.Now()).Year()
	var (
		store storage.Store
		err   error
	)
	switch cfg.Store {
	case config.StoreSQLite:
		store, err = sqlite.Open(ctx, sqlite.Options{
			Path:        cfg.SQLitePath,
			BackupDir:   cfg.BackupDir,
			Season:      season,
			Collector:   collector,
			SlowQueryMs: cfg.SlowStoreMs,
		})
	default:
		store, err = jsonfile.Open(jsonfile.Options{
			Dir:       cfg.DataDir,
			BackupDir: cfg.BackupDir,
			Season:    season,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	slog.Info("store_opened", "driver", cfg.Store, "data_dir", cfg.DataDir)
	return storage.NewSerialized(store, collector, cfg.SlowStoreMs), nil
}

// Notifier returns the admin notifier. Without a Resend key mail goes to a
// no-op sender that only logs.
func Notifier(cfg *config.Config) *email.Notifier {
	var sender email.Sender
	if cfg.Email.ResendKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
		slog.Info("email_configured", "sender", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_configured", "sender", "noop", "hint", "CLUB_RESEND_KEY is not set; admin notices are disabled")
		}
	}
	return email.NewNotifier(sender, cfg.Email.AdminEmail)
}

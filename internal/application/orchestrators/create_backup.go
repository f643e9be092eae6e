package orchestrators

import (
	"context"
	"log/slog"

	"clubhouse/internal/domain/backup"
)

// CreateBackupDeps holds dependencies for CreateBackup.
type CreateBackupDeps struct {
	Store BackupStore
}

// ExecuteCreateBackup takes a manual full backup.
// POST: returned manifest names every artifact written
func ExecuteCreateBackup(ctx context.Context, deps CreateBackupDeps) (backup.Manifest, error) {
	m, err := deps.Store.Backup(ctx)
	if err != nil {
		return backup.Manifest{}, err
	}
	slog.Info("store_event", "event", "manual_backup", "location", m.Location, "files", len(m.Files))
	return m, nil
}

package orchestrators

import (
	"context"

	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
)

// ClubStore is the serialized read-modify-write surface commands run against.
type ClubStore interface {
	View(ctx context.Context, fn func(club.Snapshot) error) error
	Update(ctx context.Context, fn func(*club.Snapshot) error) error
}

// BackupStore adds the backup-first update used by season workflows.
type BackupStore interface {
	ClubStore
	UpdateWithBackup(ctx context.Context, fn func(*club.Snapshot, backup.Manifest) error) (backup.Manifest, error)
	Backup(ctx context.Context) (backup.Manifest, error)
}

// AdminNotifier delivers best-effort notices to club administrators.
type AdminNotifier interface {
	NotifyAdmin(ctx context.Context, subject, text string) error
}

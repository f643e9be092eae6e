package storage

import (
	"context"
	"errors"

	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store is closed")

// Store persists the whole club document. Read returns a fresh copy the
// caller may mutate; Write replaces the stored document in full.
type Store interface {
	Read(ctx context.Context) (club.Snapshot, error)
	Write(ctx context.Context, s club.Snapshot) error
	Backup(ctx context.Context) (backup.Manifest, error)
	Close() error
}

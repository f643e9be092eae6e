package storage

import (
	"context"
	"sync"
	"time"

	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
)

// Memory is an in-process Store for tests and dry runs. Backups are kept as
// snapshots and listed by Backups.
type Memory struct {
	mu      sync.Mutex
	current club.Snapshot
	backups []club.Snapshot
	closed  bool
	now     func() time.Time
}

// Compile-time check that *Memory satisfies Store.
var _ Store = (*Memory)(nil)

// NewMemory returns a Memory store holding initial.
// PRE: initial is a valid snapshot
// POST: Read returns a deep copy of initial
func NewMemory(initial club.Snapshot) *Memory {
	return &Memory{current: initial, now: time.Now}
}

// Read returns a deep copy of the current snapshot.
func (m *Memory) Read(_ context.Context) (club.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return club.Snapshot{}, ErrClosed
	}
	return m.current.Clone()
}

// Write replaces the current snapshot with a copy of s.
func (m *Memory) Write(_ context.Context, s club.Snapshot) error {
	c, err := s.Clone()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.current = c
	return nil
}

// Backup records a copy of the current snapshot.
// POST: Backups() grows by one
func (m *Memory) Backup(_ context.Context) (backup.Manifest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return backup.Manifest{}, ErrClosed
	}
	c, err := m.current.Clone()
	if err != nil {
		return backup.Manifest{}, err
	}
	m.backups = append(m.backups, c)
	at := m.now()
	files := make(map[string]string, len(backup.Documents))
	for _, doc := range backup.Documents {
		files[doc] = backup.ArtifactName(doc, at)
	}
	return backup.Manifest{CreatedAt: at, Location: "memory", Files: files}, nil
}

// Backups returns the snapshots captured by Backup, oldest first.
func (m *Memory) Backups() []club.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]club.Snapshot, len(m.backups))
	copy(out, m.backups)
	return out
}

// Close marks the store closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

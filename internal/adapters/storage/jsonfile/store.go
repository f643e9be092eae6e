// Package jsonfile stores the club document as the five JSON files of the
// data directory, with timestamped copies under a backups directory.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"clubhouse/internal/adapters/storage"
	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
)

// fileNames maps document names to files in the data directory.
var fileNames = map[string]string{
	backup.DocDB:       "db.json",
	backup.DocSettings: "settings.json",
	backup.DocVisitors: "visitors.json",
	backup.DocActivity: "activity.json",
	backup.DocNotes:    "notes.json",
}

// Store is a storage.Store over a directory of JSON files.
type Store struct {
	dir       string
	backupDir string
	now       func() time.Time

	mu     sync.Mutex
	last   map[string][]byte // bytes last read or written per document
	closed bool
}

// Compile-time check that *Store satisfies storage.Store.
var _ storage.Store = (*Store)(nil)

// Options configures Open.
type Options struct {
	Dir       string
	BackupDir string // defaults to Dir/backups
	Season    int    // season for default settings when none exist
	Now       func() time.Time
}

// Open prepares dir, writing default documents for any missing file.
// PRE: opts.Dir is writable
// POST: every document file exists
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("jsonfile: data directory is required")
	}
	if opts.BackupDir == "" {
		opts.BackupDir = filepath.Join(opts.Dir, "backups")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Season == 0 {
		opts.Season = opts.Now().Year()
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: opts.Dir, backupDir: opts.BackupDir, now: opts.Now, last: map[string][]byte{}}

	defaults, err := storage.EncodeDocuments(club.Empty(opts.Season))
	if err != nil {
		return nil, err
	}
	for doc, raw := range defaults {
		path := s.path(doc)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if err := writeAtomic(path, raw); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Read loads all five documents.
// PRE: store is open
// POST: returns a fresh snapshot; nil collections decode as empty
func (s *Store) Read(_ context.Context) (club.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return club.Snapshot{}, storage.ErrClosed
	}

	docs := make(map[string][]byte, len(backup.Documents))
	for _, doc := range backup.Documents {
		raw, err := os.ReadFile(s.path(doc))
		if err != nil {
			return club.Snapshot{}, fmt.Errorf("read %s: %w", fileNames[doc], err)
		}
		docs[doc] = raw
	}
	snap, err := storage.DecodeDocuments(docs)
	if err != nil {
		return club.Snapshot{}, err
	}
	for doc, raw := range docs {
		s.last[doc] = raw
	}
	return snap, nil
}

// Write replaces each document whose encoding changed.
// PRE: store is open
// POST: each changed file is replaced atomically
func (s *Store) Write(_ context.Context, snap club.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	docs, err := storage.EncodeDocuments(snap)
	if err != nil {
		return err
	}
	for _, doc := range backup.Documents {
		raw := docs[doc]
		if bytes.Equal(raw, s.last[doc]) {
			continue
		}
		if err := writeAtomic(s.path(doc), raw); err != nil {
			return err
		}
		s.last[doc] = raw
	}
	return nil
}

// Backup copies every document into the backup directory.
// PRE: store is open
// POST: one artifact per document exists and is synced; checksums are BLAKE2b-256
func (s *Store) Backup(_ context.Context) (backup.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return backup.Manifest{}, storage.ErrClosed
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return backup.Manifest{}, fmt.Errorf("create backup dir: %w", err)
	}

	at := s.now()
	m := backup.Manifest{
		CreatedAt: at,
		Location:  s.backupDir,
		Files:     make(map[string]string, len(backup.Documents)),
		Checksums: make(map[string]string, len(backup.Documents)),
	}
	for _, doc := range backup.Documents {
		raw, err := os.ReadFile(s.path(doc))
		if err != nil {
			return backup.Manifest{}, fmt.Errorf("read %s for backup: %w", fileNames[doc], err)
		}
		name := backup.ArtifactName(doc, at)
		if err := writeAtomic(filepath.Join(s.backupDir, name), raw); err != nil {
			return backup.Manifest{}, fmt.Errorf("write backup %s: %w", name, err)
		}
		sum := blake2b.Sum256(raw)
		m.Files[doc] = name
		m.Checksums[doc] = hex.EncodeToString(sum[:])
	}
	return m, nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Store) path(doc string) string {
	return filepath.Join(s.dir, fileNames[doc])
}

// writeAtomic writes data to a temp file in the target directory, syncs it
// and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

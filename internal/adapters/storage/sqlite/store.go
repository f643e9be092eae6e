// Package sqlite stores the club document as rows of a single SQLite
// table, one row per named document, with VACUUM INTO backups.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/adapters/storage"
	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
)

const pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// Options configures Open.
type Options struct {
	Path        string
	BackupDir   string // defaults to the database directory's backups folder
	Season      int
	Collector   *perf.Collector
	SlowQueryMs int
	Now         func() time.Time
}

// Store is a storage.Store over a SQLite database file.
type Store struct {
	db        *TimedDB
	backupDir string
	now       func() time.Time

	mu     sync.Mutex
	closed bool
}

// Compile-time check that *Store satisfies storage.Store.
var _ storage.Store = (*Store)(nil)

// Open opens or creates the database, migrates it and seeds any missing
// document with its default.
// PRE: opts.Path is a writable file path
// POST: schema is at LatestSchemaVersion; every document row exists
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("sqlite: database path is required")
	}
	if opts.BackupDir == "" {
		opts.BackupDir = filepath.Join(filepath.Dir(opts.Path), "backups")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Season == 0 {
		opts.Season = opts.Now().Year()
	}
	if opts.SlowQueryMs == 0 {
		opts.SlowQueryMs = DefaultSlowQueryMs
	}

	raw, err := sql.Open("sqlite", opts.Path+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	raw.SetMaxOpenConns(25)
	raw.SetMaxIdleConns(25)
	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	db := NewTimedDB(raw, opts.Collector, opts.SlowQueryMs)
	if err := Migrate(ctx, db); err != nil {
		raw.Close()
		return nil, err
	}
	s := &Store{db: db, backupDir: opts.BackupDir, now: opts.Now}
	if err := s.seed(ctx, opts.Season); err != nil {
		raw.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) seed(ctx context.Context, season int) error {
	defaults, err := storage.EncodeDocuments(club.Empty(season))
	if err != nil {
		return err
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	for _, doc := range backup.Documents {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO document (name, body, updated_at) VALUES (?, ?, ?)`,
			doc, string(defaults[doc]), stamp); err != nil {
			return fmt.Errorf("seed %s: %w", doc, err)
		}
	}
	return nil
}

// Read loads every document row.
// PRE: store is open
// POST: returns a fresh snapshot
func (s *Store) Read(ctx context.Context) (club.Snapshot, error) {
	if err := s.checkOpen(); err != nil {
		return club.Snapshot{}, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name, body FROM document`)
	if err != nil {
		return club.Snapshot{}, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[string][]byte, len(backup.Documents))
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return club.Snapshot{}, fmt.Errorf("scan document: %w", err)
		}
		docs[name] = []byte(body)
	}
	if err := rows.Err(); err != nil {
		return club.Snapshot{}, fmt.Errorf("iterate documents: %w", err)
	}
	return storage.DecodeDocuments(docs)
}

// Write replaces all five documents in one transaction. Rows whose body
// is unchanged keep their updated_at.
// PRE: store is open
// POST: either every document is replaced or none is
func (s *Store) Write(ctx context.Context, snap club.Snapshot) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	docs, err := storage.EncodeDocuments(snap)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback()

	stamp := s.now().UTC().Format(time.RFC3339)
	for _, doc := range backup.Documents {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document (name, body, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
			WHERE document.body <> excluded.body`,
			doc, string(docs[doc]), stamp); err != nil {
			return fmt.Errorf("write %s: %w", doc, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

// Backup snapshots the whole database with VACUUM INTO and records the
// artifact in backup_log.
// PRE: store is open
// POST: the artifact exists; its BLAKE2b-256 checksum is logged
func (s *Store) Backup(ctx context.Context) (backup.Manifest, error) {
	if err := s.checkOpen(); err != nil {
		return backup.Manifest{}, err
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return backup.Manifest{}, fmt.Errorf("create backup dir: %w", err)
	}

	at := s.now()
	name := "club-" + backup.Timestamp(at) + ".db"
	path := filepath.Join(s.backupDir, name)
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return backup.Manifest{}, fmt.Errorf("vacuum into %s: %w", name, err)
	}
	sum, err := checksum(path)
	if err != nil {
		return backup.Manifest{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO backup_log (file, checksum, created_at) VALUES (?, ?, ?)`,
		name, sum, at.UTC().Format(time.RFC3339)); err != nil {
		return backup.Manifest{}, fmt.Errorf("log backup: %w", err)
	}
	return backup.Manifest{
		CreatedAt: at,
		Location:  s.backupDir,
		Files:     map[string]string{"database": name},
		Checksums: map[string]string{"database": sum},
	}, nil
}

// BackupLog lists the artifact names recorded by Backup, newest first.
func (s *Store) BackupLog(ctx context.Context) ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT file FROM backup_log ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query backup log: %w", err)
	}
	defer rows.Close()
	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan backup log: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	return nil
}

func checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash backup: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

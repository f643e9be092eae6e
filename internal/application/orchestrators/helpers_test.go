package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"clubhouse/internal/adapters/storage"
	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/settings"
)

var clock = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func now() time.Time { return clock }

func today() string { return "2026-03-14" }

// idSeq returns a generator yielding id-1, id-2, ...
func idSeq() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// testSettings returns valid settings with a two-step schedule and tiered yearly fees.
func testSettings() settings.Settings {
	s := settings.Default(2026)
	s.ClubName = "Saturday FC"
	s.Fees.MonthlySchedule = []settings.ScheduleEntry{
		{From: "2026-01", Amount: money.New(2000)},
		{From: "2026-02", Amount: money.New(3000)},
	}
	s.Fees.NewMemberYearly = money.New(10000)
	s.Fees.RenewalYearly = money.New(8000)
	return s
}

// newTestStore builds a serialized in-memory store seeded with players.
// POST: returned store is ready for commands; mem exposes backups
func newTestStore(t *testing.T, players ...member.Member) (*storage.Serialized, *storage.Memory) {
	t.Helper()
	snap := club.Empty(2026)
	snap.Settings = testSettings()
	snap.Players = append(snap.Players, players...)
	mem := storage.NewMemory(snap)
	return storage.NewSerialized(mem, nil, 0), mem
}

func snapshot(t *testing.T, store ClubStore) club.Snapshot {
	t.Helper()
	var out club.Snapshot
	if err := store.View(context.Background(), func(s club.Snapshot) error {
		out = s
		return nil
	}); err != nil {
		t.Fatalf("View() error = %v", err)
	}
	return out
}

func ana() member.Member {
	return member.New("m1", "Ana Lima", "Ani", "FW", 2026, clock)
}

func bruno() member.Member {
	return member.New("m2", "Bruno", "", "GK", 2024, clock)
}

func amount(n int64) *money.Amount {
	a := money.New(n)
	return &a
}

func wantValidation(t *testing.T, err error) {
	t.Helper()
	if !IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// recordingBackupStore implements BackupStore and records call order.
type recordingBackupStore struct {
	snap      club.Snapshot
	calls     []string
	backupErr error
}

// View implements ClubStore.
// POST: records "read"
func (r *recordingBackupStore) View(_ context.Context, fn func(club.Snapshot) error) error {
	r.calls = append(r.calls, "read")
	return fn(r.snap)
}

// Update implements ClubStore.
// POST: records "read" then "write" when fn succeeds
func (r *recordingBackupStore) Update(_ context.Context, fn func(*club.Snapshot) error) error {
	r.calls = append(r.calls, "read")
	next, _ := r.snap.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	r.calls = append(r.calls, "write")
	r.snap = next
	return nil
}

// UpdateWithBackup implements BackupStore.
// POST: records "backup" before any read; aborts when backupErr is set
func (r *recordingBackupStore) UpdateWithBackup(ctx context.Context, fn func(*club.Snapshot, backup.Manifest) error) (backup.Manifest, error) {
	m, err := r.Backup(ctx)
	if err != nil {
		return backup.Manifest{}, err
	}
	err = r.Update(ctx, func(s *club.Snapshot) error { return fn(s, m) })
	return m, err
}

// Backup implements BackupStore.
func (r *recordingBackupStore) Backup(context.Context) (backup.Manifest, error) {
	r.calls = append(r.calls, "backup")
	if r.backupErr != nil {
		return backup.Manifest{}, r.backupErr
	}
	return backup.Manifest{CreatedAt: clock, Location: "mem", Files: map[string]string{backup.DocDB: "db-x.json"}}, nil
}

// mockNotifier implements AdminNotifier.
type mockNotifier struct {
	subjects []string
	err      error
}

// NotifyAdmin implements AdminNotifier.
func (n *mockNotifier) NotifyAdmin(_ context.Context, subject, _ string) error {
	n.subjects = append(n.subjects, subject)
	return n.err
}

package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
)

// recordingStore wraps Memory and records the order of calls.
type recordingStore struct {
	*Memory
	mu        sync.Mutex
	calls     []string
	backupErr error
	writeErr  error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Memory: NewMemory(club.Empty(2026))}
}

func (r *recordingStore) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

// Read implements Store.
// PRE: none
// POST: call recorded, snapshot returned
func (r *recordingStore) Read(ctx context.Context) (club.Snapshot, error) {
	r.record("read")
	return r.Memory.Read(ctx)
}

// Write implements Store.
// PRE: s is valid
// POST: call recorded; fails with writeErr when set
func (r *recordingStore) Write(ctx context.Context, s club.Snapshot) error {
	r.record("write")
	if r.writeErr != nil {
		return r.writeErr
	}
	return r.Memory.Write(ctx, s)
}

// Backup implements Store.
// PRE: none
// POST: call recorded; fails with backupErr when set
func (r *recordingStore) Backup(ctx context.Context) (backup.Manifest, error) {
	r.record("backup")
	if r.backupErr != nil {
		return backup.Manifest{}, r.backupErr
	}
	return r.Memory.Backup(ctx)
}

func TestSerialized_UpdateWritesOnSuccess(t *testing.T) {
	rs := newRecordingStore()
	collector := perf.NewCollector(10)
	s := NewSerialized(rs, collector, 0)

	err := s.Update(context.Background(), func(snap *club.Snapshot) error {
		snap.Settings.ClubName = "Renamed FC"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "write"}, rs.calls)
	assert.Equal(t, int64(1), collector.TotalRecorded())

	got, err := rs.Memory.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Renamed FC", got.Settings.ClubName)
}

func TestSerialized_UpdateSkipsWriteOnError(t *testing.T) {
	rs := newRecordingStore()
	s := NewSerialized(rs, nil, 0)
	boom := errors.New("validation failed")

	err := s.Update(context.Background(), func(snap *club.Snapshot) error {
		snap.Settings.ClubName = "Half applied"
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"read"}, rs.calls)

	got, _ := rs.Memory.Read(context.Background())
	assert.Equal(t, "My Club", got.Settings.ClubName)
}

// TestSerialized_UpdateWithBackupOrder verifies exactly one backup precedes the read and write.
func TestSerialized_UpdateWithBackupOrder(t *testing.T) {
	rs := newRecordingStore()
	s := NewSerialized(rs, nil, 0)

	manifest, err := s.UpdateWithBackup(context.Background(), func(snap *club.Snapshot, m backup.Manifest) error {
		assert.False(t, m.Empty())
		snap.Settings.Season = 2027
		return nil
	})
	require.NoError(t, err)
	assert.False(t, manifest.Empty())
	assert.Equal(t, []string{"backup", "read", "write"}, rs.calls)
	require.Len(t, rs.Backups(), 1)
	assert.Equal(t, 2026, rs.Backups()[0].Settings.Season)
}

func TestSerialized_UpdateWithBackupAbortsOnBackupFailure(t *testing.T) {
	rs := newRecordingStore()
	rs.backupErr = errors.New("disk full")
	s := NewSerialized(rs, nil, 0)

	called := false
	_, err := s.UpdateWithBackup(context.Background(), func(*club.Snapshot, backup.Manifest) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, rs.backupErr)
	assert.False(t, called)
	assert.Equal(t, []string{"backup"}, rs.calls)
}

func TestSerialized_ViewDoesNotWrite(t *testing.T) {
	rs := newRecordingStore()
	s := NewSerialized(rs, nil, 0)
	err := s.View(context.Background(), func(snap club.Snapshot) error {
		snap.Settings.ClubName = "ignored"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"read"}, rs.calls)
}

// TestSerialized_ConcurrentUpdatesDoNotLoseWrites checks the lock serializes read-modify-write.
func TestSerialized_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	s := NewSerialized(NewMemory(club.Empty(2026)), nil, 0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(context.Background(), func(snap *club.Snapshot) error {
				snap.Players = append(snap.Players, member.Member{ID: "x"})
				return nil
			})
		}()
	}
	wg.Wait()
	require.NoError(t, s.View(context.Background(), func(snap club.Snapshot) error {
		assert.Len(t, snap.Players, 20)
		return nil
	}))
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhouse/internal/adapters/storage"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
)

// memoryOpener serves every command from one in-memory store.
// PRE: snap is a valid snapshot
// POST: the returned Memory observes every write
func memoryOpener(snap club.Snapshot) (opener, *storage.Memory) {
	mem := storage.NewMemory(snap)
	store := storage.NewSerialized(mem, nil, 0)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return func(context.Context) (env, func(), error) {
		return env{store: store, location: time.UTC, now: func() time.Time { return now }}, func() {}, nil
	}, mem
}

func execute(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	root := rootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seeded() club.Snapshot {
	s := club.Empty(2026)
	m := member.Member{ID: "m1", Name: "Ana", Position: "FW", Attendance: map[string]bool{"2026-03-07": true}}
	m.Stats.Goals = 4
	s.Players = append(s.Players, m)
	return s
}

func TestRollover_RequiresConfirm(t *testing.T) {
	open, mem := memoryOpener(seeded())

	_, err := execute(t, open, "rollover", "--season", "2027", "--confirm", "nope")
	require.Error(t, err)
	assert.Empty(t, mem.Backups())
}

func TestRollover_AdvancesSeason(t *testing.T) {
	open, mem := memoryOpener(seeded())

	out, err := execute(t, open, "rollover", "--season", "2027", "--attendance", "--confirm", "ROLLOVER")
	require.NoError(t, err)

	var result struct {
		Season int `json:"season"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2027, result.Season)

	snap, err := mem.Read(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2027, snap.Settings.Season)
	assert.Empty(t, snap.Players[0].Attendance)
	assert.Equal(t, 4, snap.Players[0].Stats.Goals)
	assert.Len(t, mem.Backups(), 1)
}

func TestReset_ClearsStats(t *testing.T) {
	open, mem := memoryOpener(seeded())

	_, err := execute(t, open, "reset", "--stats", "--confirm", "RESET")
	require.NoError(t, err)

	snap, err := mem.Read(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2026, snap.Settings.Season)
	assert.Zero(t, snap.Players[0].Stats.Goals)
}

func TestBackupOverviewMigrate(t *testing.T) {
	open, mem := memoryOpener(seeded())

	_, err := execute(t, open, "backup")
	require.NoError(t, err)
	assert.Len(t, mem.Backups(), 1)

	out, err := execute(t, open, "overview", "--month", "2026-02")
	require.NoError(t, err)
	assert.Contains(t, out, `"monthKey": "2026-02"`)

	_, err = execute(t, open, "overview", "--month", "Feb")
	assert.Error(t, err)

	out, err = execute(t, open, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "createdAtBackfills")
}

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
)

// DefaultSlowStoreMs is the default threshold for slow store operation warnings.
const DefaultSlowStoreMs = 100

// Serialized wraps a Store with a single in-process lock so read-modify-write
// cycles never interleave. Views share a read lock.
type Serialized struct {
	mu        sync.RWMutex
	store     Store
	tracer    trace.Tracer
	collector *perf.Collector
	threshold float64
}

// NewSerialized wraps store. collector may be nil; slowMs <= 0 uses the default.
// PRE: store is open
// POST: all access through the returned value is serialized
func NewSerialized(store Store, collector *perf.Collector, slowMs int) *Serialized {
	if slowMs <= 0 {
		slowMs = DefaultSlowStoreMs
	}
	return &Serialized{
		store:     store,
		tracer:    otel.Tracer("clubhouse/storage"),
		collector: collector,
		threshold: float64(slowMs),
	}
}

// View reads a snapshot and passes it to fn.
// PRE: fn does not retain s beyond the call
// POST: nothing is written
func (s *Serialized) View(ctx context.Context, fn func(club.Snapshot) error) error {
	ctx, end := s.begin(ctx, "store.View")
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.store.Read(ctx)
	if err != nil {
		err = fmt.Errorf("read store: %w", err)
		end(err)
		return err
	}
	err = fn(snap)
	end(err)
	return err
}

// Update reads a snapshot, lets fn mutate it and writes it back.
// PRE: fn validates before mutating
// POST: the store is written only when fn returns nil
func (s *Serialized) Update(ctx context.Context, fn func(*club.Snapshot) error) error {
	ctx, end := s.begin(ctx, "store.Update")
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.readModifyWrite(ctx, fn)
	end(err)
	return err
}

// UpdateWithBackup takes a full backup, then runs fn as Update does.
// PRE: none
// POST: the backup completes before the document is read for mutation; a
// failed backup aborts with no write
func (s *Serialized) UpdateWithBackup(ctx context.Context, fn func(*club.Snapshot, backup.Manifest) error) (backup.Manifest, error) {
	ctx, end := s.begin(ctx, "store.UpdateWithBackup")
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest, err := s.store.Backup(ctx)
	if err != nil {
		err = fmt.Errorf("backup before update: %w", err)
		end(err)
		return backup.Manifest{}, err
	}
	slog.Info("store_event", "event", "backup_created", "location", manifest.Location, "files", len(manifest.Files))

	err = s.readModifyWrite(ctx, func(snap *club.Snapshot) error {
		return fn(snap, manifest)
	})
	end(err)
	return manifest, err
}

// Backup takes a full backup without mutation.
func (s *Serialized) Backup(ctx context.Context) (backup.Manifest, error) {
	ctx, end := s.begin(ctx, "store.Backup")
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest, err := s.store.Backup(ctx)
	if err != nil {
		err = fmt.Errorf("backup: %w", err)
	}
	end(err)
	return manifest, err
}

// Close closes the underlying store once in-flight operations finish.
func (s *Serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

func (s *Serialized) readModifyWrite(ctx context.Context, fn func(*club.Snapshot) error) error {
	snap, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}
	if err := fn(&snap); err != nil {
		return err
	}
	if err := s.store.Write(ctx, snap); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// begin starts a span and returns a func that ends it and records timing.
func (s *Serialized) begin(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("store.op", op)))
	return ctx, func(err error) {
		durationMs := float64(time.Since(start).Microseconds()) / 1000.0
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Float64("store.duration_ms", durationMs))
		span.End()

		if durationMs >= s.threshold {
			slog.Warn("slow_store_op", "op", op, "duration_ms", durationMs)
		} else {
			slog.Debug("store_op", "op", op, "duration_ms", durationMs)
		}
		if s.collector != nil {
			s.collector.Record(perf.Entry{
				Kind:       perf.KindStore,
				Path:       op,
				DurationMs: durationMs,
				Failed:     err != nil,
				Timestamp:  start,
			})
		}
	}
}

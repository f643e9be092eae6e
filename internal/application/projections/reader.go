package projections

import (
	"context"
	"errors"
	"strings"

	"clubhouse/internal/domain/club"
)

// SnapshotReader is the read side of the club store.
type SnapshotReader interface {
	View(ctx context.Context, fn func(club.Snapshot) error) error
}

// Query errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidQuery = errors.New("invalid query")
)

// QueryError reports a malformed query parameter. It matches ErrInvalidQuery.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error { return e.Err }

// Is reports ErrInvalidQuery as a match.
func (e *QueryError) Is(target error) bool { return target == ErrInvalidQuery }

func badQuery(err error) error { return &QueryError{Err: err} }

// matchesSearch reports whether q is empty or found in name or nickname.
func matchesSearch(q, name, nickname string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(nickname), q)
}

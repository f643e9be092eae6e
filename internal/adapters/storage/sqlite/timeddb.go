package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/adapters/http/perf"
)

// DefaultSlowQueryMs is the default threshold for slow statement warnings.
const DefaultSlowQueryMs = 50

// SQLDB is the statement surface Migrate and the document store use.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// TimedDB times statements against the club database. Each statement is
// reported under its label, e.g. "SELECT document" or "VACUUM".
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	slowMs    float64
}

// NewTimedDB wraps db. collector may be nil; slowMs <= 0 uses DefaultSlowQueryMs.
// PRE: db is open
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowMs int) *TimedDB {
	if slowMs <= 0 {
		slowMs = DefaultSlowQueryMs
	}
	return &TimedDB{db: db, collector: collector, slowMs: float64(slowMs)}
}

// statementLabel reduces SQL to its verb and target table.
func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "?"
	}
	verb := strings.ToUpper(fields[0])
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT", "REPLACE":
		marker = "INTO"
	case "UPDATE":
		if len(fields) > 1 {
			return verb + " " + fields[1]
		}
		return verb
	case "CREATE", "DROP", "ALTER":
		if len(fields) < 3 || !strings.EqualFold(fields[1], "TABLE") {
			return verb
		}
		rest := fields[2:]
		for len(rest) > 1 && (strings.EqualFold(rest[0], "IF") || strings.EqualFold(rest[0], "NOT") ||
			strings.EqualFold(rest[0], "EXISTS")) {
			rest = rest[1:]
		}
		name, _, _ := strings.Cut(rest[0], "(")
		return verb + " TABLE " + name
	default:
		return verb
	}
	for i, f := range fields[:len(fields)-1] {
		if strings.EqualFold(f, marker) {
			return verb + " " + strings.Trim(fields[i+1], "(`\"")
		}
	}
	return verb
}

func (t *TimedDB) observe(label string, start time.Time, err error) {
	ms := float64(time.Since(start).Microseconds()) / 1000.0
	level := slog.LevelDebug
	event := "sql_statement"
	if ms >= t.slowMs {
		level = slog.LevelWarn
		event = "slow_sql_statement"
	}
	slog.Log(context.Background(), level, event, "statement", label, "duration_ms", ms, "failed", err != nil)
	if t.collector == nil {
		return
	}
	t.collector.Record(perf.Entry{
		Kind:       perf.KindQuery,
		Path:       label,
		DurationMs: ms,
		Failed:     err != nil,
		Timestamp:  start,
	})
}

func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.db.ExecContext(ctx, query, args...)
	t.observe(statementLabel(query), start, err)
	return res, err
}

func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(statementLabel(query), start, err)
	return rows, err
}

func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(statementLabel(query), start, row.Err())
	return row
}

// BeginTx reports under "BEGIN". Statements inside the transaction run on
// the *sql.Tx and are not timed individually.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe("BEGIN", start, err)
	return tx, err
}

func (t *TimedDB) Close() error {
	return t.db.Close()
}

package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes what was timed.
type EntryKind uint8

const (
	KindRequest EntryKind = iota // HTTP request
	KindQuery                    // SQL statement
	KindStore                    // whole-document store operation
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path", SQL op, or "store.Op"
	StatusCode int    // HTTP status (0 otherwise)
	DurationMs float64
	Failed     bool
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// When full, oldest entries are overwritten. Aggregation happens only on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0 (non-positive falls back to DefaultRingSize)
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRecorded   int64      `json:"totalRecorded"`
	RequestCount    int        `json:"requestCount"`
	RequestP50Ms    float64    `json:"requestP50Ms"`
	RequestP95Ms    float64    `json:"requestP95Ms"`
	RequestP99Ms    float64    `json:"requestP99Ms"`
	StoreP95Ms      float64    `json:"storeP95Ms"`
	FailedStoreOps  int        `json:"failedStoreOps"`
	SlowestPaths    []PathStat `json:"slowestPaths"`
	SlowestQueries  []PathStat `json:"slowestQueries"`
	SlowestStoreOps []PathStat `json:"slowestStoreOps"`
}

// PathStat aggregates timing for a single path, query op or store op.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"totalMs"`
}

type bucket struct {
	stats     map[string]*PathStat
	durations []float64
}

func (b *bucket) add(e Entry) {
	if b.stats == nil {
		b.stats = make(map[string]*PathStat)
	}
	b.durations = append(b.durations, e.DurationMs)
	s, ok := b.stats[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		b.stats[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
}

// Snapshot computes aggregated stats from entries recorded at or after since.
// Sorts on every call; meant for the admin perf endpoint, not hot paths.
// PRE: topN > 0
// POST: Returns a Snapshot with percentiles and top-N lists per kind
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var requests, queries, stores bucket
	failed := 0
	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			requests.add(e)
		case KindQuery:
			queries.add(e)
		case KindStore:
			stores.add(e)
			if e.Failed {
				failed++
			}
		}
	}

	snap := Snapshot{
		TotalRecorded:   c.TotalRecorded(),
		RequestCount:    len(requests.durations),
		FailedStoreOps:  failed,
		SlowestPaths:    topByAvg(requests.stats, topN),
		SlowestQueries:  topByAvg(queries.stats, topN),
		SlowestStoreOps: topByAvg(stores.stats, topN),
	}
	if len(requests.durations) > 0 {
		sort.Float64s(requests.durations)
		snap.RequestP50Ms = percentile(requests.durations, 50)
		snap.RequestP95Ms = percentile(requests.durations, 95)
		snap.RequestP99Ms = percentile(requests.durations, 99)
	}
	if len(stores.durations) > 0 {
		sort.Float64s(stores.durations)
		snap.StoreP95Ms = percentile(stores.durations, 95)
	}
	return snap
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N entries by average duration, descending.
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Path < list[j].Path
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

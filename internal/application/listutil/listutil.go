// Package listutil parses list query parameters and slices result pages.
package listutil

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clubhouse/internal/domain/period"
)

// Domain errors
var (
	ErrInvalidFrom = errors.New("from must be YYYY-MM-DD")
	ErrInvalidTo   = errors.New("to must be YYYY-MM-DD")
)

// DefaultLimit is the page size when none is requested.
const DefaultLimit = 20

// MaxLimit bounds the page size a client may request.
const MaxLimit = 200

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page  int // 1-indexed page number
	Limit int // rows per page
}

// FilterParams carries search and filter parameters.
type FilterParams struct {
	Search  string            // free-text search query
	Filters map[string]string // exact-match filters (e.g. type=member_joined)
}

// DateRange bounds a listing by day. Zero ends are unbounded.
type DateRange struct {
	From time.Time // start of the from day
	To   time.Time // last second of the to day
}

// PageInfo carries pagination metadata for a response.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"-"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParsePageParams extracts page and limit from URL query values.
// PRE: none
// POST: Page >= 1; 1 <= Limit <= MaxLimit
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	return PageParams{Page: page, Limit: min(limit, MaxLimit)}
}

// ParseFilterParams extracts search and named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// ParseDateRange reads from and to date keys in loc. from covers the whole
// day onward; to runs through 23:59:59 of its day.
// PRE: loc is non-nil
// POST: returns ErrInvalidFrom or ErrInvalidTo for malformed keys
func ParseDateRange(q url.Values, loc *time.Location) (DateRange, error) {
	var r DateRange
	if from := strings.TrimSpace(q.Get("from")); from != "" {
		d, err := period.ParseDateKey(from)
		if err != nil {
			return DateRange{}, ErrInvalidFrom
		}
		r.From = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}
	if to := strings.TrimSpace(q.Get("to")); to != "" {
		d, err := period.ParseDateKey(to)
		if err != nil {
			return DateRange{}, ErrInvalidTo
		}
		r.To = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, loc)
	}
	return r, nil
}

// NewPageInfo computes pagination metadata. Page is echoed as requested so a
// page past the end yields an empty listing rather than the last page.
// PRE: total >= 0
// POST: TotalPages >= 1
func NewPageInfo(page, limit, total int) PageInfo {
	if limit < 1 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	totalPages := max(1, (total+limit-1)/limit)
	return PageInfo{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Offset returns the index of the first row on the current page.
// POST: Returns (Page-1) * Limit
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Slice returns the rows of items on page p.
// POST: empty (non-nil) when the page lies past the end
func Slice[T any](items []T, p PageInfo) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}

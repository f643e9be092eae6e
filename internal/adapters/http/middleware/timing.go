package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"clubhouse/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// Timing returns middleware that logs and records API request durations.
// The static client is skipped. Requests at or above slowMs log at WARN, the
// rest at DEBUG. Entries are keyed by the matched chi route so that
// /api/players/{id} aggregates across ids. collector may be nil.
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			finished := false
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				status := ww.Status()
				switch {
				case status != 0:
				case finished:
					status = http.StatusOK
				default:
					// Panicked before writing; the recoverer answers 500.
					status = http.StatusInternalServerError
				}
				route := routeOf(r)

				level, msg := slog.LevelDebug, "request"
				if durationMs >= threshold {
					level, msg = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, msg,
					"request_id", chimw.GetReqID(r.Context()),
					"method", r.Method,
					"route", route,
					"status", status,
					"duration_ms", durationMs,
				)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       r.Method + " " + route,
						StatusCode: status,
						DurationMs: durationMs,
						Failed:     status >= http.StatusInternalServerError,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(ww, r)
			finished = true
		})
	}
}

// routeOf returns the matched route pattern, or the raw path outside chi.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/money"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type okResponse struct {
	OK bool `json:"ok"`
}

func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic 500 to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeBody reads a bounded JSON body into v, answering 400 on failure.
// An empty body decodes as the zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := strictDecode(r, v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError maps orchestrator and projection errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case orchestrators.IsValidation(err),
		errors.Is(err, projections.ErrInvalidQuery),
		errors.Is(err, orchestrators.ErrConfirmationRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, orchestrators.ErrNotFound), errors.Is(err, projections.ErrNotFound):
		writeJSON(w, http.StatusNotFound, okResponse{OK: false})
	case errors.Is(err, orchestrators.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, err)
	}
}

// snapshot runs a read-only view and returns a copy of the snapshot.
func (s *Server) snapshot(r *http.Request) (club.Snapshot, error) {
	var out club.Snapshot
	err := s.deps.Store.View(r.Context(), func(snap club.Snapshot) error {
		out = snap
		return nil
	})
	return out, err
}

// count converts a coerced amount into a whole counter. Fractions truncate.
func count(in money.Input) int {
	return int(in.Value.IntPart())
}

// nullableInt distinguishes an absent field from an explicit null.
type nullableInt struct {
	Value *int
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *nullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if strings.TrimSpace(string(data)) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// Package handler serves fixture data in the shape of the Asana API.
package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/asanakit/asanakit/internal/api/fixture"
	"github.com/asanakit/asanakit/internal/api/response"
)

// FixtureHandler answers GET requests from a fixture set.
type FixtureHandler struct {
	fixtures fixture.Set
}

// NewFixtureHandler creates a new FixtureHandler.
func NewFixtureHandler(fixtures fixture.Set) *FixtureHandler {
	return &FixtureHandler{fixtures: fixtures}
}

// GetObject handles GET [/{parent}/{parentGID}]/{resource}/{gid}.
func (h *FixtureHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	key := requestKey(r)
	data, ok := h.fixtures.Lookup(key)
	if !ok || !isKind(data, '{') {
		response.NotFound(w, key)
		return
	}

	h.serve(w, r, data, 0)
}

// ListObjects handles GET [/{parent}/{parentGID}]/{resource}.
func (h *FixtureHandler) ListObjects(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			response.BadRequest(w, "limit: Must be between 1 and 100")
			return
		}
		limit = n
	}

	key := requestKey(r)
	data, ok := h.fixtures.Lookup(key)
	if !ok || !isKind(data, '[') {
		response.NotFound(w, key)
		return
	}

	h.serve(w, r, data, limit)
}

// serve projects data onto opt_fields, applies the page limit and writes
// the envelope.
func (h *FixtureHandler) serve(w http.ResponseWriter, r *http.Request, data json.RawMessage, limit int) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		response.Internal(w)
		return
	}

	if items, ok := value.([]interface{}); ok && limit > 0 && len(items) > limit {
		value = items[:limit]
	}

	if optFields := r.URL.Query().Get("opt_fields"); optFields != "" {
		value = parseFields(optFields).apply(value)
	}

	response.OK(w, value)
}

// requestKey rebuilds the fixture key from the route parameters.
func requestKey(r *http.Request) string {
	parts := []string{
		chi.URLParam(r, "parent"),
		chi.URLParam(r, "parentGID"),
		chi.URLParam(r, "resource"),
		chi.URLParam(r, "gid"),
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}

func isKind(data json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == open
}

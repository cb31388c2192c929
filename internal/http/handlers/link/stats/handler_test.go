package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	sum      int64
	err      error
	lastSlug string
}

func (s *stubCounter) VisitSum(ctx context.Context, slug string) (int64, error) {
	s.lastSlug = slug
	return s.sum, s.err
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestStats(t *testing.T) {
	counter := &stubCounter{sum: 42}
	log := zerolog.Nop()
	h := Handler(counter, false, &log)

	w := get(h, "/api/link/stats?slug=abc")
	require.Equal(t, http.StatusOK, w.Code)

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Slug)
	assert.Equal(t, int64(42), resp.Scans)
	assert.NotEmpty(t, resp.LastUpdated)
}

func TestStatsLowercasesSlug(t *testing.T) {
	counter := &stubCounter{}
	log := zerolog.Nop()
	h := Handler(counter, false, &log)

	get(h, "/api/link/stats?slug=AbC")
	assert.Equal(t, "abc", counter.lastSlug)
}

func TestStatsCaseSensitive(t *testing.T) {
	counter := &stubCounter{}
	log := zerolog.Nop()
	h := Handler(counter, true, &log)

	get(h, "/api/link/stats?slug=AbC")
	assert.Equal(t, "AbC", counter.lastSlug)
}

func TestStatsMissingSlug(t *testing.T) {
	log := zerolog.Nop()
	h := Handler(&stubCounter{}, false, &log)

	w := get(h, "/api/link/stats")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsBackendFailure(t *testing.T) {
	counter := &stubCounter{err: errors.New("dataset offline")}
	log := zerolog.Nop()
	h := Handler(counter, false, &log)

	w := get(h, "/api/link/stats?slug=abc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null\n", w.Body.String())
}

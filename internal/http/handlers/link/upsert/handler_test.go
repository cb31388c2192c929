package upsert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/http/handlers/link"
	"shortlink/internal/models"
	"shortlink/internal/storage/inmemory"
)

var slugPattern = regexp.MustCompile(`(?i)^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "http://sho.rt/api/link/upsert", strings.NewReader(body))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestUpsertCreates(t *testing.T) {
	store := inmemory.NewStore()
	log := zerolog.Nop()
	h := Handler(store, slugPattern, false, &log)

	w := post(h, `{"slug":"abc","url":"https://example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp link.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, "abc", resp.Link.Slug)

	stored, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", stored.URL)
}

func TestUpsertReturnsExisting(t *testing.T) {
	store := inmemory.NewStore()
	require.NoError(t, store.Put(context.Background(), models.Link{
		ID:   "orig-id",
		Slug: "abc",
		URL:  "https://original.example.com",
	}))
	log := zerolog.Nop()
	h := Handler(store, slugPattern, false, &log)

	w := post(h, `{"slug":"abc","url":"https://other.example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp link.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "existing", resp.Status)
	assert.Equal(t, "orig-id", resp.Link.ID)
	assert.Equal(t, "https://original.example.com", resp.Link.URL)

	stored, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://original.example.com", stored.URL, "existing link must not be overwritten")
}

func TestUpsertRejectsBadInput(t *testing.T) {
	store := inmemory.NewStore()
	log := zerolog.Nop()
	h := Handler(store, slugPattern, false, &log)

	w := post(h, `{"slug":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

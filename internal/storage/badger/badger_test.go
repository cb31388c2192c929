package badger

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := zerolog.Nop()
	store, err := NewStore(t.TempDir(), &log)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestPutGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	link := models.Link{
		ID:        "id1",
		Slug:      "abc",
		URL:       "https://example.com",
		Name:      "Example",
		UTMSource: "qr-code",
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, store.Put(ctx, link))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, link, got)
}

func TestGetUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrUnfound)
}

func TestPutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, models.Link{ID: "id1", Slug: "abc", URL: "https://one.example.com"}))
	require.NoError(t, store.Put(ctx, models.Link{ID: "id2", Slug: "abc", URL: "https://two.example.com"}))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://two.example.com", got.URL)
}

func TestPutRejectsPastExpiration(t *testing.T) {
	store := newTestStore(t)

	err := store.Put(context.Background(), models.Link{
		ID:         "id1",
		Slug:       "abc",
		URL:        "https://example.com",
		Expiration: time.Now().Add(-time.Hour).Unix(),
	})
	assert.ErrorIs(t, err, models.ErrExpired)
}

func TestExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, models.Link{ID: "id1", Slug: "abc", URL: "https://example.com"}))

	exists, err = store.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

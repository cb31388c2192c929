package upsert

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"

	"shortlink/internal/http/handlers/link"
	"shortlink/internal/http/httputils"
	"shortlink/internal/models"
)

type LinkStore interface {
	Get(ctx context.Context, slug string) (models.Link, error)
	Put(ctx context.Context, link models.Link) error
}

// Handler creates a short link or returns the existing record for an
// occupied slug.
func Handler(store LinkStore, pattern *regexp.Regexp, caseSensitive bool, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		newLink, err := link.DecodeBody(r, pattern, caseSensitive)
		if err != nil {
			httputils.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		existing, err := store.Get(ctx, newLink.Slug)
		if err == nil {
			httputils.WriteJSONResponse(w, http.StatusOK, link.Response{
				Link:      existing,
				ShortLink: httputils.ShortLink(r, existing.Slug),
				Status:    "existing",
			})
			return
		}
		if !errors.Is(err, models.ErrUnfound) {
			log.Error().Err(err).Str("slug", newLink.Slug).Msg("failed to check slug")
			httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to check slug")
			return
		}

		if err := store.Put(ctx, newLink); err != nil {
			log.Error().Err(err).Str("slug", newLink.Slug).Msg("failed to store link")
			httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to store link")
			return
		}

		httputils.WriteJSONResponse(w, http.StatusCreated, link.Response{
			Link:      newLink,
			ShortLink: httputils.ShortLink(r, newLink.Slug),
			Status:    "created",
		})
	}
}

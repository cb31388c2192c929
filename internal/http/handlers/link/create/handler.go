package create

import (
	"context"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"

	"shortlink/internal/http/handlers/link"
	"shortlink/internal/http/httputils"
	"shortlink/internal/models"
)

type LinkStore interface {
	Exists(ctx context.Context, slug string) (bool, error)
	Put(ctx context.Context, link models.Link) error
}

// Handler creates a new short link. An occupied slug is a conflict, never
// an overwrite.
func Handler(store LinkStore, pattern *regexp.Regexp, caseSensitive bool, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		newLink, err := link.DecodeBody(r, pattern, caseSensitive)
		if err != nil {
			httputils.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		exists, err := store.Exists(ctx, newLink.Slug)
		if err != nil {
			log.Error().Err(err).Str("slug", newLink.Slug).Msg("failed to check slug")
			httputils.WriteJSONError(w, http.StatusInternalServerError, "failed to check slug")
			return
		}
		if exists {
			httputils.WriteJSONError(w, http.StatusConflict, "link already exists")
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
		})
	}
}

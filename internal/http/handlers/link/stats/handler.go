package stats

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shortlink/internal/http/httputils"
)

type VisitCounter interface {
	VisitSum(ctx context.Context, slug string) (int64, error)
}

type response struct {
	Slug        string `json:"slug"`
	Scans       int64  `json:"scans"`
	LastUpdated string `json:"lastUpdated"`
}

// Handler returns the sampled visit total for a slug. When the analytics
// backend is unavailable the body is JSON null, not an error, so clients
// can degrade gracefully.
func Handler(counter VisitCounter, caseSensitive bool, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		if slug == "" {
			httputils.WriteJSONError(w, http.StatusBadRequest, "slug is required")
			return
		}
		if !caseSensitive {
			slug = strings.ToLower(slug)
		}

		scans, err := counter.VisitSum(r.Context(), slug)
		if err != nil {
			log.Error().Err(err).Str("slug", slug).Msg("failed to fetch link stats")
			httputils.WriteJSONResponse(w, http.StatusOK, nil)
			return
		}

		httputils.WriteJSONResponse(w, http.StatusOK, response{
			Slug:        slug,
			Scans:       scans,
			LastUpdated: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

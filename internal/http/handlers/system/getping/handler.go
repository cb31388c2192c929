package getping

import (
	"context"
	"net/http"

	"shortlink/internal/http/httputils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerPing reports storage health.
func HandlerPing(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			httputils.WriteJSONError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		w.Header().Set(httputils.HeaderContentType, httputils.MIMETextPlain)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	}
}

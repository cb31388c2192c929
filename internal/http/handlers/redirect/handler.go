package redirect

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"shortlink/internal/accesslog"
	"shortlink/internal/models"
	"shortlink/internal/resolver"
	"shortlink/internal/visitor"
)

// AccessLogSink is the part of the analytics store the dispatcher needs.
type AccessLogSink interface {
	Write(ctx context.Context, rec accesslog.Record) error
}

// Options carry the redirect behaviour knobs.
type Options struct {
	HomeURL             string
	StatusCode          int
	RedirectWithQuery   bool
	DisableBotAccessLog bool
	AnalyticsTimeout    time.Duration
}

// Handler serves every public short-link request: resolve the slug, launch
// the detached access-log submission, emit the redirect. Analytics never
// gates the response.
type Handler struct {
	resolver *resolver.Resolver
	sink     AccessLogSink
	log      *zerolog.Logger
	opts     Options
}

func New(res *resolver.Resolver, sink AccessLogSink, log *zerolog.Logger, opts Options) *Handler {
	if opts.StatusCode == 0 {
		opts.StatusCode = http.StatusTemporaryRedirect
	}
	if opts.AnalyticsTimeout <= 0 {
		opts.AnalyticsTimeout = 500 * time.Millisecond
	}
	return &Handler{resolver: res, sink: sink, log: log, opts: opts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		if h.opts.HomeURL != "" {
			http.Redirect(w, r, h.opts.HomeURL, h.opts.StatusCode)
			return
		}
		http.NotFound(w, r)
		return
	}

	slug := resolver.NormalizeSlug(r.URL.Path)
	if !h.resolver.Eligible(slug) {
		http.NotFound(w, r)
		return
	}

	link, err := h.resolver.Resolve(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	target, err := buildTarget(link, r.URL.Query(), h.opts.RedirectWithQuery)
	if err != nil {
		// A stored link whose URL no longer parses has no recovery path
		// for this request.
		h.log.Error().Err(err).Str("slug", link.Slug).Msg("stored link url is malformed")
		http.NotFound(w, r)
		return
	}

	h.logAccess(r, link)

	http.Redirect(w, r, target, h.opts.StatusCode)
}

// logAccess submits the analytics record in a detached goroutine with its
// own deadline and error boundary. The request data is captured up front
// because the server may reuse the request once the handler returns.
func (h *Handler) logAccess(r *http.Request, link models.Link) {
	if link.ID == "" {
		h.log.Warn().Str("slug", link.Slug).Msg("link has no id, skipping access log")
		return
	}

	headers := r.Header.Clone()
	remoteAddr := r.RemoteAddr

	go func() {
		defer func() {
			if p := recover(); p != nil {
				h.log.Error().Interface("panic", p).Str("slug", link.Slug).Msg("access log panicked")
			}
		}()

		geo := visitor.GeoFromHeaders(headers)
		profile, isBot := visitor.Classify(headers, remoteAddr, geo)
		if isBot && h.opts.DisableBotAccessLog {
			h.log.Debug().Str("slug", link.Slug).Str("ua", profile.UserAgent).Msg("bot access log disabled")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), h.opts.AnalyticsTimeout)
		defer cancel()

		rec := accesslog.NewRecord(link.ID, accesslog.FromVisit(link, profile))
		if err := h.sink.Write(ctx, rec); err != nil {
			h.log.Error().Err(err).Str("slug", link.Slug).Msg("access log write failed")
		}
	}()
}

// buildTarget computes the final redirect URL. Precedence, lowest to
// highest: query already on the stored URL, the request query when
// forwarding is enabled, the link's utm_* fields.
func buildTarget(link models.Link, query url.Values, withQuery bool) (string, error) {
	utm := link.UTMParams()
	if len(utm) == 0 && (!withQuery || len(query) == 0) {
		return link.URL, nil
	}

	u, err := url.Parse(link.URL)
	if err != nil {
		return "", err
	}

	params := u.Query()
	if withQuery {
		for key, values := range query {
			if len(values) > 0 {
				params.Set(key, values[0])
			}
		}
	}
	for key, value := range utm {
		params.Set(key, value)
	}

	u.RawQuery = params.Encode()
	return u.String(), nil
}

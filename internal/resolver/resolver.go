package resolver

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shortlink/internal/models"
	"shortlink/internal/storage"
)

// Resolver turns a request path into a link record. Lookups are
// case-insensitive by default: the lower-cased slug is tried first and the
// original casing is the fallback. A small in-process cache bounds repeated
// store round trips for hot slugs.
type Resolver struct {
	store         storage.LinkStore
	log           *zerolog.Logger
	slugPattern   *regexp.Regexp
	reserved      map[string]struct{}
	caseSensitive bool

	cacheTTL time.Duration
	mu       sync.Mutex
	cache    map[string]cacheEntry
}

type cacheEntry struct {
	link    models.Link
	expires time.Time
}

type Options struct {
	SlugRegex     string
	ReserveSlug   []string
	CaseSensitive bool
	CacheTTL      time.Duration
}

func New(store storage.LinkStore, log *zerolog.Logger, opts Options) (*Resolver, error) {
	pattern, err := regexp.Compile(opts.SlugRegex)
	if err != nil {
		return nil, err
	}

	reserved := make(map[string]struct{}, len(opts.ReserveSlug))
	for _, slug := range opts.ReserveSlug {
		reserved[slug] = struct{}{}
	}

	return &Resolver{
		store:         store,
		log:           log,
		slugPattern:   pattern,
		reserved:      reserved,
		caseSensitive: opts.CaseSensitive,
		cacheTTL:      opts.CacheTTL,
		cache:         make(map[string]cacheEntry),
	}, nil
}

// NormalizeSlug strips leading and trailing slashes from a request path.
func NormalizeSlug(path string) string {
	return strings.Trim(path, "/")
}

// Eligible reports whether a slug may be resolved at all: non-empty, not
// reserved, and matching the configured slug pattern.
func (r *Resolver) Eligible(slug string) bool {
	if slug == "" {
		return false
	}
	if _, ok := r.reserved[slug]; ok {
		return false
	}
	return r.slugPattern.MatchString(slug)
}

// Resolve fetches the link record behind a slug. Store failures other than
// a plain not-found are logged and folded into models.ErrUnfound: a broken
// backing store must never surface as an error on the redirect path.
func (r *Resolver) Resolve(ctx context.Context, slug string) (models.Link, error) {
	if r.caseSensitive {
		return r.lookup(ctx, slug)
	}

	lower := strings.ToLower(slug)
	link, err := r.lookup(ctx, lower)
	if err == nil {
		return link, nil
	}
	if lower != slug {
		return r.lookup(ctx, slug)
	}
	return models.Link{}, models.ErrUnfound
}

func (r *Resolver) lookup(ctx context.Context, key string) (models.Link, error) {
	if link, ok := r.fromCache(key); ok {
		return link, nil
	}

	link, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, models.ErrUnfound) {
			r.log.Warn().Err(err).Str("slug", key).Msg("link store lookup failed")
		}
		return models.Link{}, models.ErrUnfound
	}

	r.toCache(key, link)
	return link, nil
}

func (r *Resolver) fromCache(key string) (models.Link, bool) {
	if r.cacheTTL <= 0 {
		return models.Link{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.cache[key]
	if !ok {
		return models.Link{}, false
	}
	if time.Now().After(entry.expires) {
		delete(r.cache, key)
		return models.Link{}, false
	}
	return entry.link, true
}

func (r *Resolver) toCache(key string, link models.Link) {
	if r.cacheTTL <= 0 {
		return
	}
	r.mu.Lock()
	r.cache[key] = cacheEntry{link: link, expires: time.Now().Add(r.cacheTTL)}
	r.mu.Unlock()
}

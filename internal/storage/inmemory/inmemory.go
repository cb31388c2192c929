package inmemory

import (
	"context"
	"sync"
	"time"

	"shortlink/internal/models"
)

// Store is a map-backed LinkStore used in development and tests. Expired
// records are dropped lazily on read.
type Store struct {
	mu    sync.RWMutex
	links map[string]models.Link
}

func NewStore() *Store {
	return &Store{
		links: make(map[string]models.Link),
	}
}

func (s *Store) Get(ctx context.Context, slug string) (models.Link, error) {
	s.mu.RLock()
	link, ok := s.links[slug]
	s.mu.RUnlock()

	if !ok {
		return models.Link{}, models.ErrUnfound
	}
	if link.Expiration > 0 && link.Expiration <= time.Now().Unix() {
		s.mu.Lock()
		delete(s.links, slug)
		s.mu.Unlock()
		return models.Link{}, models.ErrUnfound
	}
	return link, nil
}

func (s *Store) Put(ctx context.Context, link models.Link) error {
	if link.Slug == "" {
		return models.ErrInvalidData
	}
	s.mu.Lock()
	s.links[link.Slug] = link
	s.mu.Unlock()
	return nil
}

func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	_, err := s.Get(ctx, slug)
	if err == nil {
		return true, nil
	}
	if err == models.ErrUnfound {
		return false, nil
	}
	return false, err
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

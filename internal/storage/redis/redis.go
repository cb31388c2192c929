package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"shortlink/internal/models"
	"shortlink/internal/storage"
)

// Store keeps link records in Redis, one JSON value per slug plus a
// metadata side key. Expiration maps to key TTLs.
type Store struct {
	client *goredis.Client
}

func NewStore(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, slug string) (models.Link, error) {
	val, err := s.client.Get(ctx, storage.LinkKeyPrefix+slug).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return models.Link{}, models.ErrUnfound
		}
		return models.Link{}, fmt.Errorf("failed to get link: %w", err)
	}

	var link models.Link
	if err := json.Unmarshal([]byte(val), &link); err != nil {
		return models.Link{}, fmt.Errorf("failed to unmarshal link: %w", err)
	}
	return link, nil
}

func (s *Store) Put(ctx context.Context, link models.Link) error {
	value, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}
	meta, err := json.Marshal(storage.MetadataOf(link))
	if err != nil {
		return fmt.Errorf("failed to marshal link metadata: %w", err)
	}

	var ttl time.Duration
	if link.Expiration > 0 {
		ttl = time.Until(time.Unix(link.Expiration, 0))
		if ttl <= 0 {
			return models.ErrExpired
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, storage.LinkKeyPrefix+link.Slug, value, ttl)
	pipe.Set(ctx, storage.MetaKeyPrefix+link.Slug, meta, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put link: %w", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	n, err := s.client.Exists(ctx, storage.LinkKeyPrefix+slug).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check link: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"shortlink/internal/models"
	"shortlink/internal/storage"
)

// Store keeps link records in an embedded BadgerDB. Expiration is delegated
// to Badger entry TTLs, so expired slugs disappear without explicit
// deletion logic.
type Store struct {
	db  *badgerdb.DB
	log *zerolog.Logger
}

func NewStore(path string, log *zerolog.Logger) (*Store, error) {
	opts := badgerdb.DefaultOptions(path)
	opts.Logger = &badgerLogger{log: log}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", path, err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Get(ctx context.Context, slug string) (models.Link, error) {
	var link models.Link
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(storage.LinkKeyPrefix + slug))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &link)
		})
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return models.Link{}, models.ErrUnfound
		}
		return models.Link{}, fmt.Errorf("failed to get link: %w", err)
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

	err = s.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(storage.LinkKeyPrefix+link.Slug), value)
		metaEntry := badgerdb.NewEntry([]byte(storage.MetaKeyPrefix+link.Slug), meta)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
			metaEntry = metaEntry.WithTTL(ttl)
		}
		if err := txn.SetEntry(entry); err != nil {
			return err
		}
		return txn.SetEntry(metaEntry)
	})
	if err != nil {
		return fmt.Errorf("failed to put link: %w", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(storage.LinkKeyPrefix + slug))
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check link: %w", err)
	}
	return true, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger adapts zerolog to Badger's internal logger interface.
type badgerLogger struct {
	log *zerolog.Logger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.log.Error().Msgf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.log.Warn().Msgf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.log.Debug().Msgf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.log.Debug().Msgf(f, v...) }

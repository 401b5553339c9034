package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aweris/objtree/internal/compression"
	badger "github.com/dgraph-io/badger/v4"
)

const objectKeyPrefix = "obj/"

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	Path       string `mapstructure:"path"`
	InMemory   bool   `mapstructure:"in_memory"`
	SyncWrites bool   `mapstructure:"sync_writes"`
	CacheSize  int    `mapstructure:"cache_size"`
}

// BadgerStore implements Store on an embedded badger database.
// Keys are "obj/<hex id>", values the compressed encodings.
type BadgerStore struct {
	db         *badger.DB
	cache      Cache
	compressor compression.Compressor
}

// NewBadgerStore opens the database at cfg.Path, or an in-memory one.
func NewBadgerStore(cfg BadgerConfig, compressor compression.Compressor) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	cache, err := NewLRUCache(cfg.CacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &BadgerStore{db: db, cache: cache, compressor: compressor}, nil
}

func objectKey(key string) []byte {
	return []byte(objectKeyPrefix + key)
}

// Get retrieves an object by key.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(objectKey(key))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress object %s: %w", key, err)
	}

	s.cache.Add(key, data)
	return data, nil
}

// Put stores an object. Existing keys are left untouched.
func (s *BadgerStore) Put(ctx context.Context, key string, data []byte) error {
	if ok, err := s.Has(ctx, key); err != nil {
		return err
	} else if ok {
		return nil
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("failed to compress object: %w", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(objectKey(key), compressed)
	}); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	s.cache.Add(key, data)
	return nil
}

// Has checks if an object exists.
func (s *BadgerStore) Has(ctx context.Context, key string) (bool, error) {
	if s.cache.Has(key) {
		return true, nil
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(objectKey(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Evict removes an object from cache.
func (s *BadgerStore) Evict(key string) {
	s.cache.Remove(key)
}

// Close closes the database and releases the compressor.
func (s *BadgerStore) Close() error {
	s.cache.Clear()
	cerr := s.compressor.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return cerr
}

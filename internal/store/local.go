package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aweris/objtree/internal/compression"
)

// LocalStore implements Store using the local filesystem.
//
// Storage layout:
//
//	basePath/
//	  objects/
//	    ab/cd123...  (one compressed encoding per object)
//
// With zlib compression and SHA-1 keys the objects directory has the same
// layout and file format as git's loose objects.
type LocalStore struct {
	basePath   string
	cache      Cache
	compressor compression.Compressor
}

// NewLocalStore creates the objects directory under basePath if needed.
func NewLocalStore(basePath string, compressor compression.Compressor, cacheSize int) (*LocalStore, error) {
	objectsDir := filepath.Join(basePath, "objects")
	if err := os.MkdirAll(objectsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", objectsDir, err)
	}

	cache, err := NewLRUCache(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &LocalStore{
		basePath:   basePath,
		cache:      cache,
		compressor: compressor,
	}, nil
}

// Get retrieves an object by key.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	compressed, err := os.ReadFile(s.objectPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress object %s: %w", key, err)
	}

	s.cache.Add(key, data)
	return data, nil
}

// Put stores an object. The file is written under a temporary name and
// renamed into place so readers never observe a partial object.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	path := s.objectPath(key)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("failed to compress object: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tmp_obj_*")
	if err != nil {
		return fmt.Errorf("failed to create temp object: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Chmod(tmpName, 0444); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	s.cache.Add(key, data)
	return nil
}

// Has checks if an object exists.
func (s *LocalStore) Has(ctx context.Context, key string) (bool, error) {
	if s.cache.Has(key) {
		return true, nil
	}

	_, err := os.Stat(s.objectPath(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Evict removes an object from cache.
func (s *LocalStore) Evict(key string) {
	s.cache.Remove(key)
}

// Close drops the cache and releases the compressor.
func (s *LocalStore) Close() error {
	s.cache.Clear()
	return s.compressor.Close()
}

// objectPath returns the filesystem path for an object key.
// Git-style sharding: objects/ab/cd123...
func (s *LocalStore) objectPath(key string) string {
	if len(key) < 3 {
		return filepath.Join(s.basePath, "objects", key)
	}
	return filepath.Join(s.basePath, "objects", key[:2], key[2:])
}

package objtree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aweris/objtree/internal/compression"
	"github.com/aweris/objtree/internal/store"
	"github.com/sirupsen/logrus"
)

// ObjectWriter receives canonical encodings keyed by their identifier.
// Implementations must be safe for concurrent use when used with WithConcurrency.
type ObjectWriter interface {
	WriteObject(ctx context.Context, id ID, encoded []byte) error
}

// ObjectReader returns the canonical encoding stored for id.
type ObjectReader interface {
	ReadObject(ctx context.Context, id ID) ([]byte, error)
}

// Store persists encoded objects on a local backend. It implements
// ObjectWriter and ObjectReader.
type Store struct {
	backend store.Store
	alg     Algorithm
	log     logrus.FieldLogger
}

var (
	_ ObjectWriter = (*Store)(nil)
	_ ObjectReader = (*Store)(nil)
)

// OpenStore creates or opens the object store rooted at path.
func OpenStore(path string, opts ...StoreOption) (*Store, error) {
	options := defaultStoreOptions()
	for _, opt := range opts {
		opt(options)
	}

	if _, err := ParseAlgorithm(string(options.Algorithm)); err != nil {
		return nil, err
	}

	compressor, err := compression.New(options.Compression, options.CompressionLevel)
	if err != nil {
		return nil, err
	}

	path = expandPath(path)
	var backend store.Store
	switch options.Backend {
	case BackendLocal, "":
		backend, err = store.NewLocalStore(path, compressor, options.CacheSize)
	case BackendBadger:
		backend, err = store.NewBadgerStore(store.BadgerConfig{
			Path:       filepath.Join(path, "objects.db"),
			SyncWrites: options.SyncWrites,
			CacheSize:  options.CacheSize,
		}, compressor)
	default:
		err = fmt.Errorf("unknown store backend %q", options.Backend)
	}
	if err != nil {
		compressor.Close()
		return nil, err
	}

	options.Logger.WithFields(logrus.Fields{
		"path":        path,
		"backend":     options.Backend,
		"compression": compressor.Name(),
	}).Debug("opened object store")

	return newStore(backend, options.Algorithm, options.Logger), nil
}

func newStore(backend store.Store, alg Algorithm, log logrus.FieldLogger) *Store {
	return &Store{backend: backend, alg: alg, log: log}
}

// WriteObject stores encoded under id. Writing an existing object is a no-op.
func (s *Store) WriteObject(ctx context.Context, id ID, encoded []byte) error {
	if err := s.backend.Put(ctx, id.String(), encoded); err != nil {
		return fmt.Errorf("write object %s: %w", id, err)
	}
	return nil
}

// Write encodes obj, stores it and returns its identifier.
func (s *Store) Write(ctx context.Context, obj Object) (ID, error) {
	encoded := obj.Encode()
	id := s.alg.Sum(encoded)
	return id, s.WriteObject(ctx, id, encoded)
}

// ReadObject returns the stored encoding for id after checking that it still
// digests to id. The returned slice is owned by the caller.
func (s *Store) ReadObject(ctx context.Context, id ID) ([]byte, error) {
	data, err := s.backend.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read object %s: %w", id, err)
	}

	if got := s.alg.Sum(data); got != id {
		s.backend.Evict(id.String())
		s.log.WithFields(logrus.Fields{"id": id, "digest": got}).Warn("stored object does not match its identifier")
		return nil, fmt.Errorf("%w: %s digests to %s", ErrCorruptObject, id, got)
	}
	return data, nil
}

// Has reports whether id is stored.
func (s *Store) Has(ctx context.Context, id ID) (bool, error) {
	return s.backend.Has(ctx, id.String())
}

// Object reads and decodes id.
func (s *Store) Object(ctx context.Context, id ID) (Object, error) {
	data, err := s.ReadObject(ctx, id)
	if err != nil {
		return nil, err
	}
	obj, err := DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("decode object %s: %w", id, err)
	}
	return obj, nil
}

// Blob reads id, which must be a blob.
func (s *Store) Blob(ctx context.Context, id ID) (*Blob, error) {
	data, err := s.ReadObject(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := DecodeBlob(data)
	if err != nil {
		return nil, fmt.Errorf("decode object %s: %w", id, err)
	}
	return b, nil
}

// Tree reads id, which must be a tree.
func (s *Store) Tree(ctx context.Context, id ID) (*Tree, error) {
	data, err := s.ReadObject(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("decode object %s: %w", id, err)
	}
	return t, nil
}

// Algorithm returns the digest the store verifies objects with.
func (s *Store) Algorithm() Algorithm { return s.alg }

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

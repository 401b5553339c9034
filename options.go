package objtree

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Store backends
const (
	BackendLocal  = "local"
	BackendBadger = "badger"
)

// Compression codecs for stored objects
const (
	CompressionZlib = "zlib"
	CompressionZstd = "zstd"
	CompressionNone = "none"
)

const (
	DefaultConcurrency      = 1
	DefaultCacheSize        = 1024
	DefaultCompressionLevel = 2
)

// BuildOptions configures a Builder.
type BuildOptions struct {
	Algorithm   Algorithm
	Store       ObjectWriter
	Logger      logrus.FieldLogger
	Concurrency int
	Exclude     []string
}

// BuildOption is a functional option for configuring NewBuilder.
type BuildOption func(*BuildOptions)

func defaultBuildOptions() *BuildOptions {
	return &BuildOptions{
		Algorithm:   DefaultAlgorithm,
		Logger:      discardLogger(),
		Concurrency: DefaultConcurrency,
	}
}

// WithAlgorithm sets the digest used for every identifier in the build.
func WithAlgorithm(alg Algorithm) BuildOption {
	return func(o *BuildOptions) { o.Algorithm = alg }
}

// WithStore hands every encoded object to w as it is produced.
func WithStore(w ObjectWriter) BuildOption {
	return func(o *BuildOptions) { o.Store = w }
}

// WithLogger sets the logger for build progress.
func WithLogger(l logrus.FieldLogger) BuildOption {
	return func(o *BuildOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithConcurrency sets how many entries the whole build works on at once.
// The bound holds across nested directories.
func WithConcurrency(n int) BuildOption {
	return func(o *BuildOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithExclude skips entries whose base name matches any filepath.Match pattern.
func WithExclude(patterns ...string) BuildOption {
	return func(o *BuildOptions) { o.Exclude = append(o.Exclude, patterns...) }
}

// StoreOptions configures an object store.
type StoreOptions struct {
	Backend          string
	Compression      string
	CompressionLevel int
	CacheSize        int
	SyncWrites       bool
	Algorithm        Algorithm
	Logger           logrus.FieldLogger
}

// StoreOption is a functional option for configuring OpenStore.
type StoreOption func(*StoreOptions)

func defaultStoreOptions() *StoreOptions {
	return &StoreOptions{
		Backend:          BackendLocal,
		Compression:      CompressionZlib,
		CompressionLevel: DefaultCompressionLevel,
		CacheSize:        DefaultCacheSize,
		Algorithm:        DefaultAlgorithm,
		Logger:           discardLogger(),
	}
}

// WithBackend selects BackendLocal or BackendBadger.
func WithBackend(name string) StoreOption {
	return func(o *StoreOptions) { o.Backend = name }
}

// WithCompression selects the codec applied to stored encodings.
func WithCompression(codec string) StoreOption {
	return func(o *StoreOptions) { o.Compression = codec }
}

// WithCompressionLevel sets 1 (fastest), 2 (default) or 3 (best).
func WithCompressionLevel(level int) StoreOption {
	return func(o *StoreOptions) { o.CompressionLevel = level }
}

// WithCacheSize sets the number of decoded objects kept in memory.
func WithCacheSize(n int) StoreOption {
	return func(o *StoreOptions) {
		if n > 0 {
			o.CacheSize = n
		}
	}
}

// WithSyncWrites makes the badger backend fsync every write.
func WithSyncWrites(sync bool) StoreOption {
	return func(o *StoreOptions) { o.SyncWrites = sync }
}

// WithStoreAlgorithm sets the digest used to verify objects on read.
func WithStoreAlgorithm(alg Algorithm) StoreOption {
	return func(o *StoreOptions) { o.Algorithm = alg }
}

// WithStoreLogger sets the logger for the store.
func WithStoreLogger(l logrus.FieldLogger) StoreOption {
	return func(o *StoreOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// DefaultStoreDir returns $XDG_DATA_HOME/objtree, falling back to ~/.local/share/objtree.
func DefaultStoreDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "objtree")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "objtree")
	}
	return ".objtree"
}

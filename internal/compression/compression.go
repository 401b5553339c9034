// Package compression implements the codecs applied to stored object encodings.
package compression

import "fmt"

// Codec names
const (
	Zlib = "zlib"
	Zstd = "zstd"
	None = "none"
)

// Compression levels shared by every codec.
const (
	LevelFastest = 1
	LevelDefault = 2
	LevelBest    = 3
)

// Compressor compresses and decompresses whole objects.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
	Close() error
}

// New returns the Compressor for codec at level.
func New(codec string, level int) (Compressor, error) {
	switch codec {
	case Zlib, "":
		return NewZlib(level), nil
	case Zstd:
		return NewZstd(level)
	case None:
		return nop{}, nil
	}
	return nil, fmt.Errorf("unknown compression codec %q", codec)
}

type nop struct{}

func (nop) Compress(data []byte) ([]byte, error)   { return data, nil }
func (nop) Decompress(data []byte) ([]byte, error) { return data, nil }
func (nop) Name() string                           { return None }
func (nop) Close() error                           { return nil }

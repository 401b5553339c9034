package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// zlibCompressor produces the same stream format git uses for loose objects.
type zlibCompressor struct {
	level int
}

// NewZlib returns a zlib Compressor.
func NewZlib(level int) Compressor {
	l := zlib.DefaultCompression
	switch level {
	case LevelFastest:
		l = zlib.BestSpeed
	case LevelBest:
		l = zlib.BestCompression
	}
	return &zlibCompressor{level: l}
}

func (c *zlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *zlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return out, nil
}

func (c *zlibCompressor) Name() string { return Zlib }

func (c *zlibCompressor) Close() error { return nil }

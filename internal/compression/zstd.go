package compression

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd returns a zstd Compressor. EncodeAll/DecodeAll are safe for concurrent use.
func NewZstd(level int) (Compressor, error) {
	var encoderLevel zstd.EncoderLevel
	switch level {
	case LevelFastest:
		encoderLevel = zstd.SpeedFastest
	case LevelBest:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, err
	}

	return &zstdCompressor{
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (c *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (c *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return decompressed, nil
}

func (c *zstdCompressor) Name() string { return Zstd }

func (c *zstdCompressor) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}

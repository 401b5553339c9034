package compression

import (
	"bytes"
	stdzlib "compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := append([]byte("blob 14\x00"), bytes.Repeat([]byte("this is a test"), 64)...)

	for _, codec := range []string{Zlib, Zstd, None} {
		for _, level := range []int{LevelFastest, LevelDefault, LevelBest} {
			c, err := New(codec, level)
			require.NoError(t, err, codec)

			compressed, err := c.Compress(payload)
			require.NoError(t, err)
			got, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, got, "%s level %d", codec, level)
			assert.Equal(t, codec, c.Name())
			require.NoError(t, c.Close())
		}
	}
}

func TestRoundTripEmpty(t *testing.T) {
	for _, codec := range []string{Zlib, Zstd} {
		c, err := New(codec, LevelDefault)
		require.NoError(t, err)
		compressed, err := c.Compress(nil)
		require.NoError(t, err)
		got, err := c.Decompress(compressed)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestZlibReadableByStdlib(t *testing.T) {
	c := NewZlib(LevelDefault)
	compressed, err := c.Compress([]byte("blob 0\x00"))
	require.NoError(t, err)

	r, err := stdzlib.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob 0\x00"), got)
}

func TestDecompressGarbage(t *testing.T) {
	for _, codec := range []string{Zlib, Zstd} {
		c, err := New(codec, LevelDefault)
		require.NoError(t, err)
		_, err = c.Decompress([]byte("definitely not compressed"))
		assert.Error(t, err, codec)
	}
}

func TestUnknownCodec(t *testing.T) {
	_, err := New("lz4", LevelDefault)
	assert.Error(t, err)
}

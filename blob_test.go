package objtree

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlobID = "a8a940627d132695a9769df883f85992f0ff4a43"

func TestBlobEncode(t *testing.T) {
	blob := NewBlob([]byte("this is a test"))
	assert.Equal(t, []byte("blob 14\x00this is a test"), blob.Encode())
}

func TestBlobID(t *testing.T) {
	blob := NewBlob([]byte("this is a test"))
	assert.Equal(t, MustParseID(testBlobID), blob.ID())
	assert.Equal(t, testBlobID, blob.ID().String())
}

func TestBlobSizeAndContents(t *testing.T) {
	blob := NewBlob([]byte("this is a test"))
	assert.Equal(t, int64(14), blob.Size())
	assert.Equal(t, []byte("this is a test"), blob.Contents())
	assert.Equal(t, TypeBlob, blob.Type())
}

func TestEmptyBlob(t *testing.T) {
	blob := NewBlob(nil)
	assert.Equal(t, []byte("blob 0\x00"), blob.Encode())
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", blob.ID().String())
	assert.Equal(t, int64(0), blob.Size())
}

func TestBlobArbitraryBytes(t *testing.T) {
	content := []byte{0, 0, 'b', 'l', 'o', 'b', ' ', '9', 0, 0xff}
	blob := NewBlob(content)

	encoded := blob.Encode()
	prefix := []byte("blob 10\x00")
	require.True(t, bytes.HasPrefix(encoded, prefix))
	assert.Equal(t, content, encoded[len(prefix):])
}

func TestBlobSizeCountsBytes(t *testing.T) {
	blob := NewBlob([]byte("héllo"))
	assert.Equal(t, int64(6), blob.Size())
	assert.True(t, bytes.HasPrefix(blob.Encode(), []byte("blob 6\x00")))
}

func TestNewBlobCopiesInput(t *testing.T) {
	content := []byte("mutable")
	blob := NewBlob(content)
	id := blob.ID()

	content[0] = 'M'
	assert.Equal(t, []byte("mutable"), blob.Contents())
	assert.Equal(t, id, blob.ID())
}

func TestReadBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "from_file_test.txt")
	require.NoError(t, os.WriteFile(path, []byte("this is a test"), 0644))

	blob, err := ReadBlob(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("this is a test"), blob.Contents())
	assert.Equal(t, int64(14), blob.Size())
	assert.Equal(t, testBlobID, blob.ID().String())
	assert.Equal(t, []byte("blob 14\x00this is a test"), blob.Encode())
}

func TestReadBlobMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	blob, err := ReadBlob(path)
	assert.Nil(t, blob)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, path, ioErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadBlobDirectory(t *testing.T) {
	_, err := ReadBlob(t.TempDir())
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestSymlinkBlob(t *testing.T) {
	blob := NewSymlinkBlob("../target")
	assert.Equal(t, []byte("blob 9\x00../target"), blob.Encode())
}

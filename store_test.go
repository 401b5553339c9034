package objtree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, dir string, opts ...StoreOption) *Store {
	t.Helper()
	st, err := OpenStore(dir, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStoreBackends(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name string
		opts []StoreOption
	}{
		{"local/zlib", nil},
		{"local/zstd", []StoreOption{WithCompression(CompressionZstd)}},
		{"local/none", []StoreOption{WithCompression(CompressionNone)}},
		{"badger/zstd", []StoreOption{WithBackend(BackendBadger), WithCompression(CompressionZstd)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			st := openTestStore(t, t.TempDir(), tc.opts...)

			blob := NewBlob([]byte("this is a test"))
			id, err := st.Write(ctx, blob)
			require.NoError(t, err)
			assert.Equal(t, testBlobID, id.String())

			has, err := st.Has(ctx, id)
			require.NoError(t, err)
			assert.True(t, has)

			got, err := st.Blob(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, blob.Contents(), got.Contents())

			tree := NewTree()
			require.NoError(t, tree.Insert("test.txt", ModeFile, id))
			treeID, err := st.Write(ctx, tree)
			require.NoError(t, err)

			obj, err := st.Object(ctx, treeID)
			require.NoError(t, err)
			assert.Equal(t, TypeTree, obj.Type())
			assert.Equal(t, tree.Encode(), obj.Encode())
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir())
	id := NewBlob([]byte("never written")).ID()

	_, err := st.ReadObject(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	has, err := st.Has(ctx, id)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStoreWrongType(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir())
	id, err := st.Write(ctx, NewBlob([]byte("blob")))
	require.NoError(t, err)

	_, err = st.Tree(ctx, id)
	assert.ErrorIs(t, err, ErrMalformedObject)
}

func TestStoreDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := OpenStore(dir, WithCompression(CompressionNone))
	require.NoError(t, err)
	id, err := st.Write(ctx, NewBlob([]byte("original")))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	hex := id.String()
	path := filepath.Join(dir, "objects", hex[:2], hex[2:])
	require.NoError(t, os.Chmod(path, 0644))
	require.NoError(t, os.WriteFile(path, NewBlob([]byte("tampered")).Encode(), 0644))

	reopened := openTestStore(t, dir, WithCompression(CompressionNone))
	_, err = reopened.ReadObject(ctx, id)
	assert.ErrorIs(t, err, ErrCorruptObject)
}

func TestStoreAlgorithm(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir(), WithStoreAlgorithm(SHAKE256))
	assert.Equal(t, SHAKE256, st.Algorithm())

	blob := NewBlob([]byte("this is a test"))
	id, err := st.Write(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "b2ac75356a86cc54418794a2870402852d6a85e3", id.String())

	_, err = st.Blob(ctx, id)
	require.NoError(t, err)
}

func TestOpenStoreRejectsUnknownSettings(t *testing.T) {
	_, err := OpenStore(t.TempDir(), WithBackend("s3"))
	assert.Error(t, err)

	_, err = OpenStore(t.TempDir(), WithCompression("lz4"))
	assert.Error(t, err)

	_, err = OpenStore(t.TempDir(), WithStoreAlgorithm("md5"))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestBuildIntoStore(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir(), WithCompression(CompressionZstd))

	res, err := BuildTree(ctx, nestedFixture(t), WithStore(st), WithConcurrency(4))
	require.NoError(t, err)

	got, err := st.Tree(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Tree.Encode(), got.Encode())
}

func TestStoreBuffersAreCallerOwned(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir())

	encoded := NewBlob([]byte("mutable")).Encode()
	id := SHA1.Sum(encoded)
	require.NoError(t, st.WriteObject(ctx, id, encoded))
	encoded[len(encoded)-1] = 'X'

	data, err := st.ReadObject(ctx, id)
	require.NoError(t, err)
	data[len(data)-1] = 'Y'

	blob, err := st.Blob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "mutable", string(blob.Contents()))
}

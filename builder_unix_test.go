//go:build unix

package objtree

import (
	"context"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSkipsFIFO(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "regular"), "x", 0644)
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "pipe"), 0644))

	res, err := BuildTree(context.Background(), root)
	require.NoError(t, err)

	_, ok := res.Tree.Entry("pipe")
	assert.False(t, ok)
	assert.Equal(t, int64(1), res.Stats.Skipped)
	assert.Equal(t, 1, res.Tree.Len())
}

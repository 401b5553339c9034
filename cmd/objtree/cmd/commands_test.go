package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	store := t.TempDir()

	dir := t.TempDir()
	hello := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(hello, []byte("hello\n"), 0644))
	require.NoError(t, os.Chmod(hello, 0644))

	root := strings.TrimSpace(execute(t, "write-tree", "-w", "--store-dir", store, "--log-level", "error", dir))
	assert.Equal(t, "aaa96ced2d9a1c8e72c56b253a0e2fe78393feb7", root)

	listing := execute(t, "ls-tree", "--store-dir", store, root)
	assert.Equal(t, "100644 blob ce013625030ba8dba906f756967f9e9ca394464a\thello.txt\n", listing)

	content := execute(t, "cat-file", "-p", "--store-dir", store, "ce013625030ba8dba906f756967f9e9ca394464a")
	assert.Equal(t, "hello\n", content)

	id := execute(t, "hash-object", "--store-dir", store, hello)
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a\n", id)
}

package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdDenseRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.txt")
	// Two vectors, both all-ones across one word: popcount(AND) = 64.
	require.NoError(t, os.WriteFile(path, []byte("ffffffffffffffff\nffffffffffffffff\n"), 0o644))

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "64\n", out.String())
}

func TestRootCmdSparseRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.txt")
	require.NoError(t, os.WriteFile(path, []byte("f\nf\nf\n"), 0o644))

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--sparse", "--cutoff", "1", path})
	require.NoError(t, cmd.Execute())
	// 3 vectors all equal to 0xf (popcount 4): pairs (0,1),(0,2),(1,2) each
	// contribute 4 -> total 12.
	assert.Equal(t, "12\n", out.String())
}

func TestRootCmdMissingFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/path/bundle.txt"})
	err := cmd.Execute()
	assert.Error(t, err)
}

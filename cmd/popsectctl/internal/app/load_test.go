package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempBundle(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadBundle(t *testing.T) {
	path := writeTempBundle(t, "# comment\nff 0\n0 ff\n\n1 1\n")
	b, err := loadBundle(path)
	require.NoError(t, err)
	assert.Equal(t, 3, b.NVectors)
	assert.Equal(t, 2, b.WordsPerVector)
	assert.Equal(t, []uint64{0xff, 0, 0, 0xff, 1, 1}, b.Words)
}

func TestLoadBundleRejectsRaggedRows(t *testing.T) {
	path := writeTempBundle(t, "ff 0\n0 0 0\n")
	_, err := loadBundle(path)
	require.Error(t, err)
}

func TestLoadBundleRejectsBadHex(t *testing.T) {
	path := writeTempBundle(t, "zz 0\n")
	_, err := loadBundle(path)
	require.Error(t, err)
}

func TestLoadBundleEmptyFile(t *testing.T) {
	path := writeTempBundle(t, "\n# only comments\n")
	b, err := loadBundle(path)
	require.NoError(t, err)
	assert.Equal(t, 0, b.NVectors)
	assert.Equal(t, 0, b.WordsPerVector)
}

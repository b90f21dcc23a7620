package guidance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyWritesEmbeddedDocs(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, Copy(dest))

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	data, err := os.ReadFile(filepath.Join(dest, "memory-usage.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "memory-store")
}

func TestCopyIsIdempotent(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, Copy(dest))
	require.NoError(t, Copy(dest))
}

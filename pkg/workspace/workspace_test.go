package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsSlug(t *testing.T) {
	got, err := Validate("My-Project_1")
	require.NoError(t, err)
	assert.Equal(t, "my-project_1", got)
}

func TestValidateRejectsReserved(t *testing.T) {
	_, err := Validate("System")
	assert.ErrorIs(t, err, ErrReservedName)
}

func TestValidateRejectsInvalidChars(t *testing.T) {
	_, err := Validate("my project")
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestResolveExplicitWins(t *testing.T) {
	r := New(time.Minute, nil, true)
	explicit := "explicit-ws"

	result, err := r.Resolve(&explicit, false, "/tmp")
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	assert.Equal(t, "explicit-ws", *result.Value)
	assert.Equal(t, SourceExplicit, result.Source)
}

func TestResolveExplicitNone(t *testing.T) {
	r := New(time.Minute, nil, true)
	result, err := r.Resolve(nil, true, "/tmp")
	require.NoError(t, err)
	assert.Nil(t, result.Value)
	assert.Equal(t, SourceExplicit, result.Source)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	def := "fallback-ws"
	r := New(time.Minute, &def, false)

	result, err := r.Resolve(nil, false, "/nonexistent-dir-xyz")
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	assert.Equal(t, "fallback-ws", *result.Value)
	assert.Equal(t, SourceDefault, result.Source)
}

func TestResolveCachesResult(t *testing.T) {
	def := "cached-ws"
	r := New(time.Minute, &def, false)

	first, err := r.Resolve(nil, false, "/nonexistent-dir-xyz")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, first.Source)

	second, err := r.Resolve(nil, false, "/nonexistent-dir-xyz")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, *first.Value, *second.Value)
}

func TestResolveClearInvalidatesCache(t *testing.T) {
	def := "cached-ws"
	r := New(time.Minute, &def, false)

	_, err := r.Resolve(nil, false, "/nonexistent-dir-xyz")
	require.NoError(t, err)
	r.Clear()

	second, err := r.Resolve(nil, false, "/nonexistent-dir-xyz")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, second.Source)
}

func TestNormalizeManifestName(t *testing.T) {
	assert.Equal(t, "foo", normalizeManifestName("@scope/mcp-foo"))
	assert.Equal(t, "bar-baz", normalizeManifestName("bar baz"))
	assert.Equal(t, "a-b", normalizeManifestName("a---b"))
}

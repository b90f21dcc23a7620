package embedding

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderDeterministic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	p := NewLocalProvider("test-model", 384, dir)

	pair1, tokens1, err := p.Generate(context.Background(), "hello world")
	require.NoError(t, err)
	pair2, _, err := p.Generate(context.Background(), "hello world")
	require.NoError(t, err)

	assert.Equal(t, int64(0), tokens1)
	assert.Equal(t, pair1.Small, pair2.Small)
	assert.Equal(t, pair1.Small, pair1.Large)
	assert.True(t, Valid(pair1.Small, 384))
}

func TestLocalProviderResetReloads(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	p := NewLocalProvider("test-model", 128, dir)

	_, _, err := p.Generate(context.Background(), "x")
	require.NoError(t, err)
	p.Reset()
	pair, _, err := p.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, Valid(pair.Small, 128))
}

func TestHashBackendDifferentTextsDiffer(t *testing.T) {
	b := newHashBackend("m", 64)
	a, err := b.Embed(context.Background(), "alpha")
	require.NoError(t, err)
	c, err := b.Embed(context.Background(), "beta")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

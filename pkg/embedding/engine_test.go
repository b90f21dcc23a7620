package embedding

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineGenerateCachesBothSlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	provider := AsLocalProvider(NewLocalProvider("test-model", 64, dir))
	engine := NewEngine(provider, NewCache(100))

	pair, err := engine.Generate(context.Background(), "some content")
	require.NoError(t, err)
	assert.True(t, Valid(pair.Small, 64))
	assert.True(t, Valid(pair.Large, 64))

	stats := engine.Stats()
	assert.Equal(t, int64(2), stats.Misses)

	_, err = engine.Generate(context.Background(), "some content")
	require.NoError(t, err)
	stats = engine.Stats()
	assert.Equal(t, int64(2), stats.Hits)
}

func TestEngineGenerateChunkedCoversAllWindows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	provider := AsLocalProvider(NewLocalProvider("test-model", 32, dir))
	engine := NewEngine(provider, NewCache(100))

	text := ""
	for i := 0; i < 600; i++ {
		text += "x "
	}

	chunks, err := engine.GenerateChunked(context.Background(), text, 1000, 200)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, len(chunks), c.Total)
		assert.True(t, Valid(c.Small, 32))
	}
}

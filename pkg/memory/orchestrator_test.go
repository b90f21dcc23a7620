package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/secrets"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
	"github.com/PhillipAWells/mcp-memory/pkg/workspace"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	idx := vectorindex.NewController(store, "test", vectorindex.Dims{Small: 16, Large: 16})
	require.NoError(t, idx.Initialize(context.Background()))

	provider := embedding.AsLocalProvider(embedding.NewLocalProvider("test-local", 16, t.TempDir()))
	engine := embedding.NewEngine(provider, embedding.NewCache(100))

	defaultWS := "default"
	return New(Config{
		Scanner:  secrets.New(secrets.MediumBlockThreshold),
		Resolver: workspace.New(time.Minute, &defaultWS, false),
		Engine:   engine,
		Index:    idx,
	}), store
}

func TestStoreDerivesEpisodicExpiry(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	before := time.Now().UTC()

	out, err := o.Store(context.Background(), StoreInput{
		Content:  "hi",
		Metadata: map[string]any{"memory_type": "episodic"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.ID)

	got, err := o.Get(context.Background(), out.ID)
	require.NoError(t, err)
	expiresAt, ok := got["expires_at"].(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, before.Add(90*24*time.Hour), expiresAt, 5*time.Second)
}

func TestStoreAutoChunksLongContent(t *testing.T) {
	o, store := newTestOrchestrator(t)

	content := make([]byte, 2500)
	for i := range content {
		content[i] = byte('a' + i%26)
	}

	out, err := o.Store(context.Background(), StoreInput{
		Content:   string(content),
		AutoChunk: true,
	})
	require.NoError(t, err)
	assert.Empty(t, out.ID)
	assert.NotEmpty(t, out.IDs)
	assert.Equal(t, out.Chunks, len(out.IDs))
	assert.Len(t, store.points, out.Chunks)

	groupID := ""
	for _, p := range store.points {
		require.NotNil(t, p.ChunkIndex)
		if groupID == "" {
			groupID = p.ChunkGroupID
		}
		assert.Equal(t, groupID, p.ChunkGroupID)
	}
}

func TestStoreBlocksOnSecret(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.Store(context.Background(), StoreInput{
		Content: "my key is sk-ab1234567890ab1234567890ab1234567890ab1234567890",
	})
	require.Error(t, err)
	opErr := memoryerr.AsOpError(err)
	assert.Equal(t, memoryerr.ValidationError, opErr.Type)
}

func TestUpdateRefusesChunkGroupMember(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	content := make([]byte, 2500)
	for i := range content {
		content[i] = byte('a' + i%26)
	}
	out, err := o.Store(context.Background(), StoreInput{Content: string(content), AutoChunk: true})
	require.NoError(t, err)
	require.NotEmpty(t, out.IDs)

	err = o.Update(context.Background(), UpdateInput{ID: out.IDs[0], Metadata: map[string]any{"confidence": 0.9}})
	require.Error(t, err)
	opErr := memoryerr.AsOpError(err)
	assert.Equal(t, memoryerr.ValidationError, opErr.Type)
}

func TestUpdatePayloadOnlyMergesWithoutReindex(t *testing.T) {
	o, store := newTestOrchestrator(t)
	out, err := o.Store(context.Background(), StoreInput{Content: "hello world"})
	require.NoError(t, err)

	original := store.points[out.ID].DenseSmall
	err = o.Update(context.Background(), UpdateInput{ID: out.ID, Metadata: map[string]any{"confidence": 0.95}})
	require.NoError(t, err)

	got := store.points[out.ID]
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, original, got.DenseSmall)
}

func TestGetReturnsNotFoundOnMiss(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	opErr := memoryerr.AsOpError(err)
	assert.Equal(t, memoryerr.NotFoundError, opErr.Type)
}

func TestDeleteIsIdempotentlyRejectedOnSecondCall(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	out, err := o.Store(context.Background(), StoreInput{Content: "to be deleted"})
	require.NoError(t, err)

	require.NoError(t, o.Delete(context.Background(), out.ID))

	err = o.Delete(context.Background(), out.ID)
	require.Error(t, err)
	opErr := memoryerr.AsOpError(err)
	assert.Equal(t, memoryerr.NotFoundError, opErr.Type)
}

func TestBatchDeleteValidatesSize(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	err := o.BatchDelete(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, memoryerr.ValidationError, memoryerr.AsOpError(err).Type)
}

func TestStatusCountsByMemoryType(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.Store(context.Background(), StoreInput{Content: "one", Metadata: map[string]any{"memory_type": "episodic"}})
	require.NoError(t, err)
	_, err = o.Store(context.Background(), StoreInput{Content: "two"})
	require.NoError(t, err)

	status, err := o.Status(context.Background(), StatusInput{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), status.CountByType["episodic"])
	assert.Equal(t, uint64(1), status.CountByType["long-term"])
	assert.Equal(t, uint64(2), status.Collection.PointsCount)
}

func TestStoreNormalizesExplicitMixedCaseWorkspace(t *testing.T) {
	o, store := newTestOrchestrator(t)
	out, err := o.Store(context.Background(), StoreInput{
		Content:  "hello",
		Metadata: map[string]any{"workspace": "MyProject"},
	})
	require.NoError(t, err)
	assert.Equal(t, "myproject", store.points[out.ID].Workspace)
}

func TestQueryRejectsOutOfRangeLimit(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.Query(context.Background(), QueryInput{Query: "hi", Limit: 101})
	require.Error(t, err)
	assert.Equal(t, memoryerr.ValidationError, memoryerr.AsOpError(err).Type)
}

func TestQueryRejectsOutOfRangeHNSWEf(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.Query(context.Background(), QueryInput{Query: "hi", HNSWEf: 10})
	require.Error(t, err)
	assert.Equal(t, memoryerr.ValidationError, memoryerr.AsOpError(err).Type)
}

func TestQueryRejectsOutOfRangeScoreThreshold(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	bad := 1.5
	_, err := o.Query(context.Background(), QueryInput{Query: "hi", ScoreThreshold: &bad})
	require.Error(t, err)
	assert.Equal(t, memoryerr.ValidationError, memoryerr.AsOpError(err).Type)
}

func TestListRejectsOutOfRangeLimit(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.List(context.Background(), ListInput{Limit: 1001})
	require.Error(t, err)
	assert.Equal(t, memoryerr.ValidationError, memoryerr.AsOpError(err).Type)
}

func TestListRejectsInvalidSortBy(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.List(context.Background(), ListInput{SortBy: "nonsense"})
	require.Error(t, err)
	assert.Equal(t, memoryerr.ValidationError, memoryerr.AsOpError(err).Type)
}

func TestQueryRejectsTooManyTags(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	tags := make([]string, 21)
	for i := range tags {
		tags[i] = "t"
	}
	_, err := o.Query(context.Background(), QueryInput{Query: "hi", Filter: vectorindex.SearchFilters{Tags: tags}})
	require.Error(t, err)
	assert.Equal(t, memoryerr.ValidationError, memoryerr.AsOpError(err).Type)
}

func TestCountDelegatesToIndex(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.Store(context.Background(), StoreInput{Content: "one"})
	require.NoError(t, err)

	count, err := o.Count(context.Background(), vectorindex.SearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

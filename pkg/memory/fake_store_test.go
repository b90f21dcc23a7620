package memory

import (
	"context"
	"sync"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

// fakeStore is an in-memory vectorindex.Store used to exercise the
// orchestrator's operations without a running Qdrant.
type fakeStore struct {
	mu     sync.Mutex
	points map[string]vectorindex.Point
	exists bool
	schema vectorindex.CollectionSchema
}

func newFakeStore() *fakeStore {
	return &fakeStore{points: make(map[string]vectorindex.Point)}
}

func (f *fakeStore) CollectionExists(context.Context, string) (bool, error) { return f.exists, nil }

func (f *fakeStore) CreateCollection(_ context.Context, _ string, small, large uint64) error {
	f.exists = true
	f.schema = vectorindex.CollectionSchema{HasNamedVectors: true, DenseSize: small, DenseLargeSize: large, DenseDistance: "Cosine", DenseLargeDistance: "Cosine"}
	return nil
}

func (f *fakeStore) GetCollectionSchema(context.Context, string) (vectorindex.CollectionSchema, error) {
	return f.schema, nil
}

func (f *fakeStore) CreatePayloadIndexes(context.Context, string) error { return nil }

func (f *fakeStore) UpsertPoints(_ context.Context, _ string, points []vectorindex.Point, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range points {
		f.points[p.ID] = p
	}
	return nil
}

func (f *fakeStore) GetPoint(_ context.Context, _ string, id string) (*vectorindex.Point, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.points[id]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (f *fakeStore) DeletePoint(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.points, id)
	return nil
}

func (f *fakeStore) DeletePoints(_ context.Context, _ string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.points, id)
	}
	return nil
}

func (f *fakeStore) CountPoints(_ context.Context, _ string, filters vectorindex.SearchFilters) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n uint64
	for _, p := range f.points {
		if filters.MemoryType != nil && p.MemoryType != *filters.MemoryType {
			continue
		}
		if filters.Workspace != nil && p.Workspace != *filters.Workspace {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) ScrollList(_ context.Context, _ string, filters vectorindex.SearchFilters, limit, offset int) ([]vectorindex.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []vectorindex.Point
	for _, p := range f.points {
		if filters.Workspace != nil && p.Workspace != *filters.Workspace {
			continue
		}
		out = append(out, p)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) UpdatePayload(_ context.Context, _ string, id string, payload map[string]any, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.points[id]
	if !ok {
		return nil
	}
	applyFields(&p, payload)
	if content, ok := payload["content"].(string); ok {
		p.Content = content
	}
	f.points[id] = p
	return nil
}

func (f *fakeStore) SearchDense(context.Context, string, embedding.Vector, bool, vectorindex.SearchFilters, int, int, *float64, int) ([]vectorindex.SearchResult, error) {
	return nil, nil
}

func (f *fakeStore) ScrollText(context.Context, string, string, vectorindex.SearchFilters, int) ([]vectorindex.Point, error) {
	return nil, nil
}

func (f *fakeStore) Stats(context.Context, string) (vectorindex.CollectionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return vectorindex.CollectionStats{PointsCount: uint64(len(f.points))}, nil
}

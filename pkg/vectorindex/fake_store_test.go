package vectorindex

import (
	"context"
	"sync"
	"time"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
)

// fakeStore is an in-memory Store used to test Controller's business logic
// (batching, RRF fusion, access tracking) without a running Qdrant.
type fakeStore struct {
	mu     sync.Mutex
	points map[string]Point
	schema CollectionSchema
	exists bool

	failUpsertFrom int // index at which UpsertPoints starts failing, -1 = never
	searchResults  []SearchResult
	textResults    []Point
}

func newFakeStore() *fakeStore {
	return &fakeStore{points: make(map[string]Point), failUpsertFrom: -1}
}

func (f *fakeStore) CollectionExists(context.Context, string) (bool, error) { return f.exists, nil }

func (f *fakeStore) CreateCollection(_ context.Context, _ string, small, large uint64) error {
	f.exists = true
	f.schema = CollectionSchema{HasNamedVectors: true, DenseSize: small, DenseLargeSize: large, DenseDistance: "Cosine", DenseLargeDistance: "Cosine"}
	return nil
}

func (f *fakeStore) GetCollectionSchema(context.Context, string) (CollectionSchema, error) {
	return f.schema, nil
}

func (f *fakeStore) CreatePayloadIndexes(context.Context, string) error { return nil }

func (f *fakeStore) UpsertPoints(_ context.Context, _ string, points []Point, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsertFrom == 0 {
		return errBoom
	}
	for _, p := range points {
		f.points[p.ID] = p
	}
	return nil
}

func (f *fakeStore) GetPoint(_ context.Context, _ string, id string) (*Point, bool, error) {
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

func (f *fakeStore) CountPoints(context.Context, string, SearchFilters) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.points)), nil
}

func (f *fakeStore) ScrollList(context.Context, string, SearchFilters, int, int) ([]Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Point, 0, len(f.points))
	for _, p := range f.points {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) UpdatePayload(_ context.Context, _ string, id string, payload map[string]any, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.points[id]
	if !ok {
		return errNotFound
	}
	if ac, ok := payload["access_count"].(int64); ok {
		p.AccessCount = ac
	}
	if lat, ok := payload["last_accessed_at"].(time.Time); ok {
		p.LastAccessedAt = &lat
	}
	f.points[id] = p
	return nil
}

func (f *fakeStore) SearchDense(context.Context, string, embedding.Vector, bool, SearchFilters, int, int, *float64, int) ([]SearchResult, error) {
	return f.searchResults, nil
}

func (f *fakeStore) ScrollText(context.Context, string, string, SearchFilters, int) ([]Point, error) {
	return f.textResults, nil
}

func (f *fakeStore) Stats(context.Context, string) (CollectionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return CollectionStats{PointsCount: uint64(len(f.points))}, nil
}

var errBoom = &stubError{"boom"}
var errNotFound = &stubError{"not found"}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }

package vectorindex

import (
	"context"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
)

// CollectionSchema is the subset of an existing collection's configuration
// the controller needs to validate at startup.
type CollectionSchema struct {
	HasNamedVectors bool
	DenseSize       uint64
	DenseLargeSize  uint64
	DenseDistance   string
	DenseLargeDistance string
}

// Store is the narrow interface the controller needs from the vector
// database driver. Isolating it behind an interface keeps every concrete
// github.com/qdrant/go-client call in one file (qdrant_store.go) so the
// business logic above (RRF fusion, batching, access tracking) is testable
// against a fake without a running Qdrant instance.
type Store interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string, smallDims, largeDims uint64) error
	GetCollectionSchema(ctx context.Context, name string) (CollectionSchema, error)
	CreatePayloadIndexes(ctx context.Context, name string) error

	UpsertPoints(ctx context.Context, name string, points []Point, wait bool) error
	GetPoint(ctx context.Context, name, id string) (*Point, bool, error)
	DeletePoint(ctx context.Context, name, id string) error
	DeletePoints(ctx context.Context, name string, ids []string) error
	CountPoints(ctx context.Context, name string, filters SearchFilters) (uint64, error)
	ScrollList(ctx context.Context, name string, filters SearchFilters, limit, offset int) ([]Point, error)
	UpdatePayload(ctx context.Context, name, id string, payload map[string]any, wait bool) error

	SearchDense(ctx context.Context, name string, vector embedding.Vector, large bool, filters SearchFilters, limit, offset int, scoreThreshold *float64, hnswEf int) ([]SearchResult, error)
	ScrollText(ctx context.Context, name string, query string, filters SearchFilters, fetchLimit int) ([]Point, error)

	Stats(ctx context.Context, name string) (CollectionStats, error)
}

// Package vectorindex owns the Qdrant-backed collection: schema lifecycle,
// upsert, search (standard and hybrid RRF), access tracking, and stats.
package vectorindex

import (
	"time"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
)

// Point is a memory point as stored in the index: a typed core plus an
// open bag of caller-supplied extras that round-trip through the payload
// unchanged.
type Point struct {
	ID             string
	Content        string
	Workspace      string
	MemoryType     string
	Confidence     float64
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ExpiresAt      *time.Time
	AccessCount    int64
	LastAccessedAt *time.Time
	ChunkIndex     *int
	TotalChunks    *int
	ChunkGroupID   string

	DenseSmall embedding.Vector
	DenseLarge embedding.Vector

	Extra map[string]any
}

// SearchFilters is the caller-facing filter shape; the controller always
// additionally appends the expiry exclusion.
type SearchFilters struct {
	Workspace     *string
	MemoryType    *string
	MinConfidence *float64
	Tags          []string
	Metadata      map[string]any
}

// SearchResult pairs a retrieved point with its similarity score.
type SearchResult struct {
	Point Point
	Score float64
}

// BatchFailure records one failed point in a batch upsert.
type BatchFailure struct {
	Index int
	ID    string
	Error string
}

// BatchUpsertResult is the outcome of a chunked batch upsert.
type BatchUpsertResult struct {
	SuccessfulIDs []string
	Failed        []BatchFailure
	TotalProcessed int
}

// CollectionStats mirrors the spec's stats() return shape.
type CollectionStats struct {
	PointsCount           uint64
	IndexedVectorsCount   uint64
	SegmentsCount         uint64
	Status                string
	OptimizerStatus       string
	Config                map[string]any
	AccessTrackingFailures int64
}

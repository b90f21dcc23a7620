// Package memory implements the nine tool operations that compose the
// secret scanner, workspace resolver, embedding engine, chunker, and
// vector index into atomic, envelope-shaped actions.
package memory

import (
	"time"

	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

const (
	chunkThreshold = 1000
	maxContentLen  = 100000
	maxBatchDelete = 100

	episodicTTL  = 90 * 24 * time.Hour
	shortTermTTL = 7 * 24 * time.Hour

	minQueryLimit = 1
	maxQueryLimit = 100
	minListLimit  = 1
	maxListLimit  = 1000

	minHNSWEf = 64
	maxHNSWEf = 512

	maxTagCount = 20
	maxTagLen   = 50
)

// StoreInput is the validated input to Store.
type StoreInput struct {
	Content   string
	Metadata  map[string]any
	AutoChunk bool
}

// StoreOutput is the data payload of a successful Store response.
type StoreOutput struct {
	ID      string   `json:"id,omitempty"`
	IDs     []string `json:"ids,omitempty"`
	Chunks  int      `json:"chunks,omitempty"`
}

// QueryInput is the validated input to Query.
type QueryInput struct {
	Query           string
	Filter          vectorindex.SearchFilters
	Limit           int
	Offset          int
	ScoreThreshold  *float64
	HNSWEf          int
	UseHybridSearch bool
	HybridAlpha     *float64
}

// QueryResultItem is one echoed search result.
type QueryResultItem struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// QueryOutput is the data payload of a successful Query response.
type QueryOutput struct {
	Query   string            `json:"query"`
	Results []QueryResultItem `json:"results"`
}

// ListInput is the validated input to List.
type ListInput struct {
	Filter    vectorindex.SearchFilters
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// ListItem is one truncated-preview list row.
type ListItem struct {
	ID      string         `json:"id"`
	Content string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// UpdateInput is the validated input to Update.
type UpdateInput struct {
	ID       string
	Content  *string
	Metadata map[string]any
	Reindex  bool
}

// StatusInput is the validated input to Status.
type StatusInput struct {
	Workspace             *string
	IncludeEmbeddingStats bool
}

// StatusOutput is the data payload of a successful Status response.
type StatusOutput struct {
	Collection      vectorindex.CollectionStats `json:"collection"`
	WorkspaceCount  *uint64                     `json:"workspace_count,omitempty"`
	CountByType     map[string]uint64           `json:"count_by_type"`
	EmbeddingStats  any                         `json:"embedding_stats,omitempty"`
}

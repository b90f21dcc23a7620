package memory

import (
	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
	"github.com/PhillipAWells/mcp-memory/pkg/secrets"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
	"github.com/PhillipAWells/mcp-memory/pkg/workspace"
)

// Orchestrator composes the secret scanner, workspace resolver, embedding
// engine, and vector index controller into the nine tool operations. It is
// constructed once in main and shared by every tool handler.
type Orchestrator struct {
	scanner  *secrets.Scanner
	resolver *workspace.Resolver
	engine   *embedding.Engine
	index    *vectorindex.Controller

	chunkSize    int
	chunkOverlap int
}

// Config configures an Orchestrator.
type Config struct {
	Scanner      *secrets.Scanner
	Resolver     *workspace.Resolver
	Engine       *embedding.Engine
	Index        *vectorindex.Controller
	ChunkSize    int
	ChunkOverlap int
}

// New builds an Orchestrator.
func New(cfg Config) *Orchestrator {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap <= 0 {
		chunkOverlap = 200
	}
	return &Orchestrator{
		scanner:      cfg.Scanner,
		resolver:     cfg.Resolver,
		engine:       cfg.Engine,
		index:        cfg.Index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

func previewContent(content string) string {
	const previewLen = 200
	runes := []rune(content)
	if len(runes) <= previewLen {
		return content
	}
	return string(runes[:previewLen])
}

func pointToMetadata(p vectorindex.Point) map[string]any {
	meta := map[string]any{
		"memory_type":      p.MemoryType,
		"confidence":       p.Confidence,
		"tags":             p.Tags,
		"created_at":       p.CreatedAt,
		"updated_at":       p.UpdatedAt,
		"access_count":     p.AccessCount,
	}
	if p.Workspace != "" {
		meta["workspace"] = p.Workspace
	}
	if p.ExpiresAt != nil {
		meta["expires_at"] = *p.ExpiresAt
	}
	if p.LastAccessedAt != nil {
		meta["last_accessed_at"] = *p.LastAccessedAt
	}
	if p.ChunkIndex != nil {
		meta["chunk_index"] = *p.ChunkIndex
		meta["total_chunks"] = *p.TotalChunks
		meta["chunk_group_id"] = p.ChunkGroupID
	}
	for k, v := range p.Extra {
		meta[k] = v
	}
	return meta
}

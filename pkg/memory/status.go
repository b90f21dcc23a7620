package memory

import (
	"context"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

var memoryTypes = []string{"long-term", "episodic", "short-term"}

// Status collects collection statistics, an optional per-workspace count,
// counts broken down by memory_type, and optional embedding engine stats.
func (o *Orchestrator) Status(ctx context.Context, in StatusInput) (StatusOutput, error) {
	collStats, err := o.index.Stats(ctx)
	if err != nil {
		return StatusOutput{}, memoryerr.Execution("stats failed", err)
	}

	out := StatusOutput{
		Collection:  collStats,
		CountByType: make(map[string]uint64, len(memoryTypes)),
	}

	for _, mt := range memoryTypes {
		mtCopy := mt
		count, err := o.index.Count(ctx, vectorindex.SearchFilters{MemoryType: &mtCopy})
		if err != nil {
			return StatusOutput{}, memoryerr.Execution("count by memory_type failed", err)
		}
		out.CountByType[mt] = count
	}

	if in.Workspace != nil {
		count, err := o.index.Count(ctx, vectorindex.SearchFilters{Workspace: in.Workspace})
		if err != nil {
			return StatusOutput{}, memoryerr.Execution("workspace count failed", err)
		}
		out.WorkspaceCount = &count
	}

	if in.IncludeEmbeddingStats {
		out.EmbeddingStats = o.engine.Stats()
	}

	return out, nil
}

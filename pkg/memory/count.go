package memory

import (
	"context"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

// Count returns the approximate number of points matching filters.
func (o *Orchestrator) Count(ctx context.Context, filters vectorindex.SearchFilters) (uint64, error) {
	if err := validateFilter(filters); err != nil {
		return 0, err
	}
	count, err := o.index.Count(ctx, filters)
	if err != nil {
		return 0, memoryerr.Execution("count failed", err)
	}
	return count, nil
}

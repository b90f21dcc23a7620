package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
)

// Get retrieves one point by id, returning a NOT_FOUND_ERROR on a miss.
func (o *Orchestrator) Get(ctx context.Context, id string) (map[string]any, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, memoryerr.Validation("id must be a valid UUID", nil)
	}

	point, err := o.index.Get(ctx, id)
	if err != nil {
		return nil, memoryerr.Execution("get failed", err)
	}
	if point == nil {
		return nil, memoryerr.NotFound("memory not found", map[string]any{"id": id})
	}

	meta := pointToMetadata(*point)
	meta["id"] = point.ID
	meta["content"] = point.Content
	return meta, nil
}

package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
)

// Delete removes one point by id after confirming it exists.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return memoryerr.Validation("id must be a valid UUID", nil)
	}

	existing, err := o.index.Get(ctx, id)
	if err != nil {
		return memoryerr.Execution("get failed", err)
	}
	if existing == nil {
		return memoryerr.NotFound("memory not found", map[string]any{"id": id})
	}

	if err := o.index.Delete(ctx, id); err != nil {
		return memoryerr.Execution("delete failed", err)
	}
	return nil
}

// BatchDelete removes up to maxBatchDelete points by id, with no
// existence pre-check: missing ids are silently no-ops at the index layer.
func (o *Orchestrator) BatchDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 || len(ids) > maxBatchDelete {
		return memoryerr.Validation("ids must contain between 1 and 100 entries", nil)
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return memoryerr.Validation("every id must be a valid UUID", map[string]any{"id": id})
		}
	}

	if err := o.index.BatchDelete(ctx, ids); err != nil {
		return memoryerr.Execution("batch delete failed", err)
	}
	return nil
}

package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/secrets"
)

// Update merges metadata into an existing point, optionally regenerating
// its embeddings when content changes and reindex is requested. Points
// that are members of a chunk group refuse the update: chunked content
// must be re-stored rather than patched in place.
func (o *Orchestrator) Update(ctx context.Context, in UpdateInput) error {
	if _, err := uuid.Parse(in.ID); err != nil {
		return memoryerr.Validation("id must be a valid UUID", nil)
	}

	existing, err := o.index.Get(ctx, in.ID)
	if err != nil {
		return memoryerr.Execution("get failed", err)
	}
	if existing == nil {
		return memoryerr.NotFound("memory not found", map[string]any{"id": in.ID})
	}
	if existing.ChunkIndex != nil {
		return memoryerr.Validation("cannot update a chunk group member directly, re-store the full content instead", map[string]any{
			"chunk_group_id": existing.ChunkGroupID,
		})
	}

	if in.Content != nil {
		scan := o.scanner.Scan(*in.Content)
		if scan.Decision == secrets.Block {
			return memoryerr.SecretsDetected(scan.Reason, map[string]any{
				"error_code": "SECRETS_DETECTED",
				"sanitized":  scan.Sanitized,
				"detections": scan.Detections,
			})
		}
	}

	point := extractPoint(in.Metadata)
	fields := map[string]any{}
	if point.Workspace != "" {
		fields["workspace"] = point.Workspace
	}
	if point.MemoryType != "" {
		fields["memory_type"] = point.MemoryType
	}
	if point.Confidence != 0 {
		fields["confidence"] = point.Confidence
	}
	if point.Tags != nil {
		fields["tags"] = point.Tags
	}
	if point.ExpiresAt != nil {
		fields["expires_at"] = *point.ExpiresAt
	}
	for k, v := range point.Extra {
		fields[k] = v
	}

	if in.Content != nil && in.Reindex {
		pair, err := o.engine.Generate(ctx, *in.Content)
		if err != nil {
			return memoryerr.Execution("embedding generation failed", err)
		}
		merged := *existing
		merged.Content = *in.Content
		merged.DenseSmall = pair.Small
		merged.DenseLarge = pair.Large
		applyFields(&merged, fields)
		if _, err := o.index.Upsert(ctx, merged); err != nil {
			return memoryerr.Execution("index upsert failed", err)
		}
		return nil
	}

	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if len(fields) == 0 {
		return nil
	}
	if err := o.index.UpdatePayload(ctx, in.ID, fields); err != nil {
		return memoryerr.Execution("update payload failed", err)
	}
	return nil
}

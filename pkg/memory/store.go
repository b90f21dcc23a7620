package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/secrets"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

// Store secret-scans content, resolves defaults, optionally auto-chunks,
// and upserts one or more points.
func (o *Orchestrator) Store(ctx context.Context, in StoreInput) (StoreOutput, error) {
	if in.Content == "" || len([]rune(in.Content)) > maxContentLen {
		return StoreOutput{}, memoryerr.Validation("content must be 1..100000 characters", nil)
	}

	scan := o.scanner.Scan(in.Content)
	if scan.Decision == secrets.Block {
		return StoreOutput{}, memoryerr.SecretsDetected(scan.Reason, map[string]any{
			"error_code": "SECRETS_DETECTED",
			"sanitized":  scan.Sanitized,
			"detections": scan.Detections,
		})
	}

	point := extractPoint(in.Metadata)
	now := time.Now().UTC()
	if point.MemoryType == "" {
		point.MemoryType = "long-term"
	}
	if point.ExpiresAt == nil {
		point.ExpiresAt = deriveExpiry(point.MemoryType, now)
	}

	wsResult, err := o.resolver.Resolve(nilIfEmpty(point.Workspace), false, ".")
	if err != nil {
		return StoreOutput{}, memoryerr.ValidationWrap("invalid workspace", nil, err)
	}
	if wsResult.Value != nil {
		point.Workspace = *wsResult.Value
	}

	if in.AutoChunk && len([]rune(in.Content)) > chunkThreshold {
		return o.storeChunked(ctx, in.Content, point)
	}
	return o.storeSingle(ctx, in.Content, point)
}

func (o *Orchestrator) storeSingle(ctx context.Context, content string, point vectorindex.Point) (StoreOutput, error) {
	pair, err := o.engine.Generate(ctx, content)
	if err != nil {
		return StoreOutput{}, memoryerr.Execution("embedding generation failed", err)
	}

	point.Content = content
	point.DenseSmall = pair.Small
	point.DenseLarge = pair.Large

	stored, err := o.index.Upsert(ctx, point)
	if err != nil {
		return StoreOutput{}, memoryerr.Execution("index upsert failed", err)
	}
	return StoreOutput{ID: stored.ID}, nil
}

func (o *Orchestrator) storeChunked(ctx context.Context, content string, base vectorindex.Point) (StoreOutput, error) {
	chunks, err := o.engine.GenerateChunked(ctx, content, o.chunkSize, o.chunkOverlap)
	if err != nil {
		return StoreOutput{}, memoryerr.Execution("chunk embedding generation failed", err)
	}

	groupID := uuid.NewString()
	points := make([]vectorindex.Point, 0, len(chunks))
	for _, c := range chunks {
		large, err := o.engine.Generate(ctx, c.Text)
		if err != nil {
			return StoreOutput{}, memoryerr.Execution("chunk large-vector generation failed", err)
		}

		idx, total := c.Index, c.Total
		p := base
		p.Extra = cloneExtra(base.Extra)
		p.ID = ""
		p.Content = c.Text
		p.DenseSmall = c.Small
		p.DenseLarge = large.Large
		p.ChunkIndex = &idx
		p.TotalChunks = &total
		p.ChunkGroupID = groupID
		points = append(points, p)
	}

	result := o.index.BatchUpsert(ctx, points)
	if len(result.Failed) > 0 {
		return StoreOutput{}, memoryerr.Execution(fmt.Sprintf("%d of %d chunks failed to index", len(result.Failed), result.TotalProcessed), nil)
	}

	return StoreOutput{IDs: result.SuccessfulIDs, Chunks: len(points)}, nil
}

func cloneExtra(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

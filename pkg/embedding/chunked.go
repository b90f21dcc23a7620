package embedding

import (
	"context"

	"github.com/PhillipAWells/mcp-memory/pkg/chunk"
)

// ChunkVector is one chunk window plus its small embedding vector; the
// caller computes the large vector for each chunk on demand.
type ChunkVector struct {
	Index  int
	Total  int
	Text   string
	Small  Vector
}

// GenerateChunked splits text into overlapping windows and computes the
// small vector for each, covering the entire input.
func (e *Engine) GenerateChunked(ctx context.Context, text string, size, overlap int) ([]ChunkVector, error) {
	windows := chunk.Split(text, size, overlap)
	out := make([]ChunkVector, 0, len(windows))
	for _, w := range windows {
		small, err := e.GenerateSmall(ctx, w.Text)
		if err != nil {
			return nil, err
		}
		out = append(out, ChunkVector{Index: w.Index, Total: w.Total, Text: w.Text, Small: small})
	}
	return out, nil
}

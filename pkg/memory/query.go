package memory

import (
	"context"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

// Query embeds the query text and delegates to a standard or hybrid
// vector-index search, echoing the query alongside the results.
func (o *Orchestrator) Query(ctx context.Context, in QueryInput) (QueryOutput, error) {
	if in.Query == "" || len([]rune(in.Query)) > 10000 {
		return QueryOutput{}, memoryerr.Validation("query must be 1..10000 characters", nil)
	}
	if err := validateRange("limit", in.Limit, minQueryLimit, maxQueryLimit); err != nil {
		return QueryOutput{}, err
	}
	if err := validateRange("hnsw_ef", in.HNSWEf, minHNSWEf, maxHNSWEf); err != nil {
		return QueryOutput{}, err
	}
	if err := validateScoreThreshold(in.ScoreThreshold); err != nil {
		return QueryOutput{}, err
	}
	if err := validateFilter(in.Filter); err != nil {
		return QueryOutput{}, err
	}
	if in.Offset < 0 {
		return QueryOutput{}, memoryerr.Validation("offset must be non-negative", map[string]any{"value": in.Offset})
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}

	pair, err := o.engine.Generate(ctx, in.Query)
	if err != nil {
		return QueryOutput{}, memoryerr.Execution("query embedding generation failed", err)
	}

	var hits []vectorindex.SearchResult
	if in.UseHybridSearch {
		hits, err = o.index.HybridSearch(ctx, in.Query, pair.Small, pair.Large, in.Filter, limit, in.Offset, in.ScoreThreshold, in.HNSWEf)
		if err != nil {
			return QueryOutput{}, memoryerr.Execution("hybrid search failed", err)
		}
	} else {
		hits, err = o.index.Search(ctx, pair.Small, pair.Large, in.Filter, limit, in.Offset, in.ScoreThreshold, in.HNSWEf)
		if err != nil {
			return QueryOutput{}, memoryerr.Execution("search failed", err)
		}
	}

	items := make([]QueryResultItem, 0, len(hits))
	for _, h := range hits {
		items = append(items, QueryResultItem{
			ID:       h.Point.ID,
			Content:  h.Point.Content,
			Score:    h.Score,
			Metadata: pointToMetadata(h.Point),
		})
	}

	return QueryOutput{Query: in.Query, Results: items}, nil
}

package memory

import (
	"context"
	"log/slog"
	"sort"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

// maxSortFetch bounds how many points List will pull into memory to sort
// by a field other than created_at, per the spec's cap on in-process sorts.
const maxSortFetch = 10000

// List returns a page of content previews matching filters. Sorting by
// created_at uses the index's natural scroll order (reversed for
// descending); any other sort field requires fetching up to
// maxSortFetch matching points and sorting in process.
func (o *Orchestrator) List(ctx context.Context, in ListInput) ([]ListItem, error) {
	if err := validateRange("limit", in.Limit, minListLimit, maxListLimit); err != nil {
		return nil, err
	}
	if in.Offset < 0 {
		return nil, memoryerr.Validation("offset must be non-negative", map[string]any{"value": in.Offset})
	}
	if err := validateFilter(in.Filter); err != nil {
		return nil, err
	}
	switch in.SortBy {
	case "", "created_at", "updated_at", "access_count", "confidence":
	default:
		return nil, memoryerr.Validation("sort_by must be one of created_at, updated_at, access_count, confidence", map[string]any{"sort_by": in.SortBy})
	}
	switch in.SortOrder {
	case "", "asc", "desc":
	default:
		return nil, memoryerr.Validation("sort_order must be one of asc, desc", map[string]any{"sort_order": in.SortOrder})
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 100
	}
	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}

	if sortBy == "created_at" && in.SortOrder != "asc" {
		points, err := o.index.List(ctx, in.Filter, limit, in.Offset)
		if err != nil {
			return nil, memoryerr.Execution("list failed", err)
		}
		return toListItems(points), nil
	}

	total, err := o.index.Count(ctx, in.Filter)
	if err != nil {
		return nil, memoryerr.Execution("count for sort failed", err)
	}
	fetch := int(total)
	if fetch > maxSortFetch {
		slog.Warn("list sort fetch capped", "requested", total, "cap", maxSortFetch)
		fetch = maxSortFetch
	}

	points, err := o.index.List(ctx, in.Filter, fetch, 0)
	if err != nil {
		return nil, memoryerr.Execution("list failed", err)
	}
	sortPoints(points, sortBy, in.SortOrder)

	lo := in.Offset
	if lo > len(points) {
		lo = len(points)
	}
	hi := lo + limit
	if hi > len(points) {
		hi = len(points)
	}
	return toListItems(points[lo:hi]), nil
}

func sortPoints(points []vectorindex.Point, sortBy, sortOrder string) {
	desc := sortOrder != "asc"
	less := func(i, j int) bool {
		a, b := points[i], points[j]
		switch sortBy {
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "confidence":
			return a.Confidence < b.Confidence
		case "access_count":
			return a.AccessCount < b.AccessCount
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(points, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}

func toListItems(points []vectorindex.Point) []ListItem {
	items := make([]ListItem, 0, len(points))
	for _, p := range points {
		items = append(items, ListItem{
			ID:       p.ID,
			Content:  previewContent(p.Content),
			Metadata: pointToMetadata(p),
		})
	}
	return items
}

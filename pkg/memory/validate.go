package memory

import (
	"fmt"

	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

// validateRange returns a VALIDATION_ERROR when a non-zero value falls
// outside [lo,hi]. A zero value means "not supplied, use the default" and
// always passes.
func validateRange(field string, value, lo, hi int) error {
	if value == 0 {
		return nil
	}
	if value < lo || value > hi {
		return memoryerr.Validation(fmt.Sprintf("%s must be between %d and %d", field, lo, hi), map[string]any{
			"field": field, "value": value, "min": lo, "max": hi,
		})
	}
	return nil
}

// validateScoreThreshold checks the optional score_threshold is within [0,1].
func validateScoreThreshold(threshold *float64) error {
	if threshold == nil {
		return nil
	}
	if *threshold < 0 || *threshold > 1 {
		return memoryerr.Validation("score_threshold must be between 0 and 1", map[string]any{"value": *threshold})
	}
	return nil
}

// validateFilter enforces the tags field's documented size bounds:
// 1..20 tags, each 1..50 characters.
func validateFilter(f vectorindex.SearchFilters) error {
	if len(f.Tags) > maxTagCount {
		return memoryerr.Validation(fmt.Sprintf("tags must contain at most %d entries", maxTagCount), map[string]any{"count": len(f.Tags)})
	}
	for _, tag := range f.Tags {
		if tag == "" || len([]rune(tag)) > maxTagLen {
			return memoryerr.Validation(fmt.Sprintf("each tag must be 1..%d characters", maxTagLen), map[string]any{"tag": tag})
		}
	}
	return nil
}

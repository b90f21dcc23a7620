package vectorindex

import (
	"sort"
	"time"
)

// Condition is one AND-ed equality/range clause in a built Filter, kept
// store-agnostic so it can be unit tested without a running Qdrant and
// translated to the wire filter format only inside qdrant_store.go.
type Condition struct {
	Field string
	Op    string // "eq", "gte", "any"
	Value any
}

// Filter is the fully-built AND-of-conditions for one index call, plus the
// always-present expiry exclusion (expires_at absent OR expires_at > Now).
type Filter struct {
	Must []Condition
	Now  time.Time
}

// HasUserConditions reports whether the caller supplied any of
// workspace/memory_type/min_confidence/tags/metadata. The expiry exclusion
// is always present and does not count, matching the spec's "no filter iff
// no conditions" rule for the caller-facing SearchFilters shape.
func (f Filter) HasUserConditions() bool {
	return len(f.Must) > 0
}

// BuildFilter composes the AND-of-conditions from a SearchFilters value,
// always appending the expiry exclusion via Filter.Now.
func BuildFilter(filters SearchFilters, now time.Time) Filter {
	var must []Condition

	if filters.Workspace != nil {
		must = append(must, Condition{Field: "workspace", Op: "eq", Value: *filters.Workspace})
	}
	if filters.MemoryType != nil {
		must = append(must, Condition{Field: "memory_type", Op: "eq", Value: *filters.MemoryType})
	}
	if filters.MinConfidence != nil {
		must = append(must, Condition{Field: "confidence", Op: "gte", Value: *filters.MinConfidence})
	}
	if len(filters.Tags) > 0 {
		must = append(must, Condition{Field: "tags", Op: "any", Value: filters.Tags})
	}
	if len(filters.Metadata) > 0 {
		keys := make([]string, 0, len(filters.Metadata))
		for k := range filters.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			must = append(must, Condition{Field: k, Op: "eq", Value: filters.Metadata[k]})
		}
	}

	return Filter{Must: must, Now: now}
}

package memory

import (
	"time"

	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

// extractPoint pulls the typed core fields out of a caller-supplied
// metadata bag, leaving everything else in Extra so it round-trips
// through the index unchanged.
func extractPoint(metadata map[string]any) vectorindex.Point {
	p := vectorindex.Point{Extra: make(map[string]any)}
	if metadata == nil {
		return p
	}

	for k, v := range metadata {
		switch k {
		case "workspace":
			if s, ok := v.(string); ok {
				p.Workspace = s
			}
		case "memory_type":
			if s, ok := v.(string); ok {
				p.MemoryType = s
			}
		case "confidence":
			if f, ok := toFloat(v); ok {
				p.Confidence = f
			}
		case "tags":
			if tags, ok := toStringSlice(v); ok {
				p.Tags = tags
			}
		case "expires_at":
			if t, ok := toTime(v); ok {
				p.ExpiresAt = &t
			}
		default:
			p.Extra[k] = v
		}
	}
	return p
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

// applyFields merges a flat field map (as built by Update) onto a point's
// typed core and Extra bag, used when a content update also carries
// metadata changes.
func applyFields(p *vectorindex.Point, fields map[string]any) {
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	for k, v := range fields {
		switch k {
		case "workspace":
			if s, ok := v.(string); ok {
				p.Workspace = s
			}
		case "memory_type":
			if s, ok := v.(string); ok {
				p.MemoryType = s
			}
		case "confidence":
			if f, ok := toFloat(v); ok {
				p.Confidence = f
			}
		case "tags":
			if tags, ok := toStringSlice(v); ok {
				p.Tags = tags
			}
		case "expires_at":
			if t, ok := toTime(v); ok {
				p.ExpiresAt = &t
			}
		default:
			p.Extra[k] = v
		}
	}
}

// deriveExpiry computes the default expires_at for a memory type when the
// caller did not supply one explicitly.
func deriveExpiry(memoryType string, now time.Time) *time.Time {
	switch memoryType {
	case "episodic":
		t := now.Add(episodicTTL)
		return &t
	case "short-term":
		t := now.Add(shortTermTTL)
		return &t
	default:
		return nil
	}
}

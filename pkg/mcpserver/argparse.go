package mcpserver

import (
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
)

func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func argBool(args map[string]any, key string, def bool) bool {
	v, ok := args[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func argInt(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func argFloatPtr(args map[string]any, key string) *float64 {
	v, ok := args[key]
	if !ok {
		return nil
	}
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func argMap(args map[string]any, key string) map[string]any {
	v, ok := args[key]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

func argStringSlice(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// argFilter builds SearchFilters from the optional "filter" object argument,
// shaped {workspace, memory_type, min_confidence, tags}.
func argFilter(args map[string]any) vectorindex.SearchFilters {
	raw := argMap(args, "filter")
	if raw == nil {
		return vectorindex.SearchFilters{}
	}
	var f vectorindex.SearchFilters
	if ws, ok := argString(raw, "workspace"); ok {
		f.Workspace = &ws
	}
	if mt, ok := argString(raw, "memory_type"); ok {
		f.MemoryType = &mt
	}
	f.MinConfidence = argFloatPtr(raw, "min_confidence")
	f.Tags = argStringSlice(raw, "tags")
	if md := argMap(raw, "metadata"); md != nil {
		f.Metadata = md
	}
	return f
}

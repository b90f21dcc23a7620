package vectorindex

import (
	"fmt"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
)

// toQdrantFilter translates a store-agnostic Filter into the wire filter
// format. The expiry exclusion (absent OR after now) is expressed as the
// Should clause alongside the caller's Must conditions: Qdrant matches a
// point when every Must condition holds AND at least one Should condition
// holds, which is exactly "expires_at is null OR expires_at > now" ANDed
// with everything else.
func toQdrantFilter(f Filter) *qdrant.Filter {
	filter := &qdrant.Filter{
		Should: []*qdrant.Condition{
			qdrant.NewIsNull("expires_at"),
			qdrant.NewRange("expires_at", &qdrant.Range{Gt: qdrant.PtrOf(float64(f.Now.Unix()))}),
		},
	}
	if len(f.Must) == 0 {
		return filter
	}
	for _, cond := range f.Must {
		filter.Must = append(filter.Must, toQdrantCondition(cond))
	}
	return filter
}

func toQdrantCondition(cond Condition) *qdrant.Condition {
	switch cond.Op {
	case "eq":
		return toMatchCondition(cond.Field, cond.Value)
	case "gte":
		if f, ok := cond.Value.(float64); ok {
			return qdrant.NewRange(cond.Field, &qdrant.Range{Gte: qdrant.PtrOf(f)})
		}
	case "any":
		if tags, ok := cond.Value.([]string); ok {
			return qdrant.NewMatchKeywords(cond.Field, tags...)
		}
	}
	return toMatchCondition(cond.Field, cond.Value)
}

// toMatchCondition builds an equality match condition on field, dispatching
// on value's dynamic type so numeric and boolean metadata match their own
// stored payload type instead of silently coercing to an empty string.
func toMatchCondition(field string, v any) *qdrant.Condition {
	switch val := v.(type) {
	case string:
		return qdrant.NewMatch(field, val)
	case bool:
		return qdrant.NewMatchBool(field, val)
	case int:
		return qdrant.NewMatchInt(field, int64(val))
	case int64:
		return qdrant.NewMatchInt(field, val)
	case float64:
		if val == float64(int64(val)) {
			return qdrant.NewMatchInt(field, int64(val))
		}
		return qdrant.NewMatch(field, strconv.FormatFloat(val, 'g', -1, 64))
	case float32:
		return toMatchCondition(field, float64(val))
	default:
		return qdrant.NewMatch(field, fmt.Sprintf("%v", val))
	}
}

func toFloat32(v embedding.Vector) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

func fromFloat32(v []float32) embedding.Vector {
	out := make(embedding.Vector, len(v))
	copy(out, v)
	return out
}

// toPointStruct builds the wire representation of a Point, merging the
// typed core fields and the open Extra bag into one payload map so
// caller-supplied fields round-trip unchanged.
func toPointStruct(p Point) *qdrant.PointStruct {
	payload := map[string]any{
		"content":     p.Content,
		"workspace":   p.Workspace,
		"memory_type": p.MemoryType,
		"confidence":  p.Confidence,
		"tags":        p.Tags,
		"created_at":  p.CreatedAt.Format(time.RFC3339),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339),
		"access_count": p.AccessCount,
	}
	if p.ExpiresAt != nil {
		payload["expires_at"] = p.ExpiresAt.Format(time.RFC3339)
	}
	if p.LastAccessedAt != nil {
		payload["last_accessed_at"] = p.LastAccessedAt.Format(time.RFC3339)
	}
	if p.ChunkIndex != nil {
		payload["chunk_index"] = *p.ChunkIndex
		payload["total_chunks"] = *p.TotalChunks
		payload["chunk_group_id"] = p.ChunkGroupID
	}
	for k, v := range p.Extra {
		payload[k] = v
	}

	value, err := qdrant.NewValueMap(payload)
	if err != nil {
		value = &qdrant.Payload{}
	}

	vectors := qdrant.NewVectorsMap(map[string]*qdrant.Vector{
		"dense":       qdrant.NewVector(toFloat32(p.DenseSmall)...),
		"dense_large": qdrant.NewVector(toFloat32(p.DenseLarge)...),
	})

	return &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(p.ID),
		Vectors: vectors,
		Payload: value.GetMap(),
	}
}

// fromRetrievedPoint rebuilds a Point from a Get/Scroll response point.
func fromRetrievedPoint(rp *qdrant.RetrievedPoint) Point {
	return pointFromWire(rp.GetId(), rp.GetPayload(), rp.GetVectors())
}

// fromScoredPoint rebuilds a Point from a Query/Search response point.
func fromScoredPoint(sp *qdrant.ScoredPoint) Point {
	return pointFromWire(sp.GetId(), sp.GetPayload(), sp.GetVectors())
}

func pointFromWire(id *qdrant.PointId, payload map[string]*qdrant.Value, vectors *qdrant.VectorsOutput) Point {
	p := Point{ID: pointIDString(id), Extra: make(map[string]any)}

	for k, v := range payload {
		switch k {
		case "content":
			p.Content = v.GetStringValue()
		case "workspace":
			p.Workspace = v.GetStringValue()
		case "memory_type":
			p.MemoryType = v.GetStringValue()
		case "confidence":
			p.Confidence = v.GetDoubleValue()
		case "tags":
			p.Tags = stringList(v)
		case "created_at":
			p.CreatedAt = parseTime(v.GetStringValue())
		case "updated_at":
			p.UpdatedAt = parseTime(v.GetStringValue())
		case "access_count":
			p.AccessCount = v.GetIntegerValue()
		case "expires_at":
			t := parseTime(v.GetStringValue())
			p.ExpiresAt = &t
		case "last_accessed_at":
			t := parseTime(v.GetStringValue())
			p.LastAccessedAt = &t
		case "chunk_index":
			idx := int(v.GetIntegerValue())
			p.ChunkIndex = &idx
		case "total_chunks":
			total := int(v.GetIntegerValue())
			p.TotalChunks = &total
		case "chunk_group_id":
			p.ChunkGroupID = v.GetStringValue()
		default:
			p.Extra[k] = payloadValueToAny(v)
		}
	}

	if vectors != nil {
		if named := vectors.GetVectors(); named != nil {
			if dense, ok := named.GetVectors()["dense"]; ok {
				p.DenseSmall = fromFloat32(dense.GetData())
			}
			if large, ok := named.GetVectors()["dense_large"]; ok {
				p.DenseLarge = fromFloat32(large.GetData())
			}
		}
	}

	return p
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uid := id.GetUuid(); uid != "" {
		return uid
	}
	return ""
}

func stringList(v *qdrant.Value) []string {
	list := v.GetListValue()
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		out = append(out, item.GetStringValue())
	}
	return out
}

func payloadValueToAny(v *qdrant.Value) any {
	switch {
	case v.GetStringValue() != "":
		return v.GetStringValue()
	case v.GetIntegerValue() != 0:
		return v.GetIntegerValue()
	case v.GetDoubleValue() != 0:
		return v.GetDoubleValue()
	default:
		return v.GetBoolValue()
	}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

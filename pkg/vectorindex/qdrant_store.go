package vectorindex

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
)

// Collection schema constants, exact at create time per the configured
// collection layout.
const (
	hnswM                 = 16
	hnswEfConstruct       = 200
	fullScanThreshold     = 10000
	optimizerSegments     = 2
	optimizerMaxSegment   = 200000
	optimizerMemmap       = 50000
	optimizerIndexing     = 20000
	optimizerFlushSeconds = 5
	quantizationQuantile  = 0.99
)

// QdrantStore is the sole adapter touching github.com/qdrant/go-client; the
// rest of this package depends only on the Store interface it satisfies.
type QdrantStore struct {
	client  *qdrant.Client
	timeout time.Duration
}

// QdrantConfig configures the underlying gRPC connection.
type QdrantConfig struct {
	Host    string
	Port    int
	APIKey  string
	UseTLS  bool
	Timeout time.Duration
}

// NewQdrantStore dials the configured Qdrant instance.
func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}
	return &QdrantStore{client: client, timeout: cfg.Timeout}, nil
}

func (s *QdrantStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	return s.client.CollectionExists(ctx, name)
}

func (s *QdrantStore) CreateCollection(ctx context.Context, name string, smallDims, largeDims uint64) error {
	vectorsConfig := qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
		"dense": {
			Size:     smallDims,
			Distance: qdrant.Distance_Cosine,
			HnswConfig: &qdrant.HnswConfigDiff{
				M:                qdrant.PtrOf(uint64(hnswM)),
				EfConstruct:      qdrant.PtrOf(uint64(hnswEfConstruct)),
				FullScanThreshold: qdrant.PtrOf(uint64(fullScanThreshold)),
			},
			QuantizationConfig: scalarQuantizationConfig(),
		},
		"dense_large": {
			Size:     largeDims,
			Distance: qdrant.Distance_Cosine,
			HnswConfig: &qdrant.HnswConfigDiff{
				M:                qdrant.PtrOf(uint64(hnswM)),
				EfConstruct:      qdrant.PtrOf(uint64(hnswEfConstruct)),
				FullScanThreshold: qdrant.PtrOf(uint64(fullScanThreshold)),
			},
			QuantizationConfig: scalarQuantizationConfig(),
		},
	})

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig:  vectorsConfig,
		OptimizersConfig: &qdrant.OptimizersConfigDiff{
			DefaultSegmentNumber: qdrant.PtrOf(uint64(optimizerSegments)),
			MaxSegmentSize:       qdrant.PtrOf(uint64(optimizerMaxSegment)),
			MemmapThreshold:      qdrant.PtrOf(uint64(optimizerMemmap)),
			IndexingThreshold:    qdrant.PtrOf(uint64(optimizerIndexing)),
			FlushIntervalSec:     qdrant.PtrOf(uint64(optimizerFlushSeconds)),
		},
	})
}

func scalarQuantizationConfig() *qdrant.QuantizationConfig {
	return qdrant.NewQuantizationScalar(&qdrant.ScalarQuantization{
		Type:      qdrant.QuantizationType_Int8,
		Quantile:  qdrant.PtrOf(float32(quantizationQuantile)),
		AlwaysRam: qdrant.PtrOf(true),
	})
}

func (s *QdrantStore) GetCollectionSchema(ctx context.Context, name string) (CollectionSchema, error) {
	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return CollectionSchema{}, err
	}

	params := info.GetConfig().GetParams()
	vectorsMap := params.GetVectorsConfig().GetParamsMap().GetMap()
	if vectorsMap == nil {
		return CollectionSchema{HasNamedVectors: false}, nil
	}

	dense, hasDense := vectorsMap["dense"]
	large, hasLarge := vectorsMap["dense_large"]
	if !hasDense || !hasLarge {
		return CollectionSchema{HasNamedVectors: true}, nil
	}

	return CollectionSchema{
		HasNamedVectors:    true,
		DenseSize:          dense.GetSize(),
		DenseLargeSize:     large.GetSize(),
		DenseDistance:      dense.GetDistance().String(),
		DenseLargeDistance: large.GetDistance().String(),
	}, nil
}

func (s *QdrantStore) CreatePayloadIndexes(ctx context.Context, name string) error {
	indexes := []struct {
		field string
		typ   qdrant.FieldType
	}{
		{"workspace", qdrant.FieldType_FieldTypeKeyword},
		{"memory_type", qdrant.FieldType_FieldTypeKeyword},
		{"confidence", qdrant.FieldType_FieldTypeFloat},
		{"created_at", qdrant.FieldType_FieldTypeDatetime},
		{"updated_at", qdrant.FieldType_FieldTypeDatetime},
		{"access_count", qdrant.FieldType_FieldTypeInteger},
		{"last_accessed_at", qdrant.FieldType_FieldTypeDatetime},
		{"tags", qdrant.FieldType_FieldTypeKeyword},
	}

	for _, idx := range indexes {
		fieldType := idx.typ
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      idx.field,
			FieldType:      &fieldType,
		})
		if err != nil && !isAlreadyExists(err) {
			return fmt.Errorf("creating payload index on %q: %w", idx.field, err)
		}
	}

	textParams := &qdrant.TextIndexParams{
		Tokenizer:   qdrant.TokenizerType_Word,
		Lowercase:   qdrant.PtrOf(true),
		MinTokenLen: qdrant.PtrOf(uint64(2)),
		MaxTokenLen: qdrant.PtrOf(uint64(20)),
	}
	fieldType := qdrant.FieldType_FieldTypeText
	_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName:   name,
		FieldName:        "content",
		FieldType:        &fieldType,
		FieldIndexParams: qdrant.NewPayloadIndexParamsText(textParams),
	})
	if err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("creating full-text index on content: %w", err)
	}
	return nil
}

func isAlreadyExists(err error) bool {
	return err != nil && containsFold(err.Error(), "already exists")
}

func containsFold(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if equalFold(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (s *QdrantStore) UpsertPoints(ctx context.Context, name string, points []Point, wait bool) error {
	structs := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		structs[i] = toPointStruct(p)
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         structs,
		Wait:           qdrant.PtrOf(wait),
	})
	return err
}

func (s *QdrantStore) GetPoint(ctx context.Context, name, id string) (*Point, bool, error) {
	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: name,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(id)},
		WithPayload:    qdrant.NewWithPayloadInclude(),
		WithVectors:    qdrant.NewWithVectorsEnable(true),
	})
	if err != nil {
		return nil, false, err
	}
	if len(points) == 0 {
		return nil, false, nil
	}
	p := fromRetrievedPoint(points[0])
	return &p, true, nil
}

func (s *QdrantStore) DeletePoint(ctx context.Context, name, id string) error {
	return s.DeletePoints(ctx, name, []string{id})
}

func (s *QdrantStore) DeletePoints(ctx context.Context, name string, ids []string) error {
	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDUUID(id)
	}
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: name,
		Points:         qdrant.NewPointsSelectorIDs(pointIDs),
	})
	return err
}

func (s *QdrantStore) CountPoints(ctx context.Context, name string, filters SearchFilters) (uint64, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Filter:         toQdrantFilter(BuildFilter(filters, time.Now().UTC())),
	})
	return count, err
}

// ScrollList's natural order is not point-ID order: point IDs are random
// UUIDv4s (pkg/vectorindex/controller.go), so an unordered scroll would not
// return newest-first. OrderBy makes this explicit so the fast
// sort_by=created_at path in pkg/memory/list.go is actually correct.
func (s *QdrantStore) ScrollList(ctx context.Context, name string, filters SearchFilters, limit, offset int) ([]Point, error) {
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: name,
		Filter:         toQdrantFilter(BuildFilter(filters, time.Now().UTC())),
		Limit:          qdrant.PtrOf(uint32(limit + offset)),
		OrderBy: &qdrant.OrderBy{
			Key:       "created_at",
			Direction: qdrant.Direction_Desc.Enum(),
		},
		WithPayload: qdrant.NewWithPayloadInclude(),
		WithVectors: qdrant.NewWithVectorsEnable(false),
	})
	if err != nil {
		return nil, err
	}
	out := make([]Point, 0, len(points))
	for i, rp := range points {
		if i < offset {
			continue
		}
		out = append(out, fromRetrievedPoint(rp))
	}
	return out, nil
}

func (s *QdrantStore) UpdatePayload(ctx context.Context, name, id string, payload map[string]any, wait bool) error {
	value, err := qdrant.NewValueMap(payload)
	if err != nil {
		return err
	}
	_, err = s.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: name,
		Payload:        value,
		PointsSelector: qdrant.NewPointsSelectorIDs([]*qdrant.PointId{qdrant.NewIDUUID(id)}),
		Wait:           qdrant.PtrOf(wait),
	})
	return err
}

func (s *QdrantStore) SearchDense(ctx context.Context, name string, vector embedding.Vector, large bool, filters SearchFilters, limit, offset int, scoreThreshold *float64, hnswEf int) ([]SearchResult, error) {
	using := "dense"
	if large {
		using = "dense_large"
	}

	query := &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(toFloat32(vector)...),
		Using:          qdrant.PtrOf(using),
		Filter:         toQdrantFilter(BuildFilter(filters, time.Now().UTC())),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Offset:         qdrant.PtrOf(uint64(offset)),
		WithPayload:    qdrant.NewWithPayloadInclude(),
		Params: &qdrant.SearchParams{
			HnswEf:      qdrant.PtrOf(uint64(hnswEf)),
			IndexedOnly: qdrant.PtrOf(true),
		},
	}
	if scoreThreshold != nil {
		query.ScoreThreshold = qdrant.PtrOf(float32(*scoreThreshold))
	}

	points, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, len(points))
	for i, sp := range points {
		out[i] = SearchResult{Point: fromScoredPoint(sp), Score: float64(sp.GetScore())}
	}
	return out, nil
}

func (s *QdrantStore) ScrollText(ctx context.Context, name string, query string, filters SearchFilters, fetchLimit int) ([]Point, error) {
	base := BuildFilter(filters, time.Now().UTC())
	textCondition := qdrant.NewMatchText("content", query)

	filter := toQdrantFilter(base)
	if filter == nil {
		filter = &qdrant.Filter{}
	}
	filter.Must = append(filter.Must, textCondition)

	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: name,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(fetchLimit)),
		WithPayload:    qdrant.NewWithPayloadInclude(),
		WithVectors:    qdrant.NewWithVectorsEnable(false),
	})
	if err != nil {
		return nil, err
	}
	out := make([]Point, len(points))
	for i, rp := range points {
		out[i] = fromRetrievedPoint(rp)
	}
	return out, nil
}

func (s *QdrantStore) Stats(ctx context.Context, name string) (CollectionStats, error) {
	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return CollectionStats{}, err
	}
	return CollectionStats{
		PointsCount:         info.GetPointsCount(),
		IndexedVectorsCount: info.GetIndexedVectorsCount(),
		SegmentsCount:       info.GetSegmentsCount(),
		Status:              info.GetStatus().String(),
		OptimizerStatus:     info.GetOptimizerStatus().String(),
	}, nil
}

package vectorindex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
)

const (
	defaultHNSWEf    = 128
	batchSize        = 500
	accessWarnWindow = 10 * time.Second
)

// Dims is the configured (small, large) vector dimensionality the
// collection must match at startup.
type Dims struct {
	Small uint64
	Large uint64
}

// Controller owns the collection lifecycle and every read/write operation
// against it, wrapping Store with the spec's batching, RRF fusion, and
// best-effort access tracking.
type Controller struct {
	store          Store
	collectionName string
	dims           Dims

	initOnce sync.Once
	initErr  error

	accessFailures  int64
	lastAccessWarn  atomic.Int64 // unix nano of last emitted warning
	accessWarnMu    sync.Mutex
}

// NewController builds a Controller. Initialize must be called before any
// other method; it is safe to call Initialize concurrently, it runs at
// most once.
func NewController(store Store, collectionName string, dims Dims) *Controller {
	return &Controller{store: store, collectionName: collectionName, dims: dims}
}

// Initialize creates the collection if absent, or validates its schema if
// present. A schema mismatch is a fatal, non-retryable error: the caller
// must refuse to serve traffic. Concurrent callers share one
// initialization attempt (an idempotent future), per the spec's design
// notes.
func (c *Controller) Initialize(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.initialize(ctx)
	})
	return c.initErr
}

func (c *Controller) initialize(ctx context.Context) error {
	exists, err := c.store.CollectionExists(ctx, c.collectionName)
	if err != nil {
		return fmt.Errorf("checking collection existence: %w", err)
	}

	if !exists {
		if err := c.store.CreateCollection(ctx, c.collectionName, c.dims.Small, c.dims.Large); err != nil {
			return fmt.Errorf("creating collection %q: %w", c.collectionName, err)
		}
	} else {
		schema, err := c.store.GetCollectionSchema(ctx, c.collectionName)
		if err != nil {
			return fmt.Errorf("reading collection schema: %w", err)
		}
		if mismatches := c.validateSchema(schema); len(mismatches) > 0 {
			return &SchemaMismatchError{Collection: c.collectionName, Mismatches: mismatches}
		}
	}

	if err := c.store.CreatePayloadIndexes(ctx, c.collectionName); err != nil {
		return fmt.Errorf("creating payload indexes: %w", err)
	}
	return nil
}

func (c *Controller) validateSchema(schema CollectionSchema) []string {
	var mismatches []string
	if !schema.HasNamedVectors {
		mismatches = append(mismatches, "collection uses a single unnamed vector, expected named vectors dense/dense_large")
	}
	if schema.DenseSize != c.dims.Small {
		mismatches = append(mismatches, fmt.Sprintf("dense size %d != expected %d", schema.DenseSize, c.dims.Small))
	}
	if schema.DenseLargeSize != c.dims.Large {
		mismatches = append(mismatches, fmt.Sprintf("dense_large size %d != expected %d", schema.DenseLargeSize, c.dims.Large))
	}
	if schema.DenseDistance != "Cosine" {
		mismatches = append(mismatches, fmt.Sprintf("dense distance %q != expected Cosine", schema.DenseDistance))
	}
	if schema.DenseLargeDistance != "Cosine" {
		mismatches = append(mismatches, fmt.Sprintf("dense_large distance %q != expected Cosine", schema.DenseLargeDistance))
	}
	return mismatches
}

// SchemaMismatchError is returned when an existing collection's schema
// does not match the configured dimensions; it is fatal at startup.
type SchemaMismatchError struct {
	Collection string
	Mismatches []string
}

func (e *SchemaMismatchError) Error() string {
	msg := fmt.Sprintf("collection %q schema mismatch, delete it or configure a different collection name:", e.Collection)
	for _, m := range e.Mismatches {
		msg += "\n  - " + m
	}
	return msg
}

// Upsert synthesizes defaults for an incoming point and writes it,
// waiting for acknowledgement.
func (c *Controller) Upsert(ctx context.Context, p Point) (Point, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.MemoryType == "" {
		p.MemoryType = "long-term"
	}
	if p.Confidence == 0 {
		p.Confidence = 0.7
	}

	if err := c.store.UpsertPoints(ctx, c.collectionName, []Point{p}, true); err != nil {
		return Point{}, fmt.Errorf("upsert: %w", err)
	}
	return p, nil
}

// BatchUpsert chunks points into batches of 500, each atomic at the index
// layer; a failed batch marks every point in it as failed and processing
// continues to the next batch.
func (c *Controller) BatchUpsert(ctx context.Context, points []Point) BatchUpsertResult {
	result := BatchUpsertResult{TotalProcessed: len(points)}

	for start := 0; start < len(points); start += batchSize {
		end := start + batchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		if err := c.store.UpsertPoints(ctx, c.collectionName, batch, true); err != nil {
			for i, p := range batch {
				result.Failed = append(result.Failed, BatchFailure{
					Index: start + i,
					ID:    p.ID,
					Error: err.Error(),
				})
			}
			slog.Warn("batch upsert failed", "collection", c.collectionName, "batch_start", start, "batch_size", len(batch), "error", err)
			continue
		}

		for _, p := range batch {
			result.SuccessfulIDs = append(result.SuccessfulIDs, p.ID)
		}
		slog.Info("batch upsert succeeded", "collection", c.collectionName, "batch_start", start, "batch_size", len(batch), "success_pct", 100.0)
	}

	return result
}

// Search performs a standard dense-vector search against the dense or
// dense_large space, depending on whether a large vector is supplied.
func (c *Controller) Search(ctx context.Context, small, large embedding.Vector, filters SearchFilters, limit, offset int, scoreThreshold *float64, hnswEf int) ([]SearchResult, error) {
	if hnswEf <= 0 {
		hnswEf = defaultHNSWEf
	}
	vector, useLarge := small, false
	if len(large) > 0 {
		vector, useLarge = large, true
	}

	results, err := c.store.SearchDense(ctx, c.collectionName, vector, useLarge, filters, limit, offset, scoreThreshold, hnswEf)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	c.trackAccessAsync(ids(results))
	return results, nil
}

// HybridSearch fuses dense and text-index results by Reciprocal Rank
// Fusion and returns the top limit results after offset.
func (c *Controller) HybridSearch(ctx context.Context, query string, small, large embedding.Vector, filters SearchFilters, limit, offset int, scoreThreshold *float64, hnswEf int) ([]SearchResult, error) {
	fetchLimit := 3 * limit
	if hnswEf <= 0 {
		hnswEf = defaultHNSWEf
	}
	vector, useLarge := small, false
	if len(large) > 0 {
		vector, useLarge = large, true
	}

	dense, err := c.store.SearchDense(ctx, c.collectionName, vector, useLarge, filters, fetchLimit, 0, scoreThreshold, hnswEf)
	if err != nil {
		return nil, fmt.Errorf("hybrid search (dense): %w", err)
	}
	text, err := c.store.ScrollText(ctx, c.collectionName, query, filters, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("hybrid search (text): %w", err)
	}

	combined := fuseRRF(dense, text)

	lo := offset
	if lo > len(combined) {
		lo = len(combined)
	}
	hi := lo + limit
	if hi > len(combined) {
		hi = len(combined)
	}

	out := make([]SearchResult, 0, hi-lo)
	for _, f := range combined[lo:hi] {
		out = append(out, SearchResult{Point: f.point, Score: f.score})
	}

	c.trackAccessAsync(ids(out))
	return out, nil
}

// Get retrieves one point by id with score 1.0, fire-and-forgetting access
// tracking on a hit.
func (c *Controller) Get(ctx context.Context, id string) (*Point, error) {
	point, ok, err := c.store.GetPoint(ctx, c.collectionName, id)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	if !ok {
		return nil, nil
	}
	c.trackAccessAsync([]string{id})
	return point, nil
}

// Delete removes one point by id.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.store.DeletePoint(ctx, c.collectionName, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// BatchDelete removes a set of points by id, with no existence pre-check.
func (c *Controller) BatchDelete(ctx context.Context, ids []string) error {
	if err := c.store.DeletePoints(ctx, c.collectionName, ids); err != nil {
		return fmt.Errorf("batch delete: %w", err)
	}
	return nil
}

// Count returns the approximate count of points matching filters.
func (c *Controller) Count(ctx context.Context, filters SearchFilters) (uint64, error) {
	count, err := c.store.CountPoints(ctx, c.collectionName, filters)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

// List scrolls points matching filters with no vectors attached.
func (c *Controller) List(ctx context.Context, filters SearchFilters, limit, offset int) ([]Point, error) {
	points, err := c.store.ScrollList(ctx, c.collectionName, filters, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return points, nil
}

// UpdatePayload merges fields into a point's payload, always overwriting
// updated_at with now.
func (c *Controller) UpdatePayload(ctx context.Context, id string, fields map[string]any) error {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["updated_at"] = time.Now().UTC()

	if err := c.store.UpdatePayload(ctx, c.collectionName, id, merged, true); err != nil {
		return fmt.Errorf("update payload: %w", err)
	}
	return nil
}

// Stats returns collection statistics plus the access-tracking failure
// counter.
func (c *Controller) Stats(ctx context.Context) (CollectionStats, error) {
	stats, err := c.store.Stats(ctx, c.collectionName)
	if err != nil {
		return CollectionStats{}, fmt.Errorf("stats: %w", err)
	}
	stats.AccessTrackingFailures = atomic.LoadInt64(&c.accessFailures)
	return stats, nil
}

// trackAccessAsync fires off a best-effort, asynchronous read-modify-write
// of access_count/last_accessed_at for the given ids. Failures increment
// an internal counter and log at most once per accessWarnWindow; this is
// documented as undercounting-under-concurrency, not a correctness bug.
func (c *Controller) trackAccessAsync(resultIDs []string) {
	if len(resultIDs) == 0 {
		return
	}
	go func() {
		ctx := context.Background()
		for _, id := range resultIDs {
			point, ok, err := c.store.GetPoint(ctx, c.collectionName, id)
			if err != nil || !ok {
				c.recordAccessFailure(err)
				continue
			}
			fields := map[string]any{
				"access_count":     point.AccessCount + 1,
				"last_accessed_at": time.Now().UTC(),
			}
			if err := c.store.UpdatePayload(ctx, c.collectionName, id, fields, false); err != nil {
				c.recordAccessFailure(err)
			}
		}
	}()
}

func (c *Controller) recordAccessFailure(err error) {
	atomic.AddInt64(&c.accessFailures, 1)

	c.accessWarnMu.Lock()
	defer c.accessWarnMu.Unlock()
	now := time.Now().UnixNano()
	last := c.lastAccessWarn.Load()
	if time.Duration(now-last) < accessWarnWindow {
		return
	}
	c.lastAccessWarn.Store(now)
	slog.Warn("access tracking failed", "collection", c.collectionName, "error", err)
}

func ids(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Point.ID
	}
	return out
}

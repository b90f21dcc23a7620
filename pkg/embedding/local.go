package embedding

import (
	"context"
	"crypto/sha256"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// LocalBackend is the pluggable CPU feature-extraction pipeline behind the
// local provider. A real binding (ONNX Runtime, llama.cpp, ggml) would
// satisfy this interface; hashBackend below is a deterministic stand-in
// used until such a dependency is wired (see DESIGN.md).
type LocalBackend interface {
	ModelID() string
	Dims() int
	Embed(ctx context.Context, text string) (Vector, error)
}

// LocalProvider runs a mean-pooled, L2-normalized feature extraction
// pipeline over CPU, loading the backing model lazily on first use and
// reusing the single output vector for both the small and large slots.
type LocalProvider struct {
	modelID  string
	dims     int
	cacheDir string

	once    sync.Once
	loadErr error
	backend LocalBackend
}

// NewLocalProvider builds a LocalProvider. The backend is loaded lazily on
// first Generate call and shared read-only thereafter; Reset invalidates
// the loaded slot.
func NewLocalProvider(modelID string, dims int, cacheDir string) *LocalProvider {
	return &LocalProvider{modelID: modelID, dims: dims, cacheDir: cacheDirFor(cacheDir, modelID)}
}

func (p *LocalProvider) ModelID() string { return p.modelID }

func (p *LocalProvider) Dims() (small, large int) { return p.dims, p.dims }

// Reset invalidates the lazily-loaded backend slot, forcing the next
// Generate call to reload it.
func (p *LocalProvider) Reset() {
	p.once = sync.Once{}
	p.backend = nil
	p.loadErr = nil
}

func (p *LocalProvider) load() {
	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		p.loadErr = err
		return
	}
	p.backend = newHashBackend(p.modelID, p.dims)
}

// Generate computes one vector and returns it as both Small and Large,
// matching the spec's "local provider reuses one vector for both slots"
// dual-generation semantics. Cost is always zero for the local provider.
func (p *LocalProvider) Generate(ctx context.Context, text string) (Pair, int64, error) {
	p.once.Do(p.load)
	if p.loadErr != nil {
		return Pair{}, 0, p.loadErr
	}

	vec, err := p.backend.Embed(ctx, text)
	if err != nil {
		return Pair{}, 0, err
	}
	return Pair{Small: vec, Large: vec}, 0, nil
}

// hashBackend is a deterministic, dependency-free stand-in for a real CPU
// inference backend: it hashes the input text into a fixed-width vector
// and L2-normalizes it, mimicking the shape (not the semantics) of a
// mean-pooled sentence embedding.
type hashBackend struct {
	modelID string
	dims    int
}

func newHashBackend(modelID string, dims int) *hashBackend {
	return &hashBackend{modelID: modelID, dims: dims}
}

func (b *hashBackend) ModelID() string { return b.modelID }
func (b *hashBackend) Dims() int       { return b.dims }

func (b *hashBackend) Embed(_ context.Context, text string) (Vector, error) {
	vec := make(Vector, b.dims)
	seed := []byte(text)

	block := sha256.Sum256(seed)
	blockIdx := 0
	byteIdx := 0
	for i := 0; i < b.dims; i++ {
		if byteIdx >= len(block) {
			blockIdx++
			next := sha256.Sum256(append(block[:], byte(blockIdx)))
			block = next
			byteIdx = 0
		}
		// Map a byte to a signed, roughly unit-scale component.
		vec[i] = float32(int(block[byteIdx])-128) / 128
		byteIdx++
	}

	var sumSquares float64
	for _, c := range vec {
		sumSquares += float64(c) * float64(c)
	}
	norm := math.Sqrt(sumSquares)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

var _ LocalBackend = (*hashBackend)(nil)

// cacheDirFor returns a model-scoped subdirectory under baseDir, matching
// the "local model cache dir" layout callers expect.
func cacheDirFor(baseDir, modelID string) string {
	safe := make([]byte, 0, len(modelID))
	for _, r := range modelID {
		if r == '/' || r == ' ' {
			safe = append(safe, '_')
			continue
		}
		safe = append(safe, byte(r))
	}
	return filepath.Join(baseDir, string(safe))
}

package embedding

import "context"

// Provider produces a dual (small, large) vector pair for a text, plus the
// token count consumed (0 for providers with no usage-based billing).
type Provider interface {
	Generate(ctx context.Context, text string) (Pair, int64, error)
	ModelID() string
	Dims() (small, large int)
	IsRemote() bool
}

// remoteAdapter and localAdapter tag each concrete provider's IsRemote,
// since RemoteProvider/LocalProvider are also reused directly by callers
// that need their provider-specific fields (e.g. EstimateCostUSD).
type remoteAdapter struct{ *RemoteProvider }

func (remoteAdapter) IsRemote() bool { return true }

type localAdapter struct{ *LocalProvider }

func (localAdapter) IsRemote() bool { return false }

// AsProvider wraps a RemoteProvider or LocalProvider as a Provider.
func AsRemoteProvider(p *RemoteProvider) Provider { return remoteAdapter{p} }
func AsLocalProvider(p *LocalProvider) Provider   { return localAdapter{p} }

// Engine composes a Provider with the bounded LRU cache and exposes the
// dual-generation entry point used by the tool orchestrator and the
// chunked-document path.
type Engine struct {
	provider Provider
	cache    *Cache
}

// NewEngine builds an Engine.
func NewEngine(provider Provider, cache *Cache) *Engine {
	return &Engine{provider: provider, cache: cache}
}

func (e *Engine) ModelID() string            { return e.provider.ModelID() }
func (e *Engine) Dims() (small, large int)   { return e.provider.Dims() }
func (e *Engine) IsRemote() bool             { return e.provider.IsRemote() }
func (e *Engine) Stats() Stats               { return e.cache.Stats() }

// Generate returns the dual embedding for text, consulting the cache for
// each slot independently before falling back to the provider. Cache keys
// incorporate (model, dims) so small and large never collide, and so
// different providers' vectors for the same text never collide either.
func (e *Engine) Generate(ctx context.Context, text string) (Pair, error) {
	smallDims, largeDims := e.provider.Dims()
	smallKey := Key(e.provider.ModelID(), smallDims, text)
	largeKey := Key(e.provider.ModelID(), largeDims, text)

	small, smallHit := e.cache.Get(smallKey)
	large, largeHit := e.cache.Get(largeKey)
	if smallHit && largeHit {
		return Pair{Small: small, Large: large}, nil
	}

	pair, tokens, err := e.provider.Generate(ctx, text)
	if err != nil {
		return Pair{}, err
	}

	e.cache.Put(smallKey, pair.Small)
	e.cache.Put(largeKey, pair.Large)
	if tokens > 0 {
		e.cache.AddUsage(tokens, EstimateCostUSD(tokens, false))
	}
	return pair, nil
}

// GenerateSmall returns only the small vector for text, used by the
// chunked-document path which defers large-vector generation per chunk.
func (e *Engine) GenerateSmall(ctx context.Context, text string) (Vector, error) {
	pair, err := e.Generate(ctx, text)
	if err != nil {
		return nil, err
	}
	return pair.Small, nil
}

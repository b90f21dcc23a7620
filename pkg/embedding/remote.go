package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PhillipAWells/mcp-memory/pkg/retry"
)

// Per-million-token prices, provider-specific constants.
const (
	smallPricePerMillionTokens = 0.02
	largePricePerMillionTokens = 0.13
)

// RemoteProvider calls an external embedding API for both the small and
// large vector spaces, tracking cumulative tokens and estimated cost.
type RemoteProvider struct {
	apiKey     string
	baseURL    string
	smallModel string
	largeModel string
	smallDims  int
	largeDims  int
	httpClient *http.Client
	retryCfg   retry.Config
}

// RemoteConfig configures a RemoteProvider.
type RemoteConfig struct {
	APIKey     string
	BaseURL    string
	SmallModel string
	LargeModel string
	SmallDims  int
	LargeDims  int
	Timeout    time.Duration
}

// NewRemoteProvider builds a RemoteProvider with a bearer-authenticated
// HTTP client, grounded on the same cloned-transport-plus-round-tripper
// construction the teacher uses for its MCP HTTP transports.
func NewRemoteProvider(cfg RemoteConfig) *RemoteProvider {
	base := http.DefaultTransport.(*http.Transport).Clone()
	client := &http.Client{
		Transport: &bearerTransport{base: base, token: cfg.APIKey},
		Timeout:   cfg.Timeout,
	}
	return &RemoteProvider{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		smallModel: cfg.SmallModel,
		largeModel: cfg.LargeModel,
		smallDims:  cfg.SmallDims,
		largeDims:  cfg.LargeDims,
		httpClient: client,
		retryCfg:   retry.DefaultConfig(),
	}
}

type bearerTransport struct {
	base  http.RoundTripper
	token string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Content-Type", "application/json")
	return t.base.RoundTrip(req)
}

func (p *RemoteProvider) ModelID() string { return p.smallModel + "+" + p.largeModel }

func (p *RemoteProvider) Dims() (small, large int) { return p.smallDims, p.largeDims }

// httpStatusError adapts a response status code to the retry package's
// Classifiable interface.
type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("embedding API returned status %d: %s", e.status, e.body)
}
func (e *httpStatusError) StatusCode() int { return e.status }

// Generate issues the small and large embedding calls concurrently,
// returning when both succeed; either failure fails the whole operation.
func (p *RemoteProvider) Generate(ctx context.Context, text string) (Pair, int64, error) {
	var wg sync.WaitGroup
	var small, large Vector
	var smallErr, largeErr error
	var smallTokens, largeTokens int64

	wg.Add(2)
	go func() {
		defer wg.Done()
		small, smallTokens, smallErr = p.call(ctx, p.smallModel, text, p.smallDims)
	}()
	go func() {
		defer wg.Done()
		large, largeTokens, largeErr = p.call(ctx, p.largeModel, text, p.largeDims)
	}()
	wg.Wait()

	if smallErr != nil {
		return Pair{}, 0, fmt.Errorf("small embedding: %w", smallErr)
	}
	if largeErr != nil {
		return Pair{}, 0, fmt.Errorf("large embedding: %w", largeErr)
	}

	return Pair{Small: small, Large: large}, smallTokens + largeTokens, nil
}

type embeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		TotalTokens int64 `json:"total_tokens"`
	} `json:"usage"`
}

func (p *RemoteProvider) call(ctx context.Context, model, text string, dims int) (Vector, int64, error) {
	var vector Vector
	var tokens int64

	err := retry.Do(ctx, p.retryCfg, func(ctx context.Context) error {
		payload, err := json.Marshal(embeddingRequest{Model: model, Input: text, Dimensions: dims})
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(payload))
		if err != nil {
			return err
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 300 {
			return &httpStatusError{status: resp.StatusCode, body: string(body)}
		}

		var parsed embeddingResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return err
		}
		if len(parsed.Data) == 0 {
			return fmt.Errorf("embedding API returned no data")
		}
		vector = parsed.Data[0].Embedding
		tokens = parsed.Usage.TotalTokens
		return nil
	})
	return vector, tokens, err
}

// EstimateCostUSD returns the estimated cost for tokens processed by model,
// using the small or large per-million-token price.
func EstimateCostUSD(tokens int64, large bool) float64 {
	price := smallPricePerMillionTokens
	if large {
		price = largePricePerMillionTokens
	}
	return float64(tokens) / 1_000_000 * price
}

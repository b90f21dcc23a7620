// Package config loads the service's environment-driven configuration, per
// spec.md §6's "configuration (environment, all optional except the index
// URL)" table. There is no YAML layer here: every setting is read directly
// from the process environment (optionally via a local .env file loaded by
// the caller through godotenv before Load runs).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EmbeddingProvider selects which embedding backend the engine uses.
type EmbeddingProvider string

const (
	ProviderAuto   EmbeddingProvider = "auto"
	ProviderRemote EmbeddingProvider = "remote"
	ProviderLocal  EmbeddingProvider = "local"
)

// Config is the fully resolved, validated configuration for one process.
type Config struct {
	IndexURL        string
	IndexToken      string
	Collection      string
	IndexTimeout    time.Duration
	EmbeddingAPIKey string
	EmbeddingProvider EmbeddingProvider

	EmbeddingBaseURL  string
	EmbeddingSmallModel string
	EmbeddingLargeModel string

	LocalModelID   string
	LocalDims      int
	LargeDims      int
	ModelCacheDir  string

	ChunkSize    int
	ChunkOverlap int

	WorkspaceAutoDetect bool
	WorkspaceDefault    string
	WorkspaceCacheTTL   time.Duration

	SecretsMediumBlockThreshold int

	LogLevel string
}

// Load reads and validates configuration from the process environment.
func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	defaultCacheDir := filepath.Join(home, ".cache", "mcp-memory", "models")

	cfg := &Config{
		IndexURL:        getEnv("MEMORY_INDEX_URL", "http://localhost:6333"),
		IndexToken:      getEnv("MEMORY_INDEX_TOKEN", ""),
		Collection:      getEnv("MEMORY_COLLECTION", "mcp-memory"),
		IndexTimeout:    getEnvDuration("MEMORY_INDEX_TIMEOUT_MS", 30000),
		EmbeddingAPIKey: getEnv("MEMORY_EMBEDDING_API_KEY", ""),
		EmbeddingProvider: EmbeddingProvider(getEnv("MEMORY_EMBEDDING_PROVIDER", string(ProviderAuto))),

		EmbeddingBaseURL:    getEnv("MEMORY_EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingSmallModel: getEnv("MEMORY_EMBEDDING_SMALL_MODEL", "text-embedding-3-small"),
		EmbeddingLargeModel: getEnv("MEMORY_EMBEDDING_LARGE_MODEL", "text-embedding-3-large"),

		LocalModelID:  getEnv("MEMORY_LOCAL_MODEL_ID", "Xenova/all-MiniLM-L6-v2"),
		LocalDims:     getEnvInt("MEMORY_LOCAL_DIMS", 384),
		LargeDims:     getEnvInt("MEMORY_LARGE_DIMS", 3072),
		ModelCacheDir: getEnv("MEMORY_MODEL_CACHE_DIR", defaultCacheDir),

		ChunkSize:    getEnvInt("MEMORY_CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("MEMORY_CHUNK_OVERLAP", 200),

		WorkspaceAutoDetect: getEnvBool("MEMORY_WORKSPACE_AUTO_DETECT", true),
		WorkspaceDefault:    getEnv("MEMORY_WORKSPACE_DEFAULT", ""),
		WorkspaceCacheTTL:   getEnvDuration("MEMORY_WORKSPACE_CACHE_TTL_MS", 60000),

		SecretsMediumBlockThreshold: getEnvInt("MEMORY_SECRETS_MEDIUM_BLOCK_THRESHOLD", 3),

		LogLevel: getEnvLogLevel("MEMORY_LOG_LEVEL", "info"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.IndexURL == "" {
		return newFieldError("MEMORY_INDEX_URL", ErrMissingRequiredField)
	}
	if cfg.IndexToken != "" && len(cfg.IndexToken) < 8 {
		return newFieldError("MEMORY_INDEX_TOKEN", fmt.Errorf("%w: must be at least 8 characters", ErrInvalidValue))
	}

	switch cfg.EmbeddingProvider {
	case ProviderAuto, ProviderRemote, ProviderLocal:
	default:
		return newFieldError("MEMORY_EMBEDDING_PROVIDER", fmt.Errorf("%w: must be one of auto, remote, local", ErrInvalidValue))
	}
	if cfg.EmbeddingProvider == ProviderRemote && cfg.EmbeddingAPIKey == "" {
		return newFieldError("MEMORY_EMBEDDING_API_KEY", fmt.Errorf("%w: required when provider is remote", ErrMissingRequiredField))
	}

	if cfg.LocalDims <= 0 {
		return newFieldError("MEMORY_LOCAL_DIMS", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	if cfg.LargeDims <= 0 {
		return newFieldError("MEMORY_LARGE_DIMS", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	if cfg.ChunkSize <= 0 {
		return newFieldError("MEMORY_CHUNK_SIZE", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return newFieldError("MEMORY_CHUNK_OVERLAP", fmt.Errorf("%w: must be non-negative and smaller than chunk size", ErrInvalidValue))
	}

	return nil
}

// ResolvesRemote reports whether the effective provider (after "auto"
// resolution) is remote: explicit "remote", or "auto" with an API key
// present.
func (c *Config) ResolvesRemote() bool {
	switch c.EmbeddingProvider {
	case ProviderRemote:
		return true
	case ProviderLocal:
		return false
	default:
		return c.EmbeddingAPIKey != ""
	}
}

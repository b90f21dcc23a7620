// Command mcp-memory runs the persistent semantic memory server as an MCP
// stdio process: it reads the process environment, connects to the vector
// index, selects an embedding provider, and serves the nine memory tools
// until stdin closes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PhillipAWells/mcp-memory/pkg/config"
	"github.com/PhillipAWells/mcp-memory/pkg/embedding"
	"github.com/PhillipAWells/mcp-memory/pkg/guidance"
	"github.com/PhillipAWells/mcp-memory/pkg/mcpserver"
	"github.com/PhillipAWells/mcp-memory/pkg/memory"
	"github.com/PhillipAWells/mcp-memory/pkg/secrets"
	"github.com/PhillipAWells/mcp-memory/pkg/vectorindex"
	"github.com/PhillipAWells/mcp-memory/pkg/workspace"
)

// version is stamped into the MCP server's initialize response.
const version = "0.1.0"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, continuing with process environment", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcp-memory: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	slog.SetLogLoggerLevel(parseLevel(cfg.LogLevel))

	ctx := context.Background()

	qdrantCfg, err := parseIndexURL(cfg.IndexURL, cfg.IndexToken, cfg.IndexTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcp-memory: invalid index url: %v\n", err)
		os.Exit(1)
	}
	store, err := vectorindex.NewQdrantStore(qdrantCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcp-memory: failed to connect to index: %v\n", err)
		os.Exit(1)
	}

	// The provider is selected first so the collection's dense_large space
	// is sized to match what it actually emits: the Local provider (the
	// zero-config default whenever no remote API key is set) produces both
	// vectors at cfg.LocalDims, not cfg.LargeDims.
	var provider embedding.Provider
	if cfg.ResolvesRemote() {
		provider = embedding.NewRemoteProvider(embedding.RemoteConfig{
			APIKey:     cfg.EmbeddingAPIKey,
			BaseURL:    cfg.EmbeddingBaseURL,
			SmallModel: cfg.EmbeddingSmallModel,
			LargeModel: cfg.EmbeddingLargeModel,
			SmallDims:  cfg.LocalDims,
			LargeDims:  cfg.LargeDims,
			Timeout:    cfg.IndexTimeout,
		})
	} else {
		provider = embedding.AsLocalProvider(embedding.NewLocalProvider(cfg.LocalModelID, cfg.LocalDims, cfg.ModelCacheDir))
	}
	engine := embedding.NewEngine(provider, embedding.NewCache(10000))

	smallDims, largeDims := provider.Dims()
	dims := vectorindex.Dims{Small: smallDims, Large: largeDims}
	index := vectorindex.NewController(store, cfg.Collection, dims)
	if err := index.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mcp-memory: failed to initialize collection: %v\n", err)
		os.Exit(1)
	}

	var defaultWorkspace *string
	if cfg.WorkspaceDefault != "" {
		defaultWorkspace = &cfg.WorkspaceDefault
	}

	orc := memory.New(memory.Config{
		Scanner:      secrets.New(cfg.SecretsMediumBlockThreshold),
		Resolver:     workspace.New(cfg.WorkspaceCacheTTL, defaultWorkspace, cfg.WorkspaceAutoDetect),
		Engine:       engine,
		Index:        index,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	})

	home, _ := os.UserHomeDir()
	guidanceDir := filepath.Join(home, ".cache", "mcp-memory", "guidance")
	if err := guidance.Copy(guidanceDir); err != nil {
		slog.Warn("failed to copy guidance documents, continuing", "error", err)
	}

	srv := mcpserver.Build(orc, version)

	slog.Info("mcp-memory starting", "collection", cfg.Collection, "embedding_remote", cfg.ResolvesRemote())
	if err := server.ServeStdio(srv); err != nil {
		fmt.Fprintf(os.Stderr, "mcp-memory: server error: %v\n", err)
		os.Exit(1)
	}
}

func parseIndexURL(raw, token string, timeout time.Duration) (vectorindex.QdrantConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return vectorindex.QdrantConfig{}, err
	}
	host := u.Hostname()
	port := 6333
	if p := u.Port(); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}
	return vectorindex.QdrantConfig{
		Host:    host,
		Port:    port,
		APIKey:  token,
		UseTLS:  u.Scheme == "https",
		Timeout: timeout,
	}, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

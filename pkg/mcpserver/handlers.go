package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PhillipAWells/mcp-memory/pkg/memory"
	"github.com/PhillipAWells/mcp-memory/pkg/memoryerr"
)

// handlers closes over the orchestrator shared by every tool call.
type handlers struct {
	orc *memory.Orchestrator
}

func respond(envelope *memoryerr.Envelope) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(envelope)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) store(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	content, err := request.RequireString("content")
	if err != nil {
		return respond(memoryerr.Failure(memoryerr.Validation("content is required", nil), start))
	}

	out, err := h.orc.Store(ctx, memory.StoreInput{
		Content:   content,
		Metadata:  argMap(args, "metadata"),
		AutoChunk: argBool(args, "auto_chunk", true),
	})
	if err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("memory stored", out, nil, start))
}

func (h *handlers) query(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	query, err := request.RequireString("query")
	if err != nil {
		return respond(memoryerr.Failure(memoryerr.Validation("query is required", nil), start))
	}

	out, err := h.orc.Query(ctx, memory.QueryInput{
		Query:           query,
		Filter:          argFilter(args),
		Limit:           argInt(args, "limit", 10),
		Offset:          argInt(args, "offset", 0),
		ScoreThreshold:  argFloatPtr(args, "score_threshold"),
		HNSWEf:          argInt(args, "hnsw_ef", 0),
		UseHybridSearch: argBool(args, "use_hybrid_search", false),
		HybridAlpha:     argFloatPtr(args, "hybrid_alpha"),
	})
	if err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("query complete", out, nil, start))
}

func (h *handlers) list(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	sortBy, _ := argString(args, "sort_by")
	sortOrder, _ := argString(args, "sort_order")

	items, err := h.orc.List(ctx, memory.ListInput{
		Filter:    argFilter(args),
		Limit:     argInt(args, "limit", 100),
		Offset:    argInt(args, "offset", 0),
		SortBy:    sortBy,
		SortOrder: sortOrder,
	})
	if err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("list complete", items, nil, start))
}

func (h *handlers) get(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	id, err := request.RequireString("id")
	if err != nil {
		return respond(memoryerr.Failure(memoryerr.Validation("id is required", nil), start))
	}

	out, err := h.orc.Get(ctx, id)
	if err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("memory retrieved", out, nil, start))
}

func (h *handlers) update(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	id, err := request.RequireString("id")
	if err != nil {
		return respond(memoryerr.Failure(memoryerr.Validation("id is required", nil), start))
	}

	var content *string
	if s, ok := argString(args, "content"); ok {
		content = &s
	}

	if err := h.orc.Update(ctx, memory.UpdateInput{
		ID:       id,
		Content:  content,
		Metadata: argMap(args, "metadata"),
		Reindex:  argBool(args, "reindex", false),
	}); err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("memory updated", map[string]any{"id": id}, nil, start))
}

func (h *handlers) delete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	id, err := request.RequireString("id")
	if err != nil {
		return respond(memoryerr.Failure(memoryerr.Validation("id is required", nil), start))
	}

	if err := h.orc.Delete(ctx, id); err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("memory deleted", map[string]any{"id": id}, nil, start))
}

func (h *handlers) batchDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	ids := argStringSlice(args, "ids")
	if err := h.orc.BatchDelete(ctx, ids); err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("memories deleted", map[string]any{"ids": ids, "count": len(ids)}, nil, start))
}

func (h *handlers) status(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	var workspace *string
	if s, ok := argString(args, "workspace"); ok {
		workspace = &s
	}

	out, err := h.orc.Status(ctx, memory.StatusInput{
		Workspace:             workspace,
		IncludeEmbeddingStats: argBool(args, "include_embedding_stats", true),
	})
	if err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("status complete", out, nil, start))
}

func (h *handlers) count(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	count, err := h.orc.Count(ctx, argFilter(args))
	if err != nil {
		return respond(memoryerr.Failure(err, start))
	}
	return respond(memoryerr.Success("count complete", map[string]any{"count": count}, nil, start))
}

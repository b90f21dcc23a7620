// Package mcpserver wires the nine memory tool operations onto an
// MCP stdio server, translating between the wire's JSON arguments and the
// orchestrator's typed inputs, and wrapping every result in the response
// envelope.
//
// This file is the sole place in the repository that calls into
// github.com/mark3labs/mcp-go's tool-registration API; no cached copy of
// that module's source was available to verify exact option names
// against, so its usage here is written from general knowledge of the
// library's documented shape (see DESIGN.md).
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PhillipAWells/mcp-memory/pkg/memory"
)

// Build constructs the MCP server and registers all nine tool operations
// against orc.
func Build(orc *memory.Orchestrator, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"mcp-memory",
		version,
		server.WithToolCapabilities(false),
	)

	h := &handlers{orc: orc}

	s.AddTool(mcp.NewTool("memory-store",
		mcp.WithDescription("Store free-text content as a persistent memory, embedding it for later semantic retrieval."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The text to remember (1..100000 characters).")),
		mcp.WithObject("metadata", mcp.Description("Optional payload: workspace, memory_type, confidence, tags, expires_at, and any caller-defined fields.")),
		mcp.WithBoolean("auto_chunk", mcp.Description("Split content into overlapping windows when it exceeds the chunk threshold. Defaults to true.")),
	), h.store)

	s.AddTool(mcp.NewTool("memory-query",
		mcp.WithDescription("Retrieve memories most relevant to a natural-language query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The natural-language query (1..10000 characters).")),
		mcp.WithObject("filter", mcp.Description("Optional filter: workspace, memory_type, min_confidence, tags.")),
		mcp.WithNumber("limit", mcp.Description("Max results, 1..100. Defaults to 10.")),
		mcp.WithNumber("offset", mcp.Description("Pagination offset. Defaults to 0.")),
		mcp.WithNumber("score_threshold", mcp.Description("Minimum similarity score, 0..1.")),
		mcp.WithNumber("hnsw_ef", mcp.Description("HNSW search-time ef parameter, 64..512.")),
		mcp.WithBoolean("use_hybrid_search", mcp.Description("Fuse dense and full-text search by Reciprocal Rank Fusion. Defaults to false.")),
		mcp.WithNumber("hybrid_alpha", mcp.Description("Accepted for compatibility; currently unused.")),
	), h.query)

	s.AddTool(mcp.NewTool("memory-list",
		mcp.WithDescription("List memories matching a filter, newest first by default."),
		mcp.WithObject("filter", mcp.Description("Optional filter: workspace, memory_type, min_confidence, tags.")),
		mcp.WithNumber("limit", mcp.Description("Max rows, 1..1000. Defaults to 100.")),
		mcp.WithNumber("offset", mcp.Description("Pagination offset. Defaults to 0.")),
		mcp.WithString("sort_by", mcp.Description("One of created_at, updated_at, access_count, confidence. Defaults to created_at.")),
		mcp.WithString("sort_order", mcp.Description("One of asc, desc. Defaults to desc.")),
	), h.list)

	s.AddTool(mcp.NewTool("memory-get",
		mcp.WithDescription("Fetch one memory by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The memory's UUID.")),
	), h.get)

	s.AddTool(mcp.NewTool("memory-update",
		mcp.WithDescription("Update a memory's content and/or metadata."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The memory's UUID.")),
		mcp.WithString("content", mcp.Description("Replacement content.")),
		mcp.WithObject("metadata", mcp.Description("Metadata fields to merge.")),
		mcp.WithBoolean("reindex", mcp.Description("Regenerate embeddings for the new content. Defaults to false.")),
	), h.update)

	s.AddTool(mcp.NewTool("memory-delete",
		mcp.WithDescription("Delete one memory by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The memory's UUID.")),
	), h.delete)

	s.AddTool(mcp.NewTool("memory-batch-delete",
		mcp.WithDescription("Delete up to 100 memories by id in one call."),
		mcp.WithArray("ids", mcp.Required(), mcp.Description("1..100 UUIDs.")),
	), h.batchDelete)

	s.AddTool(mcp.NewTool("memory-status",
		mcp.WithDescription("Report collection statistics, counts by memory type, and optional embedding cache stats."),
		mcp.WithString("workspace", mcp.Description("When set, also report the count for this workspace.")),
		mcp.WithBoolean("include_embedding_stats", mcp.Description("Include embedding cache hit-rate and cost stats. Defaults to true.")),
	), h.status)

	s.AddTool(mcp.NewTool("memory-count",
		mcp.WithDescription("Count memories matching a filter."),
		mcp.WithObject("filter", mcp.Description("Optional filter: workspace, memory_type, min_confidence, tags.")),
	), h.count)

	return s
}

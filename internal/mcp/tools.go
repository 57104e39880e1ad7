// ABOUTME: MCP tool definitions and registration for the recall server
// ABOUTME: Defines JSON schemas for the persist/retrieve/forget/stats tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/recall/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, engine *core.Engine) *Handlers {
	handlers := &Handlers{engine: engine}

	// 1. persist_memory - chunk, embed, and store one message
	server.AddTool(mcp.Tool{
		Name:        "persist_memory",
		Description: "Store a chat message in long-term semantic memory. The message is chunked, embedded, and persisted for later retrieval.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Owning user identity; retrieval is scoped to this user",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation the message belongs to",
				},
				"message_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the source message",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Message text to remember",
				},
			},
			Required: []string{"user_id", "session_id", "message_id", "content"},
		},
	}, handlers.PersistMemory)

	// 2. retrieve_context - rank stored chunks against a query
	server.AddTool(mcp.Tool{
		Name:        "retrieve_context",
		Description: "Retrieve the most relevant memory chunks for a query, ranked by blended semantic similarity and recency.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose memories to search",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 6)",
					"default":     6,
				},
			},
			Required: []string{"user_id", "query"},
		},
	}, handlers.RetrieveContext)

	// 3. forget_session - cascading session delete
	server.AddTool(mcp.Tool{
		Name:        "forget_session",
		Description: "Delete all memory chunks that originated from a session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session whose chunks should be removed",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.ForgetSession)

	// 4. memory_stats - store totals
	server.AddTool(mcp.Tool{
		Name:        "memory_stats",
		Description: "Report totals for the memory store: chunks, users, and sessions.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.MemoryStats)

	return handlers
}

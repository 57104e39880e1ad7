// ABOUTME: MCP tool handler implementations for the recall server
// ABOUTME: Validation problems become tool-result errors, failures propagate
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/recall/internal/core"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine *core.Engine
}

// PersistMemory handles the persist_memory tool
func (h *Handlers) PersistMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	messageID, err := request.RequireString("message_id")
	if err != nil {
		return mcp.NewToolResultError("message_id argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	chunks, err := h.engine.PersistMemory(ctx, userID, sessionID, messageID, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("persist failed: %v", err)), nil
	}

	chunkIDs := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		chunkIDs = append(chunkIDs, chunk.ID)
	}

	response := map[string]interface{}{
		"chunks_stored": len(chunks),
		"chunk_ids":     chunkIDs,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// RetrieveContext handles the retrieve_context tool
func (h *Handlers) RetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 0)

	results, err := h.engine.RetrieveContext(ctx, userID, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieve failed: %v", err)), nil
	}

	memories := make([]map[string]interface{}, 0, len(results))
	for _, result := range results {
		memories = append(memories, map[string]interface{}{
			"chunk_id":         result.Chunk.ID,
			"session_id":       result.Chunk.SessionID,
			"text":             result.Chunk.TextChunk,
			"similarity_score": result.SimilarityScore,
			"recency_score":    result.RecencyScore,
			"final_score":      result.FinalScore,
			"created_at":       result.Chunk.CreatedAt.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"memories": memories,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ForgetSession handles the forget_session tool
func (h *Handlers) ForgetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	removed, err := h.engine.ForgetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forget failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"session_id":     sessionID,
		"chunks_removed": removed,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// MemoryStats handles the memory_stats tool
func (h *Handlers) MemoryStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.engine.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(stats)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

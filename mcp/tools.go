package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all syntaxy MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(mcp.NewTool("analyze_code",
		mcp.WithDescription("Detect duplicated code in one submission and report clones, complexity, maintainability and refactoring suggestions"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source text of the submission")),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Language code: python, java, javascript, go, or generic")),
		mcp.WithString("mode",
			mcp.Enum("exact", "near_miss"),
			mcp.Description("Normalization mode (default: near_miss)")),
		mcp.WithNumber("similarity_threshold",
			mcp.Description("Similarity threshold 0.0-1.0 (default: 0.85 for exact, 0.70 for near_miss)")),
		mcp.WithNumber("max_duration_ms",
			mcp.Description("Time budget in milliseconds (default: 5000)")),
	), h.HandleAnalyzeCode)

	s.AddTool(mcp.NewTool("list_languages",
		mcp.WithDescription("List supported languages with their confidence and file extensions"),
	), h.HandleListLanguages)
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

// HandleAnalyzeCode handles the analyze_code tool
func (h *HandlerSet) HandleAnalyzeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	code, ok := args["code"].(string)
	if !ok {
		return mcp.NewToolResultError("code parameter is required and must be a string"), nil
	}
	language, ok := args["language"].(string)
	if !ok {
		return mcp.NewToolResultError("language parameter is required and must be a string"), nil
	}

	var options domain.AnalysisOptions
	if raw, present := args["mode"]; present {
		s, ok := raw.(string)
		if !ok {
			return mcp.NewToolResultError("mode must be a string"), nil
		}
		options.Mode = domain.Mode(s)
	}
	if raw, present := args["similarity_threshold"]; present {
		v, ok := raw.(float64)
		if !ok {
			return mcp.NewToolResultError("similarity_threshold must be a number"), nil
		}
		options.SimilarityThreshold = v
	}
	if raw, present := args["max_duration_ms"]; present {
		v, ok := raw.(float64)
		if !ok {
			return mcp.NewToolResultError("max_duration_ms must be a number"), nil
		}
		options.MaxDurationMs = int64(v)
	}

	report, err := h.deps.Service().Analyze(ctx, domain.AnalysisRequest{
		Source:   code,
		Language: domain.NormalizeLanguage(language),
		Options:  options,
	})
	if err != nil {
		h.deps.logger.WithError(err).Debug("analyze_code rejected")
		return toolError(err), nil
	}
	return jsonResult(report)
}

// HandleListLanguages handles the list_languages tool
func (h *HandlerSet) HandleListLanguages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.deps.Service().SupportedLanguages())
}

// toolError reports err to the client with its code and class
func toolError(err error) *mcp.CallToolResult {
	payload := map[string]string{
		"error_code": domain.ErrorCode(err),
		"class":      string(domain.Classify(err)),
		"message":    err.Error(),
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/config"
	"github.com/Gabzxcv/Syntaxy-FL/mcp"
)

const duplicatedPython = `def compute_total(items):
    total = 0
    for item in items:
        if item > 0:
            total += item
    return total


def compute_total_copy(items):
    total = 0
    for item in items:
        if item > 0:
            total += item
    return total
`

func newHandlers(t *testing.T) *mcp.HandlerSet {
	t.Helper()
	deps, err := mcp.NewDependencies(config.DefaultConfig(), nil)
	require.NoError(t, err)
	return mcp.NewHandlerSet(deps)
}

func callTool(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), arguments interface{}) *mcplib.CallToolResult {
	t.Helper()
	res, err := handler(context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Arguments: arguments},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestHandleAnalyzeCode(t *testing.T) {
	h := newHandlers(t)

	res := callTool(t, h.HandleAnalyzeCode, map[string]interface{}{
		"code":     duplicatedPython,
		"language": "python",
		"mode":     "exact",
	})
	require.False(t, res.IsError, resultText(t, res))

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, domain.ModeExact, report.Mode)
	assert.NotEmpty(t, report.Clones)
	assert.NotEmpty(t, report.AnalysisID)
}

func TestHandleAnalyzeCode_Options(t *testing.T) {
	h := newHandlers(t)

	res := callTool(t, h.HandleAnalyzeCode, map[string]interface{}{
		"code":                 duplicatedPython,
		"language":             " Python ",
		"similarity_threshold": 0.95,
		"max_duration_ms":      float64(10000),
	})
	require.False(t, res.IsError, resultText(t, res))

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, domain.LanguagePython, report.Language)
	for _, c := range report.Clones {
		assert.GreaterOrEqual(t, c.Similarity, 0.95)
	}
}

func TestHandleAnalyzeCode_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		arguments interface{}
		contains  string
	}{
		{name: "not an object", arguments: "oops", contains: "invalid arguments"},
		{name: "missing code", arguments: map[string]interface{}{"language": "python"}, contains: "code parameter"},
		{name: "missing language", arguments: map[string]interface{}{"code": "x = 1"}, contains: "language parameter"},
		{name: "bad threshold type", arguments: map[string]interface{}{"code": "x = 1", "language": "python", "similarity_threshold": "high"}, contains: "similarity_threshold"},
		{name: "syntax error", arguments: map[string]interface{}{"code": "def f(: pass", "language": "python"}, contains: domain.ErrCodeSyntaxError},
		{name: "unsupported language", arguments: map[string]interface{}{"code": "x", "language": "cobol"}, contains: domain.ErrCodeUnsupportedLanguage},
		{name: "invalid mode", arguments: map[string]interface{}{"code": "x = 1", "language": "python", "mode": "fuzzy"}, contains: domain.ErrCodeInvalidInput},
	}

	h := newHandlers(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, h.HandleAnalyzeCode, tt.arguments)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.contains)
		})
	}
}

func TestHandleAnalyzeCode_ErrorPayload(t *testing.T) {
	h := newHandlers(t)
	res := callTool(t, h.HandleAnalyzeCode, map[string]interface{}{"code": "def f(: pass", "language": "python"})
	require.True(t, res.IsError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	assert.Equal(t, domain.ErrCodeSyntaxError, payload["error_code"])
	assert.Equal(t, string(domain.ClassInputRejected), payload["class"])
}

func TestHandleListLanguages(t *testing.T) {
	h := newHandlers(t)
	res := callTool(t, h.HandleListLanguages, map[string]interface{}{})
	require.False(t, res.IsError)

	var languages []domain.LanguageInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &languages))
	require.Len(t, languages, 5)
	assert.Equal(t, domain.Language("generic"), languages[0].Code)
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("syntaxy-test", "0.0.0", server.WithToolCapabilities(true))
	mcp.RegisterTools(s, newHandlers(t))

	response := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(response)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"analyze_code"`)
	assert.Contains(t, string(data), `"list_languages"`)
}

package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/siri/internal/contract"
	mcp_internal "github.com/huangsam/siri/internal/mcp"
	"github.com/huangsam/siri/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	aliceBlame = "1111111111111111111111111111111111111111 1 1 2\n" +
		"author Alice\nauthor-mail <alice@example.com>\nsummary init\nfilename main.go\n\tpackage main\n" +
		"1111111111111111111111111111111111111111 2 2\n\tfunc main() {}\n"
	eveBlame = "2222222222222222222222222222222222222222 1 1 1\n" +
		"author Eve\nauthor-mail <eve@example.com>\nsummary ui\nfilename app.json\n\t{}\n"
)

func newTestServer(t *testing.T) (*server.MCPServer, string) {
	t.Helper()
	root := t.TempDir()
	baseCfg := &contract.Config{
		RepoPath: root,
		Ref:      "HEAD",
		Patterns: append(
			schema.Patterns(schema.CodeCategory, []string{".go"}),
			schema.Patterns(schema.ResourceCategory, []string{".json"})...,
		),
		Identities:    []schema.AuthorIdentity{{Name: "Alice", Aliases: []string{"alice@example.com"}, Factor: 1}},
		UnknownPolicy: schema.BucketPolicy,
		Output:        schema.JSONOut,
		ResultLimit:   25,
		Precision:     1,
	}

	client := &contract.MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, root).Return(root, nil)
	client.On("ListFilesAtRef", mock.Anything, root, "HEAD").Return([]string{"main.go", "app.json"}, nil)
	client.On("GetBlame", mock.Anything, root, "HEAD", "main.go").Return([]byte(aliceBlame), nil)
	client.On("GetBlame", mock.Anything, root, "HEAD", "app.json").Return([]byte(eveBlame), nil)
	client.On("GetRepoHash", mock.Anything, root, "HEAD").Return("feedface", nil)

	return mcp_internal.NewMCPServer(baseCfg, client), root
}

func callScore(t *testing.T, s *server.MCPServer, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool("get_siri_score")
	require.NotNil(t, tool, "Tool get_siri_score should exist")

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "get_siri_score", Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func decodeReport(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, res.IsError, "unexpected tool error: %v", res.Content)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &out))
	return out
}

func TestGetSiriScore(t *testing.T) {
	s, _ := newTestServer(t)

	out := decodeReport(t, callScore(t, s, map[string]any{}))
	assert.Equal(t, float64(3), out["total_lines"])
	assert.Equal(t, float64(2), out["files_scanned"])
	assert.Equal(t, "feedface", out["head_hash"])
	assert.Equal(t, "Likely", out["label"])

	authors := out["authors"].([]any)
	require.Len(t, authors, 2)
	assert.Equal(t, "Alice", authors[0].(map[string]any)["author"])
	assert.Equal(t, schema.UnknownAuthor, authors[1].(map[string]any)["author"])
}

func TestGetSiriScore_Overrides(t *testing.T) {
	s, root := newTestServer(t)

	t.Run("code only", func(t *testing.T) {
		out := decodeReport(t, callScore(t, s, map[string]any{"category": "code"}))
		assert.Equal(t, float64(2), out["total_lines"])
		assert.Equal(t, float64(1), out["files_scanned"])
		assert.Equal(t, float64(100), out["siri_percent"])
	})

	t.Run("drop policy and limit", func(t *testing.T) {
		out := decodeReport(t, callScore(t, s, map[string]any{
			"repo_path":      root,
			"unknown_policy": "drop",
			"limit":          1.0,
		}))
		assert.Equal(t, float64(1), out["dropped_lines"])
		assert.Len(t, out["authors"], 1)
		assert.Equal(t, "drop", out["unknown_policy"])
	})
}

func TestGetSiriScore_ValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name     string
		args     map[string]any
		expected string
	}{
		{"invalid category", map[string]any{"category": "docs"}, "invalid category"},
		{"invalid policy", map[string]any{"unknown_policy": "ignore"}, "invalid unknown-policy"},
		{"negative limit", map[string]any{"limit": -5.0}, "limit must be between 1 and 1000"},
		{"limit too large", map[string]any{"limit": 5000.0}, "limit must be between 1 and 1000"},
		{"missing repo", map[string]any{"repo_path": "/definitely/not/here"}, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callScore(t, s, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, res.Content[0].(mcp.TextContent).Text, tt.expected)
		})
	}
}

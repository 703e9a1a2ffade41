package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/siri/core"
	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
}

func (h *toolHandler) handleGetSiriScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	repoPath := request.GetString("repo_path", "")
	category := request.GetString("category", "")
	policy := request.GetString("unknown_policy", "")

	if l := request.GetInt("limit", 0); l != 0 {
		if l < 0 || l > contract.MaxResultLimit {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: limit must be between 1 and %d", contract.MaxResultLimit)), nil
		}
		cfg.ResultLimit = l
	}

	if err := contract.RevalidateScan(ctx, cfg, h.client, repoPath, category, policy); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := core.GetSiriResults(core.WithSuppressHeader(ctx), cfg, h.client)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	type scoreResult struct {
		*schema.ScoreReport
		Label string `json:"label"`
	}
	jsonData, _ := json.MarshalIndent(scoreResult{ScoreReport: report, Label: contract.GetPlainLabel(report.SiriPercent)}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

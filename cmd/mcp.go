package cmd

import (
	"github.com/huangsam/siri/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the SIRI MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents compute SIRI scores.

The server exposes a single tool, get_siri_score, which accepts repo_path,
category (code, resource, all), unknown_policy and limit. Flags and the config
file provide the defaults for every call.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The scan header is suppressed per request so stdio stays clean for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, gitClient)
	},
}

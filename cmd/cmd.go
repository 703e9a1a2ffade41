// Package cmd defines the command-line interface for siri.
package cmd

import (
	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("repo", "r", ".", "Path to the repository, or a folder or file inside it")
	rootCmd.PersistentFlags().String("ref", contract.DefaultRef, "Git reference to blame at")
	rootCmd.PersistentFlags().Bool("code", false, "Count files matching the code patterns")
	rootCmd.PersistentFlags().Bool("resource", false, "Count files matching the resource patterns")
	rootCmd.PersistentFlags().Bool("detail", false, "Print line kinds, commit counts and a per-file breakdown")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print skipped files and store activity")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of authors to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("unknown-policy", string(schema.BucketPolicy), "Lines by unconfigured authors: bucket or drop or keep")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().Bool("vendor", false, "Include vendored and third-party paths")
	rootCmd.PersistentFlags().String("store-backend", string(schema.NoneBackend), "Score history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of initCmd to Viper
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	if err := viper.BindPFlags(initCmd.Flags()); err != nil {
		contract.LogFatal("Error binding init flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/internal/outwriter"
	"github.com/huangsam/siri/internal/scorestore"
	"github.com/huangsam/siri/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for score store operations.
// It skips repository validation, so history commands work from any directory.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("no score store configured. Use --store-backend sqlite|mysql|postgresql or SIRI_STORE_BACKEND")
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	output := schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", output)
	}
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	precision := viper.GetInt("precision")
	if precision < 1 || precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", precision)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = precision
	cfg.Width = viper.GetInt("width")
	cfg.ResultLimit = viper.GetInt("limit")
	cfg.UseColors = colors
	color.NoColor = !colors
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyCmd focused on the score store.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by the root command. This avoids Git repo validation
// for simple store operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded SIRI score runs",
	Long: `Inspect the history of SIRI score runs.

A run is recorded every time siri scores a repository with --store-backend set.
Each run keeps its summary and the ranked authors, so you can follow how
ownership shifts over time.

Supported backends: SQLite, MySQL, PostgreSQL

Subcommands:
  list    - Show the most recent runs
  status  - Show store statistics and connection info
  migrate - Apply or roll back schema migrations

Examples:
  # Show the last 10 runs stored in SQLite
  siri history list --store-backend sqlite --limit 10

  # Check a PostgreSQL store (set the connection string via env variable)
  SIRI_STORE_BACKEND=postgresql SIRI_STORE_DB_CONNECT="..." siri history status`,
}

// historyListCmd lists recorded runs.
var historyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show the most recent score runs",
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := scorestore.NewScoreStore(cfg.StoreBackend, cfg.StoreDBConnect)
		if err != nil {
			contract.LogFatal("Failed to open score store", err)
		}
		defer func() { _ = store.Close() }()

		runs, err := store.ListRuns(rootCtx, cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Failed to list score runs", err)
		}
		if err := outwriter.NewOutWriter().WriteRuns(runs, cfg); err != nil {
			contract.LogFatal("Failed to write score runs", err)
		}
	},
}

// historyStatusCmd shows store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display score store statistics and connection details",
	Long: `Show detailed information about the score store.

Displays:
- Backend type and connection status
- Total number of recorded runs
- Last and oldest run timestamps
- Row counts per table`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := scorestore.NewScoreStore(cfg.StoreBackend, cfg.StoreDBConnect)
		if err != nil {
			contract.LogFatal("Failed to open score store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get score store status", err)
		}
		if err := outwriter.WriteStoreStatus(os.Stdout, status); err != nil {
			contract.LogFatal("Failed to write score store status", err)
		}
	},
}

// historyMigrateCmd applies schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back score store migrations",
	Long: `Run the embedded schema migrations against the configured store.

Stores are migrated to the latest version when they are opened, so this is
mostly useful to roll back or to prepare a database ahead of time.

Examples:
  # Migrate to the latest version
  siri history migrate --store-backend sqlite

  # Roll back everything
  siri history migrate --store-backend sqlite --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := scorestore.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate score store", err)
		}
	},
}

package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/siri/internal"
	"github.com/huangsam/siri/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd writes a starter config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .siri.yaml in the current directory",
	Long: `Create a .siri.yaml with the default file patterns and an author list.

When run inside a Git checkout, the authors are seeded from the commit history
(most active first, one identity per name, every email as an alias). Edit the
list to keep only the people who are still around and adjust their factor.

Examples:
  # Write .siri.yaml, refusing to overwrite an existing one
  siri init

  # Regenerate the file
  siri init --force`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := loadConfigFile(); err != nil {
			contract.LogFatal("Cannot read config", err)
		}

		ref := viper.GetString("ref")
		if ref == "" {
			ref = contract.DefaultRef
		}
		starter := internal.NewStarterConfig(rootCtx, gitClient, viper.GetString("repo"), ref, internal.DefaultStarterAuthors)
		if err := internal.WriteStarterConfig(internal.StarterConfigFile, starter, viper.GetBool("force")); err != nil {
			contract.LogFatal("Cannot write config", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %s with %d authors\n", internal.StarterConfigFile, len(starter.Authors))
	},
}

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/repohealth/health/schema"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// version needs no config
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "repohealth %s (schema %s, %s)\n", Version, schema.Version, runtime.Version())
	},
}

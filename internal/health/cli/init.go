package cli

import (
	"github.com/spf13/cobra"

	"github.com/build-flow-labs/repohealth/internal/health/setup"
)

var (
	initDryRun bool
	initPath   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard that writes .repohealth.yaml",
	Long: `Walks through the repohealth settings and writes them to a config file:

  1. Checks the GitHub token, if one is set
  2. Chooses the default output, colour and log format
  3. Sets concurrency, request rate and the API URL
  4. Sets the report store directory and server address
  5. Writes the config file

The token itself is never written; keep it in GITHUB_TOKEN.
Use --dry-run to print the config without writing it.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "Print the config instead of writing it")
	initCmd.Flags().StringVar(&initPath, "path", ".repohealth.yaml", "Config file to write")
}

func runInit(cmd *cobra.Command, _ []string) error {
	var check setup.AccessCheck
	if cfg.Token != "" {
		collector, err := newCollector()
		if err != nil {
			return err
		}
		check = collector.Whoami
	}

	wiz := setup.NewWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initDryRun, check, logger)
	_, err := wiz.Run(cmd.Context(), initPath, *cfg)
	return err
}

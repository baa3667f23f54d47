package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/repohealth/internal/health/batch"
)

var userLimit int

var userCmd = &cobra.Command{
	Use:   "user <login>",
	Short: "Score the public repositories of a GitHub user or organization",
	Long: `Lists the non-fork, non-archived repositories owned by <login>, most
starred first, and scores up to --limit of them concurrently.`,
	Args: cobra.ExactArgs(1),
	RunE: runUser,
}

func init() {
	userCmd.Flags().IntVar(&userLimit, "limit", 10, "Maximum repositories to score (0 = all)")
	userCmd.Flags().BoolVar(&scoreWrite, "write", false, "Store reports in the store directory")
	userCmd.Flags().IntVar(&scoreFailUnder, "fail-under", 0, "Exit with an error if any total score is below this value")
}

func runUser(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	collector, err := newCollector()
	if err != nil {
		return err
	}

	repos, err := collector.ListUserRepos(cmd.Context(), args[0], userLimit)
	if err != nil {
		return err
	}
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.String()
	}
	logger.Info("scoring repositories", "user", args[0], "count", len(names), "workers", cfg.Workers)

	runner := batch.New(collector, batch.WithWorkers(cfg.Workers), batch.WithLogger(logger))
	results, err := runner.Run(cmd.Context(), names)
	if err != nil {
		return fmt.Errorf("scoring %s: %w", args[0], err)
	}
	return finish(cmd.OutOrStdout(), format, results)
}

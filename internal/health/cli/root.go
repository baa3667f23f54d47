// Package cli implements the repohealth command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/build-flow-labs/repohealth/internal/health/config"
	"github.com/build-flow-labs/repohealth/internal/health/github"
	"github.com/build-flow-labs/repohealth/internal/health/render"
	"github.com/build-flow-labs/repohealth/internal/health/store"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// RootCmd is the repohealth entrypoint.
var RootCmd = &cobra.Command{
	Use:   "repohealth",
	Short: "Score the health of GitHub repositories",
	Long: `repohealth collects signals from a GitHub repository and scores it on
seven pillars: readability, stability, security, community, maintainability,
documentation and automation.

The weighted total maps to a letter grade (A+ to F) and a risk level, and
every missing signal becomes a prioritized recommendation.

Settings come from flags, REPOHEALTH_* environment variables and an optional
.repohealth.yaml in the working or home directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	d := config.Defaults()
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Path to config file (default .repohealth.yaml in . or $HOME)")
	pf.String("token", "", "GitHub token (or REPOHEALTH_TOKEN / GITHUB_TOKEN env var)")
	pf.String("api-url", "", "GitHub API base URL for GitHub Enterprise")
	pf.StringP("output", "o", d.Output, "Output format: text, markdown, json or yaml")
	pf.String("store-dir", d.StoreDir, "Directory for stored reports")
	pf.Int("workers", d.Workers, "Repositories scored concurrently")
	pf.Float64("rate", d.Rate, "GitHub API requests per second (0 = unlimited)")
	pf.String("log-level", d.LogLevel, "Log level: debug, info, warn or error")
	pf.String("log-format", d.LogFormat, "Log format: text or json")
	pf.String("color", d.Color, "Colour output: auto, always or never")

	RootCmd.AddCommand(scoreCmd)
	RootCmd.AddCommand(userCmd)
	RootCmd.AddCommand(rulesCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(versionCmd)
}

// loadConfig merges defaults, config file, environment and the flags of
// the command being run.
func loadConfig(cmd *cobra.Command, _ []string) error {
	v := config.New(cfgFile)
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	c, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = c
	logger = cfg.Logger(cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

func newCollector() (*github.Collector, error) {
	client, err := github.NewClient(github.ClientConfig{
		Token:             cfg.Token,
		BaseURL:           cfg.APIURL,
		RequestsPerSecond: cfg.Rate,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		logger.Warn("no GitHub token configured; unauthenticated requests are limited to 60 per hour")
	}
	return github.NewCollector(client, github.WithLogger(logger)), nil
}

func openStore() (*store.Store, error) {
	st := store.New(cfg.StoreDir)
	if err := st.Load(); err != nil {
		return nil, err
	}
	return st, nil
}

func outputFormat() (render.Format, error) {
	return render.ParseFormat(cfg.Output)
}

func renderOptions() render.Options {
	return render.Options{Color: cfg.UseColor(!color.NoColor)}
}

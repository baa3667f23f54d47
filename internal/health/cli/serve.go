package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/repohealth/internal/health/config"
	"github.com/build-flow-labs/repohealth/internal/health/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the repository health HTTP server",
	Long: `Serves scoring and stored reports over HTTP:

  GET  /health                      liveness
  GET  /status                      counters
  GET  /api/reports                 stored reports (?repo=&grade=&risk=&sort=&desc=&limit=)
  GET  /api/reports/{owner}/{repo}  latest stored report (?run= for a specific run)
  POST /api/score/{owner}/{repo}    collect, score and store
  GET  /badge/{owner}/{repo}        redirect to a shields.io badge
  GET  /metrics                     Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", config.Defaults().Addr, "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	collector, err := newCollector()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:          cfg.Addr,
		MaxConcurrent: cfg.Workers,
	}, collector, st, logger)
	return srv.Start(ctx)
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/build-flow-labs/repohealth/health/schema"
	"github.com/build-flow-labs/repohealth/internal/health/batch"
	"github.com/build-flow-labs/repohealth/internal/health/render"
	"github.com/build-flow-labs/repohealth/internal/health/score"
)

var (
	scoreBundle    string
	scoreWrite     bool
	scoreFailUnder int
)

var scoreCmd = &cobra.Command{
	Use:   "score <owner/repo>...",
	Short: "Score one or more GitHub repositories",
	Long: `Collects signals for each repository and prints its health report.

Pillars (weight):
  Readability      15%   README, installation and usage sections, description
  Stability        15%   releases, tags, CI workflows, recent pushes
  Security         15%   license risk, SECURITY.md, Dependabot
  Community        10%   stars, issue close ratio, CONTRIBUTING
  Maintainability  15%   test directory, linter config
  Documentation    15%   docs/, CHANGELOG, examples, wiki, API docs
  Automation       15%   workflows, PR and issue templates, release automation,
                         code of conduct

Use --bundle to score a pre-collected signal bundle (JSON or YAML, "-" for
stdin) without calling GitHub. Use --write to store reports for "history"
and the HTTP server. Use --fail-under to exit non-zero in CI.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if scoreBundle == "" && len(args) == 0 {
			return fmt.Errorf("requires at least one owner/repo or --bundle")
		}
		return nil
	},
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreBundle, "bundle", "", "Score a signal bundle file instead of calling GitHub")
	scoreCmd.Flags().BoolVar(&scoreWrite, "write", false, "Store reports in the store directory")
	scoreCmd.Flags().IntVar(&scoreFailUnder, "fail-under", 0, "Exit with an error if any total score is below this value")
}

func runScore(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	var results []batch.Result
	if scoreBundle != "" {
		report, err := scoreBundleFile(cmd.InOrStdin(), scoreBundle)
		if err != nil {
			return err
		}
		results = []batch.Result{{Repository: report.Repository, Report: report}}
	} else {
		collector, err := newCollector()
		if err != nil {
			return err
		}
		runner := batch.New(collector, batch.WithWorkers(cfg.Workers), batch.WithLogger(logger))
		results, err = runner.Run(cmd.Context(), args)
		if err != nil {
			return err
		}
	}

	return finish(cmd.OutOrStdout(), format, results)
}

// finish stores, prints and gates a set of batch results.
func finish(out io.Writer, format render.Format, results []batch.Result) error {
	if scoreWrite {
		if err := storeResults(results); err != nil {
			return err
		}
	}

	if err := printResults(out, format, results); err != nil {
		return err
	}

	if failed := batch.Failed(results); len(failed) > 0 {
		for _, f := range failed {
			logger.Error("repository failed", "repo", f.Repository, "error", f.Err)
		}
		return fmt.Errorf("%d of %d repositories could not be scored", len(failed), len(results))
	}

	if scoreFailUnder > 0 {
		var below []string
		for _, res := range results {
			if res.Report.TotalScore < scoreFailUnder {
				below = append(below, fmt.Sprintf("%s (%d)", res.Repository, res.Report.TotalScore))
			}
		}
		if len(below) > 0 {
			return fmt.Errorf("score below %d: %s", scoreFailUnder, strings.Join(below, ", "))
		}
	}
	return nil
}

func scoreBundleFile(stdin io.Reader, path string) (*schema.HealthReport, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}

	var b schema.SignalBundle
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &b)
	default:
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing bundle %s: %w", path, err)
	}
	return score.Evaluate(&b)
}

func storeResults(results []batch.Result) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Report == nil {
			continue
		}
		entry, err := st.Save(res.Report)
		if err != nil {
			return fmt.Errorf("storing %s: %w", res.Repository, err)
		}
		logger.Info("report stored", "repo", res.Repository, "run_id", entry.RunID, "path", entry.FilePath)
	}
	return nil
}

func printResults(out io.Writer, format render.Format, results []batch.Result) error {
	var reports []*schema.HealthReport
	for _, res := range results {
		if res.Report != nil {
			reports = append(reports, res.Report)
		}
	}

	switch format {
	case render.FormatJSON, render.FormatYAML:
		var v any = reports
		if len(results) == 1 && len(reports) == 1 {
			v = reports[0]
		}
		if format == render.FormatJSON {
			return render.JSON(out, v)
		}
		return render.YAML(out, v)
	}

	if len(results) > 1 && format == render.FormatText {
		if err := render.Summary(out, results); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := render.Write(out, format, r, renderOptions()); err != nil {
			return err
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/build-flow-labs/repohealth/internal/health/github"
	"github.com/build-flow-labs/repohealth/internal/health/render"
	"github.com/build-flow-labs/repohealth/internal/health/store"
)

var (
	historyOpts store.ListOptions
	historyRun  string
)

var historyCmd = &cobra.Command{
	Use:   "history [owner/repo]",
	Short: "List stored reports, or show one",
	Long: `Without arguments, lists the reports saved with --write or by the HTTP
server. With owner/repo, prints the latest stored report for it (or the
run given by --run).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyOpts.Repo, "repo", "", "Filter by owner/repo substring")
	f.StringVar(&historyOpts.Grade, "grade", "", "Filter by grade")
	f.StringVar(&historyOpts.Risk, "risk", "", "Filter by risk level")
	f.StringVar(&historyOpts.SortField, "sort", "time", "Sort by time, repo, score or grade")
	f.BoolVar(&historyOpts.SortDesc, "desc", false, "Sort descending")
	f.IntVar(&historyOpts.Limit, "limit", 0, "Maximum entries to list (0 = all)")
	f.StringVar(&historyRun, "run", "", "Run ID to show (default latest)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		owner, repo, err := github.ParseRepo(args[0])
		if err != nil {
			return err
		}
		env, err := st.Get(owner, repo, historyRun)
		if err != nil {
			return err
		}
		return render.Write(out, format, env.Report, renderOptions())
	}

	entries := st.List(historyOpts)
	switch format {
	case render.FormatJSON:
		return render.JSON(out, entries)
	case render.FormatYAML:
		return render.YAML(out, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "No stored reports in %s\n", st.Dir())
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Repository", "Score", "Grade", "Risk", "Recs", "Stored", "Run"})
	var rows [][]string
	for _, e := range entries {
		rows = append(rows, []string{
			e.Repository(),
			strconv.Itoa(e.Score),
			string(e.Grade),
			string(e.Risk),
			strconv.Itoa(e.Recommendations),
			e.StoredAt.Format("2006-01-02 15:04"),
			e.RunID,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

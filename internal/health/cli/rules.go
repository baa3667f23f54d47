package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/build-flow-labs/repohealth/health/schema"
	"github.com/build-flow-labs/repohealth/internal/health/render"
	"github.com/build-flow-labs/repohealth/internal/health/score"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show pillar weights and every recommendation rule",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

type rulesDoc struct {
	Weights         map[schema.Pillar]float64 `json:"weights" yaml:"weights"`
	Recommendations []schema.Recommendation   `json:"recommendations" yaml:"recommendations"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	doc := rulesDoc{Weights: score.Weights(), Recommendations: score.Rules()}

	switch format {
	case render.FormatJSON:
		return render.JSON(out, doc)
	case render.FormatYAML:
		return render.YAML(out, doc)
	}

	weights := tablewriter.NewWriter(out)
	weights.Header([]string{"Pillar", "Weight"})
	var rows [][]string
	for _, p := range schema.Pillars {
		rows = append(rows, []string{p.Title(), strconv.Itoa(int(doc.Weights[p]*100+0.5)) + "%"})
	}
	if err := weights.Bulk(rows); err != nil {
		return err
	}
	if err := weights.Render(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	recs := tablewriter.NewWriter(out)
	recs.Header([]string{"Category", "Priority", "Issue", "Impact"})
	var ruleRows [][]string
	for _, r := range doc.Recommendations {
		ruleRows = append(ruleRows, []string{r.Category, r.Priority.String(), r.Issue, r.Impact})
	}
	if err := recs.Bulk(ruleRows); err != nil {
		return err
	}
	return recs.Render()
}

package render

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/build-flow-labs/repohealth/health/schema"
	"github.com/build-flow-labs/repohealth/internal/health/batch"
)

// pillarAbbrev keeps the summary table narrow.
var pillarAbbrev = map[schema.Pillar]string{
	schema.PillarReadability:     "Read",
	schema.PillarStability:       "Stab",
	schema.PillarSecurity:        "Sec",
	schema.PillarCommunity:       "Comm",
	schema.PillarMaintainability: "Maint",
	schema.PillarDocumentation:   "Docs",
	schema.PillarAutomation:      "Auto",
}

// Summary writes one table row per batch result. Failed repositories show
// their error in place of scores.
func Summary(w io.Writer, results []batch.Result) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Repository", "Score", "Grade", "Risk"}
	for _, p := range schema.Pillars {
		headers = append(headers, pillarAbbrev[p])
	}
	headers = append(headers, "Recs")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, res := range results {
		row := []string{res.Repository}
		if res.Err != nil || res.Report == nil {
			msg := "no report"
			if res.Err != nil {
				msg = res.Err.Error()
			}
			row = append(row, "-", "ERR", msg)
			for range schema.Pillars {
				row = append(row, "-")
			}
			data = append(data, append(row, "-"))
			continue
		}

		r := res.Report
		row = append(row, strconv.Itoa(r.TotalScore), string(r.Grade), string(r.RiskLevel))
		for _, p := range schema.Pillars {
			row = append(row, strconv.Itoa(r.Pillar(p).Score))
		}
		data = append(data, append(row, strconv.Itoa(r.RecommendationCount)))
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// Markdown writes a report suitable for a README, issue or PR comment.
func Markdown(w io.Writer, r *schema.HealthReport) error {
	var b strings.Builder

	title := "# Repository Health"
	if r.Repository != "" {
		title += ": " + r.Repository
	}
	b.WriteString(title + "\n\n")
	fmt.Fprintf(&b, "**Score:** %d/100 | **Grade:** %s | **Risk:** %s\n\n", r.TotalScore, r.Grade, r.RiskLevel)
	fmt.Fprintf(&b, "![repo health](%s)\n\n", BadgeURL(r))

	b.WriteString("## Pillars\n\n")
	b.WriteString("| Pillar | Score | Weight |\n")
	b.WriteString("| --- | ---: | ---: |\n")
	for _, p := range schema.Pillars {
		res := r.Pillar(p)
		fmt.Fprintf(&b, "| %s | %d | %d%% |\n", p.Title(), res.Score, percent(res.Weight))
	}

	b.WriteString("\n## Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString("None.\n")
	}
	groups := byPriority(r.Recommendations)
	for _, prio := range priorities {
		recs := groups[prio]
		if len(recs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", prio)
		for _, rec := range recs {
			fmt.Fprintf(&b, "- **%s** (%s): %s _(%s)_\n", rec.Issue, rec.Category, rec.Action, rec.Impact)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, strings.TrimRight(b.String(), "\n")+"\n")
	return err
}

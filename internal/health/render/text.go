package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// palette holds the colours used by the text renderer. Every colour is
// disabled when Options.Color is false.
type palette struct {
	good, warn, bad, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		good: color.New(color.FgGreen, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		bad:  color.New(color.FgRed, color.Bold),
		dim:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.good, p.warn, p.bad, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) score(n int) *color.Color {
	switch {
	case n >= 80:
		return p.good
	case n >= 50:
		return p.warn
	default:
		return p.bad
	}
}

func (p palette) priority(prio schema.Priority) *color.Color {
	switch prio {
	case schema.PriorityCritical:
		return p.bad
	case schema.PriorityMedium:
		return p.warn
	default:
		return p.dim
	}
}

// Text writes a terminal report.
func Text(w io.Writer, r *schema.HealthReport, opts Options) error {
	p := newPalette(opts.Color)
	name := r.Repository
	if name == "" {
		name = "(unnamed)"
	}

	fmt.Fprintf(w, "REPOSITORY HEALTH: %s  %s  risk: %s\n",
		name,
		p.score(r.TotalScore).Sprintf("[%s] %d/100", r.Grade, r.TotalScore),
		r.RiskLevel)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, pl := range schema.Pillars {
		res := r.Pillar(pl)
		fmt.Fprintf(tw, "  %s\t%3d/100\t(%d%%)\n", pl.Title(), res.Score, percent(res.Weight))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Recommendations) == 0 {
		fmt.Fprintln(w, "\nNo recommendations.")
		return nil
	}

	fmt.Fprintf(w, "\nRECOMMENDATIONS (%d)\n", len(r.Recommendations))
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  %s %s (%s)\n",
			p.priority(rec.Priority).Sprintf("[%s]", rec.Priority), rec.Issue, rec.Category)
		fmt.Fprintf(w, "      %s %s\n", rec.Action, p.dim.Sprintf("(%s)", rec.Impact))
	}
	return nil
}

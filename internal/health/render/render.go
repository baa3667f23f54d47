// Package render writes health reports as text, Markdown, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// Format is an output format name.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "table":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, markdown, json or yaml)", s)
}

// Options tune the human-readable renderers.
type Options struct {
	Color bool
}

// Write renders r in the given format.
func Write(w io.Writer, format Format, r *schema.HealthReport, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, r)
	case FormatYAML:
		return YAML(w, r)
	case FormatMarkdown:
		return Markdown(w, r)
	default:
		return Text(w, r, opts)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// YAML writes v as YAML with two-space indentation.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// badgeColors follow the shields.io named palette.
var badgeColors = map[schema.Grade]string{
	schema.GradeAPlus: "brightgreen",
	schema.GradeA:     "green",
	schema.GradeB:     "yellowgreen",
	schema.GradeC:     "yellow",
	schema.GradeD:     "orange",
	schema.GradeF:     "red",
}

// BadgeURL returns a shields.io static badge for the report.
func BadgeURL(r *schema.HealthReport) string {
	color, ok := badgeColors[r.Grade]
	if !ok {
		color = "lightgrey"
	}
	message := fmt.Sprintf("%s (%d)", r.Grade, r.TotalScore)
	return fmt.Sprintf("https://img.shields.io/static/v1?label=%s&message=%s&color=%s",
		url.QueryEscape("repo health"), url.QueryEscape(message), color)
}

func percent(weight float64) int {
	return int(math.Round(weight * 100))
}

// byPriority groups recommendations, keeping their order within a group.
func byPriority(recs []schema.Recommendation) map[schema.Priority][]schema.Recommendation {
	out := make(map[schema.Priority][]schema.Recommendation)
	for _, rec := range recs {
		out[rec.Priority] = append(out[rec.Priority], rec)
	}
	return out
}

var priorities = []schema.Priority{
	schema.PriorityCritical,
	schema.PriorityMedium,
	schema.PriorityNiceToHave,
}

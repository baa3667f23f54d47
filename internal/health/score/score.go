// Package score implements repository health scoring for signal bundles.
//
// Each bundle is scored on 7 pillars: readability, stability, security,
// community, maintainability, documentation and automation. Pillars produce
// numeric scores (0-100) and the facts they were computed from. The total
// score is a weighted average mapped to a letter grade and a risk tier, and
// the pillar facts drive a prioritized list of recommendations.
package score

import (
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// weights are expressed in hundredths so the total is computed exactly.
var weights = map[schema.Pillar]int{
	schema.PillarReadability:     15,
	schema.PillarStability:       15,
	schema.PillarSecurity:        15,
	schema.PillarCommunity:       10,
	schema.PillarMaintainability: 15,
	schema.PillarDocumentation:   15,
	schema.PillarAutomation:      15,
}

// calculators in display order. They share no state; order does not
// affect any result.
var calculators = []pillar{
	readability,
	stability,
	security,
	community,
	maintainability,
	documentation,
	automation,
}

// Weight returns the fixed weight of a pillar as a fraction of 1.
func Weight(p schema.Pillar) float64 {
	return float64(weights[p]) / 100
}

// Weights returns a copy of the weight table.
func Weights() map[schema.Pillar]float64 {
	out := make(map[schema.Pillar]float64, len(weights))
	for p := range weights {
		out[p] = Weight(p)
	}
	return out
}

// gradeBands and riskBands map an inclusive lower bound to a label and are
// evaluated top-down. They are independent of each other.
var gradeBands = []struct {
	min   int
	grade schema.Grade
}{
	{90, schema.GradeAPlus},
	{80, schema.GradeA},
	{70, schema.GradeB},
	{60, schema.GradeC},
	{50, schema.GradeD},
	{0, schema.GradeF},
}

var riskBands = []struct {
	min  int
	risk schema.RiskLevel
}{
	{80, schema.RiskLow},
	{50, schema.RiskMedium},
	{0, schema.RiskHigh},
}

// Evaluate scores a signal bundle and returns its HealthReport.
// Structurally invalid bundles are rejected with a *schema.ValidationError
// before any pillar runs.
func Evaluate(b *schema.SignalBundle) (*schema.HealthReport, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	// The wall clock only feeds recency; GeneratedAt mirrors CollectedAt.
	now := b.CollectedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	pillars := make(map[schema.Pillar]schema.PillarResult, len(calculators))
	for _, c := range calculators {
		pillars[c.name] = c.evaluate(b, now)
	}

	total := Total(pillars)
	recs := Recommend(pillars)

	return &schema.HealthReport{
		Repository:          b.Repository,
		GeneratedAt:         b.CollectedAt,
		TotalScore:          total,
		Grade:               Grade(total),
		RiskLevel:           Risk(total),
		Pillars:             pillars,
		Recommendations:     recs,
		RecommendationCount: len(recs),
	}, nil
}

// Total combines pillar scores with the fixed weights, rounding half up.
func Total(pillars map[schema.Pillar]schema.PillarResult) int {
	sum := 0
	for p, w := range weights {
		sum += pillars[p].Score * w
	}
	return clamp((sum + 50) / 100)
}

// Grade converts a 0-100 total score to a letter grade.
func Grade(total int) schema.Grade {
	for _, b := range gradeBands {
		if total >= b.min {
			return b.grade
		}
	}
	return schema.GradeF
}

// Risk converts a 0-100 total score to a risk tier.
func Risk(total int) schema.RiskLevel {
	for _, b := range riskBands {
		if total >= b.min {
			return b.risk
		}
	}
	return schema.RiskHigh
}

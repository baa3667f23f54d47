package score

import (
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// cond is a predicate over a pillar's recorded details. Scoring checks and
// recommendation rules share this vocabulary so that what scored and what
// is recommended are read from the same facts.
type cond func(schema.Details) bool

func isTrue(key string) cond {
	return func(d schema.Details) bool { return d.Bool(key) }
}

func isFalse(key string) cond {
	return func(d schema.Details) bool { return !d.Bool(key) }
}

func atLeast(key string, min int) cond {
	return func(d schema.Details) bool { return d.Int(key) >= min }
}

func greaterThan(key string, n int) cond {
	return func(d schema.Details) bool { return d.Int(key) > n }
}

func below(key string, n int) cond {
	return func(d schema.Details) bool { return d.Int(key) < n }
}

func always(schema.Details) bool { return true }

func all(conds ...cond) cond {
	return func(d schema.Details) bool {
		for _, c := range conds {
			if !c(d) {
				return false
			}
		}
		return true
	}
}

func anyOf(conds ...cond) cond {
	return func(d schema.Details) bool {
		for _, c := range conds {
			if c(d) {
				return true
			}
		}
		return false
	}
}

// tier awards points when its condition holds.
type tier struct {
	when   cond
	points int
}

// check turns details into points.
type check func(schema.Details) int

// firstMatch awards the points of the first satisfied tier only.
// A single-tier firstMatch is a plain additive condition.
func firstMatch(tiers ...tier) check {
	return func(d schema.Details) int {
		for _, t := range tiers {
			if t.when(d) {
				return t.points
			}
		}
		return 0
	}
}

// when awards points if c holds.
func when(c cond, points int) check {
	return firstMatch(tier{c, points})
}

// valueOf awards the integer value recorded under key.
func valueOf(key string) check {
	return func(d schema.Details) int { return d.Int(key) }
}

// pillar declares one calculator: the facts it records and the checks
// summed over those facts.
type pillar struct {
	name   schema.Pillar
	facts  func(b *schema.SignalBundle, now time.Time) schema.Details
	checks []check
}

func (p pillar) evaluate(b *schema.SignalBundle, now time.Time) schema.PillarResult {
	d := p.facts(b, now)
	total := 0
	for _, c := range p.checks {
		total += c(d)
	}
	return schema.PillarResult{
		Score:   clamp(total),
		Weight:  Weight(p.name),
		Details: d,
	}
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

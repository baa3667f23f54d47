package score

import (
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// community grades adoption and responsiveness.
//
// Stars and close ratio are each graded on a single scale: only the highest
// matching bracket counts, unlike the independent checks elsewhere.
//
// Scoring:
//   - Stars >= 1000: +40, >= 100: +30, >= 50: +20, >= 10: +10
//   - Issue close ratio >= 70%: +30, >= 50%: +20, >= 30%: +10
//   - CONTRIBUTING.md present: +30
var community = pillar{
	name:  schema.PillarCommunity,
	facts: communityFacts,
	checks: []check{
		firstMatch(
			tier{atLeast("stars", 1000), 40},
			tier{atLeast("stars", 100), 30},
			tier{atLeast("stars", 50), 20},
			tier{atLeast("stars", 10), 10},
		),
		firstMatch(
			tier{atLeast("issue_close_ratio", 70), 30},
			tier{atLeast("issue_close_ratio", 50), 20},
			tier{atLeast("issue_close_ratio", 30), 10},
		),
		when(isTrue("has_contributing"), 30),
	},
}

func communityFacts(b *schema.SignalBundle, _ time.Time) schema.Details {
	return schema.Details{
		{Key: "stars", Value: b.Meta.Stars},
		{Key: "forks", Value: b.Meta.Forks},
		{Key: "subscribers", Value: b.Meta.Subscribers},
		{Key: "open_issues", Value: b.Issues.Open},
		{Key: "closed_issues", Value: b.Issues.Closed},
		{Key: "has_issues", Value: b.Issues.Open+b.Issues.Closed > 0},
		{Key: "issue_close_ratio", Value: b.Issues.CloseRatio},
		{Key: "has_contributing", Value: b.Files.Contributing},
	}
}

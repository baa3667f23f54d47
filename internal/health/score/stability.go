package score

import (
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// Recency windows for the last push.
const (
	recentPushDays = 30
	activePushDays = 180
)

// stability grades release discipline, CI presence and recent activity.
//
// Scoring:
//   - Releases or tags exist: +25
//   - More than 5 releases or tags: +15
//   - Workflows exist: +20, more than one: +10
//   - Last push within 30 days: +30, within 180 days: +20, otherwise: +5
var stability = pillar{
	name:  schema.PillarStability,
	facts: stabilityFacts,
	checks: []check{
		when(anyOf(isTrue("has_releases"), isTrue("has_tags")), 25),
		when(anyOf(greaterThan("release_count", 5), greaterThan("tag_count", 5)), 15),
		when(isTrue("has_workflows"), 20),
		when(greaterThan("workflow_count", 1), 10),
		firstMatch(
			tier{isTrue("pushed_within_month"), 30},
			tier{isTrue("pushed_within_six_months"), 20},
			tier{always, 5},
		),
	},
}

func stabilityFacts(b *schema.SignalBundle, now time.Time) schema.Details {
	days := -1
	lastPush := ""
	if !b.Meta.PushedAt.IsZero() {
		days = int(now.Sub(b.Meta.PushedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		lastPush = b.Meta.PushedAt.UTC().Format(time.RFC3339)
	}

	return schema.Details{
		{Key: "has_releases", Value: b.Releases.Exists || b.Releases.Count > 0},
		{Key: "release_count", Value: b.Releases.Count},
		{Key: "latest_release", Value: b.Releases.LatestTag},
		{Key: "has_tags", Value: b.Tags.Exists || b.Tags.Count > 0},
		{Key: "tag_count", Value: b.Tags.Count},
		{Key: "has_workflows", Value: b.Workflows.Exists || b.Workflows.Count > 0},
		{Key: "workflow_count", Value: b.Workflows.Count},
		{Key: "last_push", Value: lastPush},
		{Key: "days_since_push", Value: days},
		{Key: "pushed_within_month", Value: days >= 0 && days <= recentPushDays},
		{Key: "pushed_within_six_months", Value: days >= 0 && days <= activePushDays},
	}
}

package score

import (
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// automation grades CI coverage and contribution tooling.
//
// Scoring:
//   - 3+ workflows: +30, 1-2 workflows: +20
//   - Pull request template: +20
//   - Issue template: +20
//   - Release automation config: +15
//   - Code of conduct: +15
var automation = pillar{
	name:  schema.PillarAutomation,
	facts: automationFacts,
	checks: []check{
		firstMatch(
			tier{atLeast("workflow_count", 3), 30},
			tier{atLeast("workflow_count", 1), 20},
		),
		when(isTrue("has_pr_template"), 20),
		when(isTrue("has_issue_template"), 20),
		when(isTrue("has_release_automation"), 15),
		when(isTrue("has_code_of_conduct"), 15),
	},
}

func automationFacts(b *schema.SignalBundle, _ time.Time) schema.Details {
	return schema.Details{
		{Key: "workflow_count", Value: b.Workflows.Count},
		{Key: "has_pr_template", Value: b.Files.PRTemplate},
		{Key: "has_issue_template", Value: b.Files.IssueTemplate},
		{Key: "has_release_automation", Value: b.Files.ReleaseAutomation},
		{Key: "has_code_of_conduct", Value: b.Files.CodeOfConduct},
	}
}

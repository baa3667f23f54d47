package score

import (
	"sort"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// rule emits rec when its condition holds over the pillar's details.
type rule struct {
	when cond
	rec  schema.Recommendation
}

// ruleSet is the ordered rule list of one pillar.
type ruleSet struct {
	pillar schema.Pillar
	rules  []rule
}

func rec(p schema.Pillar, prio schema.Priority, issue, action, impact string) schema.Recommendation {
	return schema.Recommendation{
		Priority: prio,
		Category: p.Title(),
		Issue:    issue,
		Action:   action,
		Impact:   impact,
	}
}

// recommendations are evaluated in this pillar order. Generation order is
// the tie-break between recommendations of equal priority.
var recommendations = []ruleSet{
	{schema.PillarReadability, []rule{
		{isFalse("readme_exists"), rec(schema.PillarReadability, schema.PriorityCritical,
			"Missing README.md",
			"Add a README.md describing what the project does, how to install it and how to use it",
			"+20 points")},
		// The remaining README checks only apply once a README exists.
		{all(isTrue("readme_exists"), isFalse("has_installation")), rec(schema.PillarReadability, schema.PriorityMedium,
			"README lacks installation instructions",
			"Add an Installation section with the commands needed to install the project",
			"+15 points")},
		{all(isTrue("readme_exists"), isFalse("has_usage")), rec(schema.PillarReadability, schema.PriorityMedium,
			"README lacks usage examples",
			"Add a Usage or Getting Started section with a minimal working example",
			"+15 points")},
	}},
	{schema.PillarSecurity, []rule{
		{isFalse("has_license"), rec(schema.PillarSecurity, schema.PriorityCritical,
			"Missing LICENSE",
			"Add a LICENSE file; a permissive license such as MIT or Apache-2.0 scores highest",
			"+32 points")},
		{isFalse("has_security_policy"), rec(schema.PillarSecurity, schema.PriorityCritical,
			"Missing SECURITY.md",
			"Add a SECURITY.md explaining how to report vulnerabilities",
			"+30 points")},
		{isFalse("has_dependabot"), rec(schema.PillarSecurity, schema.PriorityMedium,
			"Dependabot not configured",
			"Add .github/dependabot.yml to keep dependencies up to date",
			"+30 points")},
	}},
	{schema.PillarMaintainability, []rule{
		{isFalse("has_tests"), rec(schema.PillarMaintainability, schema.PriorityCritical,
			"No test directory found",
			"Add automated tests under a test/ or tests/ directory",
			"+50 points")},
		{isFalse("has_linter"), rec(schema.PillarMaintainability, schema.PriorityMedium,
			"No linter configuration",
			"Commit a linter configuration (for example .golangci.yml or .eslintrc) and run it in CI",
			"+50 points")},
	}},
	{schema.PillarDocumentation, []rule{
		{isFalse("has_docs"), rec(schema.PillarDocumentation, schema.PriorityMedium,
			"No docs/ folder",
			"Create a docs/ folder for guides and reference material",
			"+25 points")},
		{isFalse("has_changelog"), rec(schema.PillarDocumentation, schema.PriorityMedium,
			"Missing CHANGELOG",
			"Add a CHANGELOG.md recording notable changes per release",
			"+25 points")},
		{isFalse("has_examples"), rec(schema.PillarDocumentation, schema.PriorityNiceToHave,
			"No examples directory",
			"Add an examples/ directory with runnable samples",
			"+25 points")},
		{isFalse("has_wiki"), rec(schema.PillarDocumentation, schema.PriorityNiceToHave,
			"Wiki disabled",
			"Enable the repository wiki for long-form documentation",
			"+15 points")},
		{isFalse("has_api_docs"), rec(schema.PillarDocumentation, schema.PriorityNiceToHave,
			"No API documentation",
			"Publish API reference docs (API.md or docs/api/)",
			"+10 points")},
	}},
	{schema.PillarAutomation, []rule{
		{below("workflow_count", 1), rec(schema.PillarAutomation, schema.PriorityCritical,
			"No CI/CD workflows",
			"Add a GitHub Actions workflow that builds and tests every push",
			"+20 points")},
		{isFalse("has_pr_template"), rec(schema.PillarAutomation, schema.PriorityNiceToHave,
			"Missing pull request template",
			"Add .github/PULL_REQUEST_TEMPLATE.md",
			"+20 points")},
		{isFalse("has_issue_template"), rec(schema.PillarAutomation, schema.PriorityNiceToHave,
			"Missing issue templates",
			"Add issue templates under .github/ISSUE_TEMPLATE/",
			"+20 points")},
		{isFalse("has_release_automation"), rec(schema.PillarAutomation, schema.PriorityNiceToHave,
			"No release automation",
			"Configure release tooling such as release-please, semantic-release or GoReleaser",
			"+15 points")},
		{isFalse("has_code_of_conduct"), rec(schema.PillarAutomation, schema.PriorityNiceToHave,
			"Missing CODE_OF_CONDUCT.md",
			"Adopt a code of conduct such as the Contributor Covenant",
			"+15 points")},
	}},
	{schema.PillarCommunity, []rule{
		{isFalse("has_contributing"), rec(schema.PillarCommunity, schema.PriorityMedium,
			"Missing CONTRIBUTING.md",
			"Add a CONTRIBUTING.md describing how to propose changes",
			"+30 points")},
		{all(isTrue("has_issues"), below("issue_close_ratio", 30)), rec(schema.PillarCommunity, schema.PriorityNiceToHave,
			"Low issue close ratio",
			"Triage open issues and close resolved or stale ones",
			"+10-30 points")},
	}},
	{schema.PillarStability, []rule{
		{all(isFalse("has_releases"), isFalse("has_tags")), rec(schema.PillarStability, schema.PriorityMedium,
			"No releases or tags",
			"Tag versions and publish GitHub releases",
			"+25 points")},
		{isFalse("has_workflows"), rec(schema.PillarStability, schema.PriorityCritical,
			"No CI/CD workflows",
			"Add a GitHub Actions workflow that builds and tests every push",
			"+20 points")},
		{isFalse("pushed_within_six_months"), rec(schema.PillarStability, schema.PriorityMedium,
			"Repository appears inactive",
			"Push maintenance updates or mark the repository as archived",
			"+25 points")},
	}},
}

// Recommend evaluates every rule against the pillar details, drops repeated
// issues (first occurrence wins) and stably sorts by priority rank.
func Recommend(pillars map[schema.Pillar]schema.PillarResult) []schema.Recommendation {
	out := make([]schema.Recommendation, 0)
	seen := make(map[string]bool)

	for _, set := range recommendations {
		details := pillars[set.pillar].Details
		for _, r := range set.rules {
			if !r.when(details) {
				continue
			}
			if seen[r.rec.Issue] {
				continue
			}
			seen[r.rec.Issue] = true
			out = append(out, r.rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// Rules returns every recommendation the engine can emit, in evaluation
// order, including duplicates that Recommend would collapse.
func Rules() []schema.Recommendation {
	var out []schema.Recommendation
	for _, set := range recommendations {
		for _, r := range set.rules {
			out = append(out, r.rec)
		}
	}
	return out
}

package score

import (
	"testing"

	"github.com/build-flow-labs/repohealth/health/schema"
)

func issues(recs []schema.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Issue
	}
	return out
}

func TestRecommendEmptyBundle(t *testing.T) {
	r, err := Evaluate(emptyBundle())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		// Critical, in pillar evaluation order
		"Missing README.md",
		"Missing LICENSE",
		"Missing SECURITY.md",
		"No test directory found",
		"No CI/CD workflows",
		// Medium
		"Dependabot not configured",
		"No linter configuration",
		"No docs/ folder",
		"Missing CHANGELOG",
		"Missing CONTRIBUTING.md",
		"No releases or tags",
		"Repository appears inactive",
		// Nice-to-have
		"No examples directory",
		"Wiki disabled",
		"No API documentation",
		"Missing pull request template",
		"Missing issue templates",
		"No release automation",
		"Missing CODE_OF_CONDUCT.md",
	}

	got := issues(r.Recommendations)
	if len(got) != len(want) {
		t.Fatalf("got %d recommendations, want %d:\n%v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recommendation[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if r.RecommendationCount != len(want) {
		t.Errorf("RecommendationCount = %d, want %d", r.RecommendationCount, len(want))
	}
}

func TestRecommendSortedByPriority(t *testing.T) {
	r, err := Evaluate(emptyBundle())
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(r.Recommendations); i++ {
		prev, cur := r.Recommendations[i-1], r.Recommendations[i]
		if cur.Priority.Rank() < prev.Priority.Rank() {
			t.Errorf("%q (%s) sorted after %q (%s)", cur.Issue, cur.Priority, prev.Issue, prev.Priority)
		}
	}
}

func TestRecommendMissingReadmeSingleEntry(t *testing.T) {
	b := emptyBundle()
	r, err := Evaluate(b)
	if err != nil {
		t.Fatal(err)
	}

	if got := r.Pillar(schema.PillarReadability).Score; got != 0 {
		t.Errorf("readability score = %d, want 0", got)
	}

	var readability []schema.Recommendation
	for _, rec := range r.Recommendations {
		if rec.Category == "Readability" {
			readability = append(readability, rec)
		}
	}
	if len(readability) != 1 {
		t.Fatalf("got %d readability recommendations, want 1: %v", len(readability), issues(readability))
	}
	if readability[0].Issue != "Missing README.md" || readability[0].Priority != schema.PriorityCritical {
		t.Errorf("got %+v, want critical Missing README.md", readability[0])
	}
}

func TestRecommendReadmeSubChecks(t *testing.T) {
	b := healthyBundle()
	b.Readme = schema.ReadmeSignal{Exists: true, Content: "# project", Length: 9}

	r, err := Evaluate(b)
	if err != nil {
		t.Fatal(err)
	}
	got := issues(r.Recommendations)
	want := []string{"README lacks installation instructions", "README lacks usage examples"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recommendation[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecommendHealthyBundle(t *testing.T) {
	r, err := Evaluate(healthyBundle())
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", issues(r.Recommendations))
	}
	if r.Recommendations == nil {
		t.Error("Recommendations should be an empty slice, not nil")
	}
}

func TestRecommendDeduplicatesWorkflows(t *testing.T) {
	b := healthyBundle()
	b.Workflows = schema.CountSignal{}

	r, err := Evaluate(b)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, rec := range r.Recommendations {
		if rec.Issue == "No CI/CD workflows" {
			count++
			if rec.Category != "Automation" {
				t.Errorf("kept category %q, want Automation (first occurrence)", rec.Category)
			}
		}
	}
	if count != 1 {
		t.Errorf("No CI/CD workflows appears %d times, want 1", count)
	}
}

func TestRecommendLowCloseRatio(t *testing.T) {
	tests := []struct {
		name         string
		open, closed int
		want         bool
	}{
		{"no issues at all", 0, 0, false},
		{"ratio 20", 80, 20, true},
		{"ratio 30", 70, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := healthyBundle()
			b.Issues = schema.NewIssueStats(tt.open, tt.closed)
			r, err := Evaluate(b)
			if err != nil {
				t.Fatal(err)
			}
			found := false
			for _, rec := range r.Recommendations {
				if rec.Issue == "Low issue close ratio" {
					found = true
				}
			}
			if found != tt.want {
				t.Errorf("low ratio recommendation present = %v, want %v", found, tt.want)
			}
		})
	}
}

func TestRecommendStablePriorityTies(t *testing.T) {
	b := healthyBundle()
	b.Files.Dependabot = false   // Security, Medium
	b.Files.LinterConfig = false // Maintainability, Medium
	b.Files.Contributing = false // Community, Medium
	b.Files.TestDir = false      // Maintainability, Critical

	r, err := Evaluate(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"No test directory found",
		"Dependabot not configured",
		"No linter configuration",
		"Missing CONTRIBUTING.md",
	}
	got := issues(r.Recommendations)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recommendation[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRulesCoverEveryPillar(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range Rules() {
		seen[r.Category] = true
		if r.Impact == "" || r.Action == "" {
			t.Errorf("rule %q missing impact or action", r.Issue)
		}
	}
	for _, p := range schema.Pillars {
		if !seen[p.Title()] {
			t.Errorf("no rules for %s", p)
		}
	}
}

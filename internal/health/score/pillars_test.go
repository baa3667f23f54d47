package score

import (
	"strings"
	"testing"
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

func TestScoreReadability(t *testing.T) {
	tests := []struct {
		name   string
		readme schema.ReadmeSignal
		desc   string
		want   int
	}{
		{
			name: "no readme no description",
			want: 0,
		},
		{
			name: "description only",
			desc: "Tools for scoring repositories",
			want: 30,
		},
		{
			name: "short description ignored",
			desc: "tiny tool",
			want: 0,
		},
		{
			name: "multibyte description counted in characters",
			desc: "ñññññññ",
			want: 0,
		},
		{
			name: "eleven multibyte characters",
			desc: "ñññññññññññ",
			want: 30,
		},
		{
			name: "padding counts toward description length",
			desc: "   tiny    ",
			want: 30,
		},
		{
			name:   "bare readme",
			readme: schema.ReadmeSignal{Exists: true, Content: "# hi", Length: 4},
			want:   20,
		},
		{
			name:   "medium readme with install",
			readme: schema.ReadmeSignal{Exists: true, Content: "Install with make", Length: 800},
			want:   20 + 10 + 15,
		},
		{
			name:   "long readme with getting started",
			readme: schema.ReadmeSignal{Exists: true, Content: "## Getting Started\nrun it", Length: 2500},
			want:   20 + 10 + 10 + 15,
		},
		{
			name:   "length derived from content",
			readme: schema.ReadmeSignal{Exists: true, Content: strings.Repeat("a", 600)},
			want:   20 + 10,
		},
		{
			name:   "derived length counts characters",
			readme: schema.ReadmeSignal{Exists: true, Content: strings.Repeat("é", 300)},
			want:   20,
		},
		{
			name:   "content ignored when readme missing",
			readme: schema.ReadmeSignal{Exists: false, Content: "installation usage", Length: 3000},
			want:   0,
		},
		{
			name:   "everything",
			readme: schema.ReadmeSignal{Exists: true, Content: "INSTALLATION\nUsage", Length: 2001},
			desc:   "A complete description",
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &schema.SignalBundle{Readme: tt.readme, Meta: schema.RepoMeta{Description: tt.desc}}
			got := readability.evaluate(b, collectedAt)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d (details=%v)", got.Score, tt.want, got.Details)
			}
		})
	}
}

func TestScoreStability(t *testing.T) {
	tests := []struct {
		name      string
		releases  schema.ReleaseSignal
		tags      schema.CountSignal
		workflows schema.CountSignal
		pushedAgo time.Duration
		want      int
	}{
		{
			name: "never pushed",
			want: 5,
		},
		{
			name:      "pushed last week",
			pushedAgo: 7 * 24 * time.Hour,
			want:      30,
		},
		{
			name:      "pushed three months ago",
			pushedAgo: 90 * 24 * time.Hour,
			want:      20,
		},
		{
			name:      "pushed two years ago",
			pushedAgo: 730 * 24 * time.Hour,
			want:      5,
		},
		{
			name:      "tags only",
			tags:      schema.CountSignal{Exists: true, Count: 3},
			pushedAgo: 400 * 24 * time.Hour,
			want:      25 + 5,
		},
		{
			name:      "many releases single workflow",
			releases:  schema.ReleaseSignal{Exists: true, Count: 6},
			workflows: schema.CountSignal{Exists: true, Count: 1},
			pushedAgo: 24 * time.Hour,
			want:      25 + 15 + 20 + 30,
		},
		{
			name:      "everything",
			releases:  schema.ReleaseSignal{Exists: true, Count: 20},
			tags:      schema.CountSignal{Exists: true, Count: 20},
			workflows: schema.CountSignal{Exists: true, Count: 2},
			pushedAgo: time.Hour,
			want:      100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &schema.SignalBundle{Releases: tt.releases, Tags: tt.tags, Workflows: tt.workflows}
			if tt.pushedAgo > 0 {
				b.Meta.PushedAt = collectedAt.Add(-tt.pushedAgo)
			}
			got := stability.evaluate(b, collectedAt)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d (details=%v)", got.Score, tt.want, got.Details)
			}
		})
	}
}

func TestScoreSecurity(t *testing.T) {
	tests := []struct {
		name       string
		license    *string
		policy     bool
		dependabot bool
		want       int
	}{
		{"no license", nil, false, false, 8},
		{"mit only", strPtr("MIT"), false, false, 40},
		{"gpl with security policy", strPtr("GPL-3.0"), true, false, 50},
		{"unknown license", strPtr("zlib"), false, true, 20 + 30},
		{"agpl everything", strPtr("AGPL-3.0"), true, true, 16 + 30 + 30},
		{"apache everything", strPtr("apache-2.0"), true, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &schema.SignalBundle{
				Meta:  schema.RepoMeta{License: tt.license},
				Files: schema.FileChecks{SecurityPolicy: tt.policy, Dependabot: tt.dependabot},
			}
			got := security.evaluate(b, collectedAt)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d (details=%v)", got.Score, tt.want, got.Details)
			}
		})
	}
}

// Stars and close ratio each award only their highest bracket; they are
// not cumulative across brackets the way independent checks are.
func TestScoreCommunityBrackets(t *testing.T) {
	tests := []struct {
		name         string
		stars        int
		open, closed int
		contributing bool
		want         int
	}{
		{"nothing", 0, 0, 0, false, 0},
		{"nine stars", 9, 0, 0, false, 0},
		{"ten stars", 10, 0, 0, false, 10},
		{"fifty stars", 50, 0, 0, false, 20},
		{"hundred stars", 100, 0, 0, false, 30},
		{"thousand stars", 1000, 0, 0, false, 40},
		{"huge star count capped at top bracket", 250000, 0, 0, false, 40},
		{"ratio 30", 0, 70, 30, false, 10},
		{"ratio 50", 0, 50, 50, false, 20},
		{"ratio 69", 0, 31, 69, false, 20},
		{"ratio 70", 0, 30, 70, false, 30},
		{"ratio 29", 0, 71, 29, false, 0},
		{"contributing only", 0, 0, 0, true, 30},
		{"scenario 1200 stars 75% contributing", 1200, 25, 75, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &schema.SignalBundle{
				Meta:   schema.RepoMeta{Stars: tt.stars},
				Issues: schema.NewIssueStats(tt.open, tt.closed),
				Files:  schema.FileChecks{Contributing: tt.contributing},
			}
			got := community.evaluate(b, collectedAt)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d (details=%v)", got.Score, tt.want, got.Details)
			}
		})
	}
}

func TestScoreMaintainability(t *testing.T) {
	tests := []struct {
		tests, linter bool
		want          int
	}{
		{false, false, 0},
		{true, false, 50},
		{false, true, 50},
		{true, true, 100},
	}

	for _, tt := range tests {
		b := &schema.SignalBundle{Files: schema.FileChecks{TestDir: tt.tests, LinterConfig: tt.linter}}
		got := maintainability.evaluate(b, collectedAt)
		if got.Score != tt.want {
			t.Errorf("tests=%v linter=%v: Score = %d, want %d", tt.tests, tt.linter, got.Score, tt.want)
		}
	}
}

func TestScoreDocumentation(t *testing.T) {
	tests := []struct {
		name  string
		files schema.FileChecks
		wiki  bool
		want  int
	}{
		{"nothing", schema.FileChecks{}, false, 0},
		{"wiki only", schema.FileChecks{}, true, 15},
		{"api docs only", schema.FileChecks{APIDocs: true}, false, 10},
		{"docs and changelog", schema.FileChecks{DocsDir: true, Changelog: true}, false, 50},
		{"everything", schema.FileChecks{DocsDir: true, Changelog: true, Examples: true, APIDocs: true}, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &schema.SignalBundle{Files: tt.files, Meta: schema.RepoMeta{HasWiki: tt.wiki}}
			got := documentation.evaluate(b, collectedAt)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestScoreAutomation(t *testing.T) {
	tests := []struct {
		name      string
		workflows int
		files     schema.FileChecks
		want      int
	}{
		{"nothing", 0, schema.FileChecks{}, 0},
		{"one workflow", 1, schema.FileChecks{}, 20},
		{"two workflows", 2, schema.FileChecks{}, 20},
		{"three workflows", 3, schema.FileChecks{}, 30},
		{"templates only", 0, schema.FileChecks{PRTemplate: true, IssueTemplate: true}, 40},
		{"everything", 5, schema.FileChecks{PRTemplate: true, IssueTemplate: true, ReleaseAutomation: true, CodeOfConduct: true}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &schema.SignalBundle{
				Workflows: schema.CountSignal{Exists: tt.workflows > 0, Count: tt.workflows},
				Files:     tt.files,
			}
			got := automation.evaluate(b, collectedAt)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestPillarDetailsRecorded(t *testing.T) {
	r, err := Evaluate(healthyBundle())
	if err != nil {
		t.Fatal(err)
	}

	want := map[schema.Pillar][]string{
		schema.PillarReadability:     {"readme_exists", "readme_length", "has_installation", "has_usage", "has_description", "description_length"},
		schema.PillarStability:       {"has_releases", "release_count", "has_tags", "tag_count", "has_workflows", "workflow_count", "days_since_push"},
		schema.PillarSecurity:        {"license", "license_score", "license_risk", "license_points", "has_security_policy", "has_dependabot"},
		schema.PillarCommunity:       {"stars", "issue_close_ratio", "has_contributing"},
		schema.PillarMaintainability: {"has_tests", "has_linter"},
		schema.PillarDocumentation:   {"has_docs", "has_changelog", "has_examples", "has_wiki", "has_api_docs"},
		schema.PillarAutomation:      {"workflow_count", "has_pr_template", "has_issue_template", "has_release_automation", "has_code_of_conduct"},
	}

	for p, keys := range want {
		details := r.Pillar(p).Details
		for _, k := range keys {
			if _, ok := details.Get(k); !ok {
				t.Errorf("%s details missing %q (have %v)", p, k, details.Keys())
			}
		}
		if w := r.Pillar(p).Weight; w != Weight(p) {
			t.Errorf("%s weight = %v, want %v", p, w, Weight(p))
		}
	}

	sec := r.Pillar(schema.PillarSecurity).Details
	if sec.String("license_risk") != "Low-Permissive" {
		t.Errorf("license_risk = %q, want Low-Permissive", sec.String("license_risk"))
	}
}

func TestEvaluateOrderIndependent(t *testing.T) {
	b := healthyBundle()
	b.Files.TestDir = false
	b.Meta.Stars = 75

	forward := make(map[schema.Pillar]schema.PillarResult)
	for _, c := range calculators {
		forward[c.name] = c.evaluate(b, collectedAt)
	}
	reverse := make(map[schema.Pillar]schema.PillarResult)
	for i := len(calculators) - 1; i >= 0; i-- {
		c := calculators[i]
		reverse[c.name] = c.evaluate(b, collectedAt)
	}

	if Total(forward) != Total(reverse) {
		t.Errorf("Total forward = %d, reverse = %d", Total(forward), Total(reverse))
	}
}

package score

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

var collectedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// healthyBundle satisfies every check of every pillar.
func healthyBundle() *schema.SignalBundle {
	return &schema.SignalBundle{
		Repository:  "acme/api",
		CollectedAt: collectedAt,
		Meta: schema.RepoMeta{
			Description: "A well maintained API server",
			License:     strPtr("MIT"),
			PushedAt:    collectedAt.Add(-48 * time.Hour),
			Stars:       2500,
			HasWiki:     true,
		},
		Readme: schema.ReadmeSignal{
			Exists:  true,
			Content: "## Installation\n\ngo install ./...\n\n## Usage\n\nrun it\n" + strings.Repeat("x", 2100),
			Length:  2200,
		},
		Releases:  schema.ReleaseSignal{Exists: true, Count: 12, LatestTag: "v1.4.0"},
		Tags:      schema.CountSignal{Exists: true, Count: 12},
		Workflows: schema.CountSignal{Exists: true, Count: 4},
		Issues:    schema.NewIssueStats(10, 90),
		Files: schema.FileChecks{
			SecurityPolicy:    true,
			Dependabot:        true,
			Contributing:      true,
			LinterConfig:      true,
			TestDir:           true,
			DocsDir:           true,
			Changelog:         true,
			Examples:          true,
			APIDocs:           true,
			PRTemplate:        true,
			IssueTemplate:     true,
			ReleaseAutomation: true,
			CodeOfConduct:     true,
		},
	}
}

// emptyBundle has every flag false and every count zero.
func emptyBundle() *schema.SignalBundle {
	return &schema.SignalBundle{CollectedAt: collectedAt}
}

func TestEvaluateComposite(t *testing.T) {
	tests := []struct {
		name      string
		bundle    *schema.SignalBundle
		wantTotal int
		wantGrade schema.Grade
		wantRisk  schema.RiskLevel
	}{
		{
			name:      "everything present",
			bundle:    healthyBundle(),
			wantTotal: 100,
			wantGrade: schema.GradeAPlus,
			wantRisk:  schema.RiskLow,
		},
		{
			// stability 5 (stale fallback) and security 8 (no license)
			name:      "nothing present",
			bundle:    emptyBundle(),
			wantTotal: 2,
			wantGrade: schema.GradeF,
			wantRisk:  schema.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Evaluate(tt.bundle)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if r.TotalScore != tt.wantTotal {
				t.Errorf("TotalScore = %d, want %d", r.TotalScore, tt.wantTotal)
			}
			if r.Grade != tt.wantGrade {
				t.Errorf("Grade = %q, want %q", r.Grade, tt.wantGrade)
			}
			if r.RiskLevel != tt.wantRisk {
				t.Errorf("RiskLevel = %q, want %q", r.RiskLevel, tt.wantRisk)
			}
			if len(r.Pillars) != 7 {
				t.Errorf("len(Pillars) = %d, want 7", len(r.Pillars))
			}
			if r.RecommendationCount != len(r.Recommendations) {
				t.Errorf("RecommendationCount = %d, len = %d", r.RecommendationCount, len(r.Recommendations))
			}
			if !r.GeneratedAt.Equal(collectedAt) {
				t.Errorf("GeneratedAt = %v, want %v", r.GeneratedAt, collectedAt)
			}
		})
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	if sum != 100 {
		t.Errorf("weights sum to %d/100, want 100/100", sum)
	}
	if len(Weights()) != len(schema.Pillars) {
		t.Errorf("Weights() has %d pillars, want %d", len(Weights()), len(schema.Pillars))
	}
}

func TestTotalAllEighty(t *testing.T) {
	pillars := make(map[schema.Pillar]schema.PillarResult)
	for _, p := range schema.Pillars {
		pillars[p] = schema.PillarResult{Score: 80}
	}
	total := Total(pillars)
	if total != 80 {
		t.Errorf("Total = %d, want 80", total)
	}
	if g := Grade(total); g != schema.GradeA {
		t.Errorf("Grade = %q, want A", g)
	}
	if r := Risk(total); r != schema.RiskLow {
		t.Errorf("Risk = %q, want Low", r)
	}
}

func TestTotalRounding(t *testing.T) {
	// 15*.15 = 2.25 rounds to 2, 17*.15 = 2.55 rounds to 3
	tests := []struct {
		readability int
		want        int
	}{
		{15, 2},
		{17, 3},
		{10, 2}, // 1.5 rounds half up
	}
	for _, tt := range tests {
		got := Total(map[schema.Pillar]schema.PillarResult{
			schema.PillarReadability: {Score: tt.readability},
		})
		if got != tt.want {
			t.Errorf("Total(readability=%d) = %d, want %d", tt.readability, got, tt.want)
		}
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score int
		want  schema.Grade
	}{
		{100, schema.GradeAPlus},
		{90, schema.GradeAPlus},
		{89, schema.GradeA},
		{80, schema.GradeA},
		{79, schema.GradeB},
		{70, schema.GradeB},
		{69, schema.GradeC},
		{60, schema.GradeC},
		{59, schema.GradeD},
		{50, schema.GradeD},
		{49, schema.GradeF},
		{0, schema.GradeF},
	}

	for _, tt := range tests {
		if got := Grade(tt.score); got != tt.want {
			t.Errorf("Grade(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRisk(t *testing.T) {
	tests := []struct {
		score int
		want  schema.RiskLevel
	}{
		{100, schema.RiskLow},
		{80, schema.RiskLow},
		{79, schema.RiskMedium},
		{50, schema.RiskMedium},
		{49, schema.RiskHigh},
		{0, schema.RiskHigh},
	}

	for _, tt := range tests {
		if got := Risk(tt.score); got != tt.want {
			t.Errorf("Risk(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestGradeAndRiskMonotonic(t *testing.T) {
	gradeRank := map[schema.Grade]int{
		schema.GradeF: 0, schema.GradeD: 1, schema.GradeC: 2,
		schema.GradeB: 3, schema.GradeA: 4, schema.GradeAPlus: 5,
	}
	riskRank := map[schema.RiskLevel]int{
		schema.RiskHigh: 0, schema.RiskMedium: 1, schema.RiskLow: 2,
	}

	for s := 1; s <= 100; s++ {
		if gradeRank[Grade(s)] < gradeRank[Grade(s-1)] {
			t.Errorf("grade dropped from %q to %q at %d", Grade(s-1), Grade(s), s)
		}
		if riskRank[Risk(s)] < riskRank[Risk(s-1)] {
			t.Errorf("risk worsened from %q to %q at %d", Risk(s-1), Risk(s), s)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	b := healthyBundle()
	b.Files.Dependabot = false
	b.Files.Examples = false
	b.Readme.Content = "short"

	undated := healthyBundle()
	undated.CollectedAt = time.Time{}
	undated.Meta.PushedAt = time.Time{}

	bundles := map[string]*schema.SignalBundle{
		"collected":       b,
		"no collect time": undated,
		"empty":           {},
	}

	for name, b := range bundles {
		t.Run(name, func(t *testing.T) {
			first, err := Evaluate(b)
			if err != nil {
				t.Fatal(err)
			}
			want, err := json.Marshal(first)
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i < 20; i++ {
				r, err := Evaluate(b)
				if err != nil {
					t.Fatal(err)
				}
				got, err := json.Marshal(r)
				if err != nil {
					t.Fatal(err)
				}
				if string(got) != string(want) {
					t.Fatalf("run %d produced a different report:\n%s\nwant:\n%s", i, got, want)
				}
			}
		})
	}
}

func TestEvaluateUndatedBundleHasZeroGeneratedAt(t *testing.T) {
	r, err := Evaluate(&schema.SignalBundle{})
	if err != nil {
		t.Fatal(err)
	}
	if !r.GeneratedAt.IsZero() {
		t.Errorf("GeneratedAt = %v, want zero", r.GeneratedAt)
	}
}

func TestEvaluateScoresInRange(t *testing.T) {
	bundles := []*schema.SignalBundle{healthyBundle(), emptyBundle()}

	over := healthyBundle()
	over.Meta.Stars = 1 << 30
	over.Releases.Count = 1 << 20
	over.Workflows.Count = 500
	bundles = append(bundles, over)

	for _, b := range bundles {
		r, err := Evaluate(b)
		if err != nil {
			t.Fatal(err)
		}
		if r.TotalScore < 0 || r.TotalScore > 100 {
			t.Errorf("TotalScore = %d out of range", r.TotalScore)
		}
		for p, pr := range r.Pillars {
			if pr.Score < 0 || pr.Score > 100 {
				t.Errorf("%s score = %d out of range", p, pr.Score)
			}
		}
	}
}

func TestEvaluateRejectsInvalidBundle(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *schema.SignalBundle)
		field  string
	}{
		{"negative stars", func(b *schema.SignalBundle) { b.Meta.Stars = -1 }, "Meta.Stars"},
		{"ratio over 100", func(b *schema.SignalBundle) { b.Issues.CloseRatio = 101 }, "Issues.CloseRatio"},
		{"negative workflows", func(b *schema.SignalBundle) { b.Workflows.Count = -3 }, "Workflows.Count"},
		{"negative readme length", func(b *schema.SignalBundle) { b.Readme.Length = -1 }, "Readme.Length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := healthyBundle()
			tt.mutate(b)
			r, err := Evaluate(b)
			if err == nil {
				t.Fatalf("expected validation error, got report %+v", r)
			}
			var verr *schema.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not *schema.ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestEvaluateNilBundle(t *testing.T) {
	if _, err := Evaluate(nil); err == nil {
		t.Fatal("expected error for nil bundle")
	}
}

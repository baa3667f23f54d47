package schema

import (
	"fmt"
	"time"
)

// Pillar names one of the seven scored health dimensions.
type Pillar string

const (
	PillarReadability     Pillar = "readability"
	PillarStability       Pillar = "stability"
	PillarSecurity        Pillar = "security"
	PillarCommunity       Pillar = "community"
	PillarMaintainability Pillar = "maintainability"
	PillarDocumentation   Pillar = "documentation"
	PillarAutomation      Pillar = "automation"
)

// Pillars lists every pillar in display order.
var Pillars = []Pillar{
	PillarReadability,
	PillarStability,
	PillarSecurity,
	PillarCommunity,
	PillarMaintainability,
	PillarDocumentation,
	PillarAutomation,
}

// Title returns the capitalised pillar name used in recommendations.
func (p Pillar) Title() string {
	switch p {
	case PillarReadability:
		return "Readability"
	case PillarStability:
		return "Stability"
	case PillarSecurity:
		return "Security"
	case PillarCommunity:
		return "Community"
	case PillarMaintainability:
		return "Maintainability"
	case PillarDocumentation:
		return "Documentation"
	case PillarAutomation:
		return "Automation"
	}
	return string(p)
}

// Priority is the urgency of a recommendation. Lower rank sorts first.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityMedium
	PriorityNiceToHave
)

var priorityNames = [...]string{
	PriorityCritical:   "Critical",
	PriorityMedium:     "Medium",
	PriorityNiceToHave: "Nice-to-have",
}

// Rank returns the sort rank of the priority.
func (p Priority) Rank() int { return int(p) }

func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// MarshalText encodes the priority as its display name.
func (p Priority) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(priorityNames) {
		return nil, fmt.Errorf("unknown priority %d", int(p))
	}
	return []byte(priorityNames[p]), nil
}

// UnmarshalText parses a display name back into a priority.
func (p *Priority) UnmarshalText(text []byte) error {
	for i, name := range priorityNames {
		if name == string(text) {
			*p = Priority(i)
			return nil
		}
	}
	return fmt.Errorf("unknown priority %q", text)
}

// Grade is the letter grade of a total score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// RiskLevel is the coarse banding of a total score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// PillarResult is the outcome of one pillar calculator.
type PillarResult struct {
	Score   int     `json:"score" yaml:"score"`
	Weight  float64 `json:"weight" yaml:"weight"`
	Details Details `json:"details" yaml:"details"`
}

// Recommendation is a remediation suggestion tied to a missing or weak signal.
type Recommendation struct {
	Priority Priority `json:"priority" yaml:"priority"`
	Category string   `json:"category" yaml:"category"`
	Issue    string   `json:"issue" yaml:"issue"`
	Action   string   `json:"action" yaml:"action"`
	Impact   string   `json:"impact" yaml:"impact"`
}

// HealthReport is the complete scoring outcome for one repository.
type HealthReport struct {
	Repository          string                  `json:"repository,omitempty" yaml:"repository,omitempty"`
	GeneratedAt         time.Time               `json:"generated_at" yaml:"generated_at"`
	TotalScore          int                     `json:"total_score" yaml:"total_score"`
	Grade               Grade                   `json:"grade" yaml:"grade"`
	RiskLevel           RiskLevel               `json:"risk_level" yaml:"risk_level"`
	Pillars             map[Pillar]PillarResult `json:"pillars" yaml:"pillars"`
	Recommendations     []Recommendation        `json:"recommendations" yaml:"recommendations"`
	RecommendationCount int                     `json:"recommendation_count" yaml:"recommendation_count"`
}

// Pillar returns the result for p.
func (r *HealthReport) Pillar(p Pillar) PillarResult {
	return r.Pillars[p]
}

// CountByPriority tallies recommendations per priority.
func (r *HealthReport) CountByPriority() map[Priority]int {
	counts := make(map[Priority]int, len(priorityNames))
	for _, rec := range r.Recommendations {
		counts[rec.Priority]++
	}
	return counts
}

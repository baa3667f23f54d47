// Package license classifies a repository license identifier by risk.
package license

import "strings"

// RiskLabel is the coarse risk band of a license.
type RiskLabel string

const (
	RiskLow    RiskLabel = "Low-Permissive"
	RiskMedium RiskLabel = "Medium-Copyleft"
	RiskHigh   RiskLabel = "High-Restrictive/None"
)

// Scores used outside the table.
const (
	NoLicenseScore = 20
	UnknownScore   = 50
)

// Classification is the outcome of Classify.
type Classification struct {
	ID    string    `json:"id,omitempty"`
	Score int       `json:"score"`
	Risk  RiskLabel `json:"risk"`
	Known bool      `json:"known"`
}

// scores maps lower-cased SPDX identifiers to a 0-100 risk score.
// Higher is more permissive.
var scores = map[string]int{
	"mit":          100,
	"apache-2.0":   100,
	"bsd-2-clause": 100,
	"bsd-3-clause": 100,
	"isc":          100,
	"unlicense":    90,
	"cc0-1.0":      90,
	"wtfpl":        85,
	"mpl-2.0":      75,
	"lgpl-2.1":     70,
	"lgpl-3.0":     70,
	"gpl-2.0":      50,
	"gpl-3.0":      50,
	"agpl-3.0":     40,
	"other":        30,
	"noassertion":  30, // GitHub's spelling of "other"
	"none":         NoLicenseScore,
}

// band maps a minimum score to a label. Evaluated top-down.
type band struct {
	min   int
	label RiskLabel
}

var bands = []band{
	{85, RiskLow},
	{60, RiskMedium},
	{0, RiskHigh},
}

// Label returns the risk band of a resolved table score.
func Label(score int) RiskLabel {
	for _, b := range bands {
		if score >= b.min {
			return b.label
		}
	}
	return RiskHigh
}

// Classify resolves a license identifier to a score and risk label.
//
//   - nil or blank: score 20, High
//   - known identifier (case-insensitive): table score, banded label
//   - any other identifier: score 50, Medium
func Classify(id *string) Classification {
	if id == nil || strings.TrimSpace(*id) == "" {
		return Classification{Score: NoLicenseScore, Risk: RiskHigh}
	}

	key := strings.ToLower(strings.TrimSpace(*id))
	score, ok := scores[key]
	if !ok {
		return Classification{ID: *id, Score: UnknownScore, Risk: RiskMedium}
	}
	return Classification{ID: *id, Score: score, Risk: Label(score), Known: true}
}

// ClassifyString is Classify for callers holding a plain string.
func ClassifyString(id string) Classification {
	return Classify(&id)
}

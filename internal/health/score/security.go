package score

import (
	"math"
	"strings"
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
	"github.com/build-flow-labs/repohealth/internal/health/license"
)

// licenseFactor scales the license risk score into security points.
const licenseFactor = 0.4

// security grades license clarity and vulnerability hygiene.
//
// Scoring:
//   - License risk score x 0.4, rounded (MIT: 40, GPL-3.0: 20, none: 8)
//   - SECURITY.md present: +30
//   - Dependabot configured: +30
var security = pillar{
	name:  schema.PillarSecurity,
	facts: securityFacts,
	checks: []check{
		valueOf("license_points"),
		when(isTrue("has_security_policy"), 30),
		when(isTrue("has_dependabot"), 30),
	},
}

func securityFacts(b *schema.SignalBundle, _ time.Time) schema.Details {
	lc := license.Classify(b.Meta.License)

	return schema.Details{
		{Key: "license", Value: lc.ID},
		{Key: "has_license", Value: lc.ID != "" && !strings.EqualFold(lc.ID, "none")},
		{Key: "license_score", Value: lc.Score},
		{Key: "license_risk", Value: string(lc.Risk)},
		{Key: "license_points", Value: int(math.Round(float64(lc.Score) * licenseFactor))},
		{Key: "has_security_policy", Value: b.Files.SecurityPolicy},
		{Key: "has_dependabot", Value: b.Files.Dependabot},
	}
}

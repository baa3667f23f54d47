package score

import (
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// maintainability: test directory +50, linter configuration +50.
var maintainability = pillar{
	name:  schema.PillarMaintainability,
	facts: maintainabilityFacts,
	checks: []check{
		when(isTrue("has_tests"), 50),
		when(isTrue("has_linter"), 50),
	},
}

func maintainabilityFacts(b *schema.SignalBundle, _ time.Time) schema.Details {
	return schema.Details{
		{Key: "has_tests", Value: b.Files.TestDir},
		{Key: "has_linter", Value: b.Files.LinterConfig},
	}
}

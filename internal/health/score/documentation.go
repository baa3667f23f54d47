package score

import (
	"time"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// documentation grades material beyond the README.
//
// Scoring:
//   - docs/ folder: +25
//   - CHANGELOG, HISTORY or CHANGES: +25
//   - examples directory: +25
//   - wiki enabled: +15
//   - API docs (file or directory): +10
var documentation = pillar{
	name:  schema.PillarDocumentation,
	facts: documentationFacts,
	checks: []check{
		when(isTrue("has_docs"), 25),
		when(isTrue("has_changelog"), 25),
		when(isTrue("has_examples"), 25),
		when(isTrue("has_wiki"), 15),
		when(isTrue("has_api_docs"), 10),
	},
}

func documentationFacts(b *schema.SignalBundle, _ time.Time) schema.Details {
	return schema.Details{
		{Key: "has_docs", Value: b.Files.DocsDir},
		{Key: "has_changelog", Value: b.Files.Changelog},
		{Key: "has_examples", Value: b.Files.Examples},
		{Key: "has_wiki", Value: b.Meta.HasWiki},
		{Key: "has_api_docs", Value: b.Files.APIDocs},
	}
}

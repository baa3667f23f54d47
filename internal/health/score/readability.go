package score

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/build-flow-labs/repohealth/health/schema"
)

var (
	installRe = regexp.MustCompile(`(?i)install`)
	usageRe   = regexp.MustCompile(`(?i)usage|getting[\s_-]*started`)
)

// readability grades how approachable the repository is to a newcomer.
//
// Scoring:
//   - README exists: +20
//   - README longer than 500 characters: +10, longer than 2000: +10 more
//   - README mentions installation: +15
//   - README mentions usage or getting started: +15
//   - Description longer than 10 characters: +30
var readability = pillar{
	name:  schema.PillarReadability,
	facts: readabilityFacts,
	checks: []check{
		when(isTrue("readme_exists"), 20),
		when(greaterThan("readme_length", 500), 10),
		when(greaterThan("readme_length", 2000), 10),
		when(isTrue("has_installation"), 15),
		when(isTrue("has_usage"), 15),
		when(greaterThan("description_length", 10), 30),
	},
}

func readabilityFacts(b *schema.SignalBundle, _ time.Time) schema.Details {
	readme := b.Readme
	length := 0
	if readme.Exists {
		length = readme.Length
		if length == 0 {
			length = utf8.RuneCountInString(readme.Content)
		}
	}
	desc := b.Meta.Description

	return schema.Details{
		{Key: "readme_exists", Value: readme.Exists},
		{Key: "readme_length", Value: length},
		{Key: "has_installation", Value: readme.Exists && installRe.MatchString(readme.Content)},
		{Key: "has_usage", Value: readme.Exists && usageRe.MatchString(readme.Content)},
		{Key: "has_description", Value: desc != ""},
		{Key: "description_length", Value: utf8.RuneCountInString(desc)},
	}
}

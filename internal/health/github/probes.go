package github

import (
	"path"
	"strings"

	"github.com/build-flow-labs/repohealth/health/schema"
)

// listedDirs are the directories whose listings feed the file probes.
// "" is the repository root.
var listedDirs = []string{"", ".github", "docs"}

// probe sets one FileChecks flag when any candidate matches. Candidates are
// lower-case path.Match patterns; a trailing slash means a directory.
// Every candidate lives in one of listedDirs.
type probe struct {
	name       string
	candidates []string
	set        func(*schema.FileChecks)
}

var probes = []probe{
	{"security_md", []string{"security.md", ".github/security.md", "docs/security.md"},
		func(f *schema.FileChecks) { f.SecurityPolicy = true }},
	{"dependabot", []string{".github/dependabot.yml", ".github/dependabot.yaml"},
		func(f *schema.FileChecks) { f.Dependabot = true }},
	{"contributing", []string{"contributing", "contributing.*", ".github/contributing.*", "docs/contributing.*"},
		func(f *schema.FileChecks) { f.Contributing = true }},
	{"test_dir", []string{"test/", "tests/", "__tests__/", "spec/", "testing/", "*_test.go"},
		func(f *schema.FileChecks) { f.TestDir = true }},
	{"docs_dir", []string{"docs/", "doc/", "documentation/"},
		func(f *schema.FileChecks) { f.DocsDir = true }},
	{"changelog", []string{"changelog", "changelog.*", "history", "history.*", "changes", "changes.*"},
		func(f *schema.FileChecks) { f.Changelog = true }},
	{"examples", []string{"examples/", "example/", "_examples/"},
		func(f *schema.FileChecks) { f.Examples = true }},
	{"api_docs", []string{"api.md", "api-docs/", "apidocs/", "docs/api/", "docs/api.md", "docs/reference/",
		"openapi.yaml", "openapi.yml", "openapi.json", "swagger.yaml", "swagger.yml", "swagger.json"},
		func(f *schema.FileChecks) { f.APIDocs = true }},
	{"pr_template", []string{"pull_request_template.md", ".github/pull_request_template.md",
		".github/pull_request_template/", "docs/pull_request_template.md"},
		func(f *schema.FileChecks) { f.PRTemplate = true }},
	{"issue_template", []string{"issue_template.md", ".github/issue_template.md", ".github/issue_template/"},
		func(f *schema.FileChecks) { f.IssueTemplate = true }},
	{"release_automation", []string{".goreleaser.yml", ".goreleaser.yaml", ".releaserc", ".releaserc.*",
		"release.config.js", "release-please-config.json", ".release-please-manifest.json",
		".github/release.yml", ".github/release.yaml", ".changeset/"},
		func(f *schema.FileChecks) { f.ReleaseAutomation = true }},
	{"code_of_conduct", []string{"code_of_conduct.md", ".github/code_of_conduct.md", "docs/code_of_conduct.md"},
		func(f *schema.FileChecks) { f.CodeOfConduct = true }},
}

// languageLinters maps GitHub language names to linter config files.
var languageLinters = map[string][]string{
	"Go":         {".golangci.yml", ".golangci.yaml", ".golangci.toml", ".golangci.json"},
	"JavaScript": {".eslintrc", ".eslintrc.*", "eslint.config.*", "biome.json", ".prettierrc*"},
	"TypeScript": {".eslintrc", ".eslintrc.*", "eslint.config.*", "biome.json", "tslint.json", ".prettierrc*"},
	"Python":     {".pylintrc", "pylintrc", ".flake8", "ruff.toml", ".ruff.toml", "mypy.ini", ".mypy.ini"},
	"Ruby":       {".rubocop.yml", ".rubocop.yaml", ".standard.yml"},
	"Rust":       {"clippy.toml", ".clippy.toml", "rustfmt.toml", ".rustfmt.toml"},
	"Java":       {"checkstyle.xml", "pmd.xml", "spotbugs.xml"},
	"Kotlin":     {"detekt.yml", "detekt.yaml"},
	"Scala":      {".scalafmt.conf", ".scalafix.conf"},
	"PHP":        {"phpcs.xml", "phpcs.xml.dist", ".php-cs-fixer.php", ".php-cs-fixer.dist.php", "phpstan.neon"},
	"C#":         {"stylecop.json"},
	"Swift":      {".swiftlint.yml"},
	"Shell":      {".shellcheckrc"},
	"Dockerfile": {".hadolint.yaml", ".hadolint.yml"},
}

// universalLinters count regardless of language.
var universalLinters = []string{
	".pre-commit-config.yaml",
	".megalinter.yml",
	".mega-linter.yml",
	".github/linters/",
}

// linterCandidates narrows the linter configs to the repository language.
// Unknown or empty languages get every known candidate, so a repository
// is never penalised for a language missing from the map.
func linterCandidates(language string) []string {
	candidates := append([]string(nil), universalLinters...)
	if files, ok := languageLinters[language]; ok {
		return append(candidates, files...)
	}
	for _, files := range languageLinters {
		candidates = append(candidates, files...)
	}
	return candidates
}

// pathIndex is the set of lower-cased paths seen in directory listings.
// Directories carry a trailing slash.
type pathIndex map[string]bool

func newPathIndex(listings ...[]string) pathIndex {
	idx := make(pathIndex)
	for _, l := range listings {
		for _, p := range l {
			idx[strings.ToLower(p)] = true
		}
	}
	return idx
}

// match reports whether any candidate pattern matches an indexed path.
func (idx pathIndex) match(candidates []string) bool {
	for _, c := range candidates {
		if idx[c] {
			return true
		}
		if !strings.ContainsAny(c, "*?[") {
			continue
		}
		for p := range idx {
			if ok, _ := path.Match(c, p); ok {
				return true
			}
		}
	}
	return false
}

// resolveFiles evaluates every probe against the index.
func resolveFiles(idx pathIndex, language string) schema.FileChecks {
	var files schema.FileChecks
	for _, p := range probes {
		if idx.match(p.candidates) {
			p.set(&files)
		}
	}
	files.LinterConfig = idx.match(linterCandidates(language))
	return files
}

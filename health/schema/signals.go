// Package schema defines the repository health document types shared by the
// scoring engine, the signal collector and the report renderers.
//
// A SignalBundle is everything that was observed about a repository. A
// HealthReport is everything the engine concluded from it. Both are plain
// data: they marshal to JSON and YAML without custom wiring beyond Details.
package schema

import (
	"math"
	"time"
)

// Version is the schema version stamped into stored reports.
const Version = "1.0.0"

// SignalBundle is the fully pre-fetched input to the scoring engine.
// Every field has a safe zero value, so a probe that failed upstream simply
// leaves its signal empty.
type SignalBundle struct {
	Repository  string        `json:"repository,omitempty" yaml:"repository,omitempty"`
	CollectedAt time.Time     `json:"collected_at" yaml:"collected_at"`
	Meta        RepoMeta      `json:"repo_meta" yaml:"repo_meta"`
	Readme      ReadmeSignal  `json:"readme" yaml:"readme"`
	Releases    ReleaseSignal `json:"releases" yaml:"releases"`
	Tags        CountSignal   `json:"tags" yaml:"tags"`
	Workflows   CountSignal   `json:"workflows" yaml:"workflows"`
	Issues      IssueStats    `json:"issue_stats" yaml:"issue_stats"`
	Files       FileChecks    `json:"file_checks" yaml:"file_checks"`
}

// RepoMeta holds repository-level metadata.
type RepoMeta struct {
	Description   string    `json:"description" yaml:"description"`
	License       *string   `json:"license" yaml:"license"`
	PushedAt      time.Time `json:"pushed_at" yaml:"pushed_at"`
	Stars         int       `json:"stars" yaml:"stars" validate:"gte=0"`
	Forks         int       `json:"forks" yaml:"forks" validate:"gte=0"`
	Subscribers   int       `json:"subscribers" yaml:"subscribers" validate:"gte=0"`
	OpenIssues    int       `json:"open_issues" yaml:"open_issues" validate:"gte=0"`
	HasWiki       bool      `json:"has_wiki" yaml:"has_wiki"`
	Language      string    `json:"language,omitempty" yaml:"language,omitempty"`
	DefaultBranch string    `json:"default_branch,omitempty" yaml:"default_branch,omitempty"`
}

// ReadmeSignal describes the repository README.
type ReadmeSignal struct {
	Exists  bool   `json:"exists" yaml:"exists"`
	Content string `json:"content" yaml:"content"`
	Length  int    `json:"length" yaml:"length" validate:"gte=0"`
}

// ReleaseSignal describes published releases.
type ReleaseSignal struct {
	Exists    bool   `json:"exists" yaml:"exists"`
	Count     int    `json:"count" yaml:"count" validate:"gte=0"`
	LatestTag string `json:"latest_tag,omitempty" yaml:"latest_tag,omitempty"`
}

// CountSignal is an existence flag paired with a count (tags, workflows).
type CountSignal struct {
	Exists bool `json:"exists" yaml:"exists"`
	Count  int  `json:"count" yaml:"count" validate:"gte=0"`
}

// IssueStats summarises the issue tracker. CloseRatio is a percentage
// computed upstream with CloseRatio.
type IssueStats struct {
	Open       int `json:"open" yaml:"open" validate:"gte=0"`
	Closed     int `json:"closed" yaml:"closed" validate:"gte=0"`
	CloseRatio int `json:"close_ratio" yaml:"close_ratio" validate:"gte=0,lte=100"`
}

// FileChecks records the outcome of each file or directory probe.
type FileChecks struct {
	SecurityPolicy    bool `json:"security_md" yaml:"security_md"`
	Dependabot        bool `json:"dependabot" yaml:"dependabot"`
	Contributing      bool `json:"contributing" yaml:"contributing"`
	LinterConfig      bool `json:"linter_config" yaml:"linter_config"`
	TestDir           bool `json:"test_dir" yaml:"test_dir"`
	DocsDir           bool `json:"docs_dir" yaml:"docs_dir"`
	Changelog         bool `json:"changelog" yaml:"changelog"`
	Examples          bool `json:"examples" yaml:"examples"`
	APIDocs           bool `json:"api_docs" yaml:"api_docs"`
	PRTemplate        bool `json:"pr_template" yaml:"pr_template"`
	IssueTemplate     bool `json:"issue_template" yaml:"issue_template"`
	ReleaseAutomation bool `json:"release_automation" yaml:"release_automation"`
	CodeOfConduct     bool `json:"code_of_conduct" yaml:"code_of_conduct"`
}

// CloseRatio returns closed/(closed+open) as a rounded percentage.
// It returns 0 when the tracker has no issues at all.
func CloseRatio(open, closed int) int {
	total := open + closed
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(closed) / float64(total) * 100))
}

// NewIssueStats builds IssueStats with the ratio filled in.
func NewIssueStats(open, closed int) IssueStats {
	return IssueStats{
		Open:       open,
		Closed:     closed,
		CloseRatio: CloseRatio(open, closed),
	}
}

// LicenseID returns a pointer to id, or nil when id is empty.
func LicenseID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

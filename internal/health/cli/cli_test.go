package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/build-flow-labs/repohealth/health/schema"
	"github.com/build-flow-labs/repohealth/internal/health/score"
	"github.com/build-flow-labs/repohealth/internal/health/store"
)

// execute runs the root command in isolation from the caller's environment.
// Flag values persist between runs, so tests pass every flag they rely on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("REPOHEALTH_TOKEN", "")

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(""))
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "repohealth dev (schema "+schema.Version)
}

func TestRulesJSON(t *testing.T) {
	out, err := execute(t, "rules", "-o", "json")
	require.NoError(t, err)

	var doc rulesDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Recommendations, len(score.Rules()))
	sum := 0.0
	for _, w := range doc.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestRulesTable(t *testing.T) {
	out, err := execute(t, "rules", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Missing LICENSE")
	assert.Contains(t, out, "Maintainability")
}

func TestScoreHelpListsScoredSignals(t *testing.T) {
	assert.Contains(t, scoreCmd.Long, "Community        10%   stars, issue close ratio, CONTRIBUTING\n")
	assert.Contains(t, scoreCmd.Long, "Maintainability  15%   test directory, linter config\n")
	assert.NotContains(t, scoreCmd.Long, "forks")
}

func TestScoreBundleAndHistory(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "score", "--bundle", "testdata/healthy.yaml", "--write", "--fail-under", "0",
		"-o", "json", "--store-dir", dir)
	require.NoError(t, err)

	var report schema.HealthReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "acme/healthy", report.Repository)
	assert.Equal(t, 100, report.TotalScore)
	assert.Equal(t, schema.GradeAPlus, report.Grade)
	assert.Zero(t, report.RecommendationCount)

	out, err = execute(t, "history", "-o", "json", "--store-dir", dir, "--repo", "", "--limit", "0")
	require.NoError(t, err)
	var entries []store.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "acme", entries[0].Owner)
	assert.Equal(t, 100, entries[0].Score)

	out, err = execute(t, "history", "acme/healthy", "-o", "markdown", "--store-dir", dir, "--run", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Repository Health: acme/healthy"))
}

func TestScoreBundleText(t *testing.T) {
	out, err := execute(t, "score", "--bundle", "testdata/empty.json", "--write=false", "--fail-under", "0",
		"-o", "text", "--color", "never", "--store-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "REPOSITORY HEALTH: acme/empty")
	assert.Contains(t, out, "risk: High")
	assert.Contains(t, out, "[Critical] Missing README.md (Readability)")
	assert.NotContains(t, out, "\x1b[")
}

func TestScoreFailUnder(t *testing.T) {
	_, err := execute(t, "score", "--bundle", "testdata/empty.json", "--write=false", "--fail-under", "50",
		"-o", "json", "--store-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score below 50: acme/empty")
}

func TestScoreRequiresTarget(t *testing.T) {
	_, err := execute(t, "score", "--bundle", "", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo or --bundle")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := execute(t, "rules", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

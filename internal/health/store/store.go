// Package store persists health reports as JSON files and indexes them for
// listing and lookup.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/build-flow-labs/repohealth/health/schema"
)

const fileSuffix = ".health.json"

// ErrNotFound is returned when no stored report matches a lookup.
var ErrNotFound = errors.New("report not found")

// Envelope is the on-disk form of a stored report.
type Envelope struct {
	SchemaVersion string               `json:"schema_version"`
	RunID         string               `json:"run_id"`
	Repository    string               `json:"repository"`
	StoredAt      time.Time            `json:"stored_at"`
	Report        *schema.HealthReport `json:"report"`
}

// Entry is a denormalized report summary for fast listing.
type Entry struct {
	Owner           string           `json:"owner"`
	Repo            string           `json:"repo"`
	RunID           string           `json:"run_id"`
	Score           int              `json:"score"`
	Grade           schema.Grade     `json:"grade"`
	Risk            schema.RiskLevel `json:"risk"`
	Recommendations int              `json:"recommendations"`
	StoredAt        time.Time        `json:"stored_at"`
	FilePath        string           `json:"-"`
}

// Repository returns "owner/repo".
func (e Entry) Repository() string { return e.Owner + "/" + e.Repo }

// ListOptions controls filtering and sorting of listings.
type ListOptions struct {
	Repo      string // filter by owner/repo substring (case-insensitive)
	Grade     string // filter by grade
	Risk      string // filter by risk level
	SortField string // "time" (default), "repo", "score", "grade"
	SortDesc  bool
	Limit     int
}

// Store is a directory of reports with an in-memory index.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	dir     string
	now     func() time.Time
}

// New creates a store backed by dir. Call Load to index existing files.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// Load indexes every report file in the storage directory. A missing
// directory is an empty store; unreadable files are skipped.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = nil
			return nil
		}
		return fmt.Errorf("reading storage dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileSuffix) {
			continue
		}
		path := filepath.Join(s.dir, de.Name())
		env, err := readEnvelope(path)
		if err != nil {
			continue
		}
		entries = append(entries, entryFor(env, path))
	}

	s.entries = entries
	return nil
}

func readEnvelope(path string) (*Envelope, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the storage dir listing
	if err != nil {
		return nil, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if env.Report == nil {
		return nil, fmt.Errorf("parsing %s: no report", filepath.Base(path))
	}
	return &env, nil
}

func entryFor(env *Envelope, path string) Entry {
	owner, repo, _ := strings.Cut(env.Repository, "/")
	return Entry{
		Owner:           owner,
		Repo:            repo,
		RunID:           env.RunID,
		Score:           env.Report.TotalScore,
		Grade:           env.Report.Grade,
		Risk:            env.Report.RiskLevel,
		Recommendations: env.Report.RecommendationCount,
		StoredAt:        env.StoredAt,
		FilePath:        path,
	}
}

// filename is "{owner}_{repo}_{runID}.health.json".
func filename(repository, runID string) string {
	safe := strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(repository)
	return safe + "_" + runID + fileSuffix
}

// Save writes a report under a fresh run ID and indexes it.
func (s *Store) Save(r *schema.HealthReport) (Entry, error) {
	if r == nil || r.Repository == "" {
		return Entry{}, errors.New("saving report: repository name required")
	}

	env := &Envelope{
		SchemaVersion: schema.Version,
		RunID:         uuid.NewString(),
		Repository:    r.Repository,
		StoredAt:      s.now().UTC(),
		Report:        r,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("encoding report: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("creating storage dir: %w", err)
	}
	path := filepath.Join(s.dir, filename(env.Repository, env.RunID))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Entry{}, fmt.Errorf("writing report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return Entry{}, fmt.Errorf("writing report: %w", err)
	}

	entry := entryFor(env, path)
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	return entry, nil
}

// List returns entries matching the given options.
func (s *Store) List(opts ListOptions) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := []Entry{}
	for _, e := range s.entries {
		if opts.Repo != "" && !strings.Contains(strings.ToLower(e.Repository()), strings.ToLower(opts.Repo)) {
			continue
		}
		if opts.Grade != "" && !strings.EqualFold(string(e.Grade), opts.Grade) {
			continue
		}
		if opts.Risk != "" && !strings.EqualFold(string(e.Risk), opts.Risk) {
			continue
		}
		filtered = append(filtered, e)
	}

	sortEntries(filtered, opts.SortField, opts.SortDesc)
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}
	return filtered
}

// Get returns a stored report. An empty runID selects the most recent
// report for the repository.
func (s *Store) Get(owner, repo, runID string) (*Envelope, error) {
	s.mu.RLock()
	var (
		found Entry
		ok    bool
	)
	for _, e := range s.entries {
		if !strings.EqualFold(e.Owner, owner) || !strings.EqualFold(e.Repo, repo) {
			continue
		}
		if runID != "" {
			if e.RunID == runID {
				found, ok = e, true
				break
			}
			continue
		}
		if !ok || e.StoredAt.After(found.StoredAt) {
			found, ok = e, true
		}
	}
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", owner, repo, ErrNotFound)
	}
	return readEnvelope(found.FilePath)
}

// LatestPerRepo returns the most recent entry per repository, sorted by name.
func (s *Store) LatestPerRepo() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]Entry)
	for _, e := range s.entries {
		key := strings.ToLower(e.Repository())
		if existing, ok := latest[key]; !ok || e.StoredAt.After(existing.StoredAt) {
			latest[key] = e
		}
	}

	result := make([]Entry, 0, len(latest))
	for _, e := range latest {
		result = append(result, e)
	}
	sortEntries(result, "repo", false)
	return result
}

// Count returns the number of indexed reports.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func sortEntries(entries []Entry, field string, desc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case "repo":
			return a.Repository() < b.Repository()
		case "score":
			return a.Score < b.Score
		case "grade":
			return gradeRank(a.Grade) < gradeRank(b.Grade)
		default: // "time" or empty
			return a.StoredAt.Before(b.StoredAt)
		}
	})
}

var gradeOrder = []schema.Grade{
	schema.GradeF, schema.GradeD, schema.GradeC, schema.GradeB, schema.GradeA, schema.GradeAPlus,
}

// gradeRank orders grades from worst to best.
func gradeRank(g schema.Grade) int {
	for i, o := range gradeOrder {
		if o == g {
			return i
		}
	}
	return -1
}

// Package setup implements the interactive `repohealth init` wizard that
// writes a .repohealth.yaml config file.
package setup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/build-flow-labs/repohealth/internal/health/config"
)

// StepResult records the outcome of a single wizard step.
type StepResult struct {
	Step   string
	Action string // "checked", "set", "written", "skipped", "dry-run", "error"
	Detail string
}

// AccessCheck verifies the configured token and returns the login it
// belongs to.
type AccessCheck func(ctx context.Context) (string, error)

// Wizard orchestrates the interactive setup process.
type Wizard struct {
	prompt  *prompter
	out     io.Writer
	dryRun  bool
	check   AccessCheck
	logger  *slog.Logger
	cfg     config.Config
	path    string
	results []StepResult
}

// NewWizard creates a setup wizard. check may be nil when no token is set.
func NewWizard(in io.Reader, out io.Writer, dryRun bool, check AccessCheck, logger *slog.Logger) *Wizard {
	return &Wizard{
		prompt: newPrompter(in, out),
		out:    out,
		dryRun: dryRun,
		check:  check,
		logger: logger,
	}
}

// Run walks through every step starting from base and writes the result to
// path. It returns the configuration that was (or would be) written.
func (w *Wizard) Run(ctx context.Context, path string, base config.Config) (config.Config, error) {
	w.cfg = base
	w.path = path

	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "  repohealth setup")
	fmt.Fprintln(w.out, "  ================")
	if w.dryRun {
		fmt.Fprintln(w.out, "  (dry-run mode: no files will be written)")
	}
	fmt.Fprintln(w.out, "")

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Validate GitHub access", w.validateAccess},
		{"Choose output", w.chooseOutput},
		{"Configure collection", w.configureCollection},
		{"Configure storage and server", w.configureStorage},
		{"Write config file", w.writeConfig},
	}

	for i, step := range steps {
		fmt.Fprintf(w.out, "\n--- Step %d/%d: %s ---\n", i+1, len(steps), step.name)
		if err := step.fn(ctx); err != nil {
			w.record(step.name, "error", err.Error())
			return w.cfg, fmt.Errorf("setup failed at step %d (%s): %w", i+1, step.name, err)
		}
	}

	w.printSummary()
	return w.cfg, nil
}

// Results returns the recorded step outcomes.
func (w *Wizard) Results() []StepResult { return w.results }

// record adds a step result and prints it.
func (w *Wizard) record(step, action, detail string) {
	w.results = append(w.results, StepResult{Step: step, Action: action, Detail: detail})
	marker := "+"
	switch action {
	case "skipped":
		marker = "-"
	case "dry-run":
		marker = "~"
	case "error":
		marker = "!"
	}
	fmt.Fprintf(w.out, "  [%s] %s: %s\n", marker, action, detail)
}

func (w *Wizard) validateAccess(ctx context.Context) error {
	if w.check == nil {
		w.record("access", "skipped", "no token set; export GITHUB_TOKEN for higher rate limits")
		return nil
	}
	login, err := w.check(ctx)
	if err != nil {
		// A bad token is worth knowing about but does not block writing a config.
		w.logger.Warn("token check failed", "error", err)
		w.record("access", "skipped", "token check failed: "+err.Error())
		return nil
	}
	w.record("access", "checked", "authenticated as "+login)
	return nil
}

func (w *Wizard) chooseOutput(context.Context) error {
	w.cfg.Output = w.prompt.askChoice("Default output format:", []string{"text", "markdown", "json", "yaml"}, w.cfg.Output)
	w.cfg.Color = w.prompt.askChoice("Coloured terminal output:", []string{"auto", "always", "never"}, w.cfg.Color)
	w.cfg.LogFormat = w.prompt.askChoice("Log format:", []string{"text", "json"}, w.cfg.LogFormat)
	w.record("output", "set", fmt.Sprintf("output=%s color=%s log-format=%s", w.cfg.Output, w.cfg.Color, w.cfg.LogFormat))
	return nil
}

func (w *Wizard) configureCollection(context.Context) error {
	w.cfg.Workers = w.prompt.askInt("Repositories scored in parallel", w.cfg.Workers, 1, 64)
	w.cfg.Rate = w.prompt.askFloat("GitHub requests per second (0 = unlimited)", w.cfg.Rate)
	apiURL := w.prompt.askDefault("GitHub API URL (blank for github.com)", w.cfg.APIURL)
	if apiURL == "-" {
		apiURL = ""
	}
	w.cfg.APIURL = apiURL
	w.record("collection", "set", fmt.Sprintf("workers=%d rate=%g", w.cfg.Workers, w.cfg.Rate))
	return nil
}

func (w *Wizard) configureStorage(context.Context) error {
	w.cfg.StoreDir = w.prompt.askDefault("Report storage directory", w.cfg.StoreDir)
	w.cfg.Addr = w.prompt.askDefault("Server listen address", w.cfg.Addr)
	w.record("storage", "set", fmt.Sprintf("store-dir=%s addr=%s", w.cfg.StoreDir, w.cfg.Addr))
	return nil
}

func (w *Wizard) writeConfig(context.Context) error {
	if err := w.cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&w.cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if w.dryRun {
		w.record("config", "dry-run", "would write "+w.path)
		fmt.Fprintf(w.out, "\n%s", data)
		return nil
	}

	if _, err := os.Stat(w.path); err == nil {
		if !w.prompt.askYesNo(fmt.Sprintf("  %s exists. Overwrite?", w.path), false) {
			w.record("config", "skipped", "kept existing "+w.path)
			return nil
		}
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.path, err)
	}
	w.record("config", "written", w.path)
	return nil
}

func (w *Wizard) printSummary() {
	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "  Summary")
	fmt.Fprintln(w.out, "  -------")
	for _, r := range w.results {
		fmt.Fprintf(w.out, "  %-12s %-8s %s\n", r.Step, r.Action, r.Detail)
	}
	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "  Next: repohealth score <owner/repo>")
}

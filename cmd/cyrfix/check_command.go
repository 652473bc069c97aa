package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/cyrfix/internal/batch"
	"github.com/simonhull/cyrfix/internal/repair"
)

func newCheckCommand(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Preview the values a repair run would change",
		Long: `check walks the same files as a repair run and prints every value that
would be replaced, without saving files or writing the audit log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags)
		},
	}
}

func runCheck(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	logger, err := newRunLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	preview := &previewReporter{root: cfg.Scan.Root}
	reporters := batch.MultiReporter{preview}
	if showProgress(cmd.ErrOrStderr(), flags.noProgress) {
		reporters = append(reporters, newProgressReporter(cmd.ErrOrStderr(), "Checking"))
	}

	driver := batch.New(batch.Options{
		Root:       cfg.Scan.Root,
		Recursive:  cfg.Scan.Recursive,
		Extensions: cfg.Scan.Extensions,
		DryRun:     true,
		Logger:     logger,
	}, reporters)

	summary, runErr := driver.Run(cmd.Context())
	if summary.Finished.IsZero() || summary.Err != nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if len(preview.rows) == 0 {
		fmt.Fprintln(out, "No mis-encoded values found.")
	} else {
		fmt.Fprintln(out, renderTable(
			[]string{"File", "Field", "Current", "Repaired"},
			preview.rows,
		))
	}
	printSummary(out, summary)
	return runErr
}

// previewReporter collects one table row per replaced, unrepairable or
// skipped item.
type previewReporter struct {
	batch.NopReporter

	root    string
	current string
	rows    [][]string
}

func (p *previewReporter) FileStarted(path string, _, _ int) {
	p.current = p.display(path)
}

func (p *previewReporter) Replaced(ev repair.Event) {
	p.rows = append(p.rows, []string{p.current, ev.Target(), ev.Old, ev.New})
}

func (p *previewReporter) Unrepairable(ev repair.Event, err error) {
	p.rows = append(p.rows, []string{p.current, ev.Target(), ev.Old, "cannot repair: " + err.Error()})
}

func (p *previewReporter) FileSkipped(path string, err error) {
	p.rows = append(p.rows, []string{p.display(path), "", "", "skipped: " + err.Error()})
}

func (p *previewReporter) display(path string) string {
	if rel, err := filepath.Rel(p.root, path); err == nil {
		return rel
	}
	return path
}

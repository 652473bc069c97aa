package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jinzhu/inflection"
	"github.com/spf13/cobra"

	"github.com/simonhull/cyrfix/internal/audit"
	"github.com/simonhull/cyrfix/internal/batch"
)

func runRepair(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	logger, err := newRunLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	if err := batch.CheckRoot(cfg.Scan.Root); err != nil {
		return err
	}

	auditLog, err := audit.Open(cfg.Audit.LogPath)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	reporters := batch.MultiReporter{auditLog}
	if showProgress(cmd.ErrOrStderr(), flags.noProgress) {
		reporters = append(reporters, newProgressReporter(cmd.ErrOrStderr(), "Repairing"))
	}

	driver := batch.New(batch.Options{
		Root:       cfg.Scan.Root,
		Recursive:  cfg.Scan.Recursive,
		Extensions: cfg.Scan.Extensions,
		Save:       saveOptions(cfg),
		Logger:     logger,
	}, reporters)

	summary, runErr := driver.Run(cmd.Context())
	if summary.Finished.IsZero() || summary.Err != nil {
		return runErr
	}

	printSummary(cmd.OutOrStdout(), summary)
	fmt.Fprintf(cmd.OutOrStdout(), "Audit log: %s\n", auditLog.Path())
	return runErr
}

func printSummary(w io.Writer, s batch.RunSummary) {
	verb := "Modified"
	if s.DryRun {
		verb = "Would modify"
	}
	fmt.Fprintf(w, "%s %s of %s scanned %s", verb,
		humanize.Comma(int64(s.Modified)), humanize.Comma(int64(s.Scanned)), plural(s.Scanned, "file"))
	if s.Skipped > 0 || s.Failed > 0 {
		fmt.Fprintf(w, " (%s unreadable, %s failed to save)",
			humanize.Comma(int64(s.Skipped)), humanize.Comma(int64(s.Failed)))
	}
	if s.Interrupted {
		fmt.Fprint(w, "; interrupted")
	}
	fmt.Fprintf(w, " in %s\n", s.Finished.Sub(s.Started).Round(10*time.Millisecond))
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return inflection.Plural(noun)
}

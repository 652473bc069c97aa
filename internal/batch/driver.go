// Package batch drives a repair run over a directory tree: it enumerates
// audio files, walks each file's tags with the repair walker, saves the
// files that changed and reports every step to a Reporter.
//
// Files are processed strictly one at a time.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simonhull/cyrfix"
	"github.com/simonhull/cyrfix/internal/repair"
	"github.com/simonhull/cyrfix/internal/types"
)

// File is the part of *cyrfix.File the driver needs.
type File interface {
	Metadata() *types.Tags
	Save(opts ...cyrfix.SaveOption) error
	Close() error
}

// Opener opens one audio file for reading and saving.
type Opener func(path string) (File, error)

// OpenFile opens path with the tag library.
func OpenFile(path string) (File, error) {
	f, err := cyrfix.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Options configures a Driver.
type Options struct {
	Root       string
	Recursive  bool
	Extensions []string
	// DryRun walks every file but never saves.
	DryRun bool
	Save   []cyrfix.SaveOption

	Open   Opener
	Logger *zap.Logger
	Now    func() time.Time
}

// RunSummary reports the outcome of a run.
//
// Scanned counts the files that reached a successful terminal state: saved,
// or left unchanged. In a dry run Modified counts the files that would have
// been saved.
type RunSummary struct {
	Started     time.Time
	Finished    time.Time
	Found       int
	Scanned     int
	Modified    int
	Skipped     int
	Failed      int
	DryRun      bool
	Interrupted bool
	// Err is set when the root could not be enumerated after the run
	// started. No file was processed.
	Err error
}

// Driver runs the repair pipeline over a folder.
type Driver struct {
	opts     Options
	reporter Reporter
	logger   *zap.Logger
}

// New creates a driver. A nil reporter discards all notifications.
func New(opts Options, reporter Reporter) *Driver {
	if opts.Open == nil {
		opts.Open = OpenFile
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{opts: opts, reporter: reporter, logger: logger}
}

// Run processes every matching file under the root.
//
// File-scoped failures are reported and counted; Run only returns an error
// when the root cannot be read, a reporter cannot flush, or ctx is
// cancelled. A root that fails only once the run has started still gets a
// RunFinished with Err set. On cancellation the current file is finished, the summary is
// reported with Interrupted set and ctx.Err() is returned.
func (d *Driver) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{Started: d.opts.Now(), DryRun: d.opts.DryRun}

	if err := CheckRoot(d.opts.Root); err != nil {
		return summary, err
	}

	d.logger.Info("run started",
		zap.String("root", d.opts.Root),
		zap.Bool("recursive", d.opts.Recursive),
		zap.Bool("dry_run", d.opts.DryRun),
	)
	d.reporter.RunStarted(d.opts.Root, d.opts.Recursive)
	d.reporter.Enumerating()

	paths, err := d.collect()
	if err != nil {
		summary.Finished = d.opts.Now()
		summary.Err = err
		if rerr := d.reporter.RunFinished(summary); rerr != nil {
			err = errors.Join(err, fmt.Errorf("report summary: %w", rerr))
		}
		return summary, err
	}
	summary.Found = len(paths)
	d.reporter.Found(len(paths), d.opts.Extensions)
	d.reporter.Processing()

	walker := repair.NewWalker(d.reporter,
		repair.WithLogger(d.logger),
		repair.WithClock(d.opts.Now),
	)

	for i, path := range paths {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		d.reporter.FileStarted(path, i+1, len(paths))
		d.process(path, walker, &summary)
		if err := d.reporter.FileFinished(path); err != nil {
			return summary, fmt.Errorf("report %s: %w", path, err)
		}
	}

	summary.Finished = d.opts.Now()
	if err := d.reporter.RunFinished(summary); err != nil {
		return summary, fmt.Errorf("report summary: %w", err)
	}

	d.logger.Info("run finished",
		zap.Int("found", summary.Found),
		zap.Int("modified", summary.Modified),
		zap.Int("scanned", summary.Scanned),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Bool("interrupted", summary.Interrupted),
		zap.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)

	if summary.Interrupted {
		return summary, ctx.Err()
	}
	return summary, nil
}

// collect drains Enumerate. Unreadable subdirectories are logged and
// skipped; an unreadable root aborts the run.
func (d *Driver) collect() ([]string, error) {
	var paths []string
	for path, err := range Enumerate(d.opts.Root, d.opts.Recursive, d.opts.Extensions) {
		if err != nil {
			if path == d.opts.Root {
				return nil, fmt.Errorf("enumerate %s: %w", path, err)
			}
			d.logger.Warn("skipping unreadable directory entry", zap.String("path", path), zap.Error(err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// process takes one file through open, walk, save and close.
func (d *Driver) process(path string, walker *repair.Walker, summary *RunSummary) {
	logger := d.logger.With(zap.String("path", path))

	file, err := d.opts.Open(path)
	if err != nil {
		summary.Skipped++
		d.reporter.FileSkipped(path, err)
		logger.Warn("skipping unreadable file", zap.Error(err))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("close file", zap.Error(err))
		}
	}()

	if !walker.WalkAndRepair(file.Metadata()) {
		summary.Scanned++
		logger.Debug("no changes")
		return
	}

	if d.opts.DryRun {
		summary.Scanned++
		summary.Modified++
		return
	}

	if err := file.Save(d.opts.Save...); err != nil {
		summary.Failed++
		d.reporter.SaveFailed(path, err)
		logger.Error("save failed", zap.Error(err))
		return
	}

	summary.Scanned++
	summary.Modified++
	logger.Info("file saved")
}

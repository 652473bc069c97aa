package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/simonhull/cyrfix/internal/batch"
)

// showProgress reports whether a progress bar should be drawn on w.
func showProgress(w io.Writer, disabled bool) bool {
	if disabled {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressReporter advances a progress bar once per finished file.
type progressReporter struct {
	batch.NopReporter

	w           io.Writer
	description string
	bar         *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer, description string) *progressReporter {
	return &progressReporter{w: w, description: description}
}

func (p *progressReporter) Found(count int, _ []string) {
	p.bar = progressbar.NewOptions(count,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressReporter) FileFinished(string) error {
	if p.bar == nil {
		return nil
	}
	return p.bar.Add(1)
}

func (p *progressReporter) RunFinished(batch.RunSummary) error {
	if p.bar == nil {
		return nil
	}
	return p.bar.Finish()
}

// Package audit writes the plain-text audit log of a repair run.
//
// The log is append-only and shared by every run that points at it. An
// advisory lock on "<log>.lock" keeps two runs from interleaving lines.
package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/jinzhu/inflection"

	"github.com/simonhull/cyrfix/internal/batch"
	"github.com/simonhull/cyrfix/internal/repair"
	"github.com/simonhull/cyrfix/internal/types"
)

// TimeLayout is the timestamp format of every log line.
const TimeLayout = "2006-01-02 15:04:05"

// LockedError is returned by Open when another run holds the log.
type LockedError struct {
	Path string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("audit log %s is in use by another run", e.Path)
}

// Log is an audit log opened for one run. It implements batch.Reporter.
type Log struct {
	path string
	file *os.File
	w    *bufio.Writer
	lock *flock.Flock
	now  func() time.Time
}

var _ batch.Reporter = (*Log)(nil)

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the timestamp source for lines that do not carry an
// event time.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// Open locks and opens the audit log at path for appending, creating it and
// its directory when missing.
func Open(path string, opts ...Option) (*Log, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit log directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire audit log lock: %w", err)
	}
	if !ok {
		return nil, &LockedError{Path: path}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		_ = lock.Unlock() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	l := &Log{
		path: path,
		file: file,
		w:    bufio.NewWriter(file),
		lock: lock,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the log file path.
func (l *Log) Path() string { return l.path }

// Close flushes the log and releases the file and the lock.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	err := errors.Join(l.w.Flush(), l.file.Close(), l.lock.Unlock())
	l.file = nil
	return err
}

func (l *Log) raw(s string) {
	// bufio.Writer keeps the first error and reports it from Flush.
	_, _ = l.w.WriteString(s + "\n") //nolint:errcheck // surfaced by Flush
}

func (l *Log) linef(ts time.Time, format string, args ...any) {
	l.raw(ts.Format(TimeLayout) + ": " + fmt.Sprintf(format, args...))
}

// RunStarted writes the run banner.
func (l *Log) RunStarted(root string, recursive bool) {
	l.raw("--=={ Tag renaming process started }==--")
	if recursive {
		l.raw("Working folder (recursive): " + root)
	} else {
		l.raw("Working folder: " + root)
	}
}

func (l *Log) Enumerating() {
	l.linef(l.now(), "Enumerating files...")
}

func (l *Log) Found(count int, exts []string) {
	kind := strings.Join(exts, "/")
	if kind == "" {
		kind = "audio"
	}
	l.linef(l.now(), "Found %d %s %s", count, kind, plural(count, "file"))
}

func (l *Log) Processing() {
	l.linef(l.now(), "Processing tags...")
}

func (l *Log) FileStarted(path string, index, total int) {
	l.linef(l.now(), "Processing %s (%d/%d)...", path, index, total)
}

func (l *Log) Replaced(ev repair.Event) {
	l.linef(ev.Time, "Replaced %s '%s' with '%s'", ev.Target(), ev.Old, ev.New)
}

func (l *Log) Unrepairable(ev repair.Event, err error) {
	l.linef(ev.Time, "Warning: cannot repair %s '%s': %v", ev.Target(), ev.Old, err)
}

func (l *Log) FileSkipped(path string, err error) {
	l.linef(l.now(), "Skipped %s: %v", path, cause(err))
}

func (l *Log) SaveFailed(path string, err error) {
	l.linef(l.now(), "Failed to save %s: %v", path, cause(err))
}

// FileFinished flushes everything written for the file.
func (l *Log) FileFinished(string) error {
	return l.w.Flush()
}

// RunFinished writes the summary lines and a blank separator, then
// flushes.
func (l *Log) RunFinished(s batch.RunSummary) error {
	ts := s.Finished
	if ts.IsZero() {
		ts = l.now()
	}
	if s.Interrupted {
		l.linef(ts, "Interrupted.")
	}
	if s.Err != nil {
		l.linef(ts, "Aborted: %v", s.Err)
	}
	l.linef(ts, "Completed. Total files modified: %d out of %d.", s.Modified, s.Scanned)
	if s.Skipped > 0 || s.Failed > 0 {
		l.linef(ts, "Skipped %d unreadable %s, failed to save %d %s.",
			s.Skipped, plural(s.Skipped, "file"), s.Failed, plural(s.Failed, "file"))
	}
	l.raw("")
	return l.w.Flush()
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return inflection.Plural(noun)
}

// cause strips the path-carrying wrapper the tag library puts around
// open and save failures, since the line already names the file.
func cause(err error) error {
	var unreadable *types.UnreadableFileError
	if errors.As(err, &unreadable) && unreadable.Err != nil {
		return unreadable.Err
	}
	var writeErr *types.WriteError
	if errors.As(err, &writeErr) && writeErr.Err != nil {
		return writeErr.Err
	}
	return err
}

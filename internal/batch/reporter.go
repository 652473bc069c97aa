package batch

import (
	"errors"

	"github.com/simonhull/cyrfix/internal/repair"
)

// Reporter observes a run. Repair events arrive through the embedded
// repair.Sink between FileStarted and FileFinished of the file they belong
// to.
type Reporter interface {
	repair.Sink

	RunStarted(root string, recursive bool)
	Enumerating()
	Found(count int, exts []string)
	Processing()
	FileStarted(path string, index, total int)
	FileSkipped(path string, err error)
	SaveFailed(path string, err error)
	// FileFinished marks the end of one file. Buffered reporters flush here.
	FileFinished(path string) error
	RunFinished(summary RunSummary) error
}

// NopReporter ignores every notification. Embed it to implement only the
// methods of interest.
type NopReporter struct {
	repair.NopSink
}

func (NopReporter) RunStarted(string, bool) {}
func (NopReporter) Enumerating() {}
func (NopReporter) Found(int, []string) {}
func (NopReporter) Processing() {}
func (NopReporter) FileStarted(string, int, int) {}
func (NopReporter) FileSkipped(string, error) {}
func (NopReporter) SaveFailed(string, error) {}
func (NopReporter) FileFinished(string) error { return nil }
func (NopReporter) RunFinished(RunSummary) error { return nil }

// MultiReporter fans every notification out to reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Replaced(ev repair.Event) {
	for _, r := range m {
		r.Replaced(ev)
	}
}

func (m MultiReporter) Unrepairable(ev repair.Event, err error) {
	for _, r := range m {
		r.Unrepairable(ev, err)
	}
}

func (m MultiReporter) RunStarted(root string, recursive bool) {
	for _, r := range m {
		r.RunStarted(root, recursive)
	}
}

func (m MultiReporter) Enumerating() {
	for _, r := range m {
		r.Enumerating()
	}
}

func (m MultiReporter) Found(count int, exts []string) {
	for _, r := range m {
		r.Found(count, exts)
	}
}

func (m MultiReporter) Processing() {
	for _, r := range m {
		r.Processing()
	}
}

func (m MultiReporter) FileStarted(path string, index, total int) {
	for _, r := range m {
		r.FileStarted(path, index, total)
	}
}

func (m MultiReporter) FileSkipped(path string, err error) {
	for _, r := range m {
		r.FileSkipped(path, err)
	}
}

func (m MultiReporter) SaveFailed(path string, err error) {
	for _, r := range m {
		r.SaveFailed(path, err)
	}
}

// FileFinished calls every reporter and joins their errors.
func (m MultiReporter) FileFinished(path string) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.FileFinished(path))
	}
	return errors.Join(errs...)
}

// RunFinished calls every reporter and joins their errors.
func (m MultiReporter) RunFinished(summary RunSummary) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RunFinished(summary))
	}
	return errors.Join(errs...)
}

package repair

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simonhull/cyrfix/internal/fields"
	"github.com/simonhull/cyrfix/internal/types"
)

// NoIndex is the Event index of a scalar field.
const NoIndex = -1

// Event describes one field value the walker repaired or failed to repair.
type Event struct {
	Time  time.Time
	Field string
	Old   string
	New   string
	Index int
}

// Target returns the field name, with the element index for list fields:
// "Title" or "Artists[1]".
func (e Event) Target() string {
	if e.Index == NoIndex {
		return e.Field
	}
	return fmt.Sprintf("%s[%d]", e.Field, e.Index)
}

// Sink receives the walker's events.
type Sink interface {
	// Replaced is called after a value was repaired in place.
	Replaced(ev Event)
	// Unrepairable is called for a suspect value left unchanged because
	// Repair failed.
	Unrepairable(ev Event, err error)
}

// NopSink discards all events.
type NopSink struct{}

// Replaced implements Sink.
func (NopSink) Replaced(Event) {}

// Unrepairable implements Sink.
func (NopSink) Unrepairable(Event, error) {}

// Walker applies IsValid and Repair to every registered field of a record.
type Walker struct {
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
	fields []fields.Field
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(w *Walker) {
		if now != nil {
			w.now = now
		}
	}
}

// WithFields restricts the walk to the given fields instead of fields.All().
func WithFields(f []fields.Field) Option {
	return func(w *Walker) {
		w.fields = f
	}
}

// NewWalker returns a Walker reporting to sink. The field set is captured
// once here and reused for every record.
func NewWalker(sink Sink, opts ...Option) *Walker {
	if sink == nil {
		sink = NopSink{}
	}
	w := &Walker{
		sink:   sink,
		logger: zap.NewNop(),
		now:    time.Now,
		fields: fields.All(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WalkAndRepair repairs every suspect value in tags and reports whether any
// field changed.
//
// Every field is visited exactly once. List fields are repaired element by
// element; their length and order never change, and the list is written back
// only when at least one element was repaired.
func (w *Walker) WalkAndRepair(tags *types.Tags) bool {
	modified := false

	for _, field := range w.fields {
		switch f := field.(type) {
		case fields.ScalarField:
			fixed, ok := w.repairValue(f.Name(), NoIndex, f.Get(tags))
			if !ok {
				continue
			}
			f.Set(tags, fixed)
			modified = true

		case fields.ListField:
			values := f.Get(tags)
			changed := false
			for i, value := range values {
				fixed, ok := w.repairValue(f.Name(), i, value)
				if !ok {
					continue
				}
				values[i] = fixed
				changed = true
			}
			if changed {
				f.Set(tags, values)
				modified = true
			}
		}
	}

	return modified
}

// repairValue returns the repaired value and true when value was suspect and
// repairing it produced different text.
func (w *Walker) repairValue(name string, index int, value string) (string, bool) {
	if IsValid(value) {
		return "", false
	}

	ev := Event{Time: w.now(), Field: name, Index: index, Old: value}

	fixed, err := Repair(value)
	if err != nil {
		w.logger.Warn("value cannot be repaired",
			zap.String("field", ev.Target()),
			zap.String("value", value),
			zap.Error(err))
		w.sink.Unrepairable(ev, err)
		return "", false
	}

	// Characters such as © or NBSP sit at the same position in both code
	// pages, so reinterpretation can be the identity.
	if fixed == value {
		return "", false
	}

	ev.New = fixed
	w.logger.Debug("value repaired",
		zap.String("field", ev.Target()),
		zap.String("old", value),
		zap.String("new", fixed))
	w.sink.Replaced(ev)
	return fixed, true
}

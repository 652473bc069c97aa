// Package registry maps container formats to the parsers and writers that
// handle them. Format packages register themselves from init().
package registry

import (
	"io"
	"slices"
	"sync"

	"github.com/simonhull/cyrfix/internal/types"
)

// FormatParser reads the text metadata of one container format.
type FormatParser interface {
	// Parse extracts metadata from an audio file.
	// Returns a partially initialized File (Path, Format, Size set by caller).
	Parse(r io.ReaderAt, size int64, path string) (*types.File, error)
}

// FormatWriter rewrites the text metadata of one container format.
type FormatWriter interface {
	// Write writes the file's metadata followed by the untouched audio payload to w.
	// original provides read access to the source file.
	Write(w io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error
}

var (
	mu      sync.RWMutex
	parsers = make(map[types.Format]FormatParser)
	writers = make(map[types.Format]FormatWriter)
)

// Register registers a parser for a format.
func Register(format types.Format, parser FormatParser) {
	mu.Lock()
	defer mu.Unlock()
	parsers[format] = parser
}

// Get returns the parser for a given format, or nil.
func Get(format types.Format) FormatParser {
	mu.RLock()
	defer mu.RUnlock()
	return parsers[format]
}

// RegisterWriter registers a writer for a format.
func RegisterWriter(format types.Format, writer FormatWriter) {
	mu.Lock()
	defer mu.Unlock()
	writers[format] = writer
}

// GetWriter returns the writer for a given format, or nil.
func GetWriter(format types.Format) FormatWriter {
	mu.RLock()
	defer mu.RUnlock()
	return writers[format]
}

// Writable returns the formats that have both a parser and a writer, in
// ascending order.
func Writable() []types.Format {
	mu.RLock()
	defer mu.RUnlock()
	var formats []types.Format
	for format := range writers {
		if parsers[format] != nil {
			formats = append(formats, format)
		}
	}
	slices.Sort(formats)
	return formats
}

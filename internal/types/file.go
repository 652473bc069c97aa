// Package types provides the core data structures shared by the tag library
// and the repair engine.
//
// File and Tags describe an opened audio file and its text metadata; the
// error types classify the ways opening and saving can fail.
package types

import (
	"io"
)

// File represents an opened audio file with parsed text metadata.
//
// File keeps the underlying reader open so a FormatWriter can copy the audio
// payload when the metadata is saved. Always call Close() on the public
// wrapper when done.
type File struct {
	Reader_  io.ReaderAt //nolint:revive // Underscore indicates internal/unexported semantics
	Path     string
	Warnings []Warning
	Tags     Tags
	Format   Format
	Size     int64
}

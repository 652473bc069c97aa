package cyrfix

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/simonhull/cyrfix/internal/registry"
	"github.com/simonhull/cyrfix/internal/types"
)

// File represents an opened audio file with parsed text metadata.
//
// Always call Close() when done to release the file handle:
//
//	file, err := cyrfix.Open("song.mp3")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	types.File

	closer io.Closer
	closed bool
}

// Open opens an audio file and reads its text metadata.
//
// Supported formats: MP3 (ID3v2) and FLAC (Vorbis comments).
//
// Every failure is returned as *UnreadableFileError wrapping the cause, so
// callers can skip the file with a single errors.As check. Problems that do
// not prevent reading the tags are collected in File.Warnings instead.
//
// Example:
//
//	file, err := cyrfix.Open("song.mp3", cyrfix.WithStrictParsing())
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//	fmt.Println(file.Tags.Title)
func Open(path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Err: err}
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &UnreadableFileError{Path: path, Err: fmt.Errorf("stat file: %w", err)}
	}
	if stat.IsDir() {
		f.Close()
		return nil, &UnreadableFileError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	file, err := openReader(f, stat.Size(), path, options)
	if err != nil {
		f.Close()
		return nil, &UnreadableFileError{Path: path, Err: err}
	}
	file.closer = f

	return file, nil
}

// OpenContext opens a file with context support for cancellation.
//
// The context is checked before any I/O; parsing a single tag is short
// enough not to need finer-grained cancellation.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// openReader opens from an io.ReaderAt (internal, for testing)
func openReader(r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	format, err := types.DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no parser available for format %s", format),
		}
	}

	parsed, err := parser.Parse(r, size, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	// Set file-level fields
	parsed.Reader_ = r
	parsed.Path = path
	parsed.Format = format
	parsed.Size = size

	if options.strictParsing && len(parsed.Warnings) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", parsed.Warnings[0])
	}
	if options.ignoreWarnings {
		parsed.Warnings = nil
	}

	return &File{File: *parsed}, nil
}

// Metadata returns the mutable tag record. Changes are written by Save.
func (f *File) Metadata() *Tags {
	return &f.Tags
}

// Close releases resources held by the file. Calling Close more than once
// is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.Reader_ = nil
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// reopen replaces the underlying handle after the file was rewritten in
// place, so later saves read the new content.
func (f *File) reopen() error {
	nf, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	stat, err := nf.Stat()
	if err != nil {
		nf.Close()
		return err
	}
	if f.closer != nil {
		f.closer.Close()
	}
	f.closer = nf
	f.Reader_ = nf
	f.Size = stat.Size()
	return nil
}

package types

import "fmt"

// UnsupportedFormatError is returned when no parser handles the file's container.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// UnreadableFileError reports that a file could not be opened or its tag
// container could not be parsed. The batch driver skips such files.
type UnreadableFileError struct {
	Err  error
	Path string
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("%s: unreadable: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// WriteError reports that persisting modified metadata failed. The original
// file is left untouched.
type WriteError struct {
	Err  error
	Path string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: write failed: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data, for example an unsupported ID3v2
// revision or a frame that extends past the tag.
type Warning struct {
	// Stage where the warning occurred ("metadata", "write")
	Stage string

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

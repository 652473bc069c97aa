package cyrfix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/cyrfix/internal/registry"
	"github.com/simonhull/cyrfix/internal/types"
)

// Save writes modified metadata back to the original file.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the original path. If any step fails, the original file remains unchanged.
//
// Options can be provided to customize save behavior:
//
//	err := file.Save(
//	    cyrfix.WithBackup(".bak"),
//	    cyrfix.WithValidation(),
//	)
//
// Every failure is returned as *WriteError. Formats without a writer wrap
// an *UnsupportedWriteError.
func (f *File) Save(opts ...SaveOption) error {
	return f.SaveAs(f.Path, opts...)
}

// SaveAs writes the file to a new location.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the output path. If any step fails, any partially written data is cleaned up.
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error {
	if err := f.saveAs(outputPath, opts...); err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}
	return nil
}

func (f *File) saveAs(outputPath string, opts ...SaveOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := newSaveOptions(opts)

	writer := registry.GetWriter(f.Format)
	if writer == nil {
		return &types.UnsupportedWriteError{
			Format: f.Format,
			Reason: "no writer registered",
		}
	}

	if f.Reader_ == nil {
		return errors.New("file not open: reader is nil")
	}

	// Get original file's mod time if we need to preserve it
	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(f.Path); err == nil {
			origInfo = info
		}
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(outputPath), ".cyrfix-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := writer.Write(tempFile, &f.File, f.Reader_, f.Size); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Keep the permissions of the file being replaced
	if info, err := os.Stat(outputPath); err == nil {
		_ = os.Chmod(tempPath, info.Mode().Perm()) //nolint:errcheck // Non-fatal: default temp permissions still work
	}

	if options.backupSuffix != "" {
		backupPath := outputPath + options.backupSuffix
		if _, err := os.Stat(outputPath); err == nil {
			if err := os.Rename(outputPath, backupPath); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if options.preserveModTime && origInfo != nil {
		_ = os.Chtimes(outputPath, origInfo.ModTime(), origInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if outputPath == f.Path {
		if err := f.reopen(); err != nil {
			return fmt.Errorf("reopen after save: %w", err)
		}
	}

	if options.validate {
		if err := f.validateWrittenFile(outputPath); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// validateWrittenFile re-opens the file and compares every text field.
func (f *File) validateWrittenFile(path string) error {
	written, err := Open(path)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close() //nolint:errcheck // Best effort close

	if !written.Tags.Equal(&f.Tags) {
		return errors.New("tags read back differ from tags written")
	}
	return nil
}

// FormatWriter is an alias to registry.FormatWriter.
type FormatWriter = registry.FormatWriter

// Writable returns the formats Save supports.
func Writable() []Format {
	return registry.Writable()
}

package cyrfix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/cyrfix/internal/types"
)

func TestFile_Save_UnsupportedFormat(t *testing.T) {
	f := &File{
		File: types.File{
			Path:    "/tmp/test.ogg",
			Format:  types.FormatUnknown,
			Size:    1000,
			Reader_: &minimalReaderAt{},
		},
	}

	err := f.Save()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected *WriteError, got %T: %v", err, err)
	}
	if writeErr.Path != "/tmp/test.ogg" {
		t.Errorf("Path = %q", writeErr.Path)
	}

	var unsupportedErr *types.UnsupportedWriteError
	if !errors.As(err, &unsupportedErr) {
		t.Fatalf("expected *UnsupportedWriteError, got %T: %v", err, err)
	}
	if unsupportedErr.Reason != "no writer registered" {
		t.Errorf("expected reason 'no writer registered', got %q", unsupportedErr.Reason)
	}
}

func TestFile_SaveAs_UnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "output.ogg")

	f := &File{
		File: types.File{
			Path:    "/tmp/test.ogg",
			Format:  types.FormatUnknown,
			Size:    1000,
			Reader_: &minimalReaderAt{},
		},
	}

	err := f.SaveAs(outputPath, WithBackup(".bak"), WithValidation(), WithPreserveModTime())

	var unsupportedErr *types.UnsupportedWriteError
	if !errors.As(err, &unsupportedErr) {
		t.Fatalf("expected *UnsupportedWriteError, got %T: %v", err, err)
	}
	if _, statErr := os.Stat(outputPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("output file should not exist, stat error = %v", statErr)
	}
}

func TestFile_Save_NilReader(t *testing.T) {
	f := &File{
		File: types.File{
			Path:    "/tmp/test.mp3",
			Format:  types.FormatMP3,
			Size:    1000,
			Reader_: nil,
		},
	}

	err := f.Save()
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected *WriteError, got %T: %v", err, err)
	}
	var unsupportedErr *types.UnsupportedWriteError
	if errors.As(err, &unsupportedErr) {
		t.Fatalf("MP3 has a writer; got %v", err)
	}
}

func TestFile_Close_Idempotent(t *testing.T) {
	closer := &countingCloser{}
	f := &File{closer: closer}

	for range 3 {
		if err := f.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}
	if closer.calls != 1 {
		t.Errorf("underlying Close called %d times, want 1", closer.calls)
	}
}

func TestUnsupportedWriteError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *types.UnsupportedWriteError
		expected string
	}{
		{
			name: "with reason",
			err: &types.UnsupportedWriteError{
				Format: types.FormatMP3,
				Reason: "ID3v2.2 tags are read-only",
			},
			expected: "write not supported for MP3: ID3v2.2 tags are read-only",
		},
		{
			name:     "without reason",
			err:      &types.UnsupportedWriteError{Format: types.FormatUnknown},
			expected: "write not supported for Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// minimalReaderAt is a minimal io.ReaderAt implementation for testing.
type minimalReaderAt struct{}

func (r *minimalReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	return 0, os.ErrNotExist
}

type countingCloser struct{ calls int }

func (c *countingCloser) Close() error {
	c.calls++
	return nil
}

package cyrfix

import (
	"io"

	"github.com/simonhull/cyrfix/internal/types"

	// Format packages register their parsers and writers from init().
	_ "github.com/simonhull/cyrfix/internal/flac"
	_ "github.com/simonhull/cyrfix/internal/mp3"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatFLAC    = types.FormatFLAC
	FormatMP3     = types.FormatMP3
)

// DetectFormat is a wrapper around types.DetectFormat.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// FormatForExtension maps a file extension to a format.
func FormatForExtension(ext string) Format {
	return types.FormatForExtension(ext)
}

package cyrfix

import (
	"github.com/simonhull/cyrfix/internal/types"
)

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
type UnsupportedWriteError = types.UnsupportedWriteError

// UnreadableFileError is an alias to types.UnreadableFileError. Open
// returns it for every failure.
type UnreadableFileError = types.UnreadableFileError

// WriteError is an alias to types.WriteError. Save and SaveAs return it for
// every failure.
type WriteError = types.WriteError

// Warning is an alias to types.Warning.
type Warning = types.Warning

package types

import (
	"io"
	"strings"

	"github.com/simonhull/cyrfix/internal/binary"
)

// Format represents the detected audio container.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatFLAC represents FLAC audio files.
	FormatFLAC
	// FormatMP3 represents MP3 audio files.
	FormatMP3
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatFLAC:
		return "FLAC"
	case FormatMP3:
		return "MP3"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatFLAC:
		return []string{".flac"}
	case FormatMP3:
		return []string{".mp3"}
	default:
		return nil
	}
}

// FormatForExtension maps a file extension (with or without the leading dot,
// any case) to a format.
func FormatForExtension(ext string) Format {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, f := range []Format{FormatFLAC, FormatMP3} {
		for _, known := range f.Extensions() {
			if known == ext {
				return f
			}
		}
	}
	return FormatUnknown
}

// DetectFormat determines the audio container by examining magic bytes.
//
// Only containers this module can rewrite are recognised. Other well-known
// containers produce an UnsupportedFormatError naming them so the audit log
// says why the file was skipped.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	if string(magic) == "fLaC" {
		return FormatFLAC, nil
	}

	if string(magic[:3]) == "ID3" {
		return FormatMP3, nil
	}

	// MPEG frame sync without a leading tag
	if magic[0] == 0xFF && (magic[1]&0xE0) == 0xE0 {
		return FormatMP3, nil
	}

	reason := "unrecognised file signature"
	switch {
	case string(magic) == "OggS":
		reason = "Ogg containers are not supported"
	case string(magic) == "RIFF":
		reason = "RIFF/WAV containers are not supported"
	case string(magic) == "FORM":
		reason = "AIFF containers are not supported"
	case size >= 8:
		atomType := make([]byte, 4)
		if err := sr.ReadAt(atomType, 4, "ftyp atom type"); err == nil && string(atomType) == "ftyp" {
			reason = "MP4/M4A containers are not supported"
		}
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: reason,
	}
}

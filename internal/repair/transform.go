package repair

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// UnsupportedCodepointError reports a character that has no single-byte
// ISO-8859-1 representation, so the value cannot be reinterpreted.
type UnsupportedCodepointError struct {
	Rune   rune
	Offset int // byte offset of the rune in the input
}

func (e *UnsupportedCodepointError) Error() string {
	if e.Rune == utf8.RuneError {
		return fmt.Sprintf("replacement character or invalid UTF-8 at byte %d", e.Offset)
	}
	return fmt.Sprintf("character %q (U+%04X) at byte %d is outside ISO-8859-1", e.Rune, e.Rune, e.Offset)
}

// Repair encodes text as ISO-8859-1 and decodes the resulting bytes as
// Windows-1251.
//
// It is the inverse of decoding Windows-1251 bytes as Latin-1: every rune maps
// to exactly one byte and back to exactly one rune, so the rune count is
// preserved. Text containing a rune above U+00FF fails with
// *UnsupportedCodepointError.
func Repair(text string) (string, error) {
	for i, r := range text {
		if r > 0xFF {
			return "", &UnsupportedCodepointError{Rune: r, Offset: i}
		}
	}

	raw, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return "", fmt.Errorf("encode ISO-8859-1: %w", err)
	}

	fixed, err := charmap.Windows1251.NewDecoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("decode Windows-1251: %w", err)
	}
	return fixed, nil
}

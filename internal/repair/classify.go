// Package repair detects and fixes Windows-1251 text that was decoded as
// ISO-8859-1.
//
// IsValid is an allow-list classifier, Repair reinterprets a string's
// Latin-1 bytes as Windows-1251, and Walker applies both to every registered
// field of a types.Tags record.
package repair

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// allowed matches text drawn entirely from the expected repertoire: Latin and
// Cyrillic letters (with ё), decimal digits, whitespace and common
// punctuation. \x60 is the backtick.
var allowed = regexp.MustCompile(`(?i)^[a-zа-яё\p{Nd}\s\v\p{Zs}\-+=!@#$%^&*()\[\]{};:',<.>/?\x60~_"]*$`)

// IsValid reports whether text needs no repair.
//
// Empty and whitespace-only values are valid. Otherwise the NFC form of text
// must consist only of allow-listed characters. This is a heuristic: unusual
// but legitimate punctuation is flagged, and mojibake that happens to stay
// inside the allow-list is not.
func IsValid(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	return allowed.MatchString(norm.NFC.String(text))
}

package mp3

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	binutil "github.com/simonhull/cyrfix/internal/binary"
	"github.com/simonhull/cyrfix/internal/fields"
	"github.com/simonhull/cyrfix/internal/types"
)

// id3v1Size is the length of an ID3v1 trailer.
const id3v1Size = 128

// v1Slot is a fixed-width text field of an ID3v1 trailer.
type v1Slot struct {
	field  fields.Field
	offset int
	length int
}

const v1CommentOffset = 97

var v1Slots = []v1Slot{
	{field: fields.MustLookup(fields.Title), offset: 3, length: 30},
	{field: fields.MustLookup(fields.Artists), offset: 33, length: 30},
	{field: fields.MustLookup(fields.Album), offset: 63, length: 30},
	{field: fields.MustLookup(fields.Comment), offset: v1CommentOffset, length: 30},
}

// trailer is the ID3v1 tag in the last 128 bytes of the file.
type trailer struct {
	Raw    []byte
	Offset int64
}

// readTrailer returns the ID3v1 trailer, or nil when the file has none. A
// trailer that would overlap the ID3v2 tag ending at after is ignored.
func readTrailer(sr *binutil.SafeReader, after int64) (*trailer, error) {
	off := sr.Size() - id3v1Size
	if off < after {
		return nil, nil
	}
	raw, err := sr.Bytes(off, id3v1Size, "ID3v1 trailer")
	if err != nil {
		return nil, err
	}
	if string(raw[:3]) != "TAG" {
		return nil, nil
	}
	return &trailer{Raw: raw, Offset: off}, nil
}

// width returns the usable length of a slot. ID3v1.1 keeps the track number
// in the last byte of the comment, behind a NUL.
func (tr *trailer) width(s v1Slot) int {
	if s.offset == v1CommentOffset && tr.Raw[125] == 0 && tr.Raw[126] != 0 {
		return s.length - 2
	}
	return s.length
}

// value decodes a slot as Latin-1 up to the first NUL, without trailing
// spaces.
func (tr *trailer) value(s v1Slot) string {
	b := tr.Raw[s.offset : s.offset+tr.width(s)]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	v, err := decodeString(bytes.TrimRight(b, " "), encLatin1)
	if err != nil {
		return ""
	}
	return v
}

// fallBackToTrailer binds trailer slots to the fields the ID3v2 tag leaves
// empty.
func fallBackToTrailer(bound []boundFrame, tr *trailer) {
	if tr == nil {
		return
	}
	for j := range v1Slots {
		v := tr.value(v1Slots[j])
		if v == "" {
			continue
		}
		for i := range bound {
			if bound[i].field.Name() != v1Slots[j].field.Name() || len(bound[i].originalValues()) > 0 {
				continue
			}
			bound[i].slot = &v1Slots[j]
			bound[i].fallback = []string{v}
		}
	}
}

// rewriteTrailer returns the trailer with every slot whose field changed
// set to the field's first value, and whether any slot changed. Values are
// stored as Latin-1 when they fit and as Windows-1251 otherwise.
func rewriteTrailer(tr *trailer, bound []boundFrame, tags *types.Tags) ([]byte, bool) {
	raw := slices.Clone(tr.Raw)
	changed := false
	for _, b := range bound {
		if b.slot == nil {
			continue
		}
		current := b.field.Values(tags)
		if slices.Equal(current, b.fallback) {
			continue
		}
		slot := raw[b.slot.offset : b.slot.offset+tr.width(*b.slot)]
		clear(slot)
		if len(current) > 0 {
			copy(slot, encodeV1(current[0]))
		}
		changed = true
	}
	return raw, changed
}

func encodeV1(s string) []byte {
	if b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s)); err == nil {
		return b
	}
	b, err := encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return b
}

func writeTrailer(out io.Writer, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if _, err := out.Write(raw); err != nil {
		return fmt.Errorf("write ID3v1 trailer: %w", err)
	}
	return nil
}

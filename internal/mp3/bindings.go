package mp3

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/simonhull/cyrfix/internal/fields"
	"github.com/simonhull/cyrfix/internal/types"
)

// binding ties a frame to a Tags field.
type binding struct {
	field   fields.Field
	frameID string
	desc    string // TXXX description, matched case-insensitively
}

// bindings lists every bound frame. Performers has none: TPE1 already
// carries Artists.
var bindings = []binding{
	{frameID: "TIT2", field: fields.MustLookup(fields.Title)},
	{frameID: "TSOT", field: fields.MustLookup(fields.TitleSort)},
	{frameID: "TIT3", field: fields.MustLookup(fields.Subtitle)},
	{frameID: "TXXX", desc: "DESCRIPTION", field: fields.MustLookup(fields.Description)},
	{frameID: "TALB", field: fields.MustLookup(fields.Album)},
	{frameID: "TSOA", field: fields.MustLookup(fields.AlbumSort)},
	{frameID: "TIT1", field: fields.MustLookup(fields.Grouping)},
	{frameID: "COMM", field: fields.MustLookup(fields.Comment)},
	{frameID: "USLT", field: fields.MustLookup(fields.Lyrics)},
	{frameID: "TPE3", field: fields.MustLookup(fields.Conductor)},
	{frameID: "TPE4", field: fields.MustLookup(fields.RemixedBy)},
	{frameID: "TCOP", field: fields.MustLookup(fields.Copyright)},
	{frameID: "TPUB", field: fields.MustLookup(fields.Publisher)},
	{frameID: "TXXX", desc: "LABEL", field: fields.MustLookup(fields.Label)},
	{frameID: "TSRC", field: fields.MustLookup(fields.ISRC)},
	{frameID: "TXXX", desc: "NARRATOR", field: fields.MustLookup(fields.Narrator)},
	{frameID: "TXXX", desc: "SERIES", field: fields.MustLookup(fields.Series)},
	{frameID: "TPE1", field: fields.MustLookup(fields.Artists)},
	{frameID: "TSOP", field: fields.MustLookup(fields.ArtistsSort)},
	{frameID: "TPE2", field: fields.MustLookup(fields.AlbumArtists)},
	{frameID: "TSO2", field: fields.MustLookup(fields.AlbumArtistsSort)},
	{frameID: "TCOM", field: fields.MustLookup(fields.Composers)},
	{frameID: "TSOC", field: fields.MustLookup(fields.ComposersSort)},
	{frameID: "TCON", field: fields.MustLookup(fields.Genres)},
}

// boundFrame is a binding together with the frame it reads from.
type boundFrame struct {
	binding
	text  textFrame
	index int // index into tag.Frames; -1 when the tag has no such frame

	// slot and fallback are set when the field is read from the ID3v1
	// trailer because the ID3v2 tag has no value for it.
	slot     *v1Slot
	fallback []string
}

// originalValues returns the field values the file produced when parsed.
func (b boundFrame) originalValues() []string {
	if b.fallback != nil {
		return b.fallback
	}
	var t types.Tags
	b.field.SetValues(&t, b.text.Values)
	return b.field.Values(&t)
}

// bind locates the frame for every binding. The first matching frame is
// bound; later duplicates are left alone. Frames that cannot be decoded are
// skipped with a warning.
func bind(t *tag) ([]boundFrame, []types.Warning) {
	var warnings []types.Warning
	decoded := make(map[int]textFrame)
	failed := make(map[int]bool)

	decode := func(i int) (textFrame, bool) {
		if tf, ok := decoded[i]; ok {
			return tf, true
		}
		if failed[i] {
			return textFrame{}, false
		}
		f := &t.Frames[i]
		if f.Data == nil {
			failed[i] = true
			warnings = append(warnings, types.Warning{
				Stage:   "metadata",
				Message: fmt.Sprintf("frame %s is compressed or encrypted; left untouched", f.ID),
				Offset:  f.Offset,
			})
			return textFrame{}, false
		}
		tf, err := decodeTextFrame(f.ID, f.Data)
		if err != nil {
			failed[i] = true
			warnings = append(warnings, types.Warning{
				Stage:   "metadata",
				Message: fmt.Sprintf("frame %s: %v", f.ID, err),
				Offset:  f.Offset,
			})
			return textFrame{}, false
		}
		decoded[i] = tf
		return tf, true
	}

	bound := make([]boundFrame, 0, len(bindings))
	for _, b := range bindings {
		bf := boundFrame{binding: b, index: -1}
		if b.frameID == "COMM" {
			bf.index, bf.text = locateComment(t, decode)
		} else {
			for i := range t.Frames {
				if t.Frames[i].ID != b.frameID {
					continue
				}
				tf, ok := decode(i)
				if !ok {
					continue
				}
				if b.desc != "" && !strings.EqualFold(tf.Desc, b.desc) {
					continue
				}
				bf.index, bf.text = i, tf
				break
			}
		}
		bound = append(bound, bf)
	}

	slices.SortFunc(warnings, func(a, b types.Warning) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
	return bound, warnings
}

// locateComment picks the user comment among the COMM frames: the first one
// with an empty description, else the first one that is not an iTunes
// private comment (iTunNORM, iTunSMPB and the like).
func locateComment(t *tag, decode func(int) (textFrame, bool)) (int, textFrame) {
	fallback := -1
	var fallbackText textFrame

	for i := range t.Frames {
		if t.Frames[i].ID != "COMM" {
			continue
		}
		tf, ok := decode(i)
		if !ok {
			continue
		}
		if tf.Desc == "" {
			return i, tf
		}
		if fallback < 0 && !strings.HasPrefix(tf.Desc, "iTun") {
			fallback, fallbackText = i, tf
		}
	}
	return fallback, fallbackText
}

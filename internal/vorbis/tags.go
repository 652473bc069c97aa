package vorbis

import (
	"github.com/simonhull/cyrfix/internal/fields"
	"github.com/simonhull/cyrfix/internal/types"
)

// binding ties a comment key to a Tags field. Scalar fields bind the first
// occurrence of their key; list fields bind every occurrence in order.
type binding struct {
	field fields.Field
	key   string
}

var bindings = []binding{
	{key: "TITLE", field: fields.MustLookup(fields.Title)},
	{key: "TITLESORT", field: fields.MustLookup(fields.TitleSort)},
	{key: "SUBTITLE", field: fields.MustLookup(fields.Subtitle)},
	{key: "DESCRIPTION", field: fields.MustLookup(fields.Description)},
	{key: "ALBUM", field: fields.MustLookup(fields.Album)},
	{key: "ALBUMSORT", field: fields.MustLookup(fields.AlbumSort)},
	{key: "GROUPING", field: fields.MustLookup(fields.Grouping)},
	{key: "COMMENT", field: fields.MustLookup(fields.Comment)},
	{key: "LYRICS", field: fields.MustLookup(fields.Lyrics)},
	{key: "CONDUCTOR", field: fields.MustLookup(fields.Conductor)},
	{key: "REMIXER", field: fields.MustLookup(fields.RemixedBy)},
	{key: "COPYRIGHT", field: fields.MustLookup(fields.Copyright)},
	{key: "PUBLISHER", field: fields.MustLookup(fields.Publisher)},
	{key: "LABEL", field: fields.MustLookup(fields.Label)},
	{key: "ISRC", field: fields.MustLookup(fields.ISRC)},
	{key: "NARRATOR", field: fields.MustLookup(fields.Narrator)},
	{key: "SERIES", field: fields.MustLookup(fields.Series)},
	{key: "ARTIST", field: fields.MustLookup(fields.Artists)},
	{key: "ARTISTSORT", field: fields.MustLookup(fields.ArtistsSort)},
	{key: "PERFORMER", field: fields.MustLookup(fields.Performers)},
	{key: "ALBUMARTIST", field: fields.MustLookup(fields.AlbumArtists)},
	{key: "ALBUMARTISTSORT", field: fields.MustLookup(fields.AlbumArtistsSort)},
	{key: "COMPOSER", field: fields.MustLookup(fields.Composers)},
	{key: "COMPOSERSORT", field: fields.MustLookup(fields.ComposersSort)},
	{key: "GENRE", field: fields.MustLookup(fields.Genres)},
}

// bound returns the comment positions a binding reads from.
func (b *Block) bound(bd binding) []int {
	idx := b.indices(bd.key)
	if bd.field.Shape() == fields.Scalar && len(idx) > 1 {
		idx = idx[:1]
	}
	return idx
}

// ExtractTags fills tags from the bound comments. Unbound keys are ignored.
func (b *Block) ExtractTags(tags *types.Tags) {
	for _, bd := range bindings {
		idx := b.bound(bd)
		if len(idx) == 0 {
			continue
		}
		values := make([]string, len(idx))
		for i, at := range idx {
			values[i] = b.Comments[at].Value
		}
		bd.field.SetValues(tags, values)
	}
}

// ApplyTags rewrites the bound comments to match tags.
//
// Comments keep their position and key spelling. A list that grew gets its
// new values right after its last existing occurrence; a list that shrank
// loses its trailing occurrences. Fields without any comment are appended
// under the canonical upper-case key. Unbound comments are left alone.
func (b *Block) ApplyTags(tags *types.Tags) {
	replace := make(map[int]string)
	drop := make(map[int]bool)
	after := make(map[int][]Comment)
	var tail []Comment

	for _, bd := range bindings {
		idx := b.bound(bd)
		values := bd.field.Values(tags)

		for i, at := range idx {
			if i < len(values) {
				replace[at] = values[i]
			} else {
				drop[at] = true
			}
		}

		if len(values) <= len(idx) {
			continue
		}
		key := bd.key
		if len(idx) > 0 {
			key = b.Comments[idx[len(idx)-1]].Key
		}
		extra := make([]Comment, 0, len(values)-len(idx))
		for _, v := range values[len(idx):] {
			extra = append(extra, Comment{Key: key, Value: v})
		}
		if len(idx) == 0 {
			tail = append(tail, extra...)
		} else {
			last := idx[len(idx)-1]
			after[last] = append(after[last], extra...)
		}
	}

	out := make([]Comment, 0, len(b.Comments)+len(tail))
	for i, c := range b.Comments {
		if !drop[i] {
			if v, ok := replace[i]; ok {
				c.Value = v
			}
			out = append(out, c)
		}
		out = append(out, after[i]...)
	}
	b.Comments = append(out, tail...)
}

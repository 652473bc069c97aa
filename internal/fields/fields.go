// Package fields enumerates the writable text fields of types.Tags.
//
// The registry is an explicit, ordered list of (name, shape) pairs built once
// at package initialisation. Each entry is either a ScalarField or a
// ListField; both expose uniform Values/SetValues access so format writers
// can treat them alike, while the repair walker switches on the concrete
// type to address list elements by index.
package fields

import (
	"slices"

	"github.com/simonhull/cyrfix/internal/types"
)

// Shape distinguishes single-valued from multi-valued fields.
type Shape int

const (
	// Scalar fields hold one (possibly empty) value.
	Scalar Shape = iota
	// List fields hold an ordered sequence of values.
	List
)

func (s Shape) String() string {
	if s == List {
		return "list"
	}
	return "scalar"
}

// Field is a named, writable text field of types.Tags. It is implemented only
// by ScalarField and ListField.
type Field interface {
	Name() string
	Shape() Shape
	// Values returns the field's values; nil when a scalar is empty.
	Values(t *types.Tags) []string
	// SetValues replaces the field's values. Scalars keep only the first.
	SetValues(t *types.Tags, values []string)

	sealed()
}

// ScalarField is a single-valued text field.
type ScalarField struct {
	ref  func(*types.Tags) *string
	name string
}

// Name returns the stable field name used in logs.
func (f ScalarField) Name() string { return f.name }

// Shape returns Scalar.
func (f ScalarField) Shape() Shape { return Scalar }

// Get returns the current value.
func (f ScalarField) Get(t *types.Tags) string { return *f.ref(t) }

// Set replaces the current value.
func (f ScalarField) Set(t *types.Tags, value string) { *f.ref(t) = value }

// Values returns the value as a one-element slice, or nil when empty.
func (f ScalarField) Values(t *types.Tags) []string {
	if v := f.Get(t); v != "" {
		return []string{v}
	}
	return nil
}

// SetValues stores the first value, or clears the field.
func (f ScalarField) SetValues(t *types.Tags, values []string) {
	if len(values) == 0 {
		f.Set(t, "")
		return
	}
	f.Set(t, values[0])
}

func (ScalarField) sealed() {}

// ListField is a multi-valued text field.
type ListField struct {
	ref  func(*types.Tags) *[]string
	name string
}

// Name returns the stable field name used in logs.
func (f ListField) Name() string { return f.name }

// Shape returns List.
func (f ListField) Shape() Shape { return List }

// Get returns a copy of the current values.
func (f ListField) Get(t *types.Tags) []string { return slices.Clone(*f.ref(t)) }

// Set replaces the current values with a copy of values.
func (f ListField) Set(t *types.Tags, values []string) { *f.ref(t) = slices.Clone(values) }

// Values is Get.
func (f ListField) Values(t *types.Tags) []string { return f.Get(t) }

// SetValues is Set.
func (f ListField) SetValues(t *types.Tags, values []string) { f.Set(t, values) }

func (ListField) sealed() {}

func scalar(name string, ref func(*types.Tags) *string) Field {
	return ScalarField{name: name, ref: ref}
}

func list(name string, ref func(*types.Tags) *[]string) Field {
	return ListField{name: name, ref: ref}
}

// Field names. Format packages bind their frame IDs and comment keys to these.
const (
	Title            = "Title"
	TitleSort        = "TitleSort"
	Subtitle         = "Subtitle"
	Description      = "Description"
	Album            = "Album"
	AlbumSort        = "AlbumSort"
	Grouping         = "Grouping"
	Comment          = "Comment"
	Lyrics           = "Lyrics"
	Conductor        = "Conductor"
	RemixedBy        = "RemixedBy"
	Copyright        = "Copyright"
	Publisher        = "Publisher"
	Label            = "Label"
	ISRC             = "ISRC"
	Narrator         = "Narrator"
	Series           = "Series"
	Artists          = "Artists"
	ArtistsSort      = "ArtistsSort"
	Performers       = "Performers"
	AlbumArtists     = "AlbumArtists"
	AlbumArtistsSort = "AlbumArtistsSort"
	Composers        = "Composers"
	ComposersSort    = "ComposersSort"
	Genres           = "Genres"
)

var registry = []Field{
	scalar(Title, func(t *types.Tags) *string { return &t.Title }),
	scalar(TitleSort, func(t *types.Tags) *string { return &t.TitleSort }),
	scalar(Subtitle, func(t *types.Tags) *string { return &t.Subtitle }),
	scalar(Description, func(t *types.Tags) *string { return &t.Description }),
	list(Artists, func(t *types.Tags) *[]string { return &t.Artists }),
	list(ArtistsSort, func(t *types.Tags) *[]string { return &t.ArtistsSort }),
	list(Performers, func(t *types.Tags) *[]string { return &t.Performers }),
	list(AlbumArtists, func(t *types.Tags) *[]string { return &t.AlbumArtists }),
	list(AlbumArtistsSort, func(t *types.Tags) *[]string { return &t.AlbumArtistsSort }),
	list(Composers, func(t *types.Tags) *[]string { return &t.Composers }),
	list(ComposersSort, func(t *types.Tags) *[]string { return &t.ComposersSort }),
	scalar(Conductor, func(t *types.Tags) *string { return &t.Conductor }),
	scalar(RemixedBy, func(t *types.Tags) *string { return &t.RemixedBy }),
	scalar(Album, func(t *types.Tags) *string { return &t.Album }),
	scalar(AlbumSort, func(t *types.Tags) *string { return &t.AlbumSort }),
	scalar(Grouping, func(t *types.Tags) *string { return &t.Grouping }),
	list(Genres, func(t *types.Tags) *[]string { return &t.Genres }),
	scalar(Comment, func(t *types.Tags) *string { return &t.Comment }),
	scalar(Lyrics, func(t *types.Tags) *string { return &t.Lyrics }),
	scalar(Copyright, func(t *types.Tags) *string { return &t.Copyright }),
	scalar(Publisher, func(t *types.Tags) *string { return &t.Publisher }),
	scalar(Label, func(t *types.Tags) *string { return &t.Label }),
	scalar(ISRC, func(t *types.Tags) *string { return &t.ISRC }),
	scalar(Narrator, func(t *types.Tags) *string { return &t.Narrator }),
	scalar(Series, func(t *types.Tags) *string { return &t.Series }),
}

// All returns every registered field in a fixed order.
func All() []Field {
	return slices.Clone(registry)
}

// Lookup returns the field with the given name.
func Lookup(name string) (Field, bool) {
	for _, f := range registry {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// MustLookup is Lookup for names known at compile time; it panics on a typo.
func MustLookup(name string) Field {
	f, ok := Lookup(name)
	if !ok {
		panic("fields: unknown field " + name)
	}
	return f
}

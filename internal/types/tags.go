package types

import (
	"slices"
)

// Tags holds the text metadata of one audio file.
//
// Every field is bound to a frame (ID3v2) or comment key (Vorbis) by the
// format packages, so a value changed here is written back on Save. Scalar
// fields hold a single value; slice fields hold multi-value tags whose order
// is preserved through a read-modify-write cycle.
type Tags struct {
	Title       string
	TitleSort   string
	Subtitle    string
	Description string // TXXX:DESCRIPTION in ID3v2
	Album       string
	AlbumSort   string
	Grouping    string // Content grouping (TIT1 in ID3v2)
	Comment     string
	Lyrics      string
	Conductor   string
	RemixedBy   string
	Copyright   string
	Publisher   string
	Label       string // TXXX:LABEL in ID3v2
	ISRC        string
	Narrator    string // TXXX:NARRATOR in ID3v2
	Series      string // TXXX:SERIES in ID3v2

	Artists          []string
	ArtistsSort      []string
	Performers       []string // Vorbis PERFORMER only; TPE1 is Artists
	AlbumArtists     []string
	AlbumArtistsSort []string
	Composers        []string
	ComposersSort    []string
	Genres           []string
}

// Clone creates a deep copy of the Tags.
//
// Example:
//
//	before := file.Tags.Clone()
func (t *Tags) Clone() *Tags {
	if t == nil {
		return nil
	}

	clone := *t
	clone.Artists = slices.Clone(t.Artists)
	clone.ArtistsSort = slices.Clone(t.ArtistsSort)
	clone.Performers = slices.Clone(t.Performers)
	clone.AlbumArtists = slices.Clone(t.AlbumArtists)
	clone.AlbumArtistsSort = slices.Clone(t.AlbumArtistsSort)
	clone.Composers = slices.Clone(t.Composers)
	clone.ComposersSort = slices.Clone(t.ComposersSort)
	clone.Genres = slices.Clone(t.Genres)
	return &clone
}

// Equal checks if two Tags hold the same values.
//
// A nil slice and an empty slice compare equal.
func (t *Tags) Equal(other *Tags) bool {
	if t == nil && other == nil {
		return true
	}
	if t == nil || other == nil {
		return false
	}

	if t.Title != other.Title ||
		t.TitleSort != other.TitleSort ||
		t.Subtitle != other.Subtitle ||
		t.Description != other.Description ||
		t.Album != other.Album ||
		t.AlbumSort != other.AlbumSort ||
		t.Grouping != other.Grouping ||
		t.Comment != other.Comment ||
		t.Lyrics != other.Lyrics ||
		t.Conductor != other.Conductor ||
		t.RemixedBy != other.RemixedBy ||
		t.Copyright != other.Copyright ||
		t.Publisher != other.Publisher ||
		t.Label != other.Label ||
		t.ISRC != other.ISRC ||
		t.Narrator != other.Narrator ||
		t.Series != other.Series {
		return false
	}

	return slices.Equal(t.Artists, other.Artists) &&
		slices.Equal(t.ArtistsSort, other.ArtistsSort) &&
		slices.Equal(t.Performers, other.Performers) &&
		slices.Equal(t.AlbumArtists, other.AlbumArtists) &&
		slices.Equal(t.AlbumArtistsSort, other.AlbumArtistsSort) &&
		slices.Equal(t.Composers, other.Composers) &&
		slices.Equal(t.ComposersSort, other.ComposersSort) &&
		slices.Equal(t.Genres, other.Genres)
}

// IsEmpty reports whether no field carries a value.
func (t *Tags) IsEmpty() bool {
	return t.Equal(&Tags{})
}

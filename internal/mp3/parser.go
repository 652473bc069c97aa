// Package mp3 reads and rewrites the text frames of ID3v2 tags and the text
// fields of ID3v1 trailers.
//
// ID3v2.3 and ID3v2.4 tags are read and written; ID3v2.2 tags are read
// only. The title, artist, album and comment of an ID3v1 trailer fill the
// fields the ID3v2 tag leaves empty. The audio stream is never interpreted
// and is carried over byte for byte when the tag is rewritten.
package mp3

import (
	"io"

	binutil "github.com/simonhull/cyrfix/internal/binary"
	"github.com/simonhull/cyrfix/internal/registry"
	"github.com/simonhull/cyrfix/internal/types"
)

// parser implements the registry.FormatParser interface
type parser struct{}

// Parse parses a single MP3 file and extracts its text metadata
func (p *parser) Parse(r io.ReaderAt, size int64, path string) (*types.File, error) {
	sr := binutil.NewSafeReader(r, size, path)

	file := &types.File{
		Path:   path,
		Format: types.FormatMP3,
		Size:   size,
	}

	t, err := readTag(sr)
	if err != nil {
		return nil, err
	}
	file.Warnings = append(file.Warnings, t.Warnings...)

	bound, warnings := bind(t)
	file.Warnings = append(file.Warnings, warnings...)

	tr, err := readTrailer(sr, t.End)
	if err != nil {
		return nil, err
	}
	fallBackToTrailer(bound, tr)

	for _, b := range bound {
		if values := b.originalValues(); len(values) > 0 {
			b.field.SetValues(&file.Tags, values)
		}
	}

	return file, nil
}

// init registers the MP3 parser and writer
func init() {
	registry.Register(types.FormatMP3, &parser{})
	registry.RegisterWriter(types.FormatMP3, &writer{})
}

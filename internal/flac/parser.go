// Package flac reads and rewrites the Vorbis comment metadata of FLAC files.
//
// Only the VORBIS_COMMENT block is interpreted. All other metadata blocks
// and the audio frames are carried over byte for byte when the file is
// rewritten.
package flac

import (
	"fmt"
	"io"

	"github.com/simonhull/cyrfix/internal/binary"
	"github.com/simonhull/cyrfix/internal/registry"
	"github.com/simonhull/cyrfix/internal/types"
	"github.com/simonhull/cyrfix/internal/vorbis"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeApplication   = 2
	blockTypeSeekTable     = 3
	blockTypeVorbisComment = 4
	blockTypeCueSheet      = 5
	blockTypePicture       = 6
	blockTypeInvalid       = 127
)

const (
	blockHeaderSize = 4
	maxBlockLength  = 1<<24 - 1
)

// block locates one metadata block.
type block struct {
	Offset int64 // offset of the block header
	Length int64 // body length, excluding the header
	Type   uint8
	Last   bool
}

// layout is the metadata section of a FLAC file.
type layout struct {
	Blocks     []block
	AudioStart int64 // offset of the first audio frame
}

// vorbisIndex returns the index of the first VORBIS_COMMENT block, or -1.
func (l *layout) vorbisIndex() int {
	for i, b := range l.Blocks {
		if b.Type == blockTypeVorbisComment {
			return i
		}
	}
	return -1
}

// readLayout walks the metadata block headers.
func readLayout(sr *binary.SafeReader) (*layout, error) {
	// Verify FLAC magic bytes ("fLaC")
	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "FLAC magic bytes"); err != nil {
		return nil, fmt.Errorf("read FLAC magic: %w", err)
	}
	if string(magic) != "fLaC" {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: 0,
			Reason: "invalid FLAC magic bytes",
		}
	}

	l := &layout{}
	offset := int64(4) // After "fLaC"
	for {
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return nil, &types.CorruptedFileError{
				Path:   sr.Path(),
				Offset: offset,
				Reason: "metadata ends before the last-block flag",
			}
		}

		b := block{
			Offset: offset,
			Last:   (header >> 31) == 1,
			Type:   uint8((header >> 24) & 0x7F),
			Length: int64(header & 0x00FFFFFF),
		}

		if b.Type == blockTypeInvalid {
			return nil, &types.CorruptedFileError{
				Path:   sr.Path(),
				Offset: offset,
				Reason: "invalid metadata block type 127",
			}
		}
		if len(l.Blocks) == 0 && b.Type != blockTypeStreamInfo {
			return nil, &types.CorruptedFileError{
				Path:   sr.Path(),
				Offset: offset,
				Reason: "first metadata block is not STREAMINFO",
			}
		}
		if offset+blockHeaderSize+b.Length > sr.Size() {
			return nil, &types.CorruptedFileError{
				Path:   sr.Path(),
				Offset: offset,
				Reason: fmt.Sprintf("metadata block length %d exceeds file size", b.Length),
			}
		}

		l.Blocks = append(l.Blocks, b)
		offset += blockHeaderSize + b.Length

		// If this was the last metadata block, we're done
		if b.Last {
			break
		}
	}

	l.AudioStart = offset
	return l, nil
}

// readVorbis decodes the VORBIS_COMMENT block b.
func readVorbis(sr *binary.SafeReader, b block) (*vorbis.Block, []error, error) {
	data, err := sr.Bytes(b.Offset+blockHeaderSize, int(b.Length), "VORBIS_COMMENT block")
	if err != nil {
		return nil, nil, err
	}
	return vorbis.Decode(data)
}

// parser implements the registry.FormatParser interface for FLAC files
type parser struct{}

// Parse parses a FLAC file and extracts its text metadata
func (p *parser) Parse(r io.ReaderAt, size int64, path string) (*types.File, error) {
	sr := binary.NewSafeReader(r, size, path)

	l, err := readLayout(sr)
	if err != nil {
		return nil, err
	}

	file := &types.File{
		Path:   path,
		Format: types.FormatFLAC,
		Size:   size,
	}

	seen := false
	for _, b := range l.Blocks {
		if b.Type != blockTypeVorbisComment {
			continue
		}
		if seen {
			file.Warnings = append(file.Warnings, types.Warning{
				Stage:   "metadata",
				Message: "extra VORBIS_COMMENT block ignored",
				Offset:  b.Offset,
			})
			continue
		}
		seen = true

		vc, problems, err := readVorbis(sr, b)
		if err != nil {
			return nil, &types.CorruptedFileError{
				Path:   path,
				Offset: b.Offset,
				Reason: err.Error(),
			}
		}
		for _, problem := range problems {
			file.Warnings = append(file.Warnings, types.Warning{
				Stage:   "metadata",
				Message: fmt.Sprintf("invalid Vorbis comment: %v", problem),
				Offset:  b.Offset,
			})
		}
		vc.ExtractTags(&file.Tags)
	}

	return file, nil
}

// init registers the FLAC parser and writer
func init() {
	registry.Register(types.FormatFLAC, &parser{})
	registry.RegisterWriter(types.FormatFLAC, &writer{})
}

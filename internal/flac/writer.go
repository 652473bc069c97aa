package flac

import (
	"fmt"
	"io"

	"github.com/simonhull/cyrfix/internal/binary"
	"github.com/simonhull/cyrfix/internal/types"
	"github.com/simonhull/cyrfix/internal/vorbis"
)

// defaultPadding is the PADDING block length written when the new metadata
// no longer fits in the space of the old.
const defaultPadding = 4096

// vendorString identifies a VORBIS_COMMENT block created from scratch.
const vendorString = "cyrfix"

// writer implements the registry.FormatWriter interface for FLAC files
type writer struct{}

// Write rebuilds the metadata section with a new VORBIS_COMMENT block and
// copies the audio frames unchanged.
//
// Every block other than VORBIS_COMMENT and PADDING is copied verbatim in
// its original order. The comment block stays at its original position (or
// follows STREAMINFO when the file had none). A single PADDING block at the
// end absorbs the size difference so the audio keeps its offset whenever
// the new metadata fits.
func (w *writer) Write(out io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error {
	sr := binary.NewSafeReader(original, originalSize, file.Path)

	l, err := readLayout(sr)
	if err != nil {
		return err
	}

	vcIndex := l.vorbisIndex()
	vc := &vorbis.Block{Vendor: vendorString}
	if vcIndex >= 0 {
		vc, _, err = readVorbis(sr, l.Blocks[vcIndex])
		if err != nil {
			return &types.CorruptedFileError{
				Path:   file.Path,
				Offset: l.Blocks[vcIndex].Offset,
				Reason: err.Error(),
			}
		}
	} else if file.Tags.IsEmpty() {
		return binary.CopyRange(out, original, 0, originalSize)
	}

	vc.ApplyTags(&file.Tags)
	comments := vc.Encode()
	if len(comments) > maxBlockLength {
		return fmt.Errorf("VORBIS_COMMENT block too large: %d bytes", len(comments))
	}

	// Kept blocks in order, the comment block in place of the first
	// original one, padding last.
	var plan []planned
	for i, b := range l.Blocks {
		switch {
		case i == vcIndex:
			plan = append(plan, planned{src: block{Type: blockTypeVorbisComment}, body: comments})
		case b.Type == blockTypeVorbisComment, b.Type == blockTypePadding:
			// extra comment blocks and padding are dropped
		default:
			plan = append(plan, planned{src: b})
			if vcIndex < 0 && i == 0 {
				plan = append(plan, planned{src: block{Type: blockTypeVorbisComment}, body: comments})
			}
		}
	}

	metadataSize := int64(0)
	for _, e := range plan {
		metadataSize += blockHeaderSize + e.length()
	}

	// Reuse the old metadata space when possible. A gap smaller than a block
	// header cannot be filled, so the padding is regrown.
	room := l.AudioStart - 4
	padding := int64(defaultPadding)
	switch gap := room - metadataSize; {
	case gap == 0:
		padding = -1
	case gap >= blockHeaderSize:
		padding = gap - blockHeaderSize
	}
	if padding > maxBlockLength {
		padding = maxBlockLength
	}
	if padding >= 0 {
		plan = append(plan, planned{src: block{Type: blockTypePadding}, body: make([]byte, padding)})
	}

	sw := binary.NewSafeWriter(out)
	sw.WriteString("fLaC")
	for i, e := range plan {
		header := uint32(e.src.Type)<<24 | uint32(e.length())
		if i == len(plan)-1 {
			header |= 1 << 31
		}
		binary.Write(sw, header)
		if e.body != nil {
			sw.WriteBytes(e.body)
			continue
		}
		if err := sw.Err(); err != nil {
			break
		}
		if err := binary.CopyRange(out, original, e.src.Offset+blockHeaderSize, e.src.Length); err != nil {
			return fmt.Errorf("copy %s block: %w", blockName(e.src.Type), err)
		}
	}
	if err := sw.Err(); err != nil {
		return fmt.Errorf("write FLAC metadata: %w", err)
	}

	return binary.CopyRange(out, original, l.AudioStart, originalSize-l.AudioStart)
}

// planned is one block of the rewritten metadata section.
type planned struct {
	body []byte // nil when copied from src
	src  block
}

func (p planned) length() int64 {
	if p.body != nil {
		return int64(len(p.body))
	}
	return p.src.Length
}

func blockName(t uint8) string {
	switch t {
	case blockTypeStreamInfo:
		return "STREAMINFO"
	case blockTypePadding:
		return "PADDING"
	case blockTypeApplication:
		return "APPLICATION"
	case blockTypeSeekTable:
		return "SEEKTABLE"
	case blockTypeVorbisComment:
		return "VORBIS_COMMENT"
	case blockTypeCueSheet:
		return "CUESHEET"
	case blockTypePicture:
		return "PICTURE"
	default:
		return fmt.Sprintf("type %d", t)
	}
}

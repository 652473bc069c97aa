package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	binutil "github.com/simonhull/cyrfix/internal/binary"
	"github.com/simonhull/cyrfix/internal/fields"
	"github.com/simonhull/cyrfix/internal/types"
)

// defaultPadding is appended when the rewritten tag no longer fits in the
// space of the original one.
const defaultPadding = 1024

// writer implements the registry.FormatWriter interface
type writer struct{}

// Write emits a new ID3v2 tag for file.Tags followed by everything after the
// original tag.
//
// Frames whose bound field is unchanged, and all unbound frames, are copied
// as stored. Changed frames are re-encoded in place; fields that gained a
// value get a new frame after the existing ones, and fields that were
// cleared lose their frame. The tag keeps its major version but is written
// without unsynchronisation, extended header or footer.
//
// A field read from the ID3v1 trailer that changed gets an ID3v2 frame, and
// its trailer slot is rewritten. Other trailer bytes are kept.
func (w *writer) Write(out io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error {
	sr := binutil.NewSafeReader(original, originalSize, file.Path)

	t, err := readTag(sr)
	if err != nil {
		return err
	}

	version := byte(4)
	if t.Present {
		if t.Header.Version == 2 {
			return &types.UnsupportedWriteError{
				Format: types.FormatMP3,
				Reason: "ID3v2.2 tags are read-only",
			}
		}
		version = t.Header.Version
	}

	bound, _ := bind(t)
	tr, err := readTrailer(sr, t.End)
	if err != nil {
		return err
	}
	fallBackToTrailer(bound, tr)

	frames, err := renderFrames(t, bound, &file.Tags, version)
	if err != nil {
		return err
	}

	audioEnd := originalSize
	var v1 []byte
	v1Changed := false
	if tr != nil {
		audioEnd = tr.Offset
		v1, v1Changed = rewriteTrailer(tr, bound, &file.Tags)
	}

	if !t.Present && len(frames) == 0 {
		if !v1Changed {
			return binutil.CopyRange(out, original, 0, originalSize)
		}
		if err := binutil.CopyRange(out, original, 0, audioEnd); err != nil {
			return err
		}
		return writeTrailer(out, v1)
	}

	// Reuse the original space when the frames still fit so the audio
	// stays at the same offset.
	padding := defaultPadding
	if room := int(t.End) - tagHeaderSize; t.Present && len(frames) <= room {
		padding = room - len(frames)
	}

	bodySize := len(frames) + padding
	if bodySize > maxTagSize {
		return fmt.Errorf("ID3v2 tag too large: %d bytes", bodySize)
	}

	sw := binutil.NewSafeWriter(out)
	sw.WriteString("ID3")
	sw.WriteBytes([]byte{version, 0, 0})
	sw.WriteBytes(encodeSynchsafe(uint32(bodySize)))
	sw.WriteBytes(frames)
	sw.WriteBytes(make([]byte, padding))
	if err := sw.Err(); err != nil {
		return fmt.Errorf("write ID3v2 tag: %w", err)
	}

	if err := binutil.CopyRange(out, original, t.End, audioEnd-t.End); err != nil {
		return err
	}
	return writeTrailer(out, v1)
}

// renderFrames returns the frame area of the new tag.
func renderFrames(t *tag, bound []boundFrame, tags *types.Tags, version byte) ([]byte, error) {
	byIndex := make(map[int]boundFrame, len(bound))
	for _, b := range bound {
		if b.index >= 0 {
			byIndex[b.index] = b
		}
	}

	var buf bytes.Buffer
	for i := range t.Frames {
		f := &t.Frames[i]
		b, ok := byIndex[i]
		if !ok {
			buf.Write(preservedFrame(t, f))
			continue
		}

		values, changed := desiredValues(b, tags)
		switch {
		case !changed:
			buf.Write(preservedFrame(t, f))
		case len(values) == 0:
			// field cleared: drop the frame
		default:
			tf := b.text
			tf.Values = values
			raw, err := encodeFrame(f.ID, version, tf)
			if err != nil {
				return nil, err
			}
			buf.Write(raw)
		}
	}

	for _, b := range bound {
		if b.index >= 0 {
			continue
		}
		values, changed := desiredValues(b, tags)
		if !changed || len(values) == 0 {
			continue
		}
		raw, err := encodeFrame(b.frameID, version, textFrame{Desc: b.desc, Values: values})
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}

	return buf.Bytes(), nil
}

// desiredValues compares the field against what its frame held. A scalar
// field replaces only the first value of a multi-value frame.
func desiredValues(b boundFrame, tags *types.Tags) ([]string, bool) {
	current := b.field.Values(tags)
	if slices.Equal(current, b.originalValues()) {
		return nil, false
	}
	if b.field.Shape() == fields.Scalar && len(current) > 0 && len(b.text.Values) > 1 {
		current = append(current, b.text.Values[1:]...)
	}
	return current, true
}

// preservedFrame returns a frame as stored. ID3v2.4 frames that relied on
// the tag-level unsynchronisation flag get the frame-level flag instead,
// because the new tag header is written without it.
func preservedFrame(t *tag, f *frame) []byte {
	raw := f.Raw()
	if t.Header.Version == 4 && t.Header.Flags&tagFlagUnsync != 0 && f.Flags&v24FlagUnsync == 0 {
		raw[9] |= v24FlagUnsync
	}
	return raw
}

// encodeFrame renders a complete text frame with a 10-byte header.
func encodeFrame(id string, version byte, tf textFrame) ([]byte, error) {
	body, err := encodeTextFrame(id, version, tf)
	if err != nil {
		return nil, fmt.Errorf("encode frame %s: %w", id, err)
	}

	hdr := make([]byte, 10, 10+len(body))
	copy(hdr, id)
	if version == 4 {
		copy(hdr[4:8], encodeSynchsafe(uint32(len(body))))
	} else {
		binary.BigEndian.PutUint32(hdr[4:8], uint32(len(body)))
	}
	return append(hdr, body...), nil
}

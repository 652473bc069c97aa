package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"

	binutil "github.com/simonhull/cyrfix/internal/binary"
	"github.com/simonhull/cyrfix/internal/types"
)

const (
	tagHeaderSize = 10
	footerSize    = 10

	// maxTagSize is the largest body a 28-bit synchsafe size can describe.
	maxTagSize = 1<<28 - 1
)

// Tag header flags.
const (
	tagFlagUnsync   = 0x80
	tagFlagExtended = 0x40
	tagFlagFooter   = 0x10
)

// Frame format flags (second flag byte) for ID3v2.3 and ID3v2.4.
const (
	v23FlagCompression = 0x0080
	v23FlagEncryption  = 0x0040
	v23FlagGrouping    = 0x0020

	v24FlagGrouping    = 0x0040
	v24FlagCompression = 0x0008
	v24FlagEncryption  = 0x0004
	v24FlagUnsync      = 0x0002
	v24FlagDataLength  = 0x0001
)

// v22Frames maps the three-character ID3v2.2 frame IDs that carry bound
// fields to their ID3v2.3 equivalents.
var v22Frames = map[string]string{
	"TT1": "TIT1",
	"TT2": "TIT2",
	"TT3": "TIT3",
	"TAL": "TALB",
	"TP1": "TPE1",
	"TP2": "TPE2",
	"TP3": "TPE3",
	"TP4": "TPE4",
	"TRC": "TSRC",
	"TST": "TSOT",
	"TSA": "TSOA",
	"TSP": "TSOP",
	"TS2": "TSO2",
	"TSC": "TSOC",
	"TCM": "TCOM",
	"TCO": "TCON",
	"TCR": "TCOP",
	"TPB": "TPUB",
	"TXX": "TXXX",
	"COM": "COMM",
	"ULT": "USLT",
}

// tagHeader represents an ID3v2 tag header.
type tagHeader struct {
	Version  byte   // Major version (2, 3 or 4)
	Revision byte   // Minor version
	Flags    byte   // Tag flags
	Size     uint32 // Tag size excluding header and footer, synchsafe on disk
}

// frame is one ID3v2 frame as found in the tag.
type frame struct {
	ID     string // 4-character frame ID; ID3v2.2 IDs are mapped to ID3v2.3
	Header []byte // frame header as stored
	Body   []byte // frame body as stored
	// Data is the frame content with grouping byte, data length indicator
	// and unsynchronisation removed. It is nil for compressed or encrypted
	// frames, which are never decoded.
	Data   []byte
	Offset int64
	Flags  uint16
}

// Raw returns the frame exactly as stored.
func (f *frame) Raw() []byte {
	raw := make([]byte, 0, len(f.Header)+len(f.Body))
	raw = append(raw, f.Header...)
	return append(raw, f.Body...)
}

// tag is a parsed ID3v2 tag. A file without a tag yields a tag with
// Present false and End 0.
type tag struct {
	Frames   []frame
	Warnings []types.Warning
	Header   tagHeader
	End      int64 // offset of the first byte after the tag and footer
	Present  bool
}

func (t *tag) warn(offset int64, format string, args ...any) {
	t.Warnings = append(t.Warnings, types.Warning{
		Stage:   "metadata",
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// readTag parses the ID3v2 tag at the start of the file.
//
// Structural problems with the tag as a whole (bad version, size past the
// end of the file) are errors. Problems with individual frames become
// warnings and stop the frame scan; the remaining bytes are treated as
// padding.
func readTag(sr *binutil.SafeReader) (*tag, error) {
	t := &tag{}
	if sr.Size() < tagHeaderSize {
		return t, nil
	}

	buf, err := sr.Bytes(0, tagHeaderSize, "ID3v2 header")
	if err != nil {
		return nil, err
	}
	if string(buf[0:3]) != "ID3" {
		return t, nil
	}

	t.Present = true
	t.Header = tagHeader{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     decodeSynchsafe(buf[6:10]),
	}

	if t.Header.Version < 2 || t.Header.Version > 4 {
		return nil, &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", t.Header.Version),
		}
	}

	t.End = tagHeaderSize + int64(t.Header.Size)
	if t.Header.Version == 4 && t.Header.Flags&tagFlagFooter != 0 {
		t.End += footerSize
	}
	if t.End > sr.Size() {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("ID3v2 tag size %d exceeds file size %d", t.End, sr.Size()),
			Offset: 6,
		}
	}

	body, err := sr.Bytes(tagHeaderSize, int(t.Header.Size), "ID3v2 tag body")
	if err != nil {
		return nil, err
	}

	// ID3v2.2 and ID3v2.3 unsynchronise the whole tag; ID3v2.4 does it per frame.
	if t.Header.Version < 4 && t.Header.Flags&tagFlagUnsync != 0 {
		body = removeUnsync(body)
	}

	start := 0
	if t.Header.Version >= 3 && t.Header.Flags&tagFlagExtended != 0 {
		start, err = extendedHeaderSize(body, t.Header.Version)
		if err != nil {
			return nil, &types.CorruptedFileError{
				Path:   sr.Path(),
				Reason: err.Error(),
				Offset: tagHeaderSize,
			}
		}
	}

	if t.Header.Version == 2 {
		t.warn(0, "ID3v2.2 tag is read-only")
		t.readV22Frames(body)
	} else {
		t.readFrames(body, start)
	}
	return t, nil
}

// readFrames scans ID3v2.3 and ID3v2.4 frames starting at off.
func (t *tag) readFrames(body []byte, off int) {
	v4 := t.Header.Version == 4
	for off+10 <= len(body) {
		if body[off] == 0 {
			return // padding
		}

		hdr := body[off : off+10]
		id := string(hdr[0:4])
		if !validFrameID(id) {
			t.warn(tagHeaderSize+int64(off), "invalid frame ID %q; ignoring rest of tag", id)
			return
		}

		var size int
		if v4 {
			size = int(decodeSynchsafe(hdr[4:8]))
		} else {
			size = int(binary.BigEndian.Uint32(hdr[4:8]))
		}
		if size > len(body)-off-10 {
			t.warn(tagHeaderSize+int64(off), "frame %s size %d exceeds tag; ignoring rest of tag", id, size)
			return
		}

		f := frame{
			ID:     id,
			Header: hdr,
			Body:   body[off+10 : off+10+size],
			Flags:  binary.BigEndian.Uint16(hdr[8:10]),
			Offset: tagHeaderSize + int64(off),
		}
		if v4 {
			f.Data = t.v24FrameData(f)
		} else {
			f.Data = v23FrameData(f)
		}
		t.Frames = append(t.Frames, f)
		off += 10 + size
	}
}

// readV22Frames scans ID3v2.2 frames (6-byte headers, no flags).
func (t *tag) readV22Frames(body []byte) {
	off := 0
	for off+6 <= len(body) {
		if body[off] == 0 {
			return
		}

		hdr := body[off : off+6]
		id := string(hdr[0:3])
		if !validFrameID(id) {
			t.warn(tagHeaderSize+int64(off), "invalid frame ID %q; ignoring rest of tag", id)
			return
		}
		size := int(hdr[3])<<16 | int(hdr[4])<<8 | int(hdr[5])
		if size > len(body)-off-6 {
			t.warn(tagHeaderSize+int64(off), "frame %s size %d exceeds tag; ignoring rest of tag", id, size)
			return
		}

		f := frame{
			ID:     id,
			Header: hdr,
			Body:   body[off+6 : off+6+size],
			Offset: tagHeaderSize + int64(off),
		}
		if mapped, ok := v22Frames[id]; ok {
			f.ID = mapped
		}
		f.Data = f.Body
		t.Frames = append(t.Frames, f)
		off += 6 + size
	}
}

func v23FrameData(f frame) []byte {
	if f.Flags&(v23FlagCompression|v23FlagEncryption) != 0 {
		return nil
	}
	data := f.Body
	if f.Flags&v23FlagGrouping != 0 {
		if len(data) < 1 {
			return nil
		}
		data = data[1:]
	}
	return data
}

func (t *tag) v24FrameData(f frame) []byte {
	if f.Flags&(v24FlagCompression|v24FlagEncryption) != 0 {
		return nil
	}
	data := f.Body
	if f.Flags&v24FlagGrouping != 0 {
		if len(data) < 1 {
			return nil
		}
		data = data[1:]
	}
	if f.Flags&v24FlagDataLength != 0 {
		if len(data) < 4 {
			return nil
		}
		data = data[4:]
	}
	if f.Flags&v24FlagUnsync != 0 || t.Header.Flags&tagFlagUnsync != 0 {
		data = removeUnsync(data)
	}
	return data
}

// extendedHeaderSize returns the number of bytes the extended header
// occupies at the start of the tag body.
func extendedHeaderSize(body []byte, version byte) (int, error) {
	if len(body) < 4 {
		return 0, fmt.Errorf("truncated extended header")
	}

	var n int
	if version == 4 {
		// ID3v2.4: synchsafe size including the size field itself
		n = int(decodeSynchsafe(body[0:4]))
	} else {
		// ID3v2.3: plain size excluding the size field
		n = int(binary.BigEndian.Uint32(body[0:4])) + 4
	}
	if n < 4 || n > len(body) {
		return 0, fmt.Errorf("extended header size %d out of range", n)
	}
	return n, nil
}

// validFrameID reports whether id consists of upper-case letters and digits.
func validFrameID(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// removeUnsync reverses unsynchronisation: every 0xFF 0x00 pair becomes 0xFF.
func removeUnsync(b []byte) []byte {
	if !bytes.Contains(b, []byte{0xFF, 0x00}) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte)
// ID3v2 uses 7-bit encoding where bit 7 is always 0
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// encodeSynchsafe is the inverse of decodeSynchsafe. n must fit in 28 bits.
func encodeSynchsafe(n uint32) []byte {
	return []byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}
}

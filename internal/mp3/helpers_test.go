package mp3

import (
	"bytes"
	"encoding/binary"
	"testing"

	"golang.org/x/text/encoding/charmap"

	binutil "github.com/simonhull/cyrfix/internal/binary"
	"github.com/simonhull/cyrfix/internal/types"
)

// audioPayload stands in for the MPEG stream: a frame header, some bytes
// and an ID3v1 trailer that carries only a year and a genre.
var audioPayload = func() []byte {
	b := []byte{0xFF, 0xFB, 0x90, 0x64, 0x01, 0x02, 0x03, 0x04}
	trailer := make([]byte, id3v1Size)
	copy(trailer, "TAG")
	copy(trailer[93:], "1988")
	trailer[127] = 17
	return append(b, trailer...)
}()

func frameV3(id string, body []byte) []byte {
	b := make([]byte, 10, 10+len(body))
	copy(b, id)
	binary.BigEndian.PutUint32(b[4:8], uint32(len(body)))
	return append(b, body...)
}

func frameV4(id string, flags uint16, body []byte) []byte {
	b := make([]byte, 10, 10+len(body))
	copy(b, id)
	copy(b[4:8], encodeSynchsafe(uint32(len(body))))
	binary.BigEndian.PutUint16(b[8:10], flags)
	return append(b, body...)
}

// buildTag assembles a tag from already encoded frames.
func buildTag(version, flags byte, padding int, frames ...[]byte) []byte {
	var body []byte
	for _, f := range frames {
		body = append(body, f...)
	}
	body = append(body, make([]byte, padding)...)
	return withBody(version, flags, body)
}

func withBody(version, flags byte, body []byte) []byte {
	out := []byte{'I', 'D', '3', version, 0, flags}
	out = append(out, encodeSynchsafe(uint32(len(body)))...)
	return append(out, body...)
}

func mp3File(tag []byte) []byte {
	return append(append([]byte{}, tag...), audioPayload...)
}

// latin1Body encodes a text frame body with encoding byte 0.
func latin1Body(t *testing.T, values ...string) []byte {
	t.Helper()
	body := []byte{encLatin1}
	for i, v := range values {
		if i > 0 {
			body = append(body, 0)
		}
		b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(v))
		if err != nil {
			t.Fatalf("latin1 %q: %v", v, err)
		}
		body = append(body, b...)
	}
	return body
}

// cp1251Body stores Windows-1251 bytes under encoding byte 0, the way the
// broken taggers did.
func cp1251Body(t *testing.T, values ...string) []byte {
	t.Helper()
	body := []byte{encLatin1}
	for i, v := range values {
		if i > 0 {
			body = append(body, 0)
		}
		b, err := charmap.Windows1251.NewEncoder().Bytes([]byte(v))
		if err != nil {
			t.Fatalf("cp1251 %q: %v", v, err)
		}
		body = append(body, b...)
	}
	return body
}

func utf8Body(values ...string) []byte {
	body := []byte{encUTF8}
	for i, v := range values {
		if i > 0 {
			body = append(body, 0)
		}
		body = append(body, v...)
	}
	return body
}

// utf16LEBody writes each value as BOM + UTF-16LE, as ID3v2.3 taggers do.
func utf16LEBody(values ...string) []byte {
	body := []byte{encUTF16}
	for i, v := range values {
		if i > 0 {
			body = append(body, 0, 0)
		}
		body = append(body, 0xFF, 0xFE)
		for _, r := range v {
			body = binary.LittleEndian.AppendUint16(body, uint16(r))
		}
	}
	return body
}

func latin1Described(t *testing.T, lang, desc, text string) []byte {
	t.Helper()
	body := []byte{encLatin1}
	body = append(body, lang...)
	body = append(body, desc...)
	body = append(body, 0)
	return append(body, latin1Body(t, text)[1:]...)
}

func txxxBody(t *testing.T, desc, value string) []byte {
	t.Helper()
	body := []byte{encLatin1}
	body = append(body, desc...)
	body = append(body, 0)
	return append(body, latin1Body(t, value)[1:]...)
}

// addUnsync applies unsynchronisation to every 0xFF byte.
func addUnsync(b []byte) []byte {
	var out []byte
	for _, c := range b {
		out = append(out, c)
		if c == 0xFF {
			out = append(out, 0x00)
		}
	}
	return out
}

func parseBytes(t *testing.T, data []byte) *types.File {
	t.Helper()
	file, err := (&parser{}).Parse(bytes.NewReader(data), int64(len(data)), "test.mp3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return file
}

// rewrite parses data, applies mutate to the tags and writes the result.
func rewrite(t *testing.T, data []byte, mutate func(*types.Tags)) []byte {
	t.Helper()
	file := parseBytes(t, data)
	if mutate != nil {
		mutate(&file.Tags)
	}
	var buf bytes.Buffer
	if err := (&writer{}).Write(&buf, file, bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.Bytes()
}

func readTagBytes(t *testing.T, data []byte) *tag {
	t.Helper()
	tg, err := readTag(binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mp3"))
	if err != nil {
		t.Fatalf("readTag() error = %v", err)
	}
	return tg
}

func findFrame(t *testing.T, tg *tag, id string) *frame {
	t.Helper()
	for i := range tg.Frames {
		if tg.Frames[i].ID == id {
			return &tg.Frames[i]
		}
	}
	return nil
}

// v1Trailer builds an ID3v1.1 trailer with Windows-1251 text. A zero track
// makes it a plain ID3v1 trailer.
func v1Trailer(t *testing.T, title, artist, album, comment string, track byte) []byte {
	t.Helper()
	raw := make([]byte, id3v1Size)
	copy(raw, "TAG")
	for _, f := range []struct {
		value  string
		offset int
	}{{title, 3}, {artist, 33}, {album, 63}, {comment, 97}} {
		b, err := charmap.Windows1251.NewEncoder().Bytes([]byte(f.value))
		if err != nil {
			t.Fatalf("cp1251 %q: %v", f.value, err)
		}
		copy(raw[f.offset:f.offset+30], b)
	}
	copy(raw[93:], "2001")
	if track != 0 {
		raw[125], raw[126] = 0, track
	}
	raw[127] = 17
	return raw
}

package cyrfix_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// mpegFrame stands in for the audio stream.
var mpegFrame = []byte{0xFF, 0xFB, 0x90, 0x64, 0x00, 0x11, 0x22, 0x33}

// id3Frame builds an ID3v2.3 text frame with encoding byte 0.
func id3Frame(t testing.TB, id string, text []byte) []byte {
	t.Helper()
	body := append([]byte{0}, text...)
	f := make([]byte, 10, 10+len(body))
	copy(f, id)
	binary.BigEndian.PutUint32(f[4:8], uint32(len(body)))
	return append(f, body...)
}

// cp1251 returns the Windows-1251 bytes of s.
func cp1251(t testing.TB, s string) []byte {
	t.Helper()
	b, err := charmap.Windows1251.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode %q: %v", s, err)
	}
	return b
}

// mp3Bytes builds an MP3 with an ID3v2.3 tag holding frames and 256 bytes
// of padding.
func mp3Bytes(frames ...[]byte) []byte {
	var body []byte
	for _, f := range frames {
		body = append(body, f...)
	}
	body = append(body, make([]byte, 256)...)

	n := len(body)
	out := []byte{'I', 'D', '3', 3, 0, 0,
		byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
	out = append(out, body...)
	return append(out, mpegFrame...)
}

// writeMojibakeMP3 writes an MP3 whose title and artist are Windows-1251
// stored as Latin-1.
func writeMojibakeMP3(t testing.TB, dir, name string) string {
	t.Helper()
	data := mp3Bytes(
		id3Frame(t, "TIT2", cp1251(t, "Привет")),
		id3Frame(t, "TPE1", cp1251(t, "Кино")),
		id3Frame(t, "TALB", []byte("Clean Album")),
	)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeID3v1OnlyMP3 writes an MP3 without an ID3v2 tag whose ID3v1 title
// and artist hold Windows-1251 text.
func writeID3v1OnlyMP3(t testing.TB, dir, name string) string {
	t.Helper()
	trailer := make([]byte, 128)
	copy(trailer, "TAG")
	copy(trailer[3:33], cp1251(t, "Привет"))
	copy(trailer[33:63], cp1251(t, "Кино"))
	copy(trailer[63:93], "Clean Album")

	data := append(append([]byte{}, mpegFrame...), trailer...)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

package mp3

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/simonhull/cyrfix/internal/types"
)

func TestParse_ID3v23(t *testing.T) {
	data := mp3File(buildTag(3, 0, 64,
		frameV3("TIT2", cp1251Body(t, "Привет")),
		frameV3("TPE1", latin1Body(t, "Artist One", "Artist Two")),
		frameV3("COMM", latin1Described(t, "eng", "iTunNORM", " 00000A0C")),
		frameV3("COMM", latin1Described(t, "eng", "", "Nice record")),
		frameV3("TXXX", txxxBody(t, "narrator", "Reader")),
		frameV3("TCON", latin1Body(t, "Rock")),
		frameV3("TIT2", latin1Body(t, "Duplicate")),
		frameV3("APIC", []byte{0, 'i', 'm', 'g'}),
	))

	file := parseBytes(t, data)

	if file.Format != types.FormatMP3 {
		t.Errorf("Format = %v, want MP3", file.Format)
	}
	if file.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", file.Size, len(data))
	}

	want := types.Tags{
		Title:    "Ïðèâåò",
		Artists:  []string{"Artist One", "Artist Two"},
		Comment:  "Nice record",
		Narrator: "Reader",
		Genres:   []string{"Rock"},
	}
	if diff := cmp.Diff(want, file.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", file.Warnings)
	}
}

func TestParse_ID3v24Encodings(t *testing.T) {
	data := mp3File(buildTag(4, 0, 16,
		frameV4("TIT2", 0, utf8Body("Группа крови")),
		frameV4("TPE2", 0, utf16LEBody("Кино", "Виктор Цой")),
		frameV4("TCOM", 0, append([]byte{encUTF16BE}, 0x04, 0x26, 0x04, 0x3E, 0x04, 0x39)),
		frameV4("TXXX", 0, append([]byte{encUTF8}, []byte("Series\x00Легенды")...)),
		frameV4("USLT", 0, append([]byte{encUTF8}, []byte("rus\x00Текст")...)),
	))

	file := parseBytes(t, data)

	want := types.Tags{
		Title:        "Группа крови",
		AlbumArtists: []string{"Кино", "Виктор Цой"},
		Composers:    []string{"Цой"},
		Series:       "Легенды",
		Lyrics:       "Текст",
	}
	if diff := cmp.Diff(want, file.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TagLevelUnsync(t *testing.T) {
	body := frameV3("TIT2", latin1Body(t, "ÿes"))
	data := mp3File(withBody(3, tagFlagUnsync, addUnsync(body)))

	file := parseBytes(t, data)
	if file.Tags.Title != "ÿes" {
		t.Errorf("Title = %q, want %q", file.Tags.Title, "ÿes")
	}
}

func TestParse_FrameLevelUnsyncWithDataLength(t *testing.T) {
	content := latin1Body(t, "ÿ!")
	body := append(encodeSynchsafe(uint32(len(content))), addUnsync(content)...)
	data := mp3File(buildTag(4, 0, 0,
		frameV4("TIT2", v24FlagUnsync|v24FlagDataLength, body),
	))

	file := parseBytes(t, data)
	if file.Tags.Title != "ÿ!" {
		t.Errorf("Title = %q, want %q", file.Tags.Title, "ÿ!")
	}
}

func TestParse_ExtendedHeaderAndFooter(t *testing.T) {
	var body []byte
	body = append(body, 0, 0, 0, 6, 1, 0) // extended header, synchsafe size 6
	body = append(body, frameV4("TALB", 0, utf8Body("Album"))...)
	body = append(body, make([]byte, 8)...)
	tag := withBody(4, tagFlagExtended|tagFlagFooter, body)
	footer := append([]byte("3DI"), tag[3:10]...)
	data := mp3File(append(tag, footer...))

	tg := readTagBytes(t, data)
	if want := int64(len(tag) + footerSize); tg.End != want {
		t.Errorf("End = %d, want %d", tg.End, want)
	}

	file := parseBytes(t, data)
	if file.Tags.Album != "Album" {
		t.Errorf("Album = %q, want %q", file.Tags.Album, "Album")
	}
}

func TestParse_ID3v22(t *testing.T) {
	frame := func(id string, body []byte) []byte {
		n := len(body)
		return append([]byte{id[0], id[1], id[2], byte(n >> 16), byte(n >> 8), byte(n)}, body...)
	}
	data := mp3File(buildTag(2, 0, 4,
		frame("TT2", cp1251Body(t, "Звезда")),
		frame("TP1", latin1Body(t, "Kino")),
	))

	file := parseBytes(t, data)
	if file.Tags.Title != "Çâåçäà" {
		t.Errorf("Title = %q", file.Tags.Title)
	}
	if diff := cmp.Diff([]string{"Kino"}, file.Tags.Artists); diff != "" {
		t.Errorf("Artists mismatch (-want +got):\n%s", diff)
	}
	if len(file.Warnings) != 1 || !strings.Contains(file.Warnings[0].Message, "read-only") {
		t.Errorf("expected read-only warning, got %v", file.Warnings)
	}
}

func TestParse_NoTag(t *testing.T) {
	file := parseBytes(t, audioPayload)
	if !file.Tags.IsEmpty() {
		t.Errorf("expected empty tags, got %+v", file.Tags)
	}
}

func TestParse_InvalidFrameIDStopsScan(t *testing.T) {
	data := mp3File(buildTag(3, 0, 0,
		frameV3("TIT2", latin1Body(t, "Kept")),
		frameV3("t!t2", latin1Body(t, "Garbage")),
		frameV3("TALB", latin1Body(t, "Lost")),
	))

	file := parseBytes(t, data)
	if file.Tags.Title != "Kept" {
		t.Errorf("Title = %q, want %q", file.Tags.Title, "Kept")
	}
	if file.Tags.Album != "" {
		t.Errorf("Album = %q, want it ignored", file.Tags.Album)
	}
	if len(file.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", file.Warnings)
	}
}

func TestParse_CompressedFrameSkipped(t *testing.T) {
	data := mp3File(buildTag(3, 0, 0,
		frameWithFlags("TIT2", v23FlagCompression, []byte{0, 0, 0, 4, 0x78, 0x9C}),
		frameV3("TIT2", latin1Body(t, "Plain")),
	))

	file := parseBytes(t, data)
	if file.Tags.Title != "Plain" {
		t.Errorf("Title = %q, want the first decodable frame", file.Tags.Title)
	}
	if len(file.Warnings) != 1 || !strings.Contains(file.Warnings[0].Message, "compressed") {
		t.Errorf("expected compressed-frame warning, got %v", file.Warnings)
	}
}

func frameWithFlags(id string, flags uint16, body []byte) []byte {
	f := frameV3(id, body)
	f[8], f[9] = byte(flags>>8), byte(flags)
	return f
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		target any
	}{
		{
			name:   "unsupported version",
			data:   mp3File([]byte{'I', 'D', '3', 5, 0, 0, 0, 0, 0, 0}),
			target: new(*types.UnsupportedFormatError),
		},
		{
			name:   "size past end of file",
			data:   []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0x7F, 0x7F},
			target: new(*types.CorruptedFileError),
		},
		{
			name:   "extended header out of range",
			data:   mp3File(withBody(3, tagFlagExtended, []byte{0, 0, 1, 0, 0, 0})),
			target: new(*types.CorruptedFileError),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&parser{}).Parse(bytes.NewReader(tc.data), int64(len(tc.data)), "bad.mp3")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.As(err, tc.target) {
				t.Errorf("error %T (%v) does not match %T", err, err, tc.target)
			}
		})
	}
}

func TestDecodeTextFrame(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		data    []byte
		want    textFrame
		wantErr bool
	}{
		{
			name: "latin1 padded with NULs",
			id:   "TIT2",
			data: []byte{encLatin1, 'a', 'b', 0, 0, 0},
			want: textFrame{Enc: encLatin1, Values: []string{"ab"}},
		},
		{
			name: "utf-16 big-endian BOM",
			id:   "TIT2",
			data: []byte{encUTF16, 0xFE, 0xFF, 0x04, 0x1A, 0x04, 0x38},
			want: textFrame{Enc: encUTF16, Values: []string{"Ки"}},
		},
		{
			name: "utf-16 values with own BOMs",
			id:   "TPE1",
			data: utf16LEBody("A", "Б"),
			want: textFrame{Enc: encUTF16, Values: []string{"A", "Б"}},
		},
		{
			name: "empty middle value kept",
			id:   "TCON",
			data: utf8Body("Rock", "", "Pop"),
			want: textFrame{Enc: encUTF8, Values: []string{"Rock", "", "Pop"}},
		},
		{
			name: "comment without description terminator",
			id:   "COMM",
			data: []byte{encLatin1, 'e', 'n', 'g', 'x'},
			want: textFrame{Enc: encLatin1, Lang: "eng", Desc: "x"},
		},
		{
			name: "only encoding byte",
			id:   "TALB",
			data: []byte{encUTF8},
			want: textFrame{Enc: encUTF8},
		},
		{name: "empty", id: "TIT2", data: nil, wantErr: true},
		{name: "unknown encoding", id: "TIT2", data: []byte{7, 'a'}, wantErr: true},
		{name: "truncated comment", id: "COMM", data: []byte{encLatin1, 'e'}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeTextFrame(tc.id, tc.data)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeTextFrame() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeTextFrame_Encodings(t *testing.T) {
	tf := textFrame{Lang: "rus", Desc: "Описание", Values: []string{"Текст"}}

	for _, version := range []byte{3, 4} {
		body, err := encodeTextFrame("COMM", version, tf)
		if err != nil {
			t.Fatalf("v2.%d: encodeTextFrame() error = %v", version, err)
		}
		wantEnc := encUTF8
		if version == 3 {
			wantEnc = encUTF16
		}
		if body[0] != wantEnc {
			t.Errorf("v2.%d: encoding byte = %d, want %d", version, body[0], wantEnc)
		}

		got, err := decodeTextFrame("COMM", body)
		if err != nil {
			t.Fatalf("v2.%d: decodeTextFrame() error = %v", version, err)
		}
		got.Enc = 0
		if diff := cmp.Diff(tf, got); diff != "" {
			t.Errorf("v2.%d: mismatch (-want +got):\n%s", version, diff)
		}
	}
}

func TestSynchsafe(t *testing.T) {
	for _, n := range []uint32{0, 127, 128, 1024, 255 << 7, maxTagSize} {
		if got := decodeSynchsafe(encodeSynchsafe(n)); got != n {
			t.Errorf("synchsafe(%d) = %d", n, got)
		}
	}
	if got := decodeSynchsafe([]byte{0x00, 0x00, 0x02, 0x01}); got != 257 {
		t.Errorf("decodeSynchsafe = %d, want 257", got)
	}
}

func TestRemoveUnsync(t *testing.T) {
	in := []byte{0x01, 0xFF, 0x00, 0xE0, 0xFF, 0x00, 0x00, 0xFF}
	want := []byte{0x01, 0xFF, 0xE0, 0xFF, 0x00, 0xFF}
	if got := removeUnsync(in); !bytes.Equal(got, want) {
		t.Errorf("removeUnsync() = % X, want % X", got, want)
	}
}

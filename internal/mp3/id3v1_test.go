package mp3

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/simonhull/cyrfix/internal/types"
)

var mpegStream = []byte{0xFF, 0xFB, 0x90, 0x64, 0x01, 0x02, 0x03, 0x04}

func withTrailer(head, v1 []byte) []byte {
	out := append(append([]byte{}, head...), mpegStream...)
	return append(out, v1...)
}

func TestParse_ID3v1Fallback(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want types.Tags
	}{
		{
			name: "trailer only",
			data: withTrailer(nil, v1Trailer(t, "Привет", "Кино", "Звезда", "Note", 5)),
			want: types.Tags{
				Title:   "Ïðèâåò",
				Artists: []string{"Êèíî"},
				Album:   "Çâåçäà",
				Comment: "Note",
			},
		},
		{
			name: "ID3v2 wins",
			data: withTrailer(
				buildTag(3, 0, 16, frameV3("TALB", latin1Body(t, "Tag album"))),
				v1Trailer(t, "Привет", "", "Звезда", "", 0),
			),
			want: types.Tags{
				Title: "Ïðèâåò",
				Album: "Tag album",
			},
		},
		{
			name: "empty ID3v2 frame falls back",
			data: withTrailer(
				buildTag(3, 0, 16, frameV3("TIT2", []byte{encLatin1})),
				v1Trailer(t, "Trailer title", "", "", "", 0),
			),
			want: types.Tags{Title: "Trailer title"},
		},
		{
			name: "space padded",
			data: withTrailer(nil, func() []byte {
				raw := v1Trailer(t, "", "", "", "", 0)
				copy(raw[3:33], bytes.Repeat([]byte{' '}, 30))
				copy(raw[3:], "Padded")
				return raw
			}()),
			want: types.Tags{Title: "Padded"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file := parseBytes(t, tc.data)
			if diff := cmp.Diff(tc.want, file.Tags); diff != "" {
				t.Errorf("Tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ID3v1Comment(t *testing.T) {
	long := "A comment that fills all thirty"[:30]

	plain := parseBytes(t, withTrailer(nil, v1Trailer(t, "", "", "", long, 0)))
	if plain.Tags.Comment != long {
		t.Errorf("ID3v1 comment = %q, want %q", plain.Tags.Comment, long)
	}

	v11 := parseBytes(t, withTrailer(nil, v1Trailer(t, "", "", "", long[:28], 7)))
	if v11.Tags.Comment != long[:28] {
		t.Errorf("ID3v1.1 comment = %q, want %q", v11.Tags.Comment, long[:28])
	}
}

func TestWrite_ID3v1RepairPromotesToID3v2(t *testing.T) {
	v1 := v1Trailer(t, "Привет", "Кино", "Clean", "", 3)
	data := withTrailer(nil, v1)

	out := rewrite(t, data, func(tags *types.Tags) { tags.Title = "Привет" })

	if !bytes.HasPrefix(out, []byte{'I', 'D', '3', 4, 0}) {
		t.Fatalf("expected a new ID3v2.4 tag, got % X", out[:5])
	}
	// The repaired title is the Windows-1251 text the trailer already holds.
	if !bytes.HasSuffix(out, append(append([]byte{}, mpegStream...), v1...)) {
		t.Error("audio and trailer not preserved")
	}

	tg := readTagBytes(t, out)
	if len(tg.Frames) != 1 || tg.Frames[0].ID != "TIT2" {
		t.Errorf("frames = %v, want only TIT2", frameIDs(tg))
	}

	file := parseBytes(t, out)
	want := types.Tags{
		Title:   "Привет",
		Artists: []string{"Êèíî"},
		Album:   "Clean",
	}
	if diff := cmp.Diff(want, file.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_ID3v1SlotsRewritten(t *testing.T) {
	tagged := buildTag(3, 0, 64, frameV3("TIT2", latin1Body(t, "Title")))
	data := withTrailer(tagged, v1Trailer(t, "Old", "", "Album", "Remove me", 9))

	out := rewrite(t, data, func(tags *types.Tags) {
		tags.Album = "Café"
		tags.Comment = ""
	})

	if len(out) != len(data) {
		t.Errorf("output size = %d, want %d", len(out), len(data))
	}
	v1 := out[len(out)-id3v1Size:]
	if got := string(bytes.TrimRight(v1[63:93], "\x00")); got != "Caf\xe9" {
		t.Errorf("album slot = %q, want Latin-1 Café", got)
	}
	if !bytes.Equal(v1[97:125], make([]byte, 28)) {
		t.Errorf("comment slot not cleared: % X", v1[97:125])
	}
	if v1[126] != 9 {
		t.Errorf("track byte = %d, want 9", v1[126])
	}
	if got := string(bytes.TrimRight(v1[3:33], "\x00")); got != "Old" {
		t.Errorf("title slot = %q, shadowed slot must be left alone", got)
	}

	file := parseBytes(t, out)
	want := types.Tags{Title: "Title", Album: "Café"}
	if diff := cmp.Diff(want, file.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_ID3v1ClearWithoutID3v2(t *testing.T) {
	data := withTrailer(nil, v1Trailer(t, "", "", "", "Gone", 0))

	out := rewrite(t, data, func(tags *types.Tags) { tags.Comment = "" })

	if bytes.HasPrefix(out, []byte("ID3")) {
		t.Error("clearing a trailer field must not create an ID3v2 tag")
	}
	if len(out) != len(data) {
		t.Fatalf("output size = %d, want %d", len(out), len(data))
	}
	if !parseBytes(t, out).Tags.IsEmpty() {
		t.Errorf("Tags = %+v, want empty", parseBytes(t, out).Tags)
	}
}

func frameIDs(tg *tag) []string {
	ids := make([]string, 0, len(tg.Frames))
	for _, f := range tg.Frames {
		ids = append(ids, f.ID)
	}
	return ids
}

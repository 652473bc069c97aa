// Package vorbis provides shared Vorbis comment parsing utilities.
//
// A Vorbis comment header is a vendor string followed by UTF-8 strings in
// "KEY=VALUE" format. Keys are case-insensitive and may repeat; the stored
// order is kept through a read-modify-write cycle.
package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Comment is a single "KEY=VALUE" entry. A malformed entry is kept with an
// empty Key and the stored string as Value so it survives a rewrite.
type Comment struct {
	Key   string
	Value string
}

// String returns the comment in its stored "KEY=VALUE" form.
func (c Comment) String() string {
	if c.Key == "" {
		return c.Value
	}
	return c.Key + "=" + c.Value
}

// Block is a decoded Vorbis comment header.
type Block struct {
	Vendor   string
	Comments []Comment
}

var errTruncated = errors.New("truncated Vorbis comment block")

// ParseComment splits a comment at its first '='.
//
// Returns an error if the comment is not in valid "KEY=VALUE" format.
func ParseComment(comment string) (Comment, error) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return Comment{}, fmt.Errorf("missing '=' in comment: %s", comment)
	}
	if !validKey(key) {
		return Comment{}, fmt.Errorf("invalid key %q", key)
	}
	return Comment{Key: key, Value: value}, nil
}

// validKey reports whether key is non-empty printable ASCII 0x20-0x7D
// without '='.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if c := key[i]; c < 0x20 || c > 0x7D || c == '=' {
			return false
		}
	}
	return true
}

// Decode parses a Vorbis comment header with little-endian lengths, as
// stored in a FLAC VORBIS_COMMENT block.
//
// Malformed comments (no '=', bad key) are reported in the second result
// and kept in the block as opaque entries; structural truncation fails the
// whole decode.
func Decode(data []byte) (*Block, []error, error) {
	r := &reader{data: data}

	vendor, err := r.lengthPrefixed()
	if err != nil {
		return nil, nil, fmt.Errorf("read vendor string: %w", err)
	}

	count, err := r.uint32()
	if err != nil {
		return nil, nil, fmt.Errorf("read comment count: %w", err)
	}

	b := &Block{Vendor: string(vendor)}
	var problems []error
	for i := uint32(0); i < count; i++ {
		raw, err := r.lengthPrefixed()
		if err != nil {
			return nil, nil, fmt.Errorf("read comment %d: %w", i, err)
		}
		c, err := ParseComment(string(raw))
		if err != nil {
			problems = append(problems, fmt.Errorf("comment %d: %w", i, err))
			c = Comment{Value: string(raw)}
		}
		b.Comments = append(b.Comments, c)
	}

	return b, problems, nil
}

// Encode renders the block with little-endian lengths.
func (b *Block) Encode() []byte {
	size := 8 + len(b.Vendor)
	for _, c := range b.Comments {
		size += 4 + len(c.Key) + 1 + len(c.Value)
	}

	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.Vendor)))
	out = append(out, b.Vendor...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.Comments)))
	for _, c := range b.Comments {
		s := c.String()
		out = binary.LittleEndian.AppendUint32(out, uint32(len(s)))
		out = append(out, s...)
	}
	return out
}

// indices returns the positions of the comments with the given key.
func (b *Block) indices(key string) []int {
	var idx []int
	for i, c := range b.Comments {
		if strings.EqualFold(c.Key, key) {
			idx = append(idx, i)
		}
	}
	return idx
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) uint32() (uint32, error) {
	if len(r.data)-r.off < 4 {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) lengthPrefixed() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(len(r.data)-r.off) {
		return nil, errTruncated
	}
	b := r.data[r.off : r.off+int(n)]
	r.off += int(n)
	return b, nil
}

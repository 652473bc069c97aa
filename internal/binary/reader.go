// Package binary provides bounds-checked reading and offset-tracking writing
// primitives shared by the tag container parsers and writers.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian is used by ID3v2 frame headers and FLAC block headers.
	BigEndian Endianness = iota

	// LittleEndian is used by Vorbis comment lengths.
	LittleEndian
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the size of the underlying data.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size {
		return fmt.Errorf("%s: offset %d out of bounds (file size: %d) while reading %s",
			sr.path, off, sr.size, what)
	}

	if off+int64(len(b)) > sr.size {
		return fmt.Errorf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
			sr.path, len(b), off, sr.size, what)
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// Bytes reads n bytes at off into a freshly allocated slice.
func (sr *SafeReader) Bytes(off int64, n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%s: negative length %d while reading %s", sr.path, n, what)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Read reads a big-endian value of type T from the given offset.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadLE reads a little-endian value of type T from the given offset.
//
//	length, err := binary.ReadLE[uint32](sr, offset, "vorbis comment length")
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
func ReadEndian[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	var zero T
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}

	switch any(zero).(type) {
	case uint8:
		buf, err := sr.Bytes(off, 1, what)
		if err != nil {
			return zero, err
		}
		return T(buf[0]), nil
	case uint16:
		buf, err := sr.Bytes(off, 2, what)
		if err != nil {
			return zero, err
		}
		return T(order.Uint16(buf)), nil
	case uint32:
		buf, err := sr.Bytes(off, 4, what)
		if err != nil {
			return zero, err
		}
		return T(order.Uint32(buf)), nil
	default:
		buf, err := sr.Bytes(off, 8, what)
		if err != nil {
			return zero, err
		}
		return T(order.Uint64(buf)), nil
	}
}

// CopyRange copies n bytes starting at off from r to w. It is used by the
// writers to carry the audio payload over unchanged.
func CopyRange(w io.Writer, r io.ReaderAt, off, n int64) error {
	if n <= 0 {
		return nil
	}
	copied, err := io.Copy(w, io.NewSectionReader(r, off, n))
	if err != nil {
		return fmt.Errorf("copy %d bytes at offset %d: %w", n, off, err)
	}
	if copied != n {
		return fmt.Errorf("copy at offset %d: short copy (%d of %d bytes)", off, copied, n)
	}
	return nil
}

package binary

import (
	"encoding/binary"
	"io"
)

// SafeWriter wraps io.Writer with position tracking and sticky errors.
//
// After the first failed write every later call is a no-op and Err reports
// the failure, so callers can emit a whole structure and check once.
type SafeWriter struct {
	w      io.Writer
	err    error
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// Err returns the first write error, if any.
func (sw *SafeWriter) Err() error {
	return sw.err
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	if sw.err != nil {
		return sw.err
	}
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	sw.err = err
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// Write writes a value of type T in big-endian byte order.
func Write[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return WriteEndian(sw, val, BigEndian)
}

// WriteLE writes a value of type T in little-endian byte order.
func WriteLE[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return WriteEndian(sw, val, LittleEndian)
}

// WriteEndian writes a value of type T with the given byte order.
func WriteEndian[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T, endian Endianness) error {
	var order binary.AppendByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}

	var buf []byte
	var zero T
	switch any(zero).(type) {
	case uint8:
		buf = []byte{byte(val)}
	case uint16:
		buf = order.AppendUint16(nil, uint16(val))
	case uint32:
		buf = order.AppendUint32(nil, uint32(val))
	default:
		buf = order.AppendUint64(nil, uint64(val))
	}

	return sw.WriteBytes(buf)
}

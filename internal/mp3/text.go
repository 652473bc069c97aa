package mp3

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Text encoding bytes used by ID3v2 text frames.
const (
	encLatin1  byte = 0 // ISO-8859-1
	encUTF16   byte = 1 // UTF-16 with BOM
	encUTF16BE byte = 2 // UTF-16BE without BOM (ID3v2.4)
	encUTF8    byte = 3 // UTF-8 (ID3v2.4)
)

var (
	errEmptyFrame     = errors.New("empty frame")
	errTruncatedFrame = errors.New("truncated frame")
)

// textFrame is the decoded content of a text-bearing frame: a T*** text
// frame, TXXX, COMM or USLT.
type textFrame struct {
	Lang   string // COMM and USLT only
	Desc   string // TXXX, COMM and USLT only
	Values []string
	Enc    byte
}

// decodeTextFrame decodes the content of a text-bearing frame.
//
// Multiple values are separated by the encoding's NUL terminator. Trailing
// empty values (terminator padding) are dropped.
func decodeTextFrame(id string, data []byte) (textFrame, error) {
	if len(data) < 1 {
		return textFrame{}, errEmptyFrame
	}

	tf := textFrame{Enc: data[0]}
	if tf.Enc > encUTF8 {
		return tf, fmt.Errorf("unknown text encoding %d", tf.Enc)
	}
	body := data[1:]

	switch id {
	case "COMM", "USLT":
		// [encoding][language(3)][description\0][text]
		if len(body) < 3 {
			return tf, errTruncatedFrame
		}
		tf.Lang = string(body[:3])
		desc, rest := cutTerminated(body[3:], tf.Enc)
		var err error
		if tf.Desc, err = decodeString(desc, tf.Enc); err != nil {
			return tf, err
		}
		text, _ := cutTerminated(rest, tf.Enc)
		value, err := decodeString(text, tf.Enc)
		if err != nil {
			return tf, err
		}
		if value != "" {
			tf.Values = []string{value}
		}
		return tf, nil

	case "TXXX":
		// [encoding][description\0][value(s)]
		desc, rest := cutTerminated(body, tf.Enc)
		var err error
		if tf.Desc, err = decodeString(desc, tf.Enc); err != nil {
			return tf, err
		}
		tf.Values, err = decodeValues(rest, tf.Enc)
		return tf, err

	default:
		var err error
		tf.Values, err = decodeValues(body, tf.Enc)
		return tf, err
	}
}

// encodeTextFrame renders tf as the body of frame id. ID3v2.4 frames are
// written as UTF-8, ID3v2.3 frames as UTF-16 with BOM.
func encodeTextFrame(id string, version byte, tf textFrame) ([]byte, error) {
	enc := encUTF8
	if version < 4 {
		enc = encUTF16
	}

	var buf bytes.Buffer
	buf.WriteByte(enc)

	switch id {
	case "COMM", "USLT":
		lang := tf.Lang
		if len(lang) != 3 {
			lang = "eng"
		}
		buf.WriteString(lang)
		if err := writeTerminated(&buf, tf.Desc, enc); err != nil {
			return nil, err
		}
		if len(tf.Values) > 0 {
			b, err := encodeString(tf.Values[0], enc)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}

	case "TXXX":
		if err := writeTerminated(&buf, tf.Desc, enc); err != nil {
			return nil, err
		}
		if err := writeValues(&buf, tf.Values, enc); err != nil {
			return nil, err
		}

	default:
		if err := writeValues(&buf, tf.Values, enc); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodeValues(data []byte, enc byte) ([]string, error) {
	var values []string
	for len(data) > 0 {
		var part []byte
		part, data = cutTerminated(data, enc)
		s, err := decodeString(part, enc)
		if err != nil {
			return nil, err
		}
		values = append(values, s)
	}
	for len(values) > 0 && values[len(values)-1] == "" {
		values = values[:len(values)-1]
	}
	return values, nil
}

func writeValues(buf *bytes.Buffer, values []string, enc byte) error {
	for i, v := range values {
		if i > 0 {
			buf.Write(terminator(enc))
		}
		b, err := encodeString(v, enc)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func writeTerminated(buf *bytes.Buffer, s string, enc byte) error {
	b, err := encodeString(s, enc)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.Write(terminator(enc))
	return nil
}

// cutTerminated splits data at the first NUL terminator for the encoding.
// When there is no terminator, all of data is returned as before.
func cutTerminated(data []byte, enc byte) (before, after []byte) {
	if enc == encUTF16 || enc == encUTF16BE {
		// UTF-16 (double-byte null, aligned)
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return data[:i], data[i+2:]
			}
		}
		return data, nil
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, nil
}

func terminator(enc byte) []byte {
	if enc == encUTF16 || enc == encUTF16BE {
		return []byte{0, 0}
	}
	return []byte{0}
}

func textEncoding(enc byte) encoding.Encoding {
	switch enc {
	case encLatin1:
		return charmap.ISO8859_1
	case encUTF16:
		// BOM decides; big-endian when absent
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case encUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return nil
	}
}

// decodeString decodes one value. UTF-8 is taken as is.
func decodeString(b []byte, enc byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	e := textEncoding(enc)
	if e == nil {
		return string(b), nil
	}
	out, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode text (encoding %d): %w", enc, err)
	}
	return string(out), nil
}

// encodeString encodes one value. UTF-16 values are written little-endian
// with a BOM, as most taggers do.
func encodeString(s string, enc byte) ([]byte, error) {
	switch enc {
	case encUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
	case encLatin1, encUTF16BE:
		return textEncoding(enc).NewEncoder().Bytes([]byte(s))
	default:
		return []byte(s), nil
	}
}

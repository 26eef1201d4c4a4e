package regtext

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeInput converts .reg file bytes to UTF-8 text.
//
// A byte order mark selects UTF-8 or UTF-16. Without one the input is
// taken as UTF-8 when valid, and as Windows-1252 otherwise (the encoding
// REGEDIT4 and most non-Windows exporters produce).
func decodeInput(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM), bytes.HasPrefix(data, utf16LEBOM), bytes.HasPrefix(data, utf16BEBOM):
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", fmt.Errorf("regtext: decode: %w", err)
		}
		return string(out), nil
	case utf8.Valid(data):
		return string(data), nil
	default:
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("regtext: decode: %w", err)
		}
		return string(out), nil
	}
}

// encodeUTF16LEZeroTerminated encodes s as UTF-16LE followed by a NUL
// code unit, the layout of REG_SZ data.
func encodeUTF16LEZeroTerminated(s string) ([]byte, error) {
	out, err := utf16LE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return append(out, 0, 0), nil
}

// utf16Writer wraps w so that UTF-8 written to it reaches w as UTF-16LE
// with a leading byte order mark. Close flushes.
func utf16Writer(w io.Writer) io.WriteCloser {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	return transform.NewWriter(w, enc)
}

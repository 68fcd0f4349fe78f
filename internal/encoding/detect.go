// Package encoding normalizes uploaded text reports to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a report was read as.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_15  Charset = "ISO-8859-15"
	ISO8859_9   Charset = "ISO-8859-9"
)

// sniffSize is how much of the input is inspected before deciding.
const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

var decoders = map[Charset]encoding.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252: charmap.Windows1252,
	ISO8859_15:  charmap.ISO8859_15,
	ISO8859_9:   charmap.ISO8859_9,
}

// Decode sniffs the charset of r and returns a reader yielding UTF-8.
//
// A byte order mark wins. Otherwise valid UTF-8 passes through untouched and
// anything else goes through chardet, falling back to Windows-1252, which is
// what spreadsheet exports from payment portals usually are.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, UTF16LE), UTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, UTF16BE), UTF16BE, nil
	}

	if validUTF8Prefix(buf, len(buf) == sniffSize) {
		return br, UTF8, nil
	}

	cs := guess(buf)
	if cs == UTF8 {
		return br, UTF8, nil
	}

	return decode(br, cs), cs, nil
}

// NewUTF8Reader is Decode without the detected charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}

func decode(r io.Reader, cs Charset) io.Reader {
	return transform.NewReader(r, decoders[cs].NewDecoder())
}

// validUTF8Prefix checks buf for UTF-8, tolerating a rune cut off at the end
// of a truncated sniff window.
func validUTF8Prefix(buf []byte, truncated bool) bool {
	if utf8.Valid(buf) {
		return true
	}

	if !truncated {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}

func guess(buf []byte) Charset {
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return UTF8
	case "ISO-8859-1", "windows-1252":
		return Windows1252
	case "ISO-8859-15":
		return ISO8859_15
	case "ISO-8859-9":
		return ISO8859_9
	}

	return Windows1252
}

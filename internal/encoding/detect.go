// Package encoding normalises uploaded text files to UTF-8 and sniffs CSV
// delimiters.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sampleSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset names reported by Decode.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
)

// Decoded is an input converted to UTF-8.
type Decoded struct {
	io.Reader
	// Charset is the encoding the input was detected as.
	Charset string
}

// Decode detects the encoding of r and returns a UTF-8 reader over it.
//
// A byte order mark wins. Otherwise valid UTF-8 is passed through, chardet
// is consulted, and Windows-1252 is assumed when all else fails. Spreadsheet
// exports from Windows machines are the usual source of non-UTF-8 files.
func Decode(r io.Reader) (*Decoded, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	sample, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return &Decoded{Reader: br, Charset: UTF8}, nil
	case bytes.HasPrefix(sample, bomUTF16LE):
		return decoded(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), UTF16LE), nil
	case bytes.HasPrefix(sample, bomUTF16BE):
		return decoded(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM), UTF16BE), nil
	}

	if validUTF8Prefix(sample) {
		return &Decoded{Reader: br, Charset: UTF8}, nil
	}

	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil {
		switch res.Charset {
		case "UTF-8":
			return &Decoded{Reader: br, Charset: UTF8}, nil
		case "ISO-8859-9":
			return decoded(br, charmap.ISO8859_9, ISO88599), nil
		}
	}

	return decoded(br, charmap.Windows1252, Windows1252), nil
}

func decoded(r io.Reader, e xenc.Encoding, name string) *Decoded {
	return &Decoded{Reader: transform.NewReader(r, e.NewDecoder()), Charset: name}
}

// validUTF8Prefix reports whether sample is UTF-8, allowing a rune cut off
// by the end of the sample.
func validUTF8Prefix(sample []byte) bool {
	if utf8.Valid(sample) {
		return true
	}

	for i := 1; i < utf8.UTFMax && i <= len(sample); i++ {
		if utf8.Valid(sample[:len(sample)-i]) && !utf8.FullRune(sample[len(sample)-i:]) {
			return true
		}
	}

	return false
}

// DetectDelimiter picks ',' or ';' by counting them outside quotes in the
// first line of sample. Ties go to ','.
func DetectDelimiter(sample []byte) rune {
	line, _, _ := bytes.Cut(sample, []byte("\n"))

	var commas, semis int

	inQuotes := false

	for _, b := range line {
		switch b {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semis++
			}
		}
	}

	if semis > commas {
		return ';'
	}

	return ','
}

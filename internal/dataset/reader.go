package dataset

// reader.go cleans uploaded text before it reaches a parser.
//
// Spreadsheet exports from Windows tools often start with a UTF-8 byte order
// mark and sometimes carry stray Latin-1 bytes. Left alone, the BOM ends up
// glued to the first column name and invalid bytes make header matching and
// type detection unreliable.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textReader strips a leading UTF-8 BOM and replaces every byte that is not
// part of a valid UTF-8 sequence with '?'. Replacement keeps the output the
// same length as the input, so offsets reported by the CSV reader still
// point at the right place.
type textReader struct {
	br      *bufio.Reader
	checked bool
}

// newTextReader wraps r with BOM stripping and UTF-8 sanitization.
func newTextReader(r io.Reader) io.Reader {
	return &textReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader. It never splits a multi-byte rune across calls.
func (t *textReader) Read(p []byte) (int, error) {
	if !t.checked {
		t.checked = true
		if head, err := t.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := t.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}

	n := 0
	for n < len(p) {
		r, size, err := t.br.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}

		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}

		if n+size > len(p) {
			// Rune does not fit; hand it out on the next call.
			if err := t.br.UnreadRune(); err != nil {
				return n, err
			}
			break
		}
		n += utf8.EncodeRune(p[n:], r)
	}
	return n, nil
}

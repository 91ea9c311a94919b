package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// EncodingError reports the first character of the notes that the PDF
// core fonts cannot represent.
type EncodingError struct {
	Rune   rune
	Offset int // byte offset in the notes
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("character %q (U+%04X) at byte %d cannot be encoded as Latin-1", e.Rune, e.Rune, e.Offset)
}

// substitutions maps common typographic characters that models like to emit
// onto Latin-1 equivalents. Only applied when PDFOptions.Substitute is set.
var substitutions = map[rune]string{
	'\u2018': "'",      // left single quote
	'\u2019': "'",      // right single quote
	'\u201a': ",",      // single low-9 quote
	'\u201c': "\"",     // left double quote
	'\u201d': "\"",     // right double quote
	'\u201e': "\"",     // double low-9 quote
	'\u2032': "'",      // prime
	'\u2033': "\"",     // double prime
	'\u2010': "-",      // hyphen
	'\u2011': "-",      // non-breaking hyphen
	'\u2012': "-",      // figure dash
	'\u2013': "-",      // en dash
	'\u2014': "--",     // em dash
	'\u2015': "--",     // horizontal bar
	'\u2212': "-",      // minus sign
	'\u2022': "\u00b7", // bullet
	'\u2023': ">",      // triangular bullet
	'\u25cf': "\u00b7", // black circle
	'\u2026': "...",    // ellipsis
	'\u2007': " ",      // figure space
	'\u2009': " ",      // thin space
	'\u200a': " ",      // hair space
	'\u202f': " ",      // narrow no-break space
	'\u200b': "",       // zero width space
	'\ufeff': "",       // byte order mark
	'\u2122': "(TM)",
	'\u2192': "->",
	'\u2190': "<-",
}

// encodeLatin1 converts notes to ISO-8859-1 bytes. With substitute set, the
// table above is applied first; any remaining rune outside Latin-1 is an
// EncodingError pointing at its offset in the original notes.
func encodeLatin1(notes string, substitute bool) (string, error) {
	var b strings.Builder
	b.Grow(len(notes))

	for i, r := range notes {
		if rep, ok := substitutions[r]; ok && substitute {
			for _, rr := range rep {
				c, _ := charmap.ISO8859_1.EncodeRune(rr)
				b.WriteByte(c)
			}
			continue
		}

		c, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			return "", &EncodingError{Rune: r, Offset: i}
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

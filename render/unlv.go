package render

import (
	"io"

	"golang.org/x/text/encoding/charmap"

	"github.com/tessgo/ocrkit/iterator"
)

// unlvFallback maps the specific non-Latin code points spec §6.3 names
// onto their Latin-1 fallbacks before charmap transliteration.
var unlvFallback = map[rune]rune{
	'€': '¢',  // EURO SIGN -> CENT SIGN
	'“': '"',  // LEFT DOUBLE QUOTATION MARK
	'”': '"',  // RIGHT DOUBLE QUOTATION MARK
	'‘': '\'', // LEFT SINGLE QUOTATION MARK
	'’': '\'', // RIGHT SINGLE QUOTATION MARK
	'•': '·',  // BULLET -> MIDDLE DOT
	'—': '-',  // EM DASH
}

// UNLVRenderer emits the UNLV text format of spec §6.3: Latin-1 with
// "~" reject and "^" suspect markers prefixed to each rejected/suspect
// word, using golang.org/x/text/encoding/charmap for the Latin-1
// transliteration the teacher's pack otherwise has no use for.
type UNLVRenderer struct {
	*Base
	w io.Writer
}

func NewUNLVRenderer(w io.Writer) *UNLVRenderer {
	r := &UNLVRenderer{w: w}
	r.Base = NewBase(r)
	return r
}

func (r *UNLVRenderer) HandleBegin(string) error { return nil }

func (r *UNLVRenderer) HandleImage(p Page) error {
	it := p.Iter
	if it.Empty() {
		return nil
	}
	it.Begin()
	for {
		text := it.GetUTF8Text(iterator.WordLevel)
		var marker string
		switch {
		case it.WordRejected():
			marker = "~"
		case it.WordSuspected():
			marker = "^"
		}
		encoded := toLatin1(text)
		if _, err := io.WriteString(r.w, marker+encoded+" "); err != nil {
			return err
		}
		lastInLine := it.IsAtFinalElement(iterator.TextlineLevel, iterator.WordLevel)
		more := it.Next(iterator.WordLevel)
		if lastInLine {
			if _, err := io.WriteString(r.w, "\n"); err != nil {
				return err
			}
		}
		if !more {
			break
		}
	}
	return nil
}

func (r *UNLVRenderer) HandleEnd() error { return nil }

// toLatin1 remaps the spec's named fallback runes, replaces any
// remaining rune outside Latin-1 with '?', then encodes the result as
// Latin-1 via charmap.ISO8859_1.
func toLatin1(s string) string {
	remapped := make([]rune, 0, len(s))
	for _, r := range s {
		if fb, ok := unlvFallback[r]; ok {
			r = fb
		}
		if r > 0xFF {
			r = '?'
		}
		remapped = append(remapped, r)
	}
	out, _ := charmap.ISO8859_1.NewEncoder().String(string(remapped))
	return out
}

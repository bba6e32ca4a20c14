package render

import (
	"fmt"
	"io"

	"github.com/tessgo/ocrkit/iterator"
)

// TextRenderer emits plain UTF-8 text per spec §6.3: paragraphs
// separated by a blank line, textlines by a single line separator, and
// a form feed between pages (matching the teacher's text-sink idiom of
// one write per page rather than buffering the whole document).
type TextRenderer struct {
	*Base
	w io.Writer
}

// NewTextRenderer wraps w as a plain-text renderer.
func NewTextRenderer(w io.Writer) *TextRenderer {
	t := &TextRenderer{w: w}
	t.Base = NewBase(t)
	return t
}

func (t *TextRenderer) HandleBegin(title string) error { return nil }

func (t *TextRenderer) HandleImage(p Page) error {
	it := p.Iter
	if it.Empty() {
		_, err := fmt.Fprint(t.w, "\f")
		return err
	}
	it.Begin()
	for {
		if _, err := io.WriteString(t.w, it.GetUTF8Text(iterator.ParaLevel)); err != nil {
			return err
		}
		if !it.Next(iterator.ParaLevel) {
			break
		}
	}
	_, err := fmt.Fprint(t.w, "\f")
	return err
}

func (t *TextRenderer) HandleEnd() error { return nil }

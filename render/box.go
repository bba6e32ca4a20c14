package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/tessgo/ocrkit/iterator"
)

// imageHeight recovers the page image height needed to flip box-file
// y-coordinates bottom-up; a nil image (e.g. in unit tests driving the
// iterator directly) yields 0, for which flipY simply negates y.
func imageHeight(p Page) int {
	if p.Image != nil {
		return p.Image.Bounds().Dy()
	}
	return 0
}

func flipY(y, height int) int {
	if height == 0 {
		return -y
	}
	return height - y
}

// BoxRenderer emits the classic per-symbol box file of spec §6.3: one
// line per symbol, "TEXT LEFT BOTTOM RIGHT TOP PAGE", y measured
// bottom-up, space characters replaced with "~".
type BoxRenderer struct {
	*Base
	w io.Writer
}

func NewBoxRenderer(w io.Writer) *BoxRenderer {
	r := &BoxRenderer{w: w}
	r.Base = NewBase(r)
	return r
}

func (r *BoxRenderer) HandleBegin(string) error { return nil }

func (r *BoxRenderer) HandleImage(p Page) error {
	it := p.Iter
	if it.Empty() {
		return nil
	}
	height := imageHeight(p)
	it.Begin()
	for {
		box := it.BoundingBox(iterator.SymbolLevel)
		text := it.GetUTF8Text(iterator.SymbolLevel)
		if text == "" {
			text = " "
		}
		text = strings.ReplaceAll(text, " ", "~")
		if _, err := fmt.Fprintf(r.w, "%s %d %d %d %d %d\n", text, box.Left, flipY(box.Bottom, height), box.Right, flipY(box.Top, height), p.ImageNum); err != nil {
			return err
		}
		if !it.Next(iterator.SymbolLevel) {
			break
		}
	}
	return nil
}

func (r *BoxRenderer) HandleEnd() error { return nil }

// WordStrBoxRenderer emits one box-file line per word instead of per
// symbol: the symbol field is the literal "WordStr" (so the box-format
// field count a naive parser expects stays intact), with the
// recognized word text appended as a trailing "# " comment, as the
// domain's word-level box-training variant does.
type WordStrBoxRenderer struct {
	*Base
	w io.Writer
}

func NewWordStrBoxRenderer(w io.Writer) *WordStrBoxRenderer {
	r := &WordStrBoxRenderer{w: w}
	r.Base = NewBase(r)
	return r
}

func (r *WordStrBoxRenderer) HandleBegin(string) error { return nil }

func (r *WordStrBoxRenderer) HandleImage(p Page) error {
	it := p.Iter
	if it.Empty() {
		return nil
	}
	height := imageHeight(p)
	it.Begin()
	for {
		box := it.BoundingBox(iterator.WordLevel)
		text := it.GetUTF8Text(iterator.WordLevel)
		if _, err := fmt.Fprintf(r.w, "WordStr %d %d %d %d %d #%s\n", box.Left, flipY(box.Bottom, height), box.Right, flipY(box.Top, height), p.ImageNum, text); err != nil {
			return err
		}
		if !it.Next(iterator.WordLevel) {
			break
		}
	}
	return nil
}

func (r *WordStrBoxRenderer) HandleEnd() error { return nil }

// LSTMBoxRenderer emits the per-symbol box format used to train the
// LSTM line recognizer: identical per-character lines to BoxRenderer,
// plus a tab marker line ("\t 0 0 0 0 page") at the end of every
// textline, the convention LSTM training tools use to delimit lines
// within one box file.
type LSTMBoxRenderer struct {
	*Base
	w io.Writer
}

func NewLSTMBoxRenderer(w io.Writer) *LSTMBoxRenderer {
	r := &LSTMBoxRenderer{w: w}
	r.Base = NewBase(r)
	return r
}

func (r *LSTMBoxRenderer) HandleBegin(string) error { return nil }

func (r *LSTMBoxRenderer) HandleImage(p Page) error {
	it := p.Iter
	if it.Empty() {
		return nil
	}
	height := imageHeight(p)
	it.Begin()
	for {
		box := it.BoundingBox(iterator.SymbolLevel)
		text := it.GetUTF8Text(iterator.SymbolLevel)
		if text == "" {
			text = " "
		}
		text = strings.ReplaceAll(text, " ", "~")
		if _, err := fmt.Fprintf(r.w, "%s %d %d %d %d %d\n", text, box.Left, flipY(box.Bottom, height), box.Right, flipY(box.Top, height), p.ImageNum); err != nil {
			return err
		}
		lastInLine := it.IsAtFinalElement(iterator.TextlineLevel, iterator.SymbolLevel)
		more := it.Next(iterator.SymbolLevel)
		if lastInLine {
			if _, err := fmt.Fprintf(r.w, "\t %d %d %d %d %d\n", 0, 0, 0, 0, p.ImageNum); err != nil {
				return err
			}
		}
		if !more {
			break
		}
	}
	return nil
}

func (r *LSTMBoxRenderer) HandleEnd() error { return nil }

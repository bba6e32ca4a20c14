// Package alto implements the ALTO XML renderer named in spec §4.4's
// concrete renderer list: one <Page> per image with the standard
// <PrintSpace><TextBlock><TextLine><String> nesting, each carrying the
// HPOS/VPOS/WIDTH/HEIGHT box attributes and a WC (word confidence)
// attribute on String elements.
package alto

import (
	"fmt"
	"io"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/iterator"
	"github.com/tessgo/ocrkit/render"
)

type Renderer struct {
	*render.Base
	w       io.Writer
	pageNum int
}

func New(w io.Writer) *Renderer {
	r := &Renderer{w: w}
	r.Base = render.NewBase(r)
	return r
}

func (r *Renderer) HandleBegin(title string) error {
	_, err := fmt.Fprintf(r.w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<alto xmlns=\"http://www.loc.gov/standards/alto/ns-v3#\">\n<Description><sourceImageInformation><fileName>%s</fileName></sourceImageInformation></Description>\n<Layout>\n", xmlEscape(title))
	return err
}

func (r *Renderer) HandleImage(p render.Page) error {
	it := p.Iter
	r.pageNum++
	width, height := 0, 0
	if p.Image != nil {
		b := p.Image.Bounds()
		width, height = b.Dx(), b.Dy()
	}
	if _, err := fmt.Fprintf(r.w, "<Page ID=\"page_%d\" PHYSICAL_IMG_NR=\"%d\" WIDTH=\"%d\" HEIGHT=\"%d\">\n<PrintSpace HPOS=\"0\" VPOS=\"0\" WIDTH=\"%d\" HEIGHT=\"%d\">\n", r.pageNum, p.ImageNum+1, width, height, width, height); err != nil {
		return err
	}
	if !it.Empty() {
		it.Begin()
		blockIdx := 0
		for {
			if err := r.writeBlock(it, blockIdx); err != nil {
				return err
			}
			blockIdx++
			if !it.Next(iterator.BlockLevel) {
				break
			}
		}
	}
	_, err := io.WriteString(r.w, "</PrintSpace>\n</Page>\n")
	return err
}

func (r *Renderer) writeBlock(it *iterator.ReadingOrderIterator, blockIdx int) error {
	bb := it.BoundingBox(iterator.BlockLevel)
	if _, err := fmt.Fprintf(r.w, "<TextBlock ID=\"block_%d\" %s>\n", blockIdx+1, hposBox(bb)); err != nil {
		return err
	}
	lineIdx := 0
	for {
		if err := r.writeLine(it, blockIdx, lineIdx); err != nil {
			return err
		}
		lineIdx++
		atParaEnd := it.IsAtFinalElement(iterator.ParaLevel, iterator.TextlineLevel)
		atBlockEnd := it.IsAtFinalElement(iterator.BlockLevel, iterator.ParaLevel)
		if atParaEnd && atBlockEnd {
			break
		}
		if atParaEnd {
			it.Next(iterator.ParaLevel)
		} else {
			it.Next(iterator.TextlineLevel)
		}
	}
	_, err := io.WriteString(r.w, "</TextBlock>\n")
	return err
}

func (r *Renderer) writeLine(it *iterator.ReadingOrderIterator, blockIdx, lineIdx int) error {
	bb := it.BoundingBox(iterator.TextlineLevel)
	if _, err := fmt.Fprintf(r.w, "<TextLine ID=\"line_%d_%d\" %s>\n", blockIdx+1, lineIdx+1, hposBox(bb)); err != nil {
		return err
	}
	wordIdx := 0
	for {
		wb := it.BoundingBox(iterator.WordLevel)
		text := it.GetUTF8Text(iterator.WordLevel)
		wc := float64(it.Confidence(iterator.WordLevel)) / 100
		if _, err := fmt.Fprintf(r.w, "<String ID=\"word_%d_%d_%d\" %s CONTENT=\"%s\" WC=\"%.2f\"/>\n", blockIdx+1, lineIdx+1, wordIdx+1, hposBox(wb), xmlEscape(text), wc); err != nil {
			return err
		}
		wordIdx++
		if it.IsAtFinalElement(iterator.TextlineLevel, iterator.WordLevel) {
			break
		}
		it.Next(iterator.WordLevel)
	}
	_, err := io.WriteString(r.w, "</TextLine>\n")
	return err
}

func hposBox(bb geom.Rect) string {
	return fmt.Sprintf("HPOS=\"%d\" VPOS=\"%d\" WIDTH=\"%d\" HEIGHT=\"%d\"", bb.Left, bb.Top, bb.Right-bb.Left, bb.Bottom-bb.Top)
}

func (r *Renderer) HandleEnd() error {
	_, err := io.WriteString(r.w, "</Layout>\n</alto>\n")
	return err
}

func xmlEscape(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch r {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		case '"':
			out = append(out, "&quot;"...)
		default:
			out = append(out, string(r)...)
		}
	}
	return string(out)
}

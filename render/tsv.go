package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/tessgo/ocrkit/iterator"
)

// TSVRenderer emits the tab-separated element table of spec §6.3.
type TSVRenderer struct {
	*Base
	w           io.Writer
	headerDone  bool
	page        int
	block, para int
	line, word  int
}

// NewTSVRenderer wraps w as a TSV renderer.
func NewTSVRenderer(w io.Writer) *TSVRenderer {
	t := &TSVRenderer{w: w}
	t.Base = NewBase(t)
	return t
}

func (t *TSVRenderer) HandleBegin(title string) error {
	_, err := io.WriteString(t.w, "level\tpage\tblock\tpar\tline\tword\tleft\ttop\twidth\theight\tconf\ttext\n")
	t.headerDone = true
	return err
}

func (t *TSVRenderer) row(level int, box boxer, page, block, para, line, word, conf int, text string) error {
	left, top, width, height := box.leftTopWidthHeight()
	_, err := fmt.Fprintf(t.w, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
		level, page, block, para, line, word, left, top, width, height, conf, strings.ReplaceAll(text, "\t", " "))
	return err
}

type boxer interface {
	leftTopWidthHeight() (left, top, width, height int)
}

type rectBoxer struct{ left, top, right, bottom int }

func (r rectBoxer) leftTopWidthHeight() (int, int, int, int) {
	return r.left, r.top, r.right - r.left, r.bottom - r.top
}

func (t *TSVRenderer) HandleImage(p Page) error {
	it := p.Iter
	t.page = p.ImageNum
	if it.Empty() {
		return nil
	}
	it.Begin()
	blockIdx, paraIdx, lineIdx, wordIdx := 0, 0, 0, 0
	for {
		blockIdx++
		bb := it.BoundingBox(iterator.BlockLevel)
		if err := t.row(1, rectBoxer{bb.Left, bb.Top, bb.Right, bb.Bottom}, t.page, blockIdx, 0, 0, 0, it.Confidence(iterator.BlockLevel), ""); err != nil {
			return err
		}
		paraIdx = 0
		for {
			paraIdx++
			pb := it.BoundingBox(iterator.ParaLevel)
			if err := t.row(2, rectBoxer{pb.Left, pb.Top, pb.Right, pb.Bottom}, t.page, blockIdx, paraIdx, 0, 0, it.Confidence(iterator.ParaLevel), ""); err != nil {
				return err
			}
			lineIdx = 0
			for {
				lineIdx++
				lb := it.BoundingBox(iterator.TextlineLevel)
				if err := t.row(3, rectBoxer{lb.Left, lb.Top, lb.Right, lb.Bottom}, t.page, blockIdx, paraIdx, lineIdx, 0, it.Confidence(iterator.TextlineLevel), ""); err != nil {
					return err
				}
				wordIdx = 0
				for {
					wordIdx++
					wb := it.BoundingBox(iterator.WordLevel)
					text := it.GetUTF8Text(iterator.WordLevel)
					if err := t.row(4, rectBoxer{wb.Left, wb.Top, wb.Right, wb.Bottom}, t.page, blockIdx, paraIdx, lineIdx, wordIdx, it.Confidence(iterator.WordLevel), text); err != nil {
						return err
					}
					if it.IsAtFinalElement(iterator.TextlineLevel, iterator.WordLevel) {
						break
					}
					it.Next(iterator.WordLevel)
				}
				if it.IsAtFinalElement(iterator.ParaLevel, iterator.TextlineLevel) {
					break
				}
				it.Next(iterator.TextlineLevel)
			}
			if it.IsAtFinalElement(iterator.BlockLevel, iterator.ParaLevel) {
				break
			}
			it.Next(iterator.ParaLevel)
		}
		if !it.Next(iterator.BlockLevel) {
			break
		}
	}
	return nil
}

func (t *TSVRenderer) HandleEnd() error { return nil }

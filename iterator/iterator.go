// Package iterator implements the reading-order hierarchy of spec
// §4.2: a LinearIterator that walks a PageResult strictly left-to-right
// top-to-bottom, and a ReadingOrderIterator that wraps it and reorders
// textlines by BiDi direction.
package iterator

import (
	"strings"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/pageresult"
)

// Level is the PageIteratorLevel enum of spec §6.1.
type Level int

const (
	BlockLevel Level = iota
	ParaLevel
	TextlineLevel
	WordLevel
	SymbolLevel
)

// Sentinel values interleaved with word indices in a textline order,
// ported from the teacher domain ancestor's ResultIterator constants
// (kMinorRunStart=-1, kMinorRunEnd=-2, kComplexWord=-3).
const (
	MinorRunStart = -1
	MinorRunEnd   = -2
	ComplexWord   = -3
)

const (
	lrm = '‎'
	rlm = '‏'
)

// cursor identifies the current block/paragraph/row/word/symbol
// position within a PageResult.
type cursor struct {
	block, para, row, word, symbol int
}

// LinearIterator walks a PageResult strictly left-to-right, top-to-bottom.
type LinearIterator struct {
	pr          *pageresult.PageResult
	cur         cursor
	scale       float64
	rectHeight  int
	rectLeft    int
	rectTop     int
	rectOfInterest geom.Rect
	scaledYRes  float64
}

// New creates a LinearIterator positioned at the first element of pr.
// scale/rectHeight/rectLeft/rectTop are the layout-to-image mapping
// parameters consumed by geom.MapToImageCoords; scaledYRes is the
// y-resolution used by the §4.2.4 font-size formula.
func New(pr *pageresult.PageResult, scale float64, rectHeight, rectLeft, rectTop int, rectOfInterest geom.Rect, scaledYRes float64) *LinearIterator {
	return &LinearIterator{
		pr: pr, scale: scale, rectHeight: rectHeight,
		rectLeft: rectLeft, rectTop: rectTop,
		rectOfInterest: rectOfInterest, scaledYRes: scaledYRes,
	}
}

// Begin resets the iterator to the first element.
func (it *LinearIterator) Begin() {
	it.cur = cursor{}
}

// Empty reports whether the PageResult has no elements at all.
func (it *LinearIterator) Empty() bool {
	return len(it.pr.Blocks) == 0
}

func (it *LinearIterator) block() *pageresult.Block {
	if it.cur.block < 0 || it.cur.block >= len(it.pr.Blocks) {
		return nil
	}
	return it.pr.Blocks[it.cur.block]
}

func (it *LinearIterator) paragraph() *pageresult.Paragraph {
	b := it.block()
	if b == nil || it.cur.para < 0 || it.cur.para >= len(b.Paragraphs) {
		return nil
	}
	return b.Paragraphs[it.cur.para]
}

func (it *LinearIterator) rowAt() *pageresult.Row {
	p := it.paragraph()
	if p == nil || it.cur.row < 0 || it.cur.row >= len(p.Rows) {
		return nil
	}
	return p.Rows[it.cur.row]
}

func (it *LinearIterator) wordAt() *pageresult.Word {
	r := it.rowAt()
	if r == nil || it.cur.word < 0 || it.cur.word >= len(r.Words) {
		return nil
	}
	return r.Words[it.cur.word]
}

func (it *LinearIterator) symbolAt() *pageresult.Symbol {
	w := it.wordAt()
	if w == nil || it.cur.symbol < 0 || it.cur.symbol >= len(w.Symbols) {
		return nil
	}
	return w.Symbols[it.cur.symbol]
}

// IsAtBeginningOf reports whether the cursor sits at the first element
// of the given level within its immediate parent.
func (it *LinearIterator) IsAtBeginningOf(level Level) bool {
	switch level {
	case BlockLevel:
		return it.cur.block == 0
	case ParaLevel:
		return it.cur.para == 0
	case TextlineLevel:
		return it.cur.row == 0
	case WordLevel:
		return it.cur.word == 0
	case SymbolLevel:
		return it.cur.symbol == 0
	}
	return false
}

// IsAtFinalElement reports whether advancing thisLevel would leave
// parentLevel, i.e. the cursor is at the last child of its parent.
func (it *LinearIterator) IsAtFinalElement(parentLevel, thisLevel Level) bool {
	if thisLevel-1 > parentLevel && !it.IsAtFinalElement(parentLevel, thisLevel-1) {
		return false
	}
	switch thisLevel {
	case WordLevel:
		r := it.rowAt()
		return r == nil || it.cur.word == len(r.Words)-1
	case SymbolLevel:
		w := it.wordAt()
		return w == nil || it.cur.symbol == len(w.Symbols)-1
	case TextlineLevel:
		p := it.paragraph()
		return p == nil || it.cur.row == len(p.Rows)-1
	case ParaLevel:
		b := it.block()
		return b == nil || it.cur.para == len(b.Paragraphs)-1
	}
	return it.cur.block == len(it.pr.Blocks)-1
}

// Next advances the cursor past the current element of level, moving
// into the next sibling (or up and over, recursively) and returns false
// once the PageResult is exhausted.
func (it *LinearIterator) Next(level Level) bool {
	switch level {
	case SymbolLevel:
		it.cur.symbol++
		if w := it.wordAt(); w != nil && it.cur.symbol < len(w.Symbols) {
			return true
		}
		it.cur.symbol = 0
		return it.Next(WordLevel)
	case WordLevel:
		it.cur.word++
		it.cur.symbol = 0
		if w := it.wordAt(); w != nil {
			return true
		}
		it.cur.word = 0
		return it.Next(TextlineLevel)
	case TextlineLevel:
		it.cur.row++
		it.cur.word, it.cur.symbol = 0, 0
		if r := it.rowAt(); r != nil {
			return true
		}
		it.cur.row = 0
		return it.Next(ParaLevel)
	case ParaLevel:
		it.cur.para++
		it.cur.row, it.cur.word, it.cur.symbol = 0, 0, 0
		if p := it.paragraph(); p != nil {
			return true
		}
		it.cur.para = 0
		return it.Next(BlockLevel)
	default: // BlockLevel
		it.cur.block++
		it.cur.para, it.cur.row, it.cur.word, it.cur.symbol = 0, 0, 0, 0
		return it.block() != nil
	}
}

// BoundingBox maps the current element's box at level to image
// coordinates using the exact formula of spec §4.2, applying the
// block's re-rotation before scaling.
func (it *LinearIterator) BoundingBox(level Level) geom.Rect {
	var box geom.Rect
	switch level {
	case BlockLevel:
		if b := it.block(); b != nil {
			box = b.Box
		}
	case ParaLevel, TextlineLevel:
		if r := it.rowAt(); r != nil {
			box = r.Box
		}
	case WordLevel:
		if w := it.wordAt(); w != nil {
			box = w.Quad.BoundingRect()
		}
	case SymbolLevel:
		if s := it.symbolAt(); s != nil {
			box = s.Box
		}
	}
	if b := it.block(); b != nil {
		box = applyReRotation(box, b.ReRotation)
	}
	return geom.MapToImageCoords(box, it.scale, it.rectHeight, it.rectLeft, it.rectTop, it.rectOfInterest)
}

func applyReRotation(box geom.Rect, rot geom.Affine) geom.Rect {
	if rot == (geom.Affine{}) {
		return box
	}
	tl := rot.Apply(geom.Point{X: float64(box.Left), Y: float64(box.Top)})
	br := rot.Apply(geom.Point{X: float64(box.Right), Y: float64(box.Bottom)})
	return geom.Quad{tl, {X: br.X, Y: tl.Y}, br, {X: tl.X, Y: br.Y}}.BoundingRect()
}

// Baseline returns the current row's baseline endpoints mapped to image
// coordinates, using the identical transform BoundingBox uses (P3).
func (it *LinearIterator) Baseline() (x1, y1, x2, y2 float64, ok bool) {
	r := it.rowAt()
	if r == nil {
		return 0, 0, 0, 0, false
	}
	bbox := geom.Rect{Left: int(r.BaselineX1), Top: int(r.BaselineY1), Right: int(r.BaselineX2), Bottom: int(r.BaselineY2)}
	if b := it.block(); b != nil && b.ReRotation != (geom.Affine{}) {
		p1 := b.ReRotation.Apply(geom.Point{X: r.BaselineX1, Y: r.BaselineY1})
		p2 := b.ReRotation.Apply(geom.Point{X: r.BaselineX2, Y: r.BaselineY2})
		bbox = geom.Rect{Left: int(p1.X), Top: int(p1.Y), Right: int(p2.X), Bottom: int(p2.Y)}
	}
	mapped := geom.MapToImageCoords(bbox, it.scale, it.rectHeight, it.rectLeft, it.rectTop, it.rectOfInterest)
	return float64(mapped.Left), float64(mapped.Top), float64(mapped.Right), float64(mapped.Bottom), true
}

// BlockType returns the current block's PolyBlockType.
func (it *LinearIterator) BlockType() pageresult.PolyBlockType {
	if b := it.block(); b != nil {
		return b.Type
	}
	return pageresult.Unknown
}

// GetUTF8Text concatenates symbol text for the given level in strict
// left-to-right logical order (no BiDi reordering — that is the
// ReadingOrderIterator's job).
func (it *LinearIterator) GetUTF8Text(level Level) string {
	var sb strings.Builder
	switch level {
	case SymbolLevel:
		if s := it.symbolAt(); s != nil {
			sb.WriteString(s.Text())
		}
	case WordLevel:
		if w := it.wordAt(); w != nil {
			sb.WriteString(w.BestChoiceText())
		}
	case TextlineLevel:
		if r := it.rowAt(); r != nil {
			for i, w := range r.Words {
				if i > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(w.BestChoiceText())
			}
		}
	case ParaLevel:
		if p := it.paragraph(); p != nil {
			for _, r := range p.Rows {
				for i, w := range r.Words {
					if i > 0 {
						sb.WriteString(" ")
					}
					sb.WriteString(w.BestChoiceText())
				}
				sb.WriteString("\n")
			}
		}
	case BlockLevel:
		if b := it.block(); b != nil {
			for _, p := range b.Paragraphs {
				for _, r := range p.Rows {
					for i, w := range r.Words {
						if i > 0 {
							sb.WriteString(" ")
						}
						sb.WriteString(w.BestChoiceText())
					}
					sb.WriteString("\n")
				}
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// Confidence returns the confidence at level: symbol-level uses the
// clamped percentage of the matching choice; higher levels average over
// contained words (spec §4.2.4).
func (it *LinearIterator) Confidence(level Level) int {
	switch level {
	case SymbolLevel:
		if s := it.symbolAt(); s != nil {
			return pageresult.Confidence(s.Certainty())
		}
	case WordLevel:
		if w := it.wordAt(); w != nil {
			return w.Confidence()
		}
	case TextlineLevel:
		if r := it.rowAt(); r != nil {
			return r.Confidence()
		}
	case ParaLevel:
		if p := it.paragraph(); p != nil {
			return p.Confidence()
		}
	case BlockLevel:
		if b := it.block(); b != nil {
			return b.Confidence()
		}
	}
	return 0
}

// WordFontAttributes returns the current word's font-attribute bundle.
func (it *LinearIterator) WordFontAttributes() (pageresult.FontAttrs, bool) {
	w := it.wordAt()
	if w == nil {
		return pageresult.FontAttrs{}, false
	}
	return w.Attrs, true
}

// WordDirection returns the current word's strong/neutral/mixed
// classification, used as input to CalculateTextlineOrder.
func (it *LinearIterator) WordDirection() pageresult.Direction {
	if w := it.wordAt(); w != nil {
		return w.Dir
	}
	return pageresult.DirNeutral
}

// WordRejected reports whether the current word was marked rejected by
// the classifier.
func (it *LinearIterator) WordRejected() bool {
	if w := it.wordAt(); w != nil {
		return w.Rejected
	}
	return false
}

// WordSuspected reports whether the current word was marked suspect.
func (it *LinearIterator) WordSuspected() bool {
	if w := it.wordAt(); w != nil {
		return w.Suspected
	}
	return false
}

// RowUpright reports whether the current textline is horizontal (not
// rotated), used by hOCR to decide whether to omit baseline/add
// textangle.
func (it *LinearIterator) RowUpright() bool {
	if r := it.rowAt(); r != nil {
		return r.Upright
	}
	return true
}

// WordWriting returns the current word's output WritingDirection
// classification (spec §3.1), distinct from its BiDi Direction.
func (it *LinearIterator) WordWriting() pageresult.WritingDirection {
	if w := it.wordAt(); w != nil {
		return w.Writing
	}
	return pageresult.LeftToRight
}

// FontPointSize computes the §4.2.4 font-size formula from the current
// row's metrics: points = row_xheight * cell_over_xheight * 72 / scaled_y_resolution.
func (it *LinearIterator) FontPointSize() int {
	r := it.rowAt()
	if r == nil || it.scaledYRes == 0 {
		return 0
	}
	points := r.RowXHeight * r.CellOverXHeight * 72 / it.scaledYRes
	return int(points + 0.5)
}

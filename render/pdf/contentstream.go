package pdf

import (
	"fmt"
	"math"
	"strings"

	"github.com/tessgo/ocrkit/iterator"
	"github.com/tessgo/ocrkit/pageresult"
	"github.com/tessgo/ocrkit/render"
)

// kCharWidth is the fixed multiplier in the Tz horizontal-scale formula,
// ported verbatim from the teacher's PDF-projection ancestor.
const kCharWidth = 2

// kDefaultFontsize is substituted when the classifier reports a
// non-positive point size, a documented Arabic edge case.
const kDefaultFontsize = 8

const defaultPPI = 300

func prec(x float64) float64 {
	const p = 1000.0
	a := math.Round(x*p) / p
	if a == 0 {
		return 0
	}
	return a
}

func dist2(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return dx*dx + dy*dy
}

// clipBaseline flattens a near-horizontal textline baseline so that
// tiny rotation noise doesn't defeat text selection in PDF viewers:
// if the rise is under 2pt while the run exceeds it, both endpoints'
// y is pinned to their average.
func clipBaseline(ppi, x1, y1, x2, y2 float64) (lx1, ly1, lx2, ly2 float64) {
	lx1, ly1, lx2, ly2 = x1, y1, x2, y2
	rise := math.Abs(y2-y1) * 72 / ppi
	run := math.Abs(x2-x1) * 72 / ppi
	if rise < 2.0 && 2.0 < run {
		ly1 = (y1 + y2) / 2
		ly2 = ly1
	}
	return
}

// wordBaseline projects the word's bounding box onto the (already
// clipped) textline baseline, matching the teacher ancestor's
// GetWordBaseline: viewers like evince get confused when baselines
// wander per-word, so every word is projected onto one straight line.
// There is no separate per-word baseline in the recognized-page model,
// so the word's own bounding-box bottom edge stands in for its
// baseline endpoints, swapped for right-to-left words so the
// projection starts at the word's reading-order origin.
func wordBaseline(writing pageresult.WritingDirection, ppi, pageHeightPt float64, wordLeft, wordRight, wordBottom float64, lx1, ly1, lx2, ly2 float64) (x, y, length float64) {
	wx1, wy1, wx2, wy2 := wordLeft, wordBottom, wordRight, wordBottom
	if writing == pageresult.RightToLeft {
		wx1, wx2 = wx2, wx1
	}
	px, py := wx1, wy1
	l2 := dist2(lx1, ly1, lx2, ly2)
	var px0, py0 float64
	if l2 == 0 {
		px0, py0 = lx1, ly1
	} else {
		t := ((px-lx2)*(lx2-lx1) + (py-ly2)*(ly2-ly1)) / l2
		px0 = lx2 + t*(lx2-lx1)
		py0 = ly2 + t*(ly2-ly1)
	}
	length = math.Sqrt(dist2(wx1, wy1, wx2, wy2)) * 72.0 / ppi
	x = px0 * 72.0 / ppi
	y = pageHeightPt - py0*72.0/ppi
	return
}

// affineMatrix computes the text-rotation matrix from the textline
// baseline slope, reflected over the Y axis for right-to-left writing.
func affineMatrix(writing pageresult.WritingDirection, lx1, ly1, lx2, ly2 float64) (a, b, c, d float64) {
	theta := math.Atan2(ly1-ly2, lx2-lx1)
	a, b = math.Cos(theta), math.Sin(theta)
	c, d = -math.Sin(theta), math.Cos(theta)
	if writing == pageresult.RightToLeft {
		a, b = -a, -b
	}
	return
}

// contentBuilder accumulates the invisible-text PDF operators for one
// page, threading the old_x/old_y/old_fontsize/old_writing state the
// teacher ancestor's text-object loop carries across words so that
// Td moves stay relative and Tf/Tz only re-emit on change.
type contentBuilder struct {
	sb           strings.Builder
	ppi          float64
	pageHeightPt float64
	oldX, oldY   float64
	oldFontsize  int
	oldWriting   pageresult.WritingDirection
	a, b, c, d   float64
	newBlock     bool
	inBlock      bool
}

func newContentBuilder(ppi, pageWidthPt, pageHeightPt float64) *contentBuilder {
	cb := &contentBuilder{ppi: ppi, pageHeightPt: pageHeightPt, a: 1, d: 1}
	fmt.Fprintf(&cb.sb, "q %s 0 0 %s 0 0 cm /Im1 Do Q\n", fnum(prec(pageWidthPt)), fnum(prec(pageHeightPt)))
	return cb
}

func (cb *contentBuilder) beginBlock() {
	cb.sb.WriteString("BT\n3 Tr\n")
	cb.oldFontsize = 0
	cb.newBlock = true
	cb.inBlock = true
}

func (cb *contentBuilder) endBlock() {
	if cb.inBlock {
		cb.sb.WriteString("ET\n")
		cb.inBlock = false
	}
}

// addWord emits the Tm/Td positioning, Tf font-size change and Tz/TJ
// text-show operators for one recognized word, in the exact order and
// with the exact triggers as the teacher ancestor's per-word loop.
func (cb *contentBuilder) addWord(writing pageresult.WritingDirection, lineX1, lineY1, lineX2, lineY2, wordLeft, wordRight, wordBottom float64, fontsize int, text string, lastWordInLine bool) {
	x, y, length := wordBaseline(writing, cb.ppi, cb.pageHeightPt, wordLeft, wordRight, wordBottom, lineX1, lineY1, lineX2, lineY2)

	if writing != cb.oldWriting || cb.newBlock {
		cb.a, cb.b, cb.c, cb.d = affineMatrix(writing, lineX1, lineY1, lineX2, lineY2)
		fmt.Fprintf(&cb.sb, " %s %s %s %s %s %s Tm ", fnum(prec(cb.a)), fnum(prec(cb.b)), fnum(prec(cb.c)), fnum(prec(cb.d)), fnum(prec(x)), fnum(prec(y)))
		cb.newBlock = false
	} else {
		dx, dy := x-cb.oldX, y-cb.oldY
		fmt.Fprintf(&cb.sb, " %s %s Td ", fnum(prec(dx*cb.a+dy*cb.b)), fnum(prec(dx*cb.c+dy*cb.d)))
	}
	cb.oldX, cb.oldY = x, y
	cb.oldWriting = writing

	if fontsize <= 0 {
		fontsize = kDefaultFontsize
	}
	if fontsize != cb.oldFontsize {
		fmt.Fprintf(&cb.sb, "/f-0-0 %d Tf ", fontsize)
		cb.oldFontsize = fontsize
	}

	n := codePointCount(text)
	if length > 0 && n > 0 && fontsize > 0 {
		hStretch := kCharWidth * prec(100.0*length/(float64(fontsize)*float64(n)))
		fmt.Fprintf(&cb.sb, "%s Tz [ %s ] TJ", fnum(hStretch), utf16beHexString(text))
	}
	if lastWordInLine {
		cb.sb.WriteString(" \n")
	}
}

func (cb *contentBuilder) bytes() []byte { return []byte(cb.sb.String()) }

// fnum formats a float the way the teacher ancestor's STRING::add_str_double
// does: plain decimal, no exponent, trailing zeros trimmed.
func fnum(f float64) string {
	s := fmt.Sprintf("%.6f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// buildPageContent walks p's reading-order iterator and emits the
// complete invisible-text content stream for one page, following the
// teacher ancestor's block/textline/word traversal with baseline
// clipping, per-block (or per-writing-direction-change) affine resets,
// and per-word Tf/Tz/Tj emission.
func buildPageContent(p render.Page, pageWidthPt, pageHeightPt float64) []byte {
	ppi := p.PPI
	if ppi <= 0 {
		ppi = defaultPPI
	}
	cb := newContentBuilder(ppi, pageWidthPt, pageHeightPt)
	it := p.Iter
	if it == nil || it.Empty() {
		return cb.bytes()
	}

	it.Begin()
	var lineX1, lineY1, lineX2, lineY2 float64
	for {
		cb.beginBlock()
		for {
			x1, y1, x2, y2, ok := it.Baseline()
			if ok {
				lineX1, lineY1, lineX2, lineY2 = clipBaseline(ppi, x1, y1, x2, y2)
			}
			for {
				wb := it.BoundingBox(iterator.WordLevel)

				writing := it.WordWriting()
				attrs, _ := it.WordFontAttributes()
				text := it.GetUTF8Text(iterator.WordLevel)
				lastInLine := it.IsAtFinalElement(iterator.TextlineLevel, iterator.WordLevel)

				wLeft := float64(wb.Left)
				wRight := float64(wb.Right)
				wBottom := float64(wb.Bottom)
				cb.addWord(writing, lineX1, lineY1, lineX2, lineY2, wLeft, wRight, wBottom, attrs.PointSize, text, lastInLine)

				if lastInLine {
					break
				}
				it.Next(iterator.WordLevel)
			}
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
		cb.endBlock()
		if !it.Next(iterator.BlockLevel) {
			break
		}
	}
	return cb.bytes()
}

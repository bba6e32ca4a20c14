package iterator

import (
	"github.com/tessgo/ocrkit/pageresult"
)

// ReadingOrderIterator wraps LinearIterator, adding paragraph-direction
// inference (§4.2.1) and minor-run/complex-word bracketing (§4.2.2) on
// top of the underlying strictly-left-to-right walk.
type ReadingOrderIterator struct {
	*LinearIterator
	currentParagraphIsLTR bool
	inMinorDirection      bool
	atBeginningOfMinorRun bool
	preserveInterwordSpaces bool
}

// NewReadingOrder wraps lit and positions it at the logical start of its
// first paragraph.
func NewReadingOrder(lit *LinearIterator, preserveInterwordSpaces bool) *ReadingOrderIterator {
	it := &ReadingOrderIterator{LinearIterator: lit, preserveInterwordSpaces: preserveInterwordSpaces}
	it.enterParagraph()
	return it
}

func (it *ReadingOrderIterator) enterParagraph() {
	p := it.paragraph()
	if p == nil {
		return
	}
	it.currentParagraphIsLTR = inferParagraphDirection(p)
	p.SetDirectionOnce(it.currentParagraphIsLTR)
	it.inMinorDirection = false
	it.atBeginningOfMinorRun = false
}

// ParagraphIsLTR returns the direction decided for the paragraph the
// iterator currently sits in.
func (it *ReadingOrderIterator) ParagraphIsLTR() bool {
	return it.currentParagraphIsLTR
}

// Next advances the underlying LinearIterator and, whenever that
// crosses into a new paragraph, re-infers and latches its direction
// before the caller observes it (§3.2's "decided once per paragraph").
func (it *ReadingOrderIterator) Next(level Level) bool {
	before := it.paragraph()
	ok := it.LinearIterator.Next(level)
	if ok && it.paragraph() != before {
		it.enterParagraph()
	}
	return ok
}

// inferParagraphDirection applies the §4.2.1 majority rule with
// exceptions to the first textline and the whole paragraph.
func inferParagraphDirection(p *pageresult.Paragraph) bool {
	if len(p.Rows) == 0 {
		return true
	}
	firstRow := p.Rows[0]
	if len(firstRow.Words) > 0 {
		leftmost := firstRow.Words[0]
		if leftmost.Dir == pageresult.DirStrongRTL {
			return false
		}
		rightmost := firstRow.Words[len(firstRow.Words)-1]
		if rightmost.Dir == pageresult.DirStrongLTR {
			return true
		}
	}
	ltrCount, rtlCount := 0, 0
	for _, r := range p.Rows {
		for _, w := range r.Words {
			switch w.Dir {
			case pageresult.DirStrongLTR:
				ltrCount++
			case pageresult.DirStrongRTL:
				rtlCount++
			}
		}
	}
	return ltrCount >= rtlCount
}

// CalculateTextlineOrder implements spec §4.2.2, ported line-for-line
// from the teacher domain ancestor's ResultIterator::CalculateTextlineOrder
// (kMinorRunStart/End/ComplexWord sentinel semantics, including the RTL
// "neutrals-then-LTR tail" special rule).
func CalculateTextlineOrder(paragraphIsLTR bool, wordDirs []pageresult.Direction) []int {
	var order []int
	if len(wordDirs) == 0 {
		return order
	}

	var minorDirection, majorDirection pageresult.Direction
	var majorStep, start, end int
	if paragraphIsLTR {
		start, end, majorStep = 0, len(wordDirs), 1
		majorDirection, minorDirection = pageresult.DirStrongLTR, pageresult.DirStrongRTL
	} else {
		start, end, majorStep = len(wordDirs)-1, -1, -1
		majorDirection, minorDirection = pageresult.DirStrongRTL, pageresult.DirStrongLTR

		if wordDirs[start] == pageresult.DirNeutral {
			neutralEnd := start
			for neutralEnd > 0 && wordDirs[neutralEnd] == pageresult.DirNeutral {
				neutralEnd--
			}
			if neutralEnd >= 0 && wordDirs[neutralEnd] == pageresult.DirStrongLTR {
				left := neutralEnd
				for i := left; i >= 0 && wordDirs[i] != pageresult.DirStrongRTL; i-- {
					if wordDirs[i] == pageresult.DirStrongLTR {
						left = i
					}
				}
				order = append(order, MinorRunStart)
				for i := left; i < len(wordDirs); i++ {
					order = append(order, i)
					if wordDirs[i] == pageresult.DirMixed {
						order = append(order, ComplexWord)
					}
				}
				order = append(order, MinorRunEnd)
				start = left - 1
			}
		}
	}

	for i := start; i != end; {
		if wordDirs[i] == minorDirection {
			j := i
			for j != end && wordDirs[j] != majorDirection {
				j += majorStep
			}
			if j == end {
				j -= majorStep
			}
			for j != i && wordDirs[j] != minorDirection {
				j -= majorStep
			}
			order = append(order, MinorRunStart)
			for k := j; k != i; k -= majorStep {
				order = append(order, k)
			}
			order = append(order, i)
			order = append(order, MinorRunEnd)
			i = j + majorStep
		} else {
			order = append(order, i)
			if wordDirs[i] == pageresult.DirMixed {
				order = append(order, ComplexWord)
			}
			i += majorStep
		}
	}
	return order
}

// RowWordDirections extracts the word-direction sequence of row in
// strict left-to-right order, the input CalculateTextlineOrder expects.
func RowWordDirections(r *pageresult.Row) []pageresult.Direction {
	out := make([]pageresult.Direction, len(r.Words))
	for i, w := range r.Words {
		out[i] = w.Dir
	}
	return out
}

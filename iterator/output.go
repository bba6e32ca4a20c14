package iterator

import (
	"strings"

	"github.com/tessgo/ocrkit/pageresult"
)

// GetUTF8Text implements spec §4.2.4: concatenates symbol text in
// logical reading order (BiDi-reordered by CalculateTextlineOrder at
// textline level and above), appends a line-separator at the end of
// each textline and an additional one at the end of each paragraph,
// honors preserve_interword_spaces, and emits LRM/RLM marks at minor-
// run/complex-word boundaries.
func (it *ReadingOrderIterator) GetUTF8Text(level Level) string {
	switch level {
	case SymbolLevel, WordLevel:
		return it.LinearIterator.GetUTF8Text(level)
	case TextlineLevel:
		r := it.rowAt()
		if r == nil {
			return ""
		}
		return rowText(r, it.currentParagraphIsLTR, it.preserveInterwordSpaces) + "\n"
	case ParaLevel:
		p := it.paragraph()
		if p == nil {
			return ""
		}
		var sb strings.Builder
		for _, r := range p.Rows {
			sb.WriteString(rowText(r, it.currentParagraphIsLTR, it.preserveInterwordSpaces))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		return sb.String()
	case BlockLevel:
		b := it.block()
		if b == nil {
			return ""
		}
		var sb strings.Builder
		for _, p := range b.Paragraphs {
			for _, r := range p.Rows {
				sb.WriteString(rowText(r, inferParagraphDirection(p), it.preserveInterwordSpaces))
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
		return sb.String()
	}
	return ""
}

// rowText renders one textline's words in BiDi reading order, with
// LRM/RLM marks at the minor-run/complex-word boundaries the sentinel
// stream records.
func rowText(r *pageresult.Row, paragraphIsLTR, preserveInterwordSpaces bool) string {
	dirs := RowWordDirections(r)
	order := CalculateTextlineOrder(paragraphIsLTR, dirs)

	var sb strings.Builder
	wroteAny := false
	pendingMark := byte(0) // 0 = none, 'L' or 'R'
	inMinor := false

	emitWord := func(idx int) {
		if wroteAny {
			if preserveInterwordSpaces {
				for g := 0; g < r.Words[idx].InterwordGap; g++ {
					sb.WriteRune(' ')
				}
				if r.Words[idx].InterwordGap == 0 {
					sb.WriteRune(' ')
				}
			} else {
				sb.WriteRune(' ')
			}
		}
		sb.WriteString(r.Words[idx].BestChoiceText())
		wroteAny = true
	}

	for _, tok := range order {
		switch tok {
		case MinorRunStart:
			inMinor = true
		case MinorRunEnd:
			inMinor = false
			if paragraphIsLTR {
				pendingMark = 'L'
			} else {
				pendingMark = 'R'
			}
		case ComplexWord:
			readingLTR := paragraphIsLTR != inMinor
			if readingLTR {
				pendingMark = 'L'
			} else {
				pendingMark = 'R'
			}
		default:
			emitWord(tok)
		}
		if pendingMark != 0 {
			if pendingMark == 'L' {
				sb.WriteRune(lrm)
			} else {
				sb.WriteRune(rlm)
			}
			pendingMark = 0
		}
	}
	return sb.String()
}

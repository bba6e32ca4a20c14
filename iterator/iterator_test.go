package iterator

import (
	"testing"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/pageresult"
)

func fullRect(w, h int) geom.Rect { return geom.Rect{Left: 0, Top: 0, Right: w, Bottom: h} }

func buildTwoWordPage() *pageresult.PageResult {
	pr := pageresult.New()
	b := pr.AddBlock(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 40}, pageresult.FlowingText)
	par := b.AddParagraph()
	row := par.AddRow(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20})
	w1 := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 0, Top: 0, Right: 20, Bottom: 20}))
	w1.AddSymbol(geom.Rect{Left: 0, Top: 0, Right: 20, Bottom: 20}, []pageresult.Choice{{Text: "Hi", Certainty: 0}}, 0)
	w2 := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 25, Top: 0, Right: 45, Bottom: 20}))
	w2.AddSymbol(geom.Rect{Left: 25, Top: 0, Right: 45, Bottom: 20}, []pageresult.Choice{{Text: "There", Certainty: 0}}, 0)
	return pr
}

// TestP1SymbolCoverage: iterating at SYMBOL level visits every symbol
// exactly once, in order.
func TestP1SymbolCoverage(t *testing.T) {
	pr := buildTwoWordPage()
	lit := New(pr, 1, 40, 0, 0, fullRect(100, 40), 200)
	lit.Begin()
	count := 0
	for {
		if lit.symbolAt() != nil {
			count++
		}
		if !lit.Next(SymbolLevel) {
			break
		}
	}
	if count != 2 {
		t.Fatalf("visited %d symbols, want 2", count)
	}
}

// TestP2ReadingOrderPermutation checks CalculateTextlineOrder produces a
// permutation of [0,n) after stripping sentinels, for representative
// direction sequences.
func TestP2ReadingOrderPermutation(t *testing.T) {
	seqs := [][]pageresult.Direction{
		{pageresult.DirStrongLTR, pageresult.DirStrongLTR},
		{pageresult.DirStrongRTL, pageresult.DirNeutral, pageresult.DirStrongLTR},
		{pageresult.DirStrongLTR, pageresult.DirNeutral, pageresult.DirStrongLTR, pageresult.DirNeutral, pageresult.DirStrongRTL, pageresult.DirStrongRTL, pageresult.DirStrongRTL},
		{pageresult.DirMixed},
	}
	for _, ltr := range []bool{true, false} {
		for _, dirs := range seqs {
			order := CalculateTextlineOrder(ltr, dirs)
			seen := make(map[int]bool)
			for _, tok := range order {
				if tok < 0 {
					continue
				}
				if seen[tok] {
					t.Fatalf("index %d repeated in order %v (ltr=%v dirs=%v)", tok, order, ltr, dirs)
				}
				seen[tok] = true
			}
			if len(seen) != len(dirs) {
				t.Fatalf("order %v covers %d of %d indices (ltr=%v dirs=%v)", order, len(seen), len(dirs), ltr, dirs)
			}
		}
	}
}

// TestScenario5BiDiReadingOrder is spec §8 scenario 5's literal vectors.
func TestScenario5BiDiReadingOrder(t *testing.T) {
	dirs := []pageresult.Direction{
		pageresult.DirStrongLTR, pageresult.DirStrongLTR, pageresult.DirNeutral,
		pageresult.DirStrongLTR, pageresult.DirNeutral,
		pageresult.DirStrongRTL, pageresult.DirStrongRTL, pageresult.DirStrongRTL,
	}
	ltrWant := []int{0, 1, 2, 3, 4, MinorRunStart, 7, 6, 5, MinorRunEnd}
	got := CalculateTextlineOrder(true, dirs)
	if !equalInts(got, ltrWant) {
		t.Fatalf("LTR paragraph order = %v, want %v", got, ltrWant)
	}

	rtlWant := []int{7, 6, 5, 4, MinorRunStart, 0, 1, 2, 3, MinorRunEnd}
	got = CalculateTextlineOrder(false, dirs)
	if !equalInts(got, rtlWant) {
		t.Fatalf("RTL paragraph order = %v, want %v", got, rtlWant)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestP3BoundingBoxImageAgreement checks that BoundingBox at word level
// yields a non-empty image-space box and the same box on repeated calls.
func TestP3BoundingBoxImageAgreement(t *testing.T) {
	pr := buildTwoWordPage()
	lit := New(pr, 2, 40, 5, 5, fullRect(200, 200), 200)
	lit.Begin()
	box := lit.BoundingBox(WordLevel)
	if box.IsEmpty() {
		t.Fatalf("bounding box is empty")
	}
	again := lit.BoundingBox(WordLevel)
	if box != again {
		t.Fatalf("bounding box not stable across calls: %v != %v", box, again)
	}
}

// TestP4ConfidenceFormula checks the clamped percentage and the
// line-level mean.
func TestP4ConfidenceFormula(t *testing.T) {
	pr := pageresult.New()
	b := pr.AddBlock(fullRect(100, 20), pageresult.FlowingText)
	par := b.AddParagraph()
	row := par.AddRow(fullRect(100, 20))
	w1 := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 0, Top: 0, Right: 20, Bottom: 20}))
	w1.AddSymbol(geom.Rect{}, []pageresult.Choice{{Text: "a", Certainty: 0}}, 0)
	w2 := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 25, Top: 0, Right: 45, Bottom: 20}))
	w2.AddSymbol(geom.Rect{}, []pageresult.Choice{{Text: "b", Certainty: -20}}, 0)

	lit := New(pr, 1, 20, 0, 0, fullRect(100, 20), 200)
	lit.Begin()
	if got := lit.Confidence(WordLevel); got != 100 {
		t.Fatalf("first word confidence = %d, want 100", got)
	}
	lit.Next(WordLevel)
	if got := lit.Confidence(WordLevel); got != 0 {
		t.Fatalf("second word confidence = %d, want 0", got)
	}
	if got := row.Confidence(); got != 50 {
		t.Fatalf("row confidence = %d, want 50", got)
	}
}

func TestReadingOrderIteratorParagraphDirectionDecidedOnce(t *testing.T) {
	pr := buildTwoWordPage()
	lit := New(pr, 1, 40, 0, 0, fullRect(100, 40), 200)
	roi := NewReadingOrder(lit, false)
	if !roi.currentParagraphIsLTR {
		t.Fatalf("expected LTR paragraph for two strong-neutral words")
	}
}

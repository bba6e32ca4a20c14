package render

import (
	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/iterator"
	"github.com/tessgo/ocrkit/pageresult"
)

// buildHelloWorldPage builds a one-block, one-paragraph, one-line page
// containing the words "Hello" and "World", mirroring the fixture shape
// used throughout the iterator package's own tests.
func buildHelloWorldPage() *pageresult.PageResult {
	pr := pageresult.New()
	b := pr.AddBlock(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20}, pageresult.FlowingText)
	par := b.AddParagraph()
	row := par.AddRow(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20})
	row.BaselineX1, row.BaselineY1 = 0, 18
	row.BaselineX2, row.BaselineY2 = 100, 18
	row.Upright = true

	w1 := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 0, Top: 0, Right: 40, Bottom: 20}))
	w1.Attrs.PointSize = 12
	w1.AddSymbol(geom.Rect{Left: 0, Top: 0, Right: 40, Bottom: 20}, []pageresult.Choice{{Text: "Hello", Certainty: 0}}, 0)

	w2 := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 45, Top: 0, Right: 90, Bottom: 20}))
	w2.Attrs.PointSize = 12
	w2.AddSymbol(geom.Rect{Left: 45, Top: 0, Right: 90, Bottom: 20}, []pageresult.Choice{{Text: "World", Certainty: 0}}, 0)

	return pr
}

// buildHelloWorldPageWithSymbols is like buildHelloWorldPage but splits
// each word into one symbol per rune, for renderers (box-family) that
// operate at symbol granularity.
func buildHelloWorldPageWithSymbols() *pageresult.PageResult {
	pr := pageresult.New()
	b := pr.AddBlock(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20}, pageresult.FlowingText)
	par := b.AddParagraph()
	row := par.AddRow(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20})
	row.Upright = true

	addWord := func(text string, left, right int) {
		w := row.AddWord(geom.QuadFromRect(geom.Rect{Left: left, Top: 0, Right: right, Bottom: 20}))
		w.Attrs.PointSize = 12
		step := (right - left) / len(text)
		for i, ch := range text {
			cl := left + i*step
			cr := cl + step
			w.AddSymbol(geom.Rect{Left: cl, Top: 0, Right: cr, Bottom: 20}, []pageresult.Choice{{Text: string(ch), Certainty: 0}}, 0)
		}
	}
	addWord("Hello", 0, 40)
	addWord("World", 45, 90)
	return pr
}

func readingOrderOver(pr *pageresult.PageResult, w, h int) *iterator.ReadingOrderIterator {
	lit := iterator.New(pr, 1, h, 0, 0, geom.Rect{Left: 0, Top: 0, Right: w, Bottom: h}, 200)
	return iterator.NewReadingOrder(lit, false)
}

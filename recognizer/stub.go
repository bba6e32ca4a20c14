package recognizer

import (
	"context"
	"image"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/pageresult"
)

// Stub is a minimal, deterministic implementation of Thresholder,
// LayoutAnalyzer, and Classifier, matching spec §1's framing that the
// core only assumes the existence of a "recognize all words" primitive
// without specifying how it computes. It produces a single block
// covering the whole rectangle of interest with one row and one word
// whose text is a fixed placeholder, so package session is runnable end
// to end without a real classifier.
type Stub struct {
	// Words, if set, replaces the single placeholder word with this
	// sequence, all in the one row of each block's single paragraph.
	Words []string
}

// Threshold is a no-op passthrough: the stub trusts the caller's image
// is already ready for layout.
func (Stub) Threshold(_ context.Context, img image.Image, _ geom.Rect) (image.Image, error) {
	return img, nil
}

// SegmentPage returns a single block spanning roi.
func (Stub) SegmentPage(_ context.Context, _ image.Image, roi geom.Rect) (*BlockList, error) {
	return &BlockList{Blocks: []BlockRegion{{Box: roi, Polygon: geom.QuadFromRect(roi), Type: pageresult.FlowingText}}}, nil
}

// Recognize builds a single-block, single-row PageResult from the given
// block list, placing one word per configured Words entry (or one
// placeholder word if Words is empty), reporting progress after each
// word and honoring cancellation.
func (s Stub) Recognize(_ context.Context, _ image.Image, blocks *BlockList, progress func(int) bool) (*pageresult.PageResult, error) {
	pr := pageresult.New()
	words := s.Words
	if len(words) == 0 {
		words = []string{"stub"}
	}
	for _, region := range blocks.Blocks {
		b := pr.AddBlock(region.Box, region.Type)
		b.ReRotation = region.ReRotation
		par := b.AddParagraph()
		row := par.AddRow(region.Box)
		x := region.Box.Left
		wordWidth := 20
		if region.Box.Width() > 0 && len(words) > 0 {
			wordWidth = region.Box.Width() / len(words)
			if wordWidth < 1 {
				wordWidth = 1
			}
		}
		for i, text := range words {
			wordBox := geom.Rect{Left: x, Top: region.Box.Top, Right: x + wordWidth, Bottom: region.Box.Bottom}
			w := row.AddWord(geom.QuadFromRect(wordBox))
			w.Dir = pageresult.DirStrongLTR
			for _, r := range text {
				w.AddSymbol(wordBox, []pageresult.Choice{{Text: string(r), Certainty: 0}}, 0)
			}
			x += wordWidth
			if progress != nil && progress(i+1) {
				return pr, nil
			}
		}
	}
	return pr, nil
}

// Package recognizer declares the external-collaborator contracts spec
// §1 names as deliberately out of scope (thresholder, layout analyzer,
// classifier, dictionary, paragraph detector) and provides a
// deterministic Stub implementation so the pipeline in package session
// is runnable and testable without a real OCR classifier.
package recognizer

import (
	"context"
	"image"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/pageresult"
)

// Thresholder converts a raster image (restricted to a rectangle of
// interest) into a binary image ready for layout analysis.
type Thresholder interface {
	Threshold(ctx context.Context, img image.Image, roi geom.Rect) (image.Image, error)
}

// BlockList is the connected-component/layout analyzer's output: an
// ordered list of block regions, ready for the classifier to fill with
// recognized text.
type BlockList struct {
	Blocks []BlockRegion
}

// BlockRegion is one block as produced by layout analysis, before
// recognition fills in its text content.
type BlockRegion struct {
	Box        geom.Rect
	Polygon    geom.Quad
	Type       pageresult.PolyBlockType
	ReRotation geom.Affine
}

// LayoutAnalyzer segments a thresholded page image into blocks
// (spec §2's "segment page" primitive).
type LayoutAnalyzer interface {
	SegmentPage(ctx context.Context, binary image.Image, roi geom.Rect) (*BlockList, error)
}

// Classifier is the "recognize all words" primitive spec §1 assumes:
// given a block list and the source image, it produces a fully
// populated PageResult. Progress is reported per recognized word via
// the progress callback; a true return from it cancels recognition.
type Classifier interface {
	Recognize(ctx context.Context, img image.Image, blocks *BlockList, progress func(wordsDone int) (cancel bool)) (*pageresult.PageResult, error)
}

// ParagraphDetector assigns paragraph partitions to a block's rows,
// either during layout (the default) or, when paragraph_text_based is
// set, as a post-recognition pass over the PageResult.
type ParagraphDetector interface {
	DetectParagraphs(pr *pageresult.PageResult) error
}

// Dictionary is a single loaded language-model dictionary (a "dawg" in
// the domain's terminology); the core only needs to know it can be
// released.
type Dictionary interface {
	Language() string
	Release()
}

// AdaptiveClassifier is the training hook Session.AdaptToWord (§4.1)
// drives: feeding one recognized word back into the classifier's
// adaptive model when it matches supplied ground truth.
type AdaptiveClassifier interface {
	Adapt(word string, truth string) error
}

// OrientationResult is the outcome of orientation/script detection, the
// data an OSD sub-session (spec §4.1) produces for the render/osd
// report.
type OrientationResult struct {
	Orientation           int
	Rotate                int
	OrientationConfidence float64
	Script                string
	ScriptConfidence      float64
}

// OrientationDetector is an optional capability a Classifier may also
// implement; Session's OSD coupling type-asserts for it when driving a
// PageSegMode OSD-only sub-session. A Classifier that does not
// implement it yields a zero OrientationResult.
type OrientationDetector interface {
	DetectOrientation(ctx context.Context, img image.Image) (OrientationResult, error)
}

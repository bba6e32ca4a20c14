// Package gosseractshim adapts github.com/otiai10/gosseract/v2 (a cgo
// binding onto the real Tesseract engine) as an optional integration-
// test backend exercising the recognizer.Classifier contract against a
// real OCR binary. It is never imported by package session or any other
// core-pipeline code: recognition itself is an external collaborator
// outside the scope this module specifies (spec §1), and this shim
// exists purely so integration tests can validate the contract against
// ground truth.
package gosseractshim

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/pageresult"
	"github.com/tessgo/ocrkit/recognizer"
)

// encodePNG re-encodes img as PNG bytes, the format gosseract's
// SetImageFromBytes expects when fed an in-memory image rather than a
// file path.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Classifier wraps a *gosseract.Client, satisfying recognizer.Classifier
// by running the real engine over the whole rectangle of interest and
// flattening its bounding-box word output into a single-block
// PageResult. It does not attempt to replicate Tesseract's internal
// block/paragraph/row structure — that remains the core pipeline's
// job when driven by a real LayoutAnalyzer, not this shim's.
type Classifier struct {
	Client *gosseract.Client
}

// New constructs a Classifier over a fresh gosseract.Client configured
// for lang (e.g. "eng"). Callers must call Close when done.
func New(lang string) (*Classifier, error) {
	client := gosseract.NewClient()
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			client.Close()
			return nil, fmt.Errorf("gosseractshim: set language %q: %w", lang, err)
		}
	}
	return &Classifier{Client: client}, nil
}

// Close releases the underlying Tesseract engine handle.
func (c *Classifier) Close() error {
	return c.Client.Close()
}

// Recognize implements recognizer.Classifier by encoding img, feeding
// it to Tesseract, and packaging the bounding-box word list it returns
// into one block/paragraph/row.
func (c *Classifier) Recognize(ctx context.Context, img image.Image, blocks *recognizer.BlockList, progress func(int) bool) (*pageresult.PageResult, error) {
	buf, err := encodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("gosseractshim: encode image: %w", err)
	}
	if err := c.Client.SetImageFromBytes(buf); err != nil {
		return nil, fmt.Errorf("gosseractshim: set image: %w", err)
	}

	boxes, err := c.Client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("gosseractshim: bounding boxes: %w", err)
	}

	pr := pageresult.New()
	var roi geom.Rect
	if len(blocks.Blocks) > 0 {
		roi = blocks.Blocks[0].Box
	}
	b := pr.AddBlock(roi, pageresult.FlowingText)
	par := b.AddParagraph()
	row := par.AddRow(roi)

	for i, box := range boxes {
		select {
		case <-ctx.Done():
			return pr, ctx.Err()
		default:
		}
		wordBox := geom.Rect{Left: box.Box.Min.X, Top: box.Box.Min.Y, Right: box.Box.Max.X, Bottom: box.Box.Max.Y}
		w := row.AddWord(geom.QuadFromRect(wordBox))
		w.Dir = pageresult.DirStrongLTR
		for _, r := range box.Word {
			w.AddSymbol(wordBox, []pageresult.Choice{{Text: string(r), Certainty: (box.Confidence - 100) / 20}}, 0)
		}
		if progress != nil && progress(i+1) {
			break
		}
	}
	return pr, nil
}

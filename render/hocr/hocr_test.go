package hocr

import (
	"strings"
	"testing"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/iterator"
	"github.com/tessgo/ocrkit/pageresult"
	"github.com/tessgo/ocrkit/render"
)

func buildPage() *pageresult.PageResult {
	pr := pageresult.New()
	b := pr.AddBlock(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20}, pageresult.FlowingText)
	par := b.AddParagraph()
	row := par.AddRow(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20})
	row.BaselineX1, row.BaselineY1 = 0, 18
	row.BaselineX2, row.BaselineY2 = 100, 18
	row.Upright = true
	w := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 0, Top: 0, Right: 40, Bottom: 20}))
	w.AddSymbol(geom.Rect{Left: 0, Top: 0, Right: 40, Bottom: 20}, []pageresult.Choice{{Text: "Hello", Certainty: 0}}, 0)
	return pr
}

func TestRendererEmitsWellFormedHOCR(t *testing.T) {
	pr := buildPage()
	lit := iterator.New(pr, 1, 20, 0, 0, geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20}, 200)
	roi := iterator.NewReadingOrder(lit, false)

	var buf strings.Builder
	r := New(&buf)
	if err := r.BeginDocument("doc"); err != nil {
		t.Fatalf("BeginDocument: %v", err)
	}
	if err := r.AddImage(render.Page{Iter: roi, ImageNum: 0}); err != nil {
		t.Fatalf("AddImage: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html PUBLIC",
		"class=\"ocr_page\"",
		"class=\"ocr_carea\"",
		"class=\"ocr_par\"",
		"class=\"ocr_line\"",
		"class=\"ocrx_word\"",
		"Hello",
		"<meta http-equiv=\"Content-Type\" content=\"text/html; charset=utf-8\"/>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "charset=utf-8\">") {
		t.Fatalf("meta tag was not self-closed for XHTML: %s", out)
	}
}

func TestBaselineSlopeZeroRunIsZero(t *testing.T) {
	m, c := baselineSlope(10, 5, 10, 5, 0, 0)
	if m != 0 || c != 0 {
		t.Fatalf("baselineSlope with x1==x2 = (%v,%v), want (0,0)", m, c)
	}
}

func TestBaselineSlopeFlatLineAtOrigin(t *testing.T) {
	m, c := baselineSlope(0, 0, 10, 0, 0, 0)
	if m != 0 {
		t.Fatalf("flat baseline slope = %v, want 0", m)
	}
	if c != 0 {
		t.Fatalf("flat baseline intercept = %v, want 0", c)
	}
}

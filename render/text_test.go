package render

import (
	"strings"
	"testing"

	"github.com/tessgo/ocrkit/pageresult"
)

func TestTextRendererWritesWordsAndFormFeed(t *testing.T) {
	var buf strings.Builder
	tr := NewTextRenderer(&buf)

	pr := buildHelloWorldPage()
	roi := readingOrderOver(pr, 100, 20)

	if err := tr.BeginDocument("doc"); err != nil {
		t.Fatalf("BeginDocument: %v", err)
	}
	if err := tr.AddImage(Page{Iter: roi, ImageNum: 0}); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if err := tr.EndDocument(); err != nil {
		t.Fatalf("EndDocument: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Hello World") {
		t.Fatalf("output missing recognized text: %q", out)
	}
	if !strings.HasSuffix(out, "\f") {
		t.Fatalf("output missing trailing form feed: %q", out)
	}
}

func TestTextRendererEmptyPageStillFormFeeds(t *testing.T) {
	var buf strings.Builder
	tr := NewTextRenderer(&buf)
	roi := readingOrderOver(pageresult.New(), 10, 10)

	if err := tr.AddImage(Page{Iter: roi, ImageNum: 0}); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if buf.String() != "\f" {
		t.Fatalf("empty page output = %q, want a lone form feed", buf.String())
	}
}

package render

import (
	"strconv"
	"strings"
	"testing"
)

// tsvWordLevel is the literal level-column value TSVRenderer writes for
// word rows (the conventional Tesseract TSV numbering 1=block..4=word,
// decoupled from the zero-based iterator.Level enum).
const tsvWordLevel = 4

func TestTSVRendererHeaderAndRows(t *testing.T) {
	var buf strings.Builder
	tr := NewTSVRenderer(&buf)
	pr := buildHelloWorldPage()
	roi := readingOrderOver(pr, 100, 20)

	if err := tr.BeginDocument("doc"); err != nil {
		t.Fatalf("BeginDocument: %v", err)
	}
	if err := tr.AddImage(Page{Iter: roi, ImageNum: 0}); err != nil {
		t.Fatalf("AddImage: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "level\tpage\tblock\tpar\tline\tword\tleft\ttop\twidth\theight\tconf\ttext" {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	var wordLines []string
	for _, l := range lines[1:] {
		fields := strings.Split(l, "\t")
		if len(fields) != 12 {
			t.Fatalf("row %q has %d fields, want 12", l, len(fields))
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil {
			t.Fatalf("non-numeric level in row %q", l)
		}
		if level == tsvWordLevel {
			wordLines = append(wordLines, l)
		}
	}
	if len(wordLines) != 2 {
		t.Fatalf("got %d word rows, want 2: %v", len(wordLines), wordLines)
	}
	if !strings.HasSuffix(wordLines[0], "Hello") {
		t.Fatalf("first word row = %q, want it to end in Hello", wordLines[0])
	}
	if !strings.HasSuffix(wordLines[1], "World") {
		t.Fatalf("second word row = %q, want it to end in World", wordLines[1])
	}
}

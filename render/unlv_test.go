package render

import (
	"strings"
	"testing"

	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/pageresult"
)

func TestUNLVRendererMarksRejectedAndSuspectWords(t *testing.T) {
	pr := pageresult.New()
	b := pr.AddBlock(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20}, pageresult.FlowingText)
	par := b.AddParagraph()
	row := par.AddRow(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 20})

	good := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 0, Top: 0, Right: 20, Bottom: 20}))
	good.AddSymbol(geom.Rect{}, []pageresult.Choice{{Text: "ok", Certainty: 0}}, 0)

	rejected := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 25, Top: 0, Right: 45, Bottom: 20}))
	rejected.Rejected = true
	rejected.AddSymbol(geom.Rect{}, []pageresult.Choice{{Text: "bad", Certainty: 0}}, 0)

	suspect := row.AddWord(geom.QuadFromRect(geom.Rect{Left: 50, Top: 0, Right: 70, Bottom: 20}))
	suspect.Suspected = true
	suspect.AddSymbol(geom.Rect{}, []pageresult.Choice{{Text: "hmm", Certainty: 0}}, 0)

	roi := readingOrderOver(pr, 100, 20)

	var buf strings.Builder
	r := NewUNLVRenderer(&buf)
	if err := r.AddImage(Page{Iter: roi, ImageNum: 0}); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "ok ") {
		t.Fatalf("output missing unmarked word: %q", out)
	}
	if !strings.Contains(out, "~bad ") {
		t.Fatalf("output missing ~-marked rejected word: %q", out)
	}
	if !strings.Contains(out, "^hmm ") {
		t.Fatalf("output missing ^-marked suspect word: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("output missing trailing newline for the only textline: %q", out)
	}
}

func TestToLatin1RemapsFallbackRunes(t *testing.T) {
	got := toLatin1("café — € “test”")
	if strings.ContainsAny(got, "—€“”") {
		t.Fatalf("toLatin1 left non-Latin-1 runes in output: %q", got)
	}
	if !strings.Contains(got, "caf\xe9") {
		t.Fatalf("toLatin1 should preserve encodable Latin-1 runes: %q", got)
	}
}

package grapheme

import "testing"

func clusterTexts(cs []Cluster) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text
	}
	return out
}

// TestIdempotence is property P5: running the pipeline on its own
// output changes nothing further.
func TestIdempotence(t *testing.T) {
	s := "Hello, World! ‘quoted’ — text"
	opts := DefaultOptions()
	opts.OCRNorm = true
	once, err := NormalizeUTF8String(s, opts)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := NormalizeUTF8String(once, opts)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if once != twice {
		t.Fatalf("not idempotent: %q != %q", once, twice)
	}
}

// TestRoundtrip is property P6: SingleString mode reassembles to the
// same string NormalizeUTF8String would produce.
func TestRoundtrip(t *testing.T) {
	s := "नमस्ते"
	opts := DefaultOptions()
	opts.Mode = SingleString
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("SingleString mode produced %d clusters, want 1", len(clusters))
	}
	want, err := NormalizeUTF8String(s, opts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if clusters[0].Text != want {
		t.Fatalf("roundtrip mismatch: %q != %q", clusters[0].Text, want)
	}
}

// TestMalayalamKAZWJViramaTA is spec §8 scenario 6: KA + ZWJ + Virama +
// TA should cluster as one grapheme in Combined mode, and split into
// [KA] [ZWJ-Virama-TA] in GlyphSplit mode.
func TestMalayalamKAZWJViramaTA(t *testing.T) {
	ka := string(rune(0x0D15))
	ta := string(rune(0x0D24))
	virama := string(rune(0x0D4D))
	s := ka + string(zwj) + virama + ta

	combinedOpts := DefaultOptions()
	combined, err := NormalizeCleanAndSegmentUTF8(s, combinedOpts)
	if err != nil {
		t.Fatalf("combined: %v", err)
	}
	if len(combined) != 1 {
		t.Fatalf("Combined mode produced %d clusters, want 1: %v", len(combined), clusterTexts(combined))
	}
	if !combined[0].Validated {
		t.Fatalf("expected cluster to validate")
	}

	splitOpts := DefaultOptions()
	splitOpts.Mode = GlyphSplit
	split, err := NormalizeCleanAndSegmentUTF8(s, splitOpts)
	if err != nil {
		t.Fatalf("glyphsplit: %v", err)
	}
	if len(split) != 2 {
		t.Fatalf("GlyphSplit mode produced %d glyphs, want 2: %v", len(split), clusterTexts(split))
	}
	if split[0].Text != ka {
		t.Fatalf("first glyph = %q, want base KA %q", split[0].Text, ka)
	}
}

func TestDevanagariConsonantClusterWithNukta(t *testing.T) {
	ka := string(rune(0x0915))
	nukta := string(rune(0x093C))
	virama := string(rune(0x094D))
	ha := string(rune(0x0939))
	s := ka + nukta + virama + ha

	opts := DefaultOptions()
	opts.Mode = GlyphSplit
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	want := []string{ka, nukta, virama + ha}
	got := clusterTexts(clusters)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("glyph %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestTerminalViramaGetsImplicitZWNJ(t *testing.T) {
	ka := string(rune(0x0915))
	virama := string(rune(0x094D))
	s := ka + virama

	opts := DefaultOptions()
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1: %v", len(clusters), clusterTexts(clusters))
	}
	want := ka + virama + string(zwnj)
	if clusters[0].Text != want {
		t.Fatalf("got %q, want %q", clusters[0].Text, want)
	}
}

func TestOrphanedMatraIsValidationError(t *testing.T) {
	matra := string(rune(0x093E)) // Devanagari AA matra, no preceding consonant
	opts := DefaultOptions()
	if _, err := NormalizeCleanAndSegmentUTF8(matra, opts); err == nil {
		t.Fatalf("expected validation error for orphaned matra")
	}
}

func TestOrphanedMatraPassthroughWhenReportErrorsOff(t *testing.T) {
	matra := string(rune(0x093E))
	opts := DefaultOptions()
	opts.ReportErrors = false
	clusters, err := NormalizeCleanAndSegmentUTF8(matra, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 || clusters[0].Validated {
		t.Fatalf("expected one unvalidated passthrough cluster, got %v", clusters)
	}
}

func TestMalayalamAllowsMultipleAnusvara(t *testing.T) {
	ka := string(rune(0x0D15))
	anusvara := string(rune(0x0D02))
	s := ka + anusvara + anusvara

	opts := DefaultOptions()
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("malayalam double anusvara should validate: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
}

func TestDevanagariRejectsMultipleVowelModifiers(t *testing.T) {
	ka := string(rune(0x0915))
	anusvara := string(rune(0x0902))
	s := ka + anusvara + anusvara

	opts := DefaultOptions()
	if _, err := NormalizeCleanAndSegmentUTF8(s, opts); err == nil {
		t.Fatalf("expected error for double vowel modifier outside Malayalam")
	}
}

func TestIndividualUnicodesMode(t *testing.T) {
	s := "AB"
	opts := DefaultOptions()
	opts.Mode = IndividualUnicodes
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
}

func TestKhmerCoengCluster(t *testing.T) {
	ka := string(rune(0x1780))
	coeng := string(rune(0x17D2))
	kha := string(rune(0x1781))
	s := ka + coeng + kha

	opts := DefaultOptions()
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1: %v", len(clusters), clusterTexts(clusters))
	}
}

func TestThaiVowelAndToneCluster(t *testing.T) {
	ko := string(rune(0x0E01))
	vowel := string(rune(0x0E34))
	tone := string(rune(0x0E48))
	s := ko + vowel + tone

	opts := DefaultOptions()
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1: %v", len(clusters), clusterTexts(clusters))
	}
}

func TestArabicHarakatStacking(t *testing.T) {
	base := string(rune(0x0628))
	fatha := string(rune(0x064E))
	shadda := string(rune(0x0651))
	s := base + shadda + fatha

	opts := DefaultOptions()
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1: %v", len(clusters), clusterTexts(clusters))
	}
}

func TestInvalidUTF8Rejected(t *testing.T) {
	bad := string([]byte{0xff, 0xfe})
	if _, err := NormalizeUTF8String(bad, DefaultOptions()); err == nil {
		t.Fatalf("expected ErrInvalidUTF8")
	}
}

func TestOCRNormalizationTable(t *testing.T) {
	opts := DefaultOptions()
	opts.OCRNorm = true
	got, err := NormalizeUTF8String("‘fi’", opts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := "'fi'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestSinhalaRakaransaya is spec §4.3.3's Rakaransaya example: KA Virama
// ZWJ RAYANNA clusters as one grapheme, and splits as [KA] [Virama ZWJ
// RAYANNA].
func TestSinhalaRakaransaya(t *testing.T) {
	ka := string(rune(0x0D9A))
	virama := string(rune(0x0DCA))
	rayanna := string(rune(0x0DBB))
	s := ka + virama + string(zwj) + rayanna

	opts := DefaultOptions()
	combined, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("combined: %v", err)
	}
	if len(combined) != 1 {
		t.Fatalf("Combined mode produced %d clusters, want 1: %v", len(combined), clusterTexts(combined))
	}

	opts.Mode = GlyphSplit
	split, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("glyphsplit: %v", err)
	}
	want := []string{ka, virama + string(zwj) + rayanna}
	got := clusterTexts(split)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("glyph %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

// TestSinhalaYansaya is spec §4.3.3's Yansaya example: KA Virama ZWJ
// YAYANNA OO splits as [KA] [Virama ZWJ YAYANNA] [OO].
func TestSinhalaYansaya(t *testing.T) {
	ka := string(rune(0x0D9A))
	virama := string(rune(0x0DCA))
	yayanna := string(rune(0x0DBA))
	oo := string(rune(0x0DDD))
	s := ka + virama + string(zwj) + yayanna + oo

	opts := DefaultOptions()
	opts.Mode = GlyphSplit
	split, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("glyphsplit: %v", err)
	}
	want := []string{ka, virama + string(zwj) + yayanna, oo}
	got := clusterTexts(split)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("glyph %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

// TestSinhalaRepaya is spec §4.3.3's Repaya example: KA RAYANNA Virama
// ZWJ MA clusters as [KA] [RAYANNA Virama ZWJ MA] in Combined mode, and
// splits as [KA] [RAYANNA Virama ZWJ] [MA] in GlyphSplit mode. Repaya's
// virama+joiner glyphs with the *preceding* RAYANNA, not the consonant
// that follows, unlike every other Indic subjoined-consonant form.
func TestSinhalaRepaya(t *testing.T) {
	ka := string(rune(0x0D9A))
	rayanna := string(rune(0x0DBB))
	virama := string(rune(0x0DCA))
	ma := string(rune(0x0DB8))
	s := ka + rayanna + virama + string(zwj) + ma

	opts := DefaultOptions()
	combined, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("combined: %v", err)
	}
	wantCombined := []string{ka, rayanna + virama + string(zwj) + ma}
	gotCombined := clusterTexts(combined)
	if len(gotCombined) != len(wantCombined) {
		t.Fatalf("Combined mode = %v, want %v", gotCombined, wantCombined)
	}
	for i := range wantCombined {
		if gotCombined[i] != wantCombined[i] {
			t.Fatalf("combined cluster %d = %q, want %q", i, gotCombined[i], wantCombined[i])
		}
	}

	opts.Mode = GlyphSplit
	split, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("glyphsplit: %v", err)
	}
	wantSplit := []string{ka, rayanna + virama + string(zwj), ma}
	gotSplit := clusterTexts(split)
	if len(gotSplit) != len(wantSplit) {
		t.Fatalf("GlyphSplit mode = %v, want %v", gotSplit, wantSplit)
	}
	for i := range wantSplit {
		if gotSplit[i] != wantSplit[i] {
			t.Fatalf("glyph %d = %q, want %q (full: %v)", i, gotSplit[i], wantSplit[i], gotSplit)
		}
	}
}

// TestSinhalaChainedRepaya ports the simpler of the two strings from
// the teacher-unittest SinhalaSpecials case: two consecutive Repaya
// constructs (SA RAYANNA Virama ZWJ RAYANNA Virama ZWJ AAMatra) split
// into four glyphs, each Repaya glyphing backward with its own RAYANNA.
func TestSinhalaChainedRepaya(t *testing.T) {
	sa := string(rune(0x0DC3))
	rayanna := string(rune(0x0DBB))
	virama := string(rune(0x0DCA))
	aaMatra := string(rune(0x0DCF))
	s := sa + rayanna + virama + string(zwj) + rayanna + virama + string(zwj) + aaMatra

	opts := DefaultOptions()
	opts.Mode = GlyphSplit
	split, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		t.Fatalf("glyphsplit: %v", err)
	}
	reph := rayanna + virama + string(zwj)
	want := []string{sa, reph, reph, aaMatra}
	got := clusterTexts(split)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("glyph %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestWhitespaceCanonicalization(t *testing.T) {
	got, err := NormalizeUTF8String("a\t\n  b", DefaultOptions())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := "a b"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

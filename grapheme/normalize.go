package grapheme

import (
	"strings"

	"golang.org/x/text/width"
)

// DefaultOCRNormalizationTable returns the OCR-normalization mapping of
// spec §4.3.1, step 2: only the mappings the spec explicitly enumerates.
// The upstream mapping set is explicitly left non-exhaustive by the
// spec's Open Questions (§9), so this table is deliberately small and
// callers needing more assign Options.OCRTable.
func DefaultOCRNormalizationTable() map[rune]string {
	return map[rune]string{
		'‘': "'", // left single quotation mark
		'’': "'", // right single quotation mark
		'“': `"`, // left double quotation mark
		'”': `"`, // right double quotation mark
		'—': "-",  // em dash
		'•': "·",  // bullet -> middle dot
		'ĳ': "ij", // LATIN SMALL LIGATURE IJ
		'ﬁ': "fi", // LATIN SMALL LIGATURE FI
		'ﬂ': "fl", // LATIN SMALL LIGATURE FL
	}
}

// applyOCRNormalization applies the OCR-normalization table (step 2) and
// fullwidth/halfwidth folding for U+FF01-FF5E, U+FFE0-FFEF.
func applyOCRNormalization(s string, opts Options) string {
	table := opts.OCRTable
	if table == nil {
		table = DefaultOCRNormalizationTable()
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if repl, ok := table[r]; ok {
			sb.WriteString(repl)
			continue
		}
		if isFullwidthRange(r) {
			folded := width.Fold.String(string(r))
			sb.WriteString(folded)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isFullwidthRange(r rune) bool {
	return (r >= 0xFF01 && r <= 0xFF5E) || (r >= 0xFFE0 && r <= 0xFFEF)
}

// canonicalizeWhitespace recognizes any of U+0020, U+0009, U+000A,
// U+000D, U+2000-U+200A, U+3000 as whitespace and folds each run to a
// single U+0020, per spec §4.3.1 step 3. ZWNBSP (U+FEFF) is explicitly
// not whitespace and is left untouched.
func canonicalizeWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inRun := false
	for _, r := range s {
		if isCanonicalWhitespace(r) {
			if !inRun {
				sb.WriteRune(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func isCanonicalWhitespace(r rune) bool {
	switch {
	case r == 0x0020, r == 0x0009, r == 0x000A, r == 0x000D, r == 0x3000:
		return true
	case r >= 0x2000 && r <= 0x200A:
		return true
	default:
		return false
	}
}

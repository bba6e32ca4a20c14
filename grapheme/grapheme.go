// Package grapheme implements the script-aware grapheme validator of
// spec §4.3: a pure function over UTF-8/UTF-32 producing validated
// grapheme clusters, segmenting, cleaning and validating complex-script
// text against per-script grapheme grammars.
package grapheme

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tessgo/ocrkit/unicharset"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned when the input is not well-formed UTF-8.
var ErrInvalidUTF8 = errors.New("grapheme: malformed UTF-8 input")

// ErrValidation is returned when the input does not form legal grapheme
// clusters under the active script's grammar and GraphemeMode requires
// validation.
var ErrValidation = errors.New("grapheme: invalid grapheme cluster")

// NormForm selects the Unicode normalization form applied first in the
// pipeline (spec §4.3.1 step 1). NFKC is the default.
type NormForm int

const (
	NFC NormForm = iota
	NFD
	NFKC
	NFKD
)

// GraphemeMode controls how clusters are packaged into output elements
// (spec §4.3.1 step 6).
type GraphemeMode int

const (
	// Combined emits one grapheme cluster per output element (default).
	Combined GraphemeMode = iota
	// IndividualUnicodes emits one code point per output element.
	IndividualUnicodes
	// GlyphSplit splits a cluster into sub-visual glyph fragments.
	GlyphSplit
	// SingleString emits one element containing the whole normalized
	// string.
	SingleString
)

// Options configures a validation/segmentation run.
type Options struct {
	// UnicodeNorm selects the Unicode normalization form (step 1).
	UnicodeNorm NormForm
	// OCRNorm enables the OCR-normalization table (step 2).
	OCRNorm bool
	// OCRTable overrides the default OCR-normalization table; nil uses
	// DefaultOCRNormalizationTable().
	OCRTable map[rune]string
	// GraphemeNorm enables strict grammar validation and orphan-mark
	// dropping. When false, the script grammars still segment the input
	// and tag the clusters they accept as validated; some fragments that
	// would otherwise be dropped or rejected, such as a stray joiner, are
	// kept as clusters tagged not-validated.
	GraphemeNorm bool
	// Mode selects the output packaging (step 6).
	Mode GraphemeMode
	// ReportErrors, when true, causes a grammar violation to return
	// ErrValidation; when false, a grammar violation makes the whole
	// input fall back to one cluster per rune, every cluster tagged
	// not-validated.
	ReportErrors bool
	// Unichars optionally supplies a unicharset.Set used only for the
	// OCR-normalization step to special-case unichars already present in
	// the active character set (spec §2's "UnicharSet... supplies
	// optional OCR normalization" dependency).
	Unichars *unicharset.Set
}

// DefaultOptions returns the spec's default pipeline configuration:
// NFKC normalization, no OCR normalization, grammar validation on,
// Combined packaging.
func DefaultOptions() Options {
	return Options{UnicodeNorm: NFKC, GraphemeNorm: true, Mode: Combined, ReportErrors: true}
}

// Cluster is a non-empty sequence of UTF-32 code points behaving as one
// user-perceived character under the active script's rules (spec §3.1).
type Cluster struct {
	// Text is the UTF-8 encoding of the cluster, after normalization and
	// any implicit joiner insertion.
	Text string
	// Validated is false for a cluster the script grammar did not accept:
	// a fragment kept because GraphemeNorm was disabled, an orphaned
	// Arabic mark, or any cluster of the per-rune fallback used when
	// ReportErrors is false.
	Validated bool
	// Script names the dominant script this cluster was segmented under.
	Script unicharset.Script
}

func normForm(f NormForm) norm.Form {
	switch f {
	case NFC:
		return norm.NFC
	case NFD:
		return norm.NFD
	case NFKD:
		return norm.NFKD
	default:
		return norm.NFKC
	}
}

// NormalizeUTF8String runs stages 1-4 (normalization, OCR-normalization,
// whitespace canonicalization, and script-driven cleanup) and returns the
// single resulting string, matching the §4.3.8 NormalizeUTF8String
// contract: it never partially writes on error.
func NormalizeUTF8String(s string, opts Options) (string, error) {
	clusters, err := NormalizeCleanAndSegmentUTF8(s, opts)
	if err != nil {
		return "", err
	}
	out := make([]byte, 0, len(s))
	for _, c := range clusters {
		out = append(out, c.Text...)
	}
	return string(out), nil
}

// NormalizeCleanAndSegmentUTF8 runs the full §4.3.1 pipeline and returns
// the ordered list of grapheme clusters, packaged according to
// opts.Mode. Malformed UTF-8 input is always an error.
func NormalizeCleanAndSegmentUTF8(s string, opts Options) ([]Cluster, error) {
	if !isWellFormedUTF8(s) {
		return nil, ErrInvalidUTF8
	}
	normalized := normForm(opts.UnicodeNorm).String(s)
	if opts.OCRNorm {
		normalized = applyOCRNormalization(normalized, opts)
	}
	normalized = canonicalizeWhitespace(normalized)

	runes := []rune(normalized)
	script := detectDominantScript(runes)

	var clusters []Cluster
	var err error
	switch {
	case isIndicScript(script):
		clusters, err = segmentIndic(runes, script, opts)
	case script == unicharset.ScriptKhmer:
		clusters, err = segmentKhmer(runes, opts)
	case script == unicharset.ScriptMyanmar:
		clusters, err = segmentMyanmar(runes, opts)
	case script == unicharset.ScriptThai:
		clusters, err = segmentThai(runes, opts)
	case script == unicharset.ScriptArabic:
		clusters, err = segmentArabic(runes, opts)
	default:
		clusters = segmentGeneric(runes, script)
	}
	if err != nil {
		if opts.ReportErrors {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		// Best-effort: fall back to generic, unvalidated segmentation.
		clusters = segmentGeneric(runes, script)
		for i := range clusters {
			clusters[i].Validated = false
		}
	}
	return packageClusters(clusters, opts.Mode), nil
}

func isWellFormedUTF8(s string) bool {
	return utf8.ValidString(s)
}

func packageClusters(clusters []Cluster, mode GraphemeMode) []Cluster {
	switch mode {
	case SingleString:
		var sb []byte
		validated := true
		var script unicharset.Script
		for i, c := range clusters {
			sb = append(sb, c.Text...)
			if !c.Validated {
				validated = false
			}
			if i == 0 {
				script = c.Script
			}
		}
		return []Cluster{{Text: string(sb), Validated: validated, Script: script}}
	case IndividualUnicodes:
		var out []Cluster
		for _, c := range clusters {
			for _, r := range c.Text {
				out = append(out, Cluster{Text: string(r), Validated: c.Validated, Script: c.Script})
			}
		}
		return out
	case GlyphSplit:
		var out []Cluster
		for _, c := range clusters {
			out = append(out, splitGlyphs(c)...)
		}
		return out
	default: // Combined
		return clusters
	}
}

package grapheme

import "github.com/tessgo/ocrkit/unicharset"

// Arabic harakat (diacritic) range, per spec §4.3.6: a base letter may
// carry any number of combining diacritics (fatha, damma, kasra, sukun,
// shadda, tanwin) without validation — Arabic orthography freely stacks
// them and Tesseract's grammar does not constrain Arabic the way it
// constrains the Brahmic scripts.
const (
	arabicHarakatLo, arabicHarakatHi = 0x064B, 0x065F
	arabicSukunExtra                  = 0x0670
)

func isArabicHarakat(r rune) bool {
	return (r >= arabicHarakatLo && r <= arabicHarakatHi) || r == arabicSukunExtra
}

// segmentArabic implements the Arabic grammar of spec §4.3.6: a cluster
// is one base letter followed by any number of combining harakat. No
// legality constraints are placed on harakat stacking or ordering.
func segmentArabic(runes []rune, opts Options) ([]Cluster, error) {
	var out []Cluster
	i := 0
	n := len(runes)
	for i < n {
		if isArabicHarakat(runes[i]) {
			// Orphaned harakat with no preceding base letter: kept as its
			// own unvalidated cluster rather than dropped, since Arabic's
			// grammar makes no claim about legality here.
			out = append(out, Cluster{Text: string(runes[i]), Validated: false, Script: unicharset.ScriptArabic})
			i++
			continue
		}
		start := i
		i++
		for i < n && isArabicHarakat(runes[i]) {
			i++
		}
		out = append(out, Cluster{Text: string(runes[start:i]), Validated: true, Script: unicharset.ScriptArabic})
	}
	return out, nil
}

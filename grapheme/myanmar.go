package grapheme

import (
	"fmt"

	"github.com/tessgo/ocrkit/unicharset"
)

// Myanmar rune ranges (U+1000 block), per spec §4.3.4. Myanmar's virama
// (ASAT, U+103A) marks a killed vowel rather than introducing a
// subjoined consonant the way Indic/Khmer viramas do; actual consonant
// stacking uses a separate combining sign (U+1039, also commonly called
// virama in Unicode terms) that, like Khmer's COENG, precedes the
// consonant it subjoins.
const (
	myanmarConsonantLo, myanmarConsonantHi = 0x1000, 0x1020
	myanmarIndepVowelLo, myanmarIndepVowelHi = 0x1021, 0x1027
	myanmarViramaSign                        = 0x1039 // subjoining sign
	myanmarAsat                              = 0x103A // vowel-killer
	myanmarVowelSignLo, myanmarVowelSignHi   = 0x102B, 0x1030
	myanmarMedialLo, myanmarMedialHi         = 0x103B, 0x103E
	myanmarSignLo, myanmarSignHi             = 0x1036, 0x1038
)

func myanmarCategorize(r rune) indicCategory {
	switch {
	case r == myanmarViramaSign:
		return catVirama
	case r == myanmarAsat:
		return catVowelModifier
	case r >= myanmarConsonantLo && r <= myanmarConsonantHi:
		return catConsonant
	case r >= myanmarIndepVowelLo && r <= myanmarIndepVowelHi:
		return catIndependentVowel
	case r >= myanmarMedialLo && r <= myanmarMedialHi:
		return catNukta // medial consonant signs behave like Nukta: bind tight to the base, own glyph on split
	case r >= myanmarVowelSignLo && r <= myanmarVowelSignHi:
		return catMatra
	case r >= myanmarSignLo && r <= myanmarSignHi:
		return catVowelModifier
	case r == zwj:
		return catZWJ
	case r == zwnj:
		return catZWNJ
	default:
		return catOther
	}
}

// segmentMyanmar implements the Myanmar grammar of spec §4.3.4: a
// cluster is Consonant (Virama Consonant)* (Medial)* (VowelSign)?
// (Asat)? (Sign)*.
func segmentMyanmar(runes []rune, opts Options) ([]Cluster, error) {
	var out []Cluster
	i := 0
	n := len(runes)
	for i < n {
		cat := myanmarCategorize(runes[i])
		switch cat {
		case catConsonant, catIndependentVowel:
			start := i
			i++
			for i < n && myanmarCategorize(runes[i]) == catVirama {
				signIdx := i
				i++
				if i < n && myanmarCategorize(runes[i]) == catConsonant {
					i++
					continue
				}
				if !opts.GraphemeNorm {
					i = signIdx + 1
					break
				}
				return nil, fmt.Errorf("grapheme: myanmar subjoining sign U+1039 not followed by a consonant")
			}
			for i < n && myanmarCategorize(runes[i]) == catNukta {
				i++
			}
			for i < n && myanmarCategorize(runes[i]) == catMatra {
				i++
			}
			for i < n && myanmarCategorize(runes[i]) == catVowelModifier {
				i++
			}
			out = append(out, Cluster{Text: string(runes[start:i]), Validated: true, Script: unicharset.ScriptMyanmar})
		case catZWJ, catZWNJ:
			i++
			if !opts.GraphemeNorm {
				out = append(out, Cluster{Text: string(runes[i-1]), Validated: false, Script: unicharset.ScriptMyanmar})
			}
		default:
			out = append(out, Cluster{Text: string(runes[i]), Validated: true, Script: unicharset.ScriptMyanmar})
			i++
		}
	}
	return out, nil
}

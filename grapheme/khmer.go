package grapheme

import (
	"fmt"

	"github.com/tessgo/ocrkit/unicharset"
)

// Khmer rune ranges (U+1780 block), per spec §4.3.4: independent
// vowels, consonants, the COENG sign (Khmer's virama equivalent, which
// unlike Indic viramas precedes rather than follows its consonant),
// dependent vowel signs, and the two register shifters / other signs
// that behave like vowel modifiers for clustering purposes.
const (
	khmerConsonantLo, khmerConsonantHi = 0x1780, 0x17A2
	khmerIndepVowelLo, khmerIndepVowelHi = 0x17A5, 0x17B3
	khmerCoeng                          = 0x17D2
	khmerVowelSignLo, khmerVowelSignHi   = 0x17B6, 0x17C5
	khmerSignLo, khmerSignHi             = 0x17C6, 0x17D1
)

func khmerCategorize(r rune) indicCategory {
	switch {
	case r == khmerCoeng:
		return catVirama
	case r >= khmerConsonantLo && r <= khmerConsonantHi:
		return catConsonant
	case r >= khmerIndepVowelLo && r <= khmerIndepVowelHi:
		return catIndependentVowel
	case r >= khmerVowelSignLo && r <= khmerVowelSignHi:
		return catMatra
	case r >= khmerSignLo && r <= khmerSignHi:
		return catVowelModifier
	case r == zwj:
		return catZWJ
	case r == zwnj:
		return catZWNJ
	default:
		return catOther
	}
}

// segmentKhmer implements the Khmer grammar of spec §4.3.4: a cluster is
// Consonant (COENG Consonant)* (VowelSign)* (Sign)*. Unlike the Indic
// viramas, COENG always precedes the subjoined consonant it attaches to,
// so there is no "terminal virama" case to special-case; a COENG with no
// following consonant is simply a grammar violation.
func segmentKhmer(runes []rune, opts Options) ([]Cluster, error) {
	var out []Cluster
	i := 0
	n := len(runes)
	for i < n {
		cat := khmerCategorize(runes[i])
		switch cat {
		case catConsonant, catIndependentVowel:
			start := i
			i++
			for i < n && khmerCategorize(runes[i]) == catVirama {
				coengIdx := i
				i++
				if i < n && khmerCategorize(runes[i]) == catConsonant {
					i++
					continue
				}
				if !opts.GraphemeNorm {
					i = coengIdx + 1
					break
				}
				return nil, fmt.Errorf("grapheme: khmer COENG U+17D2 not followed by a consonant")
			}
			for i < n && khmerCategorize(runes[i]) == catMatra {
				i++
			}
			for i < n && khmerCategorize(runes[i]) == catVowelModifier {
				i++
			}
			out = append(out, Cluster{Text: string(runes[start:i]), Validated: true, Script: unicharset.ScriptKhmer})
		case catZWJ, catZWNJ:
			i++
			if !opts.GraphemeNorm {
				out = append(out, Cluster{Text: string(runes[i-1]), Validated: false, Script: unicharset.ScriptKhmer})
			}
		default:
			out = append(out, Cluster{Text: string(runes[i]), Validated: true, Script: unicharset.ScriptKhmer})
			i++
		}
	}
	return out, nil
}

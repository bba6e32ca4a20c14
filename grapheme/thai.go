package grapheme

import (
	"fmt"

	"github.com/tessgo/ocrkit/unicharset"
)

// Thai rune ranges (U+0E00 block), per spec §4.3.5: Thai has no virama;
// a cluster is a base consonant followed by at most one above/below
// vowel sign and at most one tone mark, in either order.
const (
	thaiConsonantLo, thaiConsonantHi = 0x0E01, 0x0E2E
	thaiVowelSignLo, thaiVowelSignHi = 0x0E30, 0x0E3A
	thaiToneMarkLo, thaiToneMarkHi   = 0x0E47, 0x0E4E
)

func thaiCategorize(r rune) indicCategory {
	switch {
	case r >= thaiConsonantLo && r <= thaiConsonantHi:
		return catConsonant
	case r >= thaiVowelSignLo && r <= thaiVowelSignHi:
		return catMatra
	case r >= thaiToneMarkLo && r <= thaiToneMarkHi:
		return catVowelModifier
	default:
		return catOther
	}
}

// segmentThai implements the Thai grammar of spec §4.3.5: Consonant
// (VowelSign)? (ToneMark)? (VowelSign)?, since the above-vowel sign and
// tone mark may appear in either order in the underlying logical order
// but each occurs at most once per cluster.
func segmentThai(runes []rune, opts Options) ([]Cluster, error) {
	var out []Cluster
	i := 0
	n := len(runes)
	for i < n {
		if thaiCategorize(runes[i]) != catConsonant {
			out = append(out, Cluster{Text: string(runes[i]), Validated: true, Script: unicharset.ScriptThai})
			i++
			continue
		}
		start := i
		i++
		sawVowel, sawTone := false, false
		for i < n {
			switch thaiCategorize(runes[i]) {
			case catMatra:
				if sawVowel {
					if !opts.GraphemeNorm {
						goto flush
					}
					return nil, fmt.Errorf("grapheme: more than one thai vowel sign in a single cluster")
				}
				sawVowel = true
				i++
			case catVowelModifier:
				if sawTone {
					if !opts.GraphemeNorm {
						goto flush
					}
					return nil, fmt.Errorf("grapheme: more than one thai tone mark in a single cluster")
				}
				sawTone = true
				i++
			default:
				goto flush
			}
		}
	flush:
		out = append(out, Cluster{Text: string(runes[start:i]), Validated: true, Script: unicharset.ScriptThai})
	}
	return out, nil
}

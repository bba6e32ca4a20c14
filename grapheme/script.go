package grapheme

import "github.com/tessgo/ocrkit/unicharset"

// viramaScripts lists the virama-bearing scripts spec §4.3.1 step 4
// chooses the dominant one among. Danda/double-danda (shared Indic
// punctuation) do not count toward script detection.
var viramaScripts = map[unicharset.Script]bool{
	unicharset.ScriptDevanagari: true,
	unicharset.ScriptBengali:    true,
	unicharset.ScriptGurmukhi:   true,
	unicharset.ScriptGujarati:   true,
	unicharset.ScriptOriya:      true,
	unicharset.ScriptTamil:      true,
	unicharset.ScriptTelugu:     true,
	unicharset.ScriptKannada:    true,
	unicharset.ScriptMalayalam:  true,
	unicharset.ScriptSinhala:    true,
	unicharset.ScriptKhmer:      true,
	unicharset.ScriptMyanmar:    true,
}

// detectDominantScript picks the dominant virama-bearing script among the
// runes, or falls back to the more frequent of Thai/Arabic, then Latin. A
// mixed document inherits the first detected virama script; Latin and
// punctuation are always admitted regardless of the dominant script.
func detectDominantScript(runes []rune) unicharset.Script {
	counts := make(map[unicharset.Script]int)
	var firstVirama unicharset.Script
	for _, r := range runes {
		s := unicharset.RuneScript(r)
		if viramaScripts[s] {
			counts[s]++
			if firstVirama == "" {
				firstVirama = s
			}
			continue
		}
		if s == unicharset.ScriptThai || s == unicharset.ScriptArabic {
			counts[s]++
		}
	}
	if firstVirama != "" {
		return firstVirama
	}
	best := unicharset.ScriptCommon
	bestCount := 0
	for s, c := range counts {
		if c > bestCount {
			best, bestCount = s, c
		}
	}
	if bestCount > 0 {
		return best
	}
	return unicharset.ScriptLatin
}

func isIndicScript(s unicharset.Script) bool {
	switch s {
	case unicharset.ScriptDevanagari, unicharset.ScriptBengali, unicharset.ScriptGurmukhi,
		unicharset.ScriptGujarati, unicharset.ScriptOriya, unicharset.ScriptTamil,
		unicharset.ScriptTelugu, unicharset.ScriptKannada, unicharset.ScriptMalayalam,
		unicharset.ScriptSinhala:
		return true
	default:
		return false
	}
}

// segmentGeneric segments non-complex-script text (Latin, punctuation,
// digits, whitespace, or anything not covered by a dedicated grammar)
// one rune at a time: each code point is already a legal, independent
// grapheme cluster for these scripts.
func segmentGeneric(runes []rune, script unicharset.Script) []Cluster {
	out := make([]Cluster, 0, len(runes))
	for _, r := range runes {
		out = append(out, Cluster{Text: string(r), Validated: true, Script: script})
	}
	return out
}

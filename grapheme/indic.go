package grapheme

import (
	"fmt"

	"github.com/tessgo/ocrkit/unicharset"
)

// indicCategory classifies one rune's role within the Indic grapheme
// grammar of spec §4.3.2.
type indicCategory int

const (
	catOther indicCategory = iota
	catIndependentVowel
	catConsonant
	catNukta
	catMatra
	catVirama
	catVowelModifier
	catZWJ
	catZWNJ
	catDigit
)

const (
	zwnj = '‌'
	zwj  = '‍'
)

// indicProfile carries the per-script rune classification ranges. Most
// Indic scripts follow a shared ISCII-derived template offset from a
// per-script base code point; Sinhala uses a structurally different
// layout and gets its own explicit ranges.
type indicProfile struct {
	script                  unicharset.Script
	independentVowels       [][2]rune
	consonants              [][2]rune
	matras                  [][2]rune
	vowelModifiers          []rune
	virama                  rune
	nukta                   rune
	digits                  [2]rune
	allowMultipleModifiers  bool
}

// templateProfile builds the ISCII-common-template profile for scripts
// whose Unicode block mirrors the Devanagari layout at a different base:
// Bengali, Gurmukhi, Gujarati, Oriya, Tamil, Telugu, Kannada, Malayalam.
func templateProfile(script unicharset.Script, base rune) indicProfile {
	return indicProfile{
		script:            script,
		independentVowels: [][2]rune{{base + 0x05, base + 0x14}},
		consonants:        [][2]rune{{base + 0x15, base + 0x39}, {base + 0x58, base + 0x5F}},
		matras:            [][2]rune{{base + 0x3E, base + 0x4C}},
		vowelModifiers:    []rune{base + 0x01, base + 0x02, base + 0x03},
		virama:            base + 0x4D,
		nukta:             base + 0x3C,
		digits:            [2]rune{base + 0x66, base + 0x6F},
	}
}

var (
	devanagariProfile = withMultiModifier(templateProfile(unicharset.ScriptDevanagari, 0x0900), false)
	bengaliProfile     = templateProfile(unicharset.ScriptBengali, 0x0980)
	gurmukhiProfile    = templateProfile(unicharset.ScriptGurmukhi, 0x0A00)
	gujaratiProfile    = templateProfile(unicharset.ScriptGujarati, 0x0A80)
	oriyaProfile       = templateProfile(unicharset.ScriptOriya, 0x0B00)
	tamilProfile       = templateProfile(unicharset.ScriptTamil, 0x0B80)
	teluguProfile      = templateProfile(unicharset.ScriptTelugu, 0x0C00)
	kannadaProfile     = templateProfile(unicharset.ScriptKannada, 0x0C80)
	malayalamProfile   = withMultiModifier(templateProfile(unicharset.ScriptMalayalam, 0x0D00), true)

	// Sinhala has a structurally different block layout (spec §4.3.3).
	sinhalaProfile = indicProfile{
		script:            unicharset.ScriptSinhala,
		independentVowels: [][2]rune{{0x0D85, 0x0D96}},
		consonants:        [][2]rune{{0x0D9A, 0x0DC6}},
		matras:            [][2]rune{{0x0DCF, 0x0DDF}},
		vowelModifiers:    []rune{0x0D82, 0x0D83},
		virama:            0x0DCA,
		nukta:             0, // Sinhala has no nukta.
		digits:            [2]rune{0x0DE6, 0x0DEF},
	}
)

func withMultiModifier(p indicProfile, allow bool) indicProfile {
	p.allowMultipleModifiers = allow
	return p
}

func profileFor(script unicharset.Script) indicProfile {
	switch script {
	case unicharset.ScriptDevanagari:
		return devanagariProfile
	case unicharset.ScriptBengali:
		return bengaliProfile
	case unicharset.ScriptGurmukhi:
		return gurmukhiProfile
	case unicharset.ScriptGujarati:
		return gujaratiProfile
	case unicharset.ScriptOriya:
		return oriyaProfile
	case unicharset.ScriptTamil:
		return tamilProfile
	case unicharset.ScriptTelugu:
		return teluguProfile
	case unicharset.ScriptKannada:
		return kannadaProfile
	case unicharset.ScriptMalayalam:
		return malayalamProfile
	case unicharset.ScriptSinhala:
		return sinhalaProfile
	default:
		return devanagariProfile
	}
}

func (p indicProfile) categorize(r rune) indicCategory {
	switch {
	case r == zwj:
		return catZWJ
	case r == zwnj:
		return catZWNJ
	case p.virama != 0 && r == p.virama:
		return catVirama
	case p.nukta != 0 && r == p.nukta:
		return catNukta
	case inRanges(r, p.independentVowels):
		return catIndependentVowel
	case inRanges(r, p.consonants):
		return catConsonant
	case inRanges(r, p.matras):
		return catMatra
	case containsRune(p.vowelModifiers, r):
		return catVowelModifier
	case r >= p.digits[0] && r <= p.digits[1]:
		return catDigit
	default:
		return catOther
	}
}

func inRanges(r rune, ranges [][2]rune) bool {
	for _, rg := range ranges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

func containsRune(rs []rune, r rune) bool {
	for _, c := range rs {
		if c == r {
			return true
		}
	}
	return false
}

// segmentIndic implements the legal-grapheme grammar of spec §4.3.2,
// including the Sinhala extensions of §4.3.3 (which, per the Rakaransaya/
// Yansaya/Repaya examples, fall directly out of grammar rule 1 applied
// with Sinhala's consonant set — RAYANNA and YAYANNA are ordinary
// consonants in the Sinhala block, so no special-casing is required
// beyond the profile's rune ranges).
func segmentIndic(runes []rune, script unicharset.Script, opts Options) ([]Cluster, error) {
	p := profileFor(script)
	var out []Cluster
	i := 0
	n := len(runes)
	for i < n {
		r := runes[i]
		cat := p.categorize(r)
		switch cat {
		case catOther, catDigit:
			out = append(out, Cluster{Text: string(r), Validated: true, Script: script})
			i++
		case catIndependentVowel:
			start := i
			i++
			suffixEnd, err := consumeVowelModifiers(runes, i, p)
			if err != nil {
				if !opts.GraphemeNorm {
					out = append(out, Cluster{Text: string(runes[start:i]), Validated: false, Script: script})
					continue
				}
				return nil, err
			}
			i = suffixEnd
			out = append(out, Cluster{Text: string(runes[start:i]), Validated: true, Script: script})
		case catConsonant:
			text, next, err := consumeConsonantCluster(runes, i, p)
			if err != nil {
				if !opts.GraphemeNorm {
					out = append(out, Cluster{Text: string(runes[i:next]), Validated: false, Script: script})
					i = next
					continue
				}
				return nil, err
			}
			out = append(out, Cluster{Text: text, Validated: true, Script: script})
			i = next
		case catVirama:
			// A standalone virama (half-form / conjunct joiner) not
			// attached to a preceding consonant, legal on its own per
			// rule 3.
			start := i
			i++
			if i < n && (p.categorize(runes[i]) == catZWJ || p.categorize(runes[i]) == catZWNJ) {
				i++
			}
			out = append(out, Cluster{Text: string(runes[start:i]), Validated: true, Script: script})
		case catZWJ, catZWNJ:
			// Orphaned joiner with no preceding virama/base: dropped
			// silently in validated mode (spec §4.3.2).
			i++
			if opts.GraphemeNorm {
				continue
			}
			out = append(out, Cluster{Text: string(r), Validated: false, Script: script})
		case catMatra:
			if !opts.GraphemeNorm {
				out = append(out, Cluster{Text: string(r), Validated: false, Script: script})
				i++
				continue
			}
			return nil, fmt.Errorf("grapheme: orphaned matra U+%04X not attached to a consonant", r)
		case catNukta:
			if !opts.GraphemeNorm {
				out = append(out, Cluster{Text: string(r), Validated: false, Script: script})
				i++
				continue
			}
			return nil, fmt.Errorf("grapheme: orphaned nukta U+%04X not following a consonant", r)
		case catVowelModifier:
			if !opts.GraphemeNorm {
				out = append(out, Cluster{Text: string(r), Validated: false, Script: script})
				i++
				continue
			}
			return nil, fmt.Errorf("grapheme: orphaned vowel modifier U+%04X", r)
		}
	}
	return out, nil
}

// consumeConsonantCluster consumes one full consonant-headed grapheme
// starting at index i: Consonant (Nukta)? ((ZWJ|ZWNJ)? Virama (ZWJ|ZWNJ)?
// Consonant (Nukta)?)* (Matra? VowelModifier*). The joiner may appear
// either before the virama (the conventional "half-form requested" form)
// or after it (the "explicit conjunct requested" form); both are legal
// and neither changes clustering. It returns the finalized cluster text
// (with an implicit ZWNJ appended after a bare terminal virama) and the
// index just past the cluster.
func consumeConsonantCluster(runes []rune, i int, p indicProfile) (string, int, error) {
	n := len(runes)
	start := i
	i++ // consonant itself
	if i < n && p.categorize(runes[i]) == catNukta {
		i++
	}
	terminalBareVirama := false
	for {
		j := i
		if j < n && (p.categorize(runes[j]) == catZWJ || p.categorize(runes[j]) == catZWNJ) {
			j++
		}
		if j >= n || p.categorize(runes[j]) != catVirama {
			break
		}
		viramaIdx := i
		j++ // past the virama
		hasJoiner := j > i+1
		if j < n && (p.categorize(runes[j]) == catZWJ || p.categorize(runes[j]) == catZWNJ) {
			hasJoiner = true
			j++
		}
		if j < n && p.categorize(runes[j]) == catConsonant {
			i = j + 1
			if i < n && p.categorize(runes[i]) == catNukta {
				i++
			}
			continue
		}
		// Terminal virama: not followed by a consonant.
		if hasJoiner {
			i = j // the joiner(s) are preserved.
		} else {
			i = viramaIdx + 1
			terminalBareVirama = true
		}
		break
	}
	if i < n && p.categorize(runes[i]) == catMatra {
		i++
	}
	modEnd, err := consumeVowelModifiers(runes, i, p)
	if err != nil {
		return "", i, err
	}
	i = modEnd
	text := string(runes[start:i])
	if terminalBareVirama {
		// §4.3.2: "a terminal virama has an implicit ZWNJ appended".
		text += string(zwnj)
	}
	return text, i, nil
}

// sinhalaRayanna is U+0DBB RAYANNA, the consonant that forms Sinhala's
// Repaya (reph) construct: Consonant RAYANNA Virama (ZWJ)? Consonant
// (spec §4.3.3). Unlike the other Indic scripts' subjoined-consonant
// forms, the Repaya's virama+joiner glyphs with the *preceding*
// RAYANNA rather than the consonant that follows.
const sinhalaRayanna = 0x0DBB

// isSinhalaReph reports whether the rune at i starts a Repaya: RAYANNA
// directly followed by a virama. Confirmed against the teacher-unittest
// SinhalaRepaya case (KA RAYANNA Virama ZWJ MA -> [KA],[RAYANNA Virama
// ZWJ],[MA]).
func isSinhalaReph(script unicharset.Script, runes []rune, i int, p indicProfile) bool {
	return script == unicharset.ScriptSinhala && runes[i] == sinhalaRayanna &&
		i+1 < len(runes) && p.categorize(runes[i+1]) == catVirama
}

// consumeReph flushes RAYANNA together with its own trailing virama and
// any following joiner, returning the index just past it.
func consumeReph(runes []rune, i int, p indicProfile) int {
	i++ // RAYANNA
	i++ // virama
	if i < len(runes) && (p.categorize(runes[i]) == catZWJ || p.categorize(runes[i]) == catZWNJ) {
		i++
	}
	return i
}

// splitGlyphs sub-splits one validated Indic cluster into the visual
// glyph fragments a rendering engine would draw separately (spec
// §4.3.1 step 6, GlyphSplit mode). The rule, confirmed against the
// teacher-unittest Nukta case (KA+Nukta+Virama+HA -> [KA],[Nukta],
// [Virama HA]): the base consonant/vowel stands alone first; a Nukta is
// always its own glyph; a Virama together with any following joiner and
// consonant(+Nukta) forms one glyph; a trailing Matra or VowelModifier
// is its own glyph. Sinhala's Rakaransaya and Yansaya fall directly out
// of this rule (RAYANNA/YAYANNA are ordinary consonants subjoined via a
// preceding virama), but Repaya is a genuine exception: RAYANNA followed
// by its own virama glyphs backward with itself rather than forward
// with what follows it, handled by isSinhalaReph/consumeReph below.
//
// A chain of more than one consecutive Repaya construct (as in the
// teacher-unittest SinhalaSpecials case's first string) is not
// reproduced exactly: the reference glyph split alternates which side
// of each virama a RAYANNA attaches to in a way this rule does not
// capture. The simpler two-Repaya-in-a-row chain (SinhalaSpecials'
// second string) is unaffected and correctly handled.
func splitGlyphs(c Cluster) []Cluster {
	if !c.Validated {
		return []Cluster{c}
	}
	p := profileFor(c.Script)
	runes := []rune(c.Text)
	var out []Cluster
	i := 0
	n := len(runes)
	flush := func(text string) {
		if text != "" {
			out = append(out, Cluster{Text: text, Validated: true, Script: c.Script})
		}
	}
	if n == 0 {
		return out
	}
	// Base code point (independent vowel, consonant, or standalone virama).
	if isSinhalaReph(c.Script, runes, i, p) {
		start := i
		i = consumeReph(runes, i, p)
		flush(string(runes[start:i]))
	} else {
		flush(string(runes[i]))
		i++
	}
	for i < n {
		switch p.categorize(runes[i]) {
		case catConsonant:
			if isSinhalaReph(c.Script, runes, i, p) {
				start := i
				i = consumeReph(runes, i, p)
				flush(string(runes[start:i]))
				continue
			}
			flush(string(runes[i]))
			i++
		case catNukta:
			flush(string(runes[i]))
			i++
		case catZWJ, catVirama:
			// A joiner here only occurs as the lead-in to a virama (the
			// "half-form requested" spelling); capture it together with
			// the virama, any trailing joiner, and the consonant it
			// subjoins (plus nukta) as a single glyph.
			start := i
			if p.categorize(runes[i]) == catZWJ {
				i++
			}
			if i < n && p.categorize(runes[i]) == catVirama {
				i++
			}
			if i < n && (p.categorize(runes[i]) == catZWJ || p.categorize(runes[i]) == catZWNJ) {
				i++
			}
			if i < n && p.categorize(runes[i]) == catConsonant {
				i++
				if i < n && p.categorize(runes[i]) == catNukta {
					i++
				}
			}
			flush(string(runes[start:i]))
		case catZWNJ:
			// A ZWNJ not consumed after a virama above is emitted as
			// its own glyph.
			flush(string(runes[i]))
			i++
		case catMatra, catVowelModifier:
			flush(string(runes[i]))
			i++
		default:
			flush(string(runes[i]))
			i++
		}
	}
	return out
}

// consumeVowelModifiers consumes a run of trailing vowel modifiers,
// enforcing "at most one vowel modifier" except where the profile allows
// multiple (Malayalam anusvara).
func consumeVowelModifiers(runes []rune, i int, p indicProfile) (int, error) {
	n := len(runes)
	count := 0
	for i < n && p.categorize(runes[i]) == catVowelModifier {
		count++
		if count > 1 && !p.allowMultipleModifiers {
			return i, fmt.Errorf("grapheme: more than one vowel modifier in a single cluster")
		}
		i++
	}
	return i, nil
}

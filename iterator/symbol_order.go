package iterator

import (
	"golang.org/x/text/unicode/bidi"
)

// bidiCat is the simplified seven-category classification of spec
// §4.2.3.
type bidiCat int

const (
	catL bidiCat = iota
	catR
	catEN
	catES
	catET
	catCS
	catON
)

func classify(r rune) bidiCat {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.L:
		return catL
	case bidi.R, bidi.AL:
		return catR
	case bidi.EN:
		return catEN
	case bidi.ES:
		return catES
	case bidi.ET:
		return catET
	case bidi.CS:
		return catCS
	default:
		return catON
	}
}

// ReorderSymbols implements spec §4.2.3: symbols of a word stored
// left-to-right in an RTL context are reordered by the simplified BiDi
// reduction (EN-collapse, L-retag, R-default), then scanned right to
// left, emitting R symbols in place and reversing contiguous L runs.
// It returns the permutation of input indices in final reading order.
func ReorderSymbols(runes []rune) []int {
	n := len(runes)
	cats := make([]bidiCat, n)
	for i, r := range runes {
		cats[i] = classify(r)
	}

	// Step 1: ET* EN+ ((ES|CS)? EN+)* ET* collapses to EN.
	collapseENRuns(cats)

	// Step 2: runs of (L|EN)+ ((CS|ON)+ (L|EN)+)* are re-tagged L;
	// everything else becomes R.
	tags := make([]bool, n) // true = L, false = R
	i := 0
	for i < n {
		if cats[i] == catL || cats[i] == catEN {
			j := i
			for j < n {
				if cats[j] == catL || cats[j] == catEN {
					j++
					continue
				}
				if cats[j] == catCS || cats[j] == catON {
					k := j
					for k < n && (cats[k] == catCS || cats[k] == catON) {
						k++
					}
					if k < n && (cats[k] == catL || cats[k] == catEN) {
						j = k
						continue
					}
				}
				break
			}
			for k := i; k < j; k++ {
				tags[k] = true
			}
			i = j
		} else {
			tags[i] = false
			i++
		}
	}

	// Step 3: scan right to left, emit R in place, reverse contiguous L runs.
	var order []int
	i = n - 1
	for i >= 0 {
		if !tags[i] {
			order = append(order, i)
			i--
			continue
		}
		j := i
		for j >= 0 && tags[j] {
			j--
		}
		// (j, i] is an L run; emit it left-to-right (reversed relative to
		// the right-to-left scan).
		for k := j + 1; k <= i; k++ {
			order = append(order, k)
		}
		i = j
	}
	return order
}

func collapseENRuns(cats []bidiCat) {
	n := len(cats)
	i := 0
	for i < n {
		if cats[i] != catET && cats[i] != catEN {
			i++
			continue
		}
		start := i
		j := i
		for j < n && cats[j] == catET {
			j++
		}
		if j >= n || cats[j] != catEN {
			i++
			continue
		}
		for {
			for j < n && cats[j] == catEN {
				j++
			}
			sepStart := j
			if j < n && (cats[j] == catES || cats[j] == catCS) {
				j++
			}
			if j < n && cats[j] == catEN {
				continue
			}
			j = sepStart
			break
		}
		for j < n && cats[j] == catET {
			j++
		}
		for k := start; k < j; k++ {
			cats[k] = catEN
		}
		i = j
	}
}

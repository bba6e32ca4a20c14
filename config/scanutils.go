package config

import (
	"fmt"
	"strconv"
)

// ScanValue implements the §6.4 tfscanf contract for a single conversion:
// bit-compatible with C fscanf for the %d, %i, %f, %s and %* (suppressed)
// specifiers, with an optional field width. It returns the converted
// value (int, float64, or string; nil for %*), the number of bytes of
// src consumed (including skipped leading whitespace), and an error if
// the conversion could not be satisfied.
//
// verb is one of 'd', 'i', 'f', 's', or '*'. '*' always consumes a
// width-limited %s-shaped token (a run of non-space bytes) and discards
// it, as scanf's assignment suppression does; callers needing %*d or
// %*f semantics pass the real verb and ignore the returned value.
func ScanValue(src string, verb byte, width int) (value any, n int, err error) {
	i := 0
	for i < len(src) && isScanSpace(src[i]) {
		i++
	}
	start := i
	switch verb {
	case 'd', 'i':
		if i < len(src) && (src[i] == '+' || src[i] == '-') {
			i++
		}
		digitsStart := i
		for i < len(src) && isDigit(src[i]) && withinWidth(width, i-start) {
			i++
		}
		if i == digitsStart {
			return nil, i, fmt.Errorf("config: no digits at offset %d", start)
		}
		tok := src[start:i]
		iv, err := strconv.Atoi(tok)
		if err != nil {
			return nil, i, fmt.Errorf("config: parse int %q: %w", tok, err)
		}
		return iv, i, nil
	case 'f':
		for i < len(src) && isFloatByte(src[i]) && withinWidth(width, i-start) {
			i++
		}
		tok := src[start:i]
		if tok == "" {
			return nil, i, fmt.Errorf("config: no float token at offset %d", start)
		}
		fv, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, i, fmt.Errorf("config: parse float %q: %w", tok, err)
		}
		return fv, i, nil
	case 's':
		for i < len(src) && !isScanSpace(src[i]) && withinWidth(width, i-start) {
			i++
		}
		if i == start {
			return nil, i, fmt.Errorf("config: empty string token at offset %d", start)
		}
		return src[start:i], i, nil
	case '*':
		// Assignment-suppressed: consume a %s-shaped token and discard it.
		for i < len(src) && !isScanSpace(src[i]) && withinWidth(width, i-start) {
			i++
		}
		return nil, i, nil
	default:
		return nil, i, fmt.Errorf("config: unsupported scan verb %q", verb)
	}
}

func withinWidth(width, consumed int) bool {
	return width <= 0 || consumed < width
}

func isScanSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isFloatByte(b byte) bool {
	return isDigit(b) || b == '+' || b == '-' || b == '.' || b == 'e' || b == 'E'
}

// ScanLine applies a sequence of verbs left to right over line, in the
// manner of a single fscanf format string built only from %d/%i/%f/%s/%*
// conversions (no literal text between specifiers), returning one value
// per non-suppressed verb.
func ScanLine(line string, verbs []byte) ([]any, error) {
	values := make([]any, 0, len(verbs))
	rest := line
	for _, v := range verbs {
		val, n, err := ScanValue(rest, v, 0)
		if err != nil {
			return nil, err
		}
		rest = rest[n:]
		if v != '*' {
			values = append(values, val)
		}
	}
	return values, nil
}

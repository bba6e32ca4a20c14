package pdf

import (
	"bytes"

	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
)

// defaultUnitsPerEm is used when the embedded notdef font cannot be
// parsed (e.g. in tests that pass an empty placeholder).
const defaultUnitsPerEm = 1000

// notdefMetrics holds the units-per-em read from the embedded single-glyph TrueType font, needed to compute
// the Tz horizontal-scale factor so the invisible glyph rectangle
// covers exactly the recognized word's width (spec §4.4).
type notdefMetrics struct {
	UnitsPerEm uint16
}

// parseNotdefFont extracts the units-per-em from data using
// go-text/typesetting/font, the library the teacher's go.mod already
// carries for glyph-level font introspection. On any parse failure it
// falls back to the common 1000 upem convention rather than failing
// the whole render: the PDF's text is invisible, so an imprecise
// Tz factor degrades selection-box fidelity, not document validity.
func parseNotdefFont(data []byte) notdefMetrics {
	ld, err := opentype.NewLoader(bytes.NewReader(data))
	if err != nil {
		return notdefMetrics{UnitsPerEm: defaultUnitsPerEm}
	}
	f, err := gofont.NewFont(ld)
	if err != nil {
		return notdefMetrics{UnitsPerEm: defaultUnitsPerEm}
	}
	upem := f.Upem()
	if upem == 0 {
		upem = defaultUnitsPerEm
	}
	return notdefMetrics{UnitsPerEm: upem}
}

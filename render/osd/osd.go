// Package osd implements the orientation-and-script-detection renderer
// of spec §6.3: a fixed six-line plain-text report per page.
package osd

import (
	"fmt"
	"io"

	"github.com/tessgo/ocrkit/render"
)

// Result is the OSD data a classifier reports for one page; render
// package collaborators outside the core pipeline populate it (the OSD
// sub-session named in SPEC_FULL §4.1).
type Result struct {
	Orientation         int // degrees: 0, 90, 180, 270
	Rotate               int // degrees to rotate the image upright
	OrientationConfidence float64
	Script               string
	ScriptConfidence     float64
}

// Renderer emits one OSD report per AddImage call. Results are supplied
// out of band via SetResult before each AddImage, matching the
// underlying OSD sub-session's "run once per page, then render"
// sequencing.
type Renderer struct {
	*render.Base
	w      io.Writer
	result Result
}

func New(w io.Writer) *Renderer {
	r := &Renderer{w: w}
	r.Base = render.NewBase(r)
	return r
}

// SetResult stages the OSD result for the next AddImage call.
func (r *Renderer) SetResult(res Result) { r.result = res }

func (r *Renderer) HandleBegin(string) error { return nil }

func (r *Renderer) HandleImage(p render.Page) error {
	_, err := fmt.Fprintf(r.w, "Page: %d\nOrientation in degrees: %d\nRotate: %d\nOrientation confidence: %.2f\nScript: %s\nScript confidence: %.2f\n",
		p.ImageNum+1, r.result.Orientation, r.result.Rotate, r.result.OrientationConfidence, r.result.Script, r.result.ScriptConfidence)
	return err
}

func (r *Renderer) HandleEnd() error { return nil }

// Package geom provides the integer pixel-crack rectangles, bounding
// quadrilaterals and affine transforms shared by the page-result model,
// the reading-order iterator and the renderer chain.
package geom

import "math"

// Rect is a bounding box with integer coordinates lying on pixel cracks:
// the top-left pixel of an image has bounding box (0,0)-(1,1).
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the rect's width; never negative for a well-formed rect.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the rect's height; never negative for a well-formed rect.
func (r Rect) Height() int { return r.Bottom - r.Top }

// IsEmpty reports whether the rect encloses no area.
func (r Rect) IsEmpty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Clip constrains r to lie within bound, clamping each edge independently.
func (r Rect) Clip(bound Rect) Rect {
	out := r
	if out.Left < bound.Left {
		out.Left = bound.Left
	}
	if out.Top < bound.Top {
		out.Top = bound.Top
	}
	if out.Right > bound.Right {
		out.Right = bound.Right
	}
	if out.Bottom > bound.Bottom {
		out.Bottom = bound.Bottom
	}
	return out
}

// Point is a 2-D point in whatever coordinate space the caller intends.
type Point struct {
	X, Y float64
}

// Quad is a four-point polygon describing a word's bounding quadrilateral,
// ordered starting at the top-left and proceeding clockwise.
type Quad [4]Point

// BoundingRect returns the axis-aligned integer rect enclosing q.
func (q Quad) BoundingRect() Rect {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range q {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{
		Left: int(math.Floor(minX)), Top: int(math.Floor(minY)),
		Right: int(math.Ceil(maxX)), Bottom: int(math.Ceil(maxY)),
	}
}

// QuadFromRect builds an axis-aligned quad from a rect, useful when a word
// has no rotation applied.
func QuadFromRect(r Rect) Quad {
	return Quad{
		{X: float64(r.Left), Y: float64(r.Top)},
		{X: float64(r.Right), Y: float64(r.Top)},
		{X: float64(r.Right), Y: float64(r.Bottom)},
		{X: float64(r.Left), Y: float64(r.Bottom)},
	}
}

// Affine is a 2x2 linear map [A B; C D], used both for the block
// re-rotation vector (cos/sin pairs) and for the PDF renderer's per-block
// text matrix.
type Affine struct {
	A, B, C, D float64
}

// Identity is the affine identity transform.
func Identity() Affine { return Affine{A: 1, D: 1} }

// FromRotation builds the affine transform for rotating by theta radians,
// matching the re-rotation vector convention of (cos theta, sin theta).
func FromRotation(theta float64) Affine {
	c, s := math.Cos(theta), math.Sin(theta)
	return Affine{A: c, B: s, C: -s, D: c}
}

// Apply transforms point p by the affine map.
func (m Affine) Apply(p Point) Point {
	return Point{X: m.A*p.X + m.C*p.Y, Y: m.B*p.X + m.D*p.Y}
}

// Negated returns the affine with A and B negated, used for right-to-left
// writing direction in the PDF renderer's text matrix (§4.4).
func (m Affine) Negated() Affine {
	return Affine{A: -m.A, B: -m.B, C: m.C, D: m.D}
}

// Invert returns the inverse of m, or ok=false if m is singular.
func (m Affine) Invert() (Affine, bool) {
	det := m.A*m.D - m.B*m.C
	if math.Abs(det) < 1e-12 {
		return Affine{}, false
	}
	return Affine{
		A: m.D / det, B: -m.B / det,
		C: -m.C / det, D: m.A / det,
	}, true
}

// MapToImageCoords implements the exact coordinate-mapping formula of
// spec §4.2: maps an internal TBOX b (in block coordinates) to image
// coordinates, clipped to rectOfInterest, given the scale factor and the
// rectangle height used by the layout analyzer.
func MapToImageCoords(b Rect, scale float64, rectHeight, rectLeft, rectTop int, rectOfInterest Rect) Rect {
	if scale <= 0 {
		scale = 1
	}
	mapped := Rect{
		Left:   int(float64(b.Left)/scale) + rectLeft,
		Top:    int((float64(rectHeight)-float64(b.Top))/scale) + rectTop,
		Right:  int((float64(b.Right)+scale-1)/scale) + rectLeft,
		Bottom: int((float64(rectHeight)-float64(b.Bottom)+scale-1)/scale) + rectTop,
	}
	return mapped.Clip(rectOfInterest)
}

// Package render implements the Renderer chain of spec §4.4: plain
// text, UNLV, box-family and TSV renderers live here directly; the
// heavier formats (hOCR, ALTO, PDF, OSD) get their own subpackages
// because each needs a non-trivial private serialization layer.
//
// The chain idiom is adapted from the teacher's writer package: a
// single embeddable Base struct threading a "next" pointer and an
// injected logger rather than package globals, and propagate-even-on-failure semantics (spec §4.4's
// "any failure in the chain yields an overall failure while still
// attempting to complete downstream renderers").
package render

import (
	"errors"
	"image"

	"github.com/tessgo/ocrkit/iterator"
	"github.com/tessgo/ocrkit/observability"
)

// ErrRendererUnhappy is returned once a renderer's sink has failed and
// it refuses further writes (spec §7 "Renderer error").
var ErrRendererUnhappy = errors.New("render: renderer sink is unhappy")

// Page bundles everything a renderer needs to add one recognized page:
// the reading-order iterator over that page's PageResult, the source
// image, and the title/path metadata a concrete format may embed.
type Page struct {
	Iter     *iterator.ReadingOrderIterator
	Image    image.Image
	ImageNum int
	// PPI is the source image's scanning resolution in pixels per inch,
	// the same value the session threads through as scaled_y_resolution
	// (spec §4.2.4). The PDF renderer uses it to convert pixel
	// coordinates to the 1/72" PDF point space (§4.4); renderers that
	// don't need point-space math ignore it.
	PPI float64
}

// Renderer is the chain interface of spec §4.4: begin_document,
// add_image, end_document plus image_num.
type Renderer interface {
	BeginDocument(title string) error
	AddImage(p Page) error
	EndDocument() error
	ImageNum() int
	Insert(next Renderer)
}

// Handler is the concrete per-format behavior a Base wraps. Concrete
// renderers implement Handler and embed *Base, matching the teacher's
// trait-plus-default-propagation idiom (§9 design note on
// multiple-inheritance renderers).
type Handler interface {
	HandleBegin(title string) error
	HandleImage(p Page) error
	HandleEnd() error
}

// Base provides chain propagation, image-count tracking, and the
// happy/unhappy sink flag shared by every concrete renderer.
type Base struct {
	handler Handler
	next    Renderer
	imageNum int
	happy   bool
	Logger  observability.Logger
}

// NewBase wires a Base around h. A concrete renderer's constructor
// passes itself as h.
func NewBase(h Handler) *Base {
	b := &Base{handler: h, imageNum: -1, happy: true}
	return b
}

// Insert appends next to the end of this renderer's chain, transferring
// ownership per spec §4.4.
func (b *Base) Insert(next Renderer) {
	if b.next == nil {
		b.next = next
		return
	}
	b.next.Insert(next)
}

// ImageNum returns the zero-based index of the last image added.
func (b *Base) ImageNum() int { return b.imageNum }

// BeginDocument invokes this renderer's handler then propagates to the
// rest of the chain, collecting the first error encountered while still
// attempting every downstream renderer.
func (b *Base) BeginDocument(title string) error {
	err := b.handler.HandleBegin(title)
	if err != nil {
		b.happy = false
		if b.Logger != nil {
			b.Logger.Error("render.begin_document.error", observability.Error("err", err))
		}
	}
	if nextErr := b.propagateBegin(title); nextErr != nil && err == nil {
		err = nextErr
	}
	return err
}

func (b *Base) propagateBegin(title string) error {
	if b.next == nil {
		return nil
	}
	return b.next.BeginDocument(title)
}

// AddImage invokes the handler (skipping it if the sink is already
// unhappy) then propagates downstream regardless.
func (b *Base) AddImage(p Page) error {
	var err error
	if b.happy {
		err = b.handler.HandleImage(p)
		if err != nil {
			b.happy = false
		} else {
			b.imageNum = p.ImageNum
		}
	} else {
		err = ErrRendererUnhappy
	}
	if nextErr := b.propagateImage(p); nextErr != nil && err == nil {
		err = nextErr
	}
	return err
}

func (b *Base) propagateImage(p Page) error {
	if b.next == nil {
		return nil
	}
	return b.next.AddImage(p)
}

// EndDocument invokes the handler then propagates, again attempting
// every downstream renderer even after a failure.
func (b *Base) EndDocument() error {
	err := b.handler.HandleEnd()
	if nextErr := b.propagateEnd(); nextErr != nil && err == nil {
		err = nextErr
	}
	return err
}

func (b *Base) propagateEnd() error {
	if b.next == nil {
		return nil
	}
	return b.next.EndDocument()
}

// Happy reports whether this renderer's sink is still accepting writes.
func (b *Base) Happy() bool { return b.happy }

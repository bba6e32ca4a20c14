// Package pdf implements the searchable-PDF renderer of spec §4.4: a
// background page image with an invisible text layer placed so that
// copy-paste and text search line up with the recognized words,
// ported from the teacher's writer package's object model and from
// builder/images.go's raw-pixel image encoding (compressed here with
// FlateDecode, the teacher filters package's own decompression
// counterpart).
package pdf

import (
	"bytes"
	"compress/flate"
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/tessgo/ocrkit/render"
)

// emptyNotdefFont is the placeholder embedded when New is given no
// font bytes; parseNotdefFont falls back to the 1000 units-per-em
// convention in that case.
var emptyNotdefFont []byte

// Renderer emits one multi-page PDF document, matching the Renderer
// chain contract of spec §4.4 via the embedded render.Base.
type Renderer struct {
	*render.Base

	w   io.Writer
	doc *document

	notdefFontData []byte
	metrics        notdefMetrics

	fontRef        ref
	cidFontRef     ref
	descFontRef    ref
	toUnicodeRef   ref
	fontFileRef    ref
	cidToGIDMapRef ref

	pageContentRefs []ref
	pageImageRefs   []ref
	pageDims        []pageDims
}

type pageDims struct {
	widthPt, heightPt float64
}

// New wraps w as a PDF renderer. notdefFontData, if non-empty, is the
// raw bytes of the embedded single-glyph TrueType font (spec §4.4); a
// nil slice uses the 1000-upem fallback.
func New(w io.Writer, notdefFontData []byte) *Renderer {
	r := &Renderer{w: w, notdefFontData: notdefFontData}
	r.Base = render.NewBase(r)
	return r
}

func (r *Renderer) HandleBegin(title string) error {
	r.doc = newDocument()
	r.metrics = parseNotdefFont(r.notdefFontData)

	r.fontRef = r.doc.alloc()
	r.cidFontRef = r.doc.alloc()
	r.descFontRef = r.doc.alloc()
	r.toUnicodeRef = r.doc.alloc()
	r.fontFileRef = r.doc.alloc()
	r.cidToGIDMapRef = r.doc.alloc()
	return nil
}

// HandleImage adds one page: a Do'd background image XObject beneath
// an invisible CIDFontType2 text layer placed via the per-block affine
// transform of buildPageContent.
func (r *Renderer) HandleImage(p render.Page) error {
	widthPx, heightPx := 0, 0
	if p.Image != nil {
		b := p.Image.Bounds()
		widthPx, heightPx = b.Dx(), b.Dy()
	}
	ppi := p.PPI
	if ppi <= 0 {
		ppi = defaultPPI
	}
	widthPt := float64(widthPx) * 72 / ppi
	heightPt := float64(heightPx) * 72 / ppi

	imgRef := r.doc.alloc()
	if err := r.writeImageObject(imgRef, p.Image); err != nil {
		return err
	}

	content := buildPageContent(p, widthPt, heightPt)
	contentRef := r.doc.alloc()
	r.doc.writeStreamObject(contentRef, dictStr(map[string]string{
		"Length": fmt.Sprintf("%d", len(content)),
	}), content)

	r.pageContentRefs = append(r.pageContentRefs, contentRef)
	r.pageImageRefs = append(r.pageImageRefs, imgRef)
	r.pageDims = append(r.pageDims, pageDims{widthPt: widthPt, heightPt: heightPt})
	return nil
}

// writeImageObject flattens img to 8-bit RGB and writes it as a
// FlateDecode DCTDecode-free XObject, the same raw-pixel representation
// builder/images.go produces before PDF serialization.
func (r *Renderer) writeImageObject(imgRef ref, img image.Image) error {
	if img == nil {
		r.doc.writeStreamObject(imgRef, dictStr(map[string]string{
			"Type": "/XObject", "Subtype": "/Image",
			"Width": "1", "Height": "1", "BitsPerComponent": "8",
			"ColorSpace": "/DeviceGray", "Filter": "/FlateDecode", "Length": "0",
		}), mustFlate([]byte{0}))
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	pixels := make([]byte, 0, w*h*3)
	for i := 0; i < w*h; i++ {
		off := i * 4
		pixels = append(pixels, nrgba.Pix[off], nrgba.Pix[off+1], nrgba.Pix[off+2])
	}
	compressed := mustFlate(pixels)
	r.doc.writeStreamObject(imgRef, dictStr(map[string]string{
		"Type":             "/XObject",
		"Subtype":          "/Image",
		"Width":            fmt.Sprintf("%d", w),
		"Height":           fmt.Sprintf("%d", h),
		"BitsPerComponent": "8",
		"ColorSpace":       "/DeviceRGB",
		"Filter":           "/FlateDecode",
		"Length":           fmt.Sprintf("%d", len(compressed)),
	}), compressed)
	return nil
}

// writeCIDToGIDMap emits the stream mapping every possible 16-bit CID
// (the Identity-H encoding treats each UTF-16 code unit as a CID,
// including surrogate halves) to glyph index 1, the single embedded
// notdef glyph, per spec §4.4.
func (r *Renderer) writeCIDToGIDMap() {
	raw := make([]byte, 0x10000*2)
	for i := 0; i < 0x10000; i++ {
		raw[i*2] = 0x00
		raw[i*2+1] = 0x01
	}
	compressed := mustFlate(raw)
	r.doc.writeStreamObject(r.cidToGIDMapRef, dictStr(map[string]string{
		"Filter": "/FlateDecode",
		"Length": fmt.Sprintf("%d", len(compressed)),
	}), compressed)
}

func mustFlate(data []byte) []byte {
	var buf bytes.Buffer
	zw, _ := flate.NewWriter(&buf, flate.DefaultCompression)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}

// HandleEnd writes the font objects, one Page object per added image,
// the Pages tree and Catalog, then finishes the document with the
// classic xref table and trailer.
func (r *Renderer) HandleEnd() error {
	r.writeFontObjects()

	pagesRef := r.doc.alloc()
	pageRefs := make([]ref, len(r.pageContentRefs))
	for i := range r.pageContentRefs {
		pageRefs[i] = r.doc.alloc()
	}
	for i, pageRef := range pageRefs {
		dims := r.pageDims[i]
		resources := dictStr(map[string]string{
			"XObject": dictStr(map[string]string{"Im1": refStr(r.pageImageRefs[i])}),
			"Font":    dictStr(map[string]string{"f-0-0": refStr(r.fontRef)}),
			"ProcSet": arrayStr([]string{"/PDF", "/Text", "/ImageC"}),
		})
		r.doc.writeObject(pageRef, dictStr(map[string]string{
			"Type":      "/Page",
			"Parent":    refStr(pagesRef),
			"MediaBox":  arrayStr([]string{"0", "0", fnum(dims.widthPt), fnum(dims.heightPt)}),
			"Resources": resources,
			"Contents":  refStr(r.pageContentRefs[i]),
		}))
	}

	kids := make([]string, len(pageRefs))
	for i, pr := range pageRefs {
		kids[i] = refStr(pr)
	}
	r.doc.writeObject(pagesRef, dictStr(map[string]string{
		"Type":  "/Pages",
		"Kids":  arrayStr(kids),
		"Count": fmt.Sprintf("%d", len(pageRefs)),
	}))

	catalogRef := r.doc.alloc()
	r.doc.writeObject(catalogRef, dictStr(map[string]string{
		"Type":  "/Catalog",
		"Pages": refStr(pagesRef),
	}))

	out := r.doc.finish(catalogRef)
	_, err := r.w.Write(out)
	return err
}

// writeFontObjects emits the Type0/CIDFontType2 font hierarchy the
// invisible text layer references: a Type0 wrapper over a CIDFontType2
// descendant whose CIDToGIDMap forces every CID to glyph 1 (spec §4.4
// "the embedded font has exactly one glyph, referenced for every code
// point"), a FontDescriptor, a ToUnicode CMap identity mapping, and the
// embedded notdef TrueType program itself.
func (r *Renderer) writeFontObjects() {
	fontData := r.notdefFontData
	if len(fontData) == 0 {
		fontData = emptyNotdefFont
	}
	compressedFont := mustFlate(fontData)
	r.doc.writeStreamObject(r.fontFileRef, dictStr(map[string]string{
		"Length1": fmt.Sprintf("%d", len(fontData)),
		"Filter":  "/FlateDecode",
		"Length":  fmt.Sprintf("%d", len(compressedFont)),
	}), compressedFont)

	toUnicode := []byte("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n" +
		"1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n" +
		"1 beginbfrange\n<0000> <FFFF> <0000>\nendbfrange\nendcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	r.doc.writeStreamObject(r.toUnicodeRef, dictStr(map[string]string{
		"Length": fmt.Sprintf("%d", len(toUnicode)),
	}), toUnicode)

	r.doc.writeObject(r.descFontRef, dictStr(map[string]string{
		"Type":        "/FontDescriptor",
		"FontName":    "/GlyphLessFont",
		"Flags":       "5",
		"FontBBox":    "[0 0 1000 1000]",
		"ItalicAngle": "0",
		"Ascent":      fmt.Sprintf("%d", r.metrics.UnitsPerEm),
		"Descent":     "0",
		"CapHeight":   fmt.Sprintf("%d", r.metrics.UnitsPerEm),
		"StemV":       "80",
		"FontFile2":   refStr(r.fontFileRef),
	}))

	r.writeCIDToGIDMap()

	r.doc.writeObject(r.cidFontRef, dictStr(map[string]string{
		"Type":           "/Font",
		"Subtype":        "/CIDFontType2",
		"BaseFont":       "/GlyphLessFont",
		"CIDSystemInfo":  dictStr(map[string]string{"Registry": "(Adobe)", "Ordering": "(Identity)", "Supplement": "0"}),
		"FontDescriptor": refStr(r.descFontRef),
		"DW":             fmt.Sprintf("%d", r.metrics.UnitsPerEm),
		"CIDToGIDMap":    refStr(r.cidToGIDMapRef),
	}))

	r.doc.writeObject(r.fontRef, dictStr(map[string]string{
		"Type":            "/Font",
		"Subtype":         "/Type0",
		"BaseFont":        "/GlyphLessFont",
		"Encoding":        "/Identity-H",
		"DescendantFonts": arrayStr([]string{refStr(r.cidFontRef)}),
		"ToUnicode":       refStr(r.toUnicodeRef),
	}))
}

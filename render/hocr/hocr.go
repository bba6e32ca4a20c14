// Package hocr implements the hOCR renderer of spec §6.3: XHTML 1.0
// Transitional output built as a real DOM tree via golang.org/x/net/html
// node construction and serialized with html.Render, rather than
// hand-rolled string concatenation, guaranteeing well-formed markup
// (scenario 4).
package hocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tessgo/ocrkit/iterator"
	"github.com/tessgo/ocrkit/render"
)

// Renderer emits one hOCR page per AddImage call.
type Renderer struct {
	*render.Base
	w        io.Writer
	wroteDoc bool
}

func New(w io.Writer) *Renderer {
	r := &Renderer{w: w}
	r.Base = render.NewBase(r)
	return r
}

func (r *Renderer) HandleBegin(title string) error {
	_, err := io.WriteString(r.w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
		"<!DOCTYPE html PUBLIC \"-//W3C//DTD XHTML 1.0 Transitional//EN\" "+
		"\"http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd\">\n")
	return err
}

func elem(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: atom.Lookup([]byte(tag)), Data: tag, Attr: attrs}
	appendChildren(n, children...)
	return n
}

func attr(key, val string) html.Attribute { return html.Attribute{Key: key, Val: val} }

func text(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

func appendChildren(n *html.Node, children ...*html.Node) {
	for _, c := range children {
		n.AppendChild(c)
	}
}

func (r *Renderer) HandleImage(p render.Page) error {
	it := p.Iter
	head := elem("head", nil,
		elem("title", nil),
		elem("meta", []html.Attribute{attr("http-equiv", "Content-Type"), attr("content", "text/html; charset=utf-8")}),
		elem("meta", []html.Attribute{attr("name", "ocr-system"), attr("content", "ocrkit")}),
		elem("meta", []html.Attribute{attr("name", "ocr-capabilities"), attr("content", "ocr_page ocr_carea ocr_par ocr_line ocrx_word")}),
	)
	pageDiv := elem("div", []html.Attribute{
		attr("class", "ocr_page"),
		attr("id", fmt.Sprintf("page_%d", p.ImageNum+1)),
		attr("title", fmt.Sprintf("image \"page%d\"; bbox %d %d %d %d", p.ImageNum+1, 0, 0, 0, 0)),
	})
	body := elem("body", nil, pageDiv)
	html5 := elem("html", nil, head, body)

	if !it.Empty() {
		it.Begin()
		blockIdx := 0
		for {
			carea := buildBlock(it, blockIdx)
			appendChildren(pageDiv, carea)
			blockIdx++
			if !it.Next(iterator.BlockLevel) {
				break
			}
		}
	}

	var buf strings.Builder
	if err := html.Render(&buf, html5); err != nil {
		return err
	}
	_, err := io.WriteString(r.w, xhtmlify(buf.String())+"\n")
	return err
}

func buildBlock(it *iterator.ReadingOrderIterator, blockIdx int) *html.Node {
	bbox := it.BoundingBox(iterator.BlockLevel)
	carea := elem("div", []html.Attribute{
		attr("class", "ocr_carea"),
		attr("id", fmt.Sprintf("block_%d", blockIdx+1)),
		attr("title", bboxTitle(bbox.Left, bbox.Top, bbox.Right, bbox.Bottom)),
	})
	paraIdx := 0
	for {
		para := buildParagraph(it, blockIdx, paraIdx)
		appendChildren(carea, para)
		paraIdx++
		if it.IsAtFinalElement(iterator.BlockLevel, iterator.ParaLevel) {
			break
		}
		it.Next(iterator.ParaLevel)
	}
	return carea
}

func buildParagraph(it *iterator.ReadingOrderIterator, blockIdx, paraIdx int) *html.Node {
	bbox := it.BoundingBox(iterator.ParaLevel)
	dir := "ltr"
	if !it.ParagraphIsLTR() {
		dir = "rtl"
	}
	par := elem("p", []html.Attribute{
		attr("class", "ocr_par"),
		attr("dir", dir),
		attr("id", fmt.Sprintf("par_%d_%d", blockIdx+1, paraIdx+1)),
		attr("title", bboxTitle(bbox.Left, bbox.Top, bbox.Right, bbox.Bottom)),
	})
	lineIdx := 0
	for {
		line := buildLine(it, blockIdx, paraIdx, lineIdx)
		appendChildren(par, line)
		lineIdx++
		if it.IsAtFinalElement(iterator.ParaLevel, iterator.TextlineLevel) {
			break
		}
		it.Next(iterator.TextlineLevel)
	}
	return par
}

func buildLine(it *iterator.ReadingOrderIterator, blockIdx, paraIdx, lineIdx int) *html.Node {
	bbox := it.BoundingBox(iterator.TextlineLevel)
	title := bboxTitle(bbox.Left, bbox.Top, bbox.Right, bbox.Bottom)
	if it.RowUpright() {
		x1, y1, x2, y2, ok := it.Baseline()
		if ok {
			m, c := baselineSlope(x1, y1, x2, y2, float64(bbox.Left), float64(bbox.Bottom))
			title += fmt.Sprintf("; baseline %s %s", trimFloat(m), trimFloat(c))
		}
	} else {
		title += "; textangle 90"
	}
	line := elem("span", []html.Attribute{
		attr("class", "ocr_line"),
		attr("id", fmt.Sprintf("line_%d_%d_%d", blockIdx+1, paraIdx+1, lineIdx+1)),
		attr("title", title),
	})
	wordIdx := 0
	for {
		word := buildWord(it, blockIdx, paraIdx, lineIdx, wordIdx)
		appendChildren(line, word)
		wordIdx++
		if it.IsAtFinalElement(iterator.TextlineLevel, iterator.WordLevel) {
			break
		}
		it.Next(iterator.WordLevel)
	}
	return line
}

func buildWord(it *iterator.ReadingOrderIterator, blockIdx, paraIdx, lineIdx, wordIdx int) *html.Node {
	bbox := it.BoundingBox(iterator.WordLevel)
	title := fmt.Sprintf("%s; x_wconf %d", bboxTitle(bbox.Left, bbox.Top, bbox.Right, bbox.Bottom), it.Confidence(iterator.WordLevel))
	span := elem("span", []html.Attribute{
		attr("class", "ocrx_word"),
		attr("id", fmt.Sprintf("word_%d_%d_%d_%d", blockIdx+1, paraIdx+1, lineIdx+1, wordIdx+1)),
		attr("title", title),
	})
	appendChildren(span, text(it.GetUTF8Text(iterator.WordLevel)))
	return span
}

func bboxTitle(left, top, right, bottom int) string {
	return fmt.Sprintf("bbox %d %d %d %d", left, top, right, bottom)
}

// baselineSlope computes the line-slope m and intercept c of spec
// §6.3's hOCR baseline attribute relative to (originX, originY), rounded
// to three decimals; buildLine passes the bottom-left corner of the
// textline bounding box as the origin.
func baselineSlope(x1, y1, x2, y2, originX, originY float64) (m, c float64) {
	if x2 == x1 {
		return 0, 0
	}
	m = (y2 - y1) / (x2 - x1)
	c = (y1 - originY) - m*(x1-originX)
	return round3(m), round3(c)
}

func round3(v float64) float64 {
	return float64(int(v*1000+sign(v)*0.5)) / 1000
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// xhtmlify patches the handful of HTML5-serializer defaults that
// violate XHTML 1.0 Transitional well-formedness: void elements must
// self-close and the generated doctype/meta tags must match exactly
// what was written in HandleBegin (html.Render does not emit a
// doctype itself, so this only needs to fix self-closing void tags).
func xhtmlify(s string) string {
	replacer := strings.NewReplacer(
		"<meta http-equiv=\"Content-Type\" content=\"text/html; charset=utf-8\">", "<meta http-equiv=\"Content-Type\" content=\"text/html; charset=utf-8\"/>",
		"<meta name=\"ocr-system\" content=\"ocrkit\">", "<meta name=\"ocr-system\" content=\"ocrkit\"/>",
		"<meta name=\"ocr-capabilities\" content=\"ocr_page ocr_carea ocr_par ocr_line ocrx_word\">", "<meta name=\"ocr-capabilities\" content=\"ocr_page ocr_carea ocr_par ocr_line ocrx_word\"/>",
	)
	return replacer.Replace(s)
}

func (r *Renderer) HandleEnd() error { return nil }

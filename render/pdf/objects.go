// Package pdf implements the bit-identity-sensitive PDF renderer of
// spec §4.4: an invisible-text-over-background-image document, ported
// from the teacher's writer package's object/xref/trailer emission
// idiom (offset tracking in a plain map, object numbers allocated up
// front and forward-referenced before they're written, a classic
// non-stream xref table) generalized from PDF authoring to OCR output.
package pdf

import (
	"bytes"
	"fmt"
	"sort"
)

// ref is an indirect object reference (generation is always 0; this
// renderer never produces incremental updates).
type ref int

// document accumulates serialized objects and their byte offsets so
// the trailer's xref table can be built once writing finishes. The
// object graph itself (font hierarchy, pages, catalog) is built by the
// Renderer; document only knows about raw object numbers and bytes.
type document struct {
	buf     bytes.Buffer
	offsets map[ref]int
	nextNum int
}

func newDocument() *document {
	d := &document{offsets: make(map[ref]int), nextNum: 1}
	return d
}

func (d *document) alloc() ref {
	r := ref(d.nextNum)
	d.nextNum++
	return r
}

// writeObject serializes one indirect object, recording its byte
// offset for the xref table.
func (d *document) writeObject(r ref, body string) {
	d.offsets[r] = d.buf.Len()
	d.buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", int(r), body))
}

// writeStreamObject writes an indirect object whose body is a
// dictionary followed by a raw stream payload.
func (d *document) writeStreamObject(r ref, dict string, payload []byte) {
	d.offsets[r] = d.buf.Len()
	d.buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nstream\n", int(r), dict))
	d.buf.Write(payload)
	if len(payload) == 0 || payload[len(payload)-1] != '\n' {
		d.buf.WriteString("\n")
	}
	d.buf.WriteString("endstream\nendobj\n")
}

// finish emits the xref table, trailer, and startxref/%%EOF footer and
// returns the complete document bytes.
func (d *document) finish(root ref) []byte {
	xrefOffset := d.buf.Len()
	maxNum := 0
	for n := range d.offsets {
		if int(n) > maxNum {
			maxNum = int(n)
		}
	}
	size := maxNum + 1

	nums := make([]int, 0, len(d.offsets))
	for n := range d.offsets {
		nums = append(nums, int(n))
	}
	sort.Ints(nums)

	d.buf.WriteString(fmt.Sprintf("xref\n0 %d\n", size))
	d.buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < size; i++ {
		off, ok := d.offsets[ref(i)]
		if !ok {
			d.buf.WriteString("0000000000 00000 f \n")
			continue
		}
		d.buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	d.buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, int(root), xrefOffset))
	return d.buf.Bytes()
}

func dictStr(entries map[string]string) string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b bytes.Buffer
	b.WriteString("<<")
	for _, k := range keys {
		b.WriteString(" /" + k + " " + entries[k])
	}
	b.WriteString(" >>")
	return b.String()
}

func refStr(r ref) string { return fmt.Sprintf("%d 0 R", int(r)) }

func arrayStr(items []string) string {
	var b bytes.Buffer
	b.WriteString("[")
	for i, it := range items {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(it)
	}
	b.WriteString("]")
	return b.String()
}

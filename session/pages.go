// Multi-page input driver of spec §4.1: TIFF-multipage vs single-image
// vs newline-separated filelist detection, page_number-based skip/
// resume, and the retry-on-failure scratch-file cycle.
package session

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"golang.org/x/image/tiff"

	"github.com/tessgo/ocrkit/config"
	"github.com/tessgo/ocrkit/render"
)

// pageNumberParam is the config.Store key process_pages/process_page
// consult for the starting page index, matching the well-known
// parameter names in config.go.
const pageNumberParam = "page_number"

// inputKind classifies the path argument to ProcessPages.
type inputKind int

const (
	kindSingleImage inputKind = iota
	kindMultiPageTIFF
	kindFileList
)

func isTIFF(b []byte) bool {
	return len(b) >= 4 &&
		((b[0] == 'I' && b[1] == 'I' && b[2] == 42 && b[3] == 0) ||
			(b[0] == 'M' && b[1] == 'M' && b[2] == 0 && b[3] == 42))
}

func detectInputKind(data []byte) inputKind {
	if isTIFF(data) {
		return kindMultiPageTIFF
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return kindSingleImage
	}
	return kindFileList
}

// tiffPages is the parsed IFD-offset chain of a multipage TIFF file,
// grounded on the raw format (header byte order + first-IFD offset,
// then each IFD's entry count and next-IFD link) since
// golang.org/x/image/tiff's public API only ever decodes the first
// IFD it is given.
type tiffPages struct {
	data    []byte
	order   binary.ByteOrder
	offsets []uint32
}

func parseTIFFPages(data []byte) (*tiffPages, error) {
	if !isTIFF(data) {
		return nil, fmt.Errorf("session: not a TIFF file")
	}
	order := binary.ByteOrder(binary.LittleEndian)
	if data[0] == 'M' {
		order = binary.BigEndian
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("session: truncated TIFF header")
	}
	offset := order.Uint32(data[4:8])
	var offsets []uint32
	for offset != 0 {
		if int(offset)+2 > len(data) {
			return nil, fmt.Errorf("session: TIFF IFD offset out of range")
		}
		offsets = append(offsets, offset)
		count := order.Uint16(data[offset : offset+2])
		nextOff := int(offset) + 2 + int(count)*12
		if nextOff+4 > len(data) {
			return nil, fmt.Errorf("session: TIFF IFD truncated")
		}
		offset = order.Uint32(data[nextOff : nextOff+4])
	}
	return &tiffPages{data: data, order: order, offsets: offsets}, nil
}

func (p *tiffPages) PageCount() int { return len(p.offsets) }

// PageAt decodes page index by patching a private copy of the file so
// its header points directly at that page's IFD with that IFD's
// next-offset link zeroed, the minimal edit needed to make
// golang.org/x/image/tiff decode an arbitrary page instead of always
// the first. Strip/tile data offsets are absolute and untouched, so no
// other bytes need rewriting.
func (p *tiffPages) PageAt(index int) (image.Image, error) {
	if index < 0 || index >= len(p.offsets) {
		return nil, fmt.Errorf("session: TIFF page %d out of range (%d pages)", index, len(p.offsets))
	}
	buf := make([]byte, len(p.data))
	copy(buf, p.data)
	p.order.PutUint32(buf[4:8], p.offsets[index])

	offset := p.offsets[index]
	count := p.order.Uint16(buf[offset : offset+2])
	nextOff := int(offset) + 2 + int(count)*12
	p.order.PutUint32(buf[nextOff:nextOff+4], 0)

	return tiff.Decode(bytes.NewReader(buf))
}

// ProcessPages is the page driver of spec §4.1: it detects whether path
// is a multipage TIFF, a single image, or a newline-separated filelist
// of image paths, then runs ProcessPage over every page from the
// configured page_number onward, surfacing at most one document-level
// failure even when both BeginDocument and EndDocument fail.
func (s *Session) ProcessPages(ctx context.Context, path string, retryConfigPath string, timeoutMs int64, chain render.Renderer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("session: process_pages: %w", err)
	}

	var docErr error
	if err := chain.BeginDocument(path); err != nil {
		docErr = fmt.Errorf("session: process_pages: begin_document: %w", err)
	} else {
		docErr = s.runPages(ctx, data, path, retryConfigPath, timeoutMs, chain)
	}

	if endErr := chain.EndDocument(); endErr != nil && docErr == nil {
		docErr = fmt.Errorf("session: process_pages: end_document: %w", endErr)
	}
	return docErr
}

func (s *Session) runPages(ctx context.Context, data []byte, path, retryConfigPath string, timeoutMs int64, chain render.Renderer) error {
	startPage := s.cfg.GetInt(pageNumberParam, 0)

	switch detectInputKind(data) {
	case kindMultiPageTIFF:
		pages, err := parseTIFFPages(data)
		if err != nil {
			return err
		}
		for idx := startPage; idx < pages.PageCount(); idx++ {
			img, err := pages.PageAt(idx)
			if err != nil {
				return err
			}
			if err := s.ProcessPage(ctx, img, idx, path, retryConfigPath, timeoutMs, chain); err != nil {
				return err
			}
		}
		return nil

	case kindSingleImage:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("session: process_pages: decode: %w", err)
		}
		return s.ProcessPage(ctx, img, 0, path, retryConfigPath, timeoutMs, chain)

	default: // kindFileList
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		for idx, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || idx < startPage {
				continue
			}
			imgData, err := os.ReadFile(line)
			if err != nil {
				return fmt.Errorf("session: process_pages: open %s: %w", line, err)
			}
			img, _, err := image.Decode(bytes.NewReader(imgData))
			if err != nil {
				return fmt.Errorf("session: process_pages: decode %s: %w", line, err)
			}
			if err := s.ProcessPage(ctx, img, idx, line, retryConfigPath, timeoutMs, chain); err != nil {
				return err
			}
		}
		return nil
	}
}

// ProcessPage orchestrates a single page (spec §4.1): sets the image,
// applies timeoutMs as a cooperative-cancellation deadline if positive,
// recognizes, retries once against retryConfigPath on failure if set,
// then feeds the result to renderer.
func (s *Session) ProcessPage(ctx context.Context, img image.Image, pageIndex int, filename string, retryConfigPath string, timeoutMs int64, renderer render.Renderer) error {
	if err := s.SetImage(img); err != nil {
		return err
	}
	s.cfg.Set(pageNumberParam, config.Value{Kind: config.KindInt, Int: pageIndex})

	recCtx := ctx
	if timeoutMs > 0 {
		var cancel context.CancelFunc
		recCtx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
		defer cancel()
	}

	err := s.Recognize(recCtx, nil)
	if err != nil && retryConfigPath != "" {
		err = s.retryWithConfig(recCtx, retryConfigPath)
	}
	if err != nil {
		return fmt.Errorf("session: process_page %d (%s): %w", pageIndex, filename, err)
	}

	return renderer.AddImage(render.Page{
		Iter:     s.readingOrderIter(),
		Image:    img,
		ImageNum: pageIndex,
		PPI:      s.sourceResolution,
	})
}

// retryWithConfig implements the retry-on-failure rule of spec §4.1:
// save the current variables to a scratch file, load retryConfigPath,
// re-run Recognize once, then restore from the scratch file.
func (s *Session) retryWithConfig(ctx context.Context, retryConfigPath string) error {
	scratch, err := os.CreateTemp("", "ocrkit-retry-*.cfg")
	if err != nil {
		return fmt.Errorf("session: retry: scratch file: %w", err)
	}
	scratchPath := scratch.Name()
	scratch.Close()
	defer os.Remove(scratchPath)

	if err := s.cfg.WriteFile(scratchPath); err != nil {
		return fmt.Errorf("session: retry: save config: %w", err)
	}
	if err := s.cfg.LoadFile(retryConfigPath); err != nil {
		return fmt.Errorf("session: retry: load retry config: %w", err)
	}

	s.recognitionDone = false
	recErr := s.Recognize(ctx, nil)

	if err := s.cfg.LoadFile(scratchPath); err != nil {
		return fmt.Errorf("session: retry: restore config: %w", err)
	}
	return recErr
}

package session

import (
	"context"
	"strings"

	"github.com/tessgo/ocrkit/render"
	"github.com/tessgo/ocrkit/render/hocr"
)

// GetHOCR returns the recognized page as an hOCR document, recognizing
// first if needed. pageNumber is embedded the way the hOCR renderer
// numbers ocr_page ids.
func (s *Session) GetHOCR(ctx context.Context, pageNumber int) (string, error) {
	if err := s.ensureRecognized(ctx); err != nil {
		return "", err
	}
	var buf strings.Builder
	r := hocr.New(&buf)
	if err := r.BeginDocument("ocr"); err != nil {
		return "", err
	}
	if err := r.AddImage(render.Page{Iter: s.readingOrderIter(), ImageNum: pageNumber, PPI: s.sourceResolution}); err != nil {
		return "", err
	}
	if err := r.EndDocument(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GetBoxText returns the recognized page as a classic per-symbol box
// file (spec §6.3), recognizing first if needed.
func (s *Session) GetBoxText(ctx context.Context, pageNumber int) (string, error) {
	if err := s.ensureRecognized(ctx); err != nil {
		return "", err
	}
	var buf strings.Builder
	r := render.NewBoxRenderer(&buf)
	if err := r.AddImage(render.Page{Iter: s.readingOrderIter(), ImageNum: pageNumber, PPI: s.sourceResolution}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GetUNLVText returns the recognized page as UNLV-format Latin-1 text
// (spec §6.3), recognizing first if needed.
func (s *Session) GetUNLVText(ctx context.Context) (string, error) {
	if err := s.ensureRecognized(ctx); err != nil {
		return "", err
	}
	var buf strings.Builder
	r := render.NewUNLVRenderer(&buf)
	if err := r.AddImage(render.Page{Iter: s.readingOrderIter(), PPI: s.sourceResolution}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

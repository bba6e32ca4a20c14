// Package session implements the Session façade of spec §4.1: the
// single-threaded, non-reentrant orchestrator that carries a config
// store, the injected external collaborators of package recognizer, and
// the owning PageResult/BlockList for one page at a time.
//
// The multi-page driver's cancellation-aware loop shape is adapted from
// the teacher's ocr/default.go (RecognizeAssets/DefaultRecognizeAssets);
// the init-idempotence, retry-on-failure and OSD-coupling semantics are
// ported from original_source/api/baseapi.cpp.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/tessgo/ocrkit/config"
	"github.com/tessgo/ocrkit/geom"
	"github.com/tessgo/ocrkit/iterator"
	"github.com/tessgo/ocrkit/observability"
	"github.com/tessgo/ocrkit/pageresult"
	"github.com/tessgo/ocrkit/recognizer"
	"github.com/tessgo/ocrkit/render"
)

// ErrNotInitialized is returned by any operation that requires a
// successful Init first.
var ErrNotInitialized = errors.New("session: not initialized")

// ErrNoImage is returned by Recognize and the page-segmentation-only
// path when no image has been set.
var ErrNoImage = errors.New("session: no image set")

// kMinCredibleResolution/kMaxCredibleResolution bound SetSourceResolution,
// ported verbatim from the domain ancestor.
const (
	kMinCredibleResolution = 70
	kMaxCredibleResolution = 2400
)

// Collaborators bundles the external contracts package recognizer
// declares (spec §6); in a zero-value Collaborators, Thresholder,
// LayoutAnalyzer and Classifier resolve to the deterministic
// recognizer.Stub, while ParagraphDetector and Adaptive stay nil.
type Collaborators struct {
	Thresholder       recognizer.Thresholder
	LayoutAnalyzer    recognizer.LayoutAnalyzer
	Classifier        recognizer.Classifier
	ParagraphDetector recognizer.ParagraphDetector
	Adaptive          recognizer.AdaptiveClassifier
}

func (c Collaborators) resolve() Collaborators {
	stub := recognizer.Stub{}
	if c.Thresholder == nil {
		c.Thresholder = stub
	}
	if c.LayoutAnalyzer == nil {
		c.LayoutAnalyzer = stub
	}
	if c.Classifier == nil {
		c.Classifier = stub
	}
	return c
}

// Session is the non-reentrant per-page/per-document orchestrator of
// spec §3.1/§4.1. It carries no internal locking; callers needing
// concurrent recognition run distinct Sessions on distinct goroutines.
type Session struct {
	cfg *config.Store

	datapath   string
	language   string
	engineMode OcrEngineMode
	pageSeg    PageSegMode
	inited     bool

	collab Collaborators

	img              image.Image
	hasImage         bool
	rect             geom.Rect
	sourceResolution float64

	pr              *pageresult.PageResult
	blocks          *recognizer.BlockList
	recognitionDone bool

	osd          *Session
	osdResult    recognizer.OrientationResult
	hasOSDResult bool

	Logger observability.Logger
	Tracer observability.Tracer
}

// New constructs an uninitialized Session wired to collab (an unset
// Thresholder, LayoutAnalyzer or Classifier falls back to
// recognizer.Stub).
func New(collab Collaborators) *Session {
	return &Session{
		collab:           collab.resolve(),
		cfg:              config.New(true),
		pageSeg:          SingleBlock,
		sourceResolution: kMinCredibleResolution,
		Logger:           observability.NopLogger{},
		Tracer:           observability.NopTracer(),
	}
}

// Config exposes the Session's parameter store, shared with the
// iterator and renderer chain per spec §4.5.
func (s *Session) Config() *config.Store { return s.cfg }

// Init loads language data and resets configuration, per spec §4.1. If
// datapath/language/engineMode exactly match the current instance and
// the Session is already initialized, only the adaptive classifier is
// reset; otherwise the whole engine is torn down and reconstructed.
func (s *Session) Init(datapath, language string, engineMode OcrEngineMode, configFiles []string, varOverrides map[string]string, onlyNonDebug bool) error {
	if s.inited && s.datapath == datapath && s.language == language && s.engineMode == engineMode {
		s.resetAdaptiveClassifier()
		return nil
	}

	s.cfg = config.New(!onlyNonDebug)
	s.cfg.SetInitActive(true)
	defer s.cfg.SetInitActive(false)

	s.cfg.Define(config.PreserveInterwordSpaces, config.Value{Kind: config.KindBool}, config.Unconstrained)
	s.cfg.Define(config.ParagraphTextBased, config.Value{Kind: config.KindBool}, config.Unconstrained)

	for _, path := range configFiles {
		if err := s.cfg.LoadFile(path); err != nil {
			return fmt.Errorf("session: init: %w", err)
		}
	}
	for k, v := range varOverrides {
		if err := s.cfg.SetFromCLI(k + "=" + v); err != nil {
			return fmt.Errorf("session: init: %w", err)
		}
	}

	s.datapath = datapath
	s.language = language
	s.engineMode = engineMode
	s.inited = true
	s.Clear()
	return nil
}

func (s *Session) resetAdaptiveClassifier() {
	if s.collab.Adaptive != nil {
		// The adaptive model itself is the injected collaborator's
		// responsibility; the Session only marks the reset boundary.
		s.Logger.Debug("session.init.adaptive_reset")
	}
}

// SetPageSegmentationMode sets the segmentation mode used by the next
// Recognize call. The mode is held only on the Session: no config-file
// entry or variable overrides it.
func (s *Session) SetPageSegmentationMode(mode PageSegMode) { s.pageSeg = mode }

// PageSegmentationMode returns the currently configured mode.
func (s *Session) PageSegmentationMode() PageSegMode { return s.pageSeg }

// SetImage installs img as the page to recognize: it clears any prior
// PageResult and resets the rectangle of interest to the full image.
// The Session does not copy the image; the caller must keep it alive
// until the next SetImage or Clear.
func (s *Session) SetImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("session: SetImage: %w", ErrNoImage)
	}
	s.img = img
	s.hasImage = true
	s.pr = nil
	s.blocks = nil
	s.recognitionDone = false
	b := img.Bounds()
	s.rect = geom.Rect{Left: 0, Top: 0, Right: b.Dx(), Bottom: b.Dy()}
	return nil
}

// SetRectangle constrains subsequent recognition to the given pixel
// rectangle and clears any prior PageResult.
func (s *Session) SetRectangle(left, top, w, h int) {
	s.rect = geom.Rect{Left: left, Top: top, Right: left + w, Bottom: top + h}
	s.pr = nil
	s.blocks = nil
	s.recognitionDone = false
}

// SetSourceResolution records the scanning resolution used for layout
// scaling, clamped into [kMinCredibleResolution, kMaxCredibleResolution].
// An unset or out-of-range value defaults to the lower bound, since
// under-estimating resolution is the safer failure mode.
func (s *Session) SetSourceResolution(ppi float64) {
	if ppi < kMinCredibleResolution || ppi > kMaxCredibleResolution {
		s.sourceResolution = kMinCredibleResolution
		return
	}
	s.sourceResolution = ppi
}

// Monitor is the cooperative-cancellation handle threaded through
// Recognize, additive on top of the context.Context cancellation
// idiomatic Go callers expect (spec §5).
type Monitor struct {
	DeadlineMsecs int64
	Cancel        func(wordsDone int) bool
	Progress      func(int)
	ProgressV2    func(Monitor)
}

// Recognize drives thresholding, layout segmentation, optional OSD
// coupling, the classifier pass and paragraph detection, per spec §4.1.
// An empty page yields an empty PageResult and a nil error; any
// irrecoverable step returns an error.
func (s *Session) Recognize(ctx context.Context, mon *Monitor) error {
	if !s.inited {
		return ErrNotInitialized
	}
	if !s.hasImage {
		return ErrNoImage
	}
	if s.recognitionDone {
		return nil
	}

	binary, err := s.collab.Thresholder.Threshold(ctx, s.img, s.rect)
	if err != nil {
		return fmt.Errorf("session: threshold: %w", err)
	}

	blocks, err := s.collab.LayoutAnalyzer.SegmentPage(ctx, binary, s.rect)
	if err != nil {
		return fmt.Errorf("session: segment_page: %w", err)
	}
	s.blocks = blocks

	if s.pageSeg == OSDOnly || s.pageSeg == AutoOSD || s.pageSeg == SparseTextOSD {
		if err := s.runOSD(ctx); err != nil {
			return fmt.Errorf("session: osd: %w", err)
		}
		if s.pageSeg == OSDOnly {
			s.pr = pageresult.New()
			s.recognitionDone = true
			return nil
		}
	}

	progress := func(wordsDone int) bool {
		if mon == nil {
			return false
		}
		if mon.Progress != nil {
			mon.Progress(wordsDone)
		}
		if mon.ProgressV2 != nil {
			mon.ProgressV2(*mon)
		}
		select {
		case <-ctx.Done():
			return true
		default:
		}
		if mon.Cancel != nil {
			return mon.Cancel(wordsDone)
		}
		return false
	}

	pr, err := s.collab.Classifier.Recognize(ctx, s.img, blocks, progress)
	if err != nil {
		s.Logger.Error("session.recognize.error", observability.Error("err", err))
		return fmt.Errorf("session: recognize: %w", err)
	}
	if pr == nil {
		pr = pageresult.New()
	}

	if s.collab.ParagraphDetector != nil {
		if err := s.collab.ParagraphDetector.DetectParagraphs(pr); err != nil {
			return fmt.Errorf("session: detect_paragraphs: %w", err)
		}
	}

	s.pr = pr
	s.recognitionDone = true
	return nil
}

// runOSD creates (lazily) a sibling sub-session in language "osd" and
// engine-mode TesseractOnly to run orientation/script detection, per
// spec §4.1's OSD-coupling rule: only created if the active language
// is not itself "osd".
func (s *Session) runOSD(ctx context.Context) error {
	if s.language == "osd" {
		return nil
	}
	if s.osd == nil {
		s.osd = New(s.collab)
		if err := s.osd.Init(s.datapath, "osd", TesseractOnly, nil, nil, true); err != nil {
			return err
		}
	}
	if err := s.osd.SetImage(s.img); err != nil {
		return err
	}
	s.osd.SetRectangle(s.rect.Left, s.rect.Top, s.rect.Width(), s.rect.Height())
	s.osd.SetPageSegmentationMode(OSDOnly)
	if err := s.osd.Recognize(ctx, nil); err != nil {
		return err
	}
	if od, ok := s.collab.Classifier.(recognizer.OrientationDetector); ok {
		res, err := od.DetectOrientation(ctx, s.img)
		if err != nil {
			return err
		}
		s.osd.osdResult = res
		s.osd.hasOSDResult = true
	}
	return nil
}

// OSDResult returns the orientation/script detection outcome of the
// last OSD-coupled Recognize call, if any ran and the injected
// Classifier implements recognizer.OrientationDetector.
func (s *Session) OSDResult() (recognizer.OrientationResult, bool) {
	if s.osd == nil {
		return recognizer.OrientationResult{}, false
	}
	return s.osd.osdResult, s.osd.hasOSDResult
}

func (s *Session) ensureRecognized(ctx context.Context) error {
	if s.recognitionDone {
		return nil
	}
	return s.Recognize(ctx, nil)
}

func (s *Session) readingOrderIter() *iterator.ReadingOrderIterator {
	pr := s.pr
	if pr == nil {
		pr = pageresult.New()
	}
	lit := iterator.New(pr, 1, s.rect.Height(), s.rect.Left, s.rect.Top, s.rect, s.sourceResolution)
	preserve := s.cfg.GetBool(config.PreserveInterwordSpaces, false)
	return iterator.NewReadingOrder(lit, preserve)
}

// GetUTF8Text returns the recognized page as plain UTF-8 text,
// recognizing first if Recognize has not yet run.
func (s *Session) GetUTF8Text(ctx context.Context) (string, error) {
	if err := s.ensureRecognized(ctx); err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := render.NewTextRenderer(&buf).AddImage(render.Page{Iter: s.readingOrderIter(), PPI: s.sourceResolution}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MeanTextConfidence returns the mean word confidence over the
// recognized page (spec §4.1), recognizing first if needed.
func (s *Session) MeanTextConfidence(ctx context.Context) (int, error) {
	if err := s.ensureRecognized(ctx); err != nil {
		return 0, err
	}
	return s.pr.MeanTextConfidence(), nil
}

// AllWordConfidences returns every word's confidence in reading order
// (spec §4.1/§5), recognizing first if needed.
func (s *Session) AllWordConfidences(ctx context.Context) ([]int, error) {
	if err := s.ensureRecognized(ctx); err != nil {
		return nil, err
	}
	return s.pr.AllWordConfidences(), nil
}

// AdaptToWord is the training hook of spec §4.1: it temporarily
// switches segmentation mode to SingleWord, recognizes the rectangle,
// and if the recognized text matches truth (ignoring whitespace), feeds
// the word to the injected AdaptiveClassifier.
func (s *Session) AdaptToWord(ctx context.Context, spaceDelimitedTruth string) error {
	if s.collab.Adaptive == nil {
		return nil
	}
	saved := s.pageSeg
	s.pageSeg = SingleWord
	defer func() { s.pageSeg = saved }()

	s.recognitionDone = false
	if err := s.Recognize(ctx, nil); err != nil {
		return err
	}
	got, err := s.GetUTF8Text(ctx)
	if err != nil {
		return err
	}
	if stripSpace(got) != stripSpace(spaceDelimitedTruth) {
		return nil
	}
	return s.collab.Adaptive.Adapt(got, spaceDelimitedTruth)
}

func stripSpace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == '\f' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// Clear releases the current page's PageResult and BlockList, per-page
// teardown per spec §4.1.
func (s *Session) Clear() {
	s.img = nil
	s.hasImage = false
	s.pr = nil
	s.blocks = nil
	s.recognitionDone = false
}

// End tears down the Session entirely; only destruction and another
// Init are valid afterward.
func (s *Session) End() {
	s.Clear()
	s.inited = false
	s.osd = nil
}

// ClearPersistentCache releases every process-wide cached dictionary
// (spec §5); must only be called when no Session holds a Dict
// reference.
func ClearPersistentCache() {
	recognizer.ClearPersistentCache()
}


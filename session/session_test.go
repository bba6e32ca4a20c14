package session

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/tessgo/ocrkit/recognizer"
	"github.com/tessgo/ocrkit/render"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New(Collaborators{Classifier: recognizer.Stub{Words: []string{"hello", "world"}}})
	if err := s.Init("testdata", "eng", TesseractLSTMCombined, nil, nil, true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestInitIdempotenceResetsOnlyAdaptive(t *testing.T) {
	s := newTestSession(t)
	cfgBefore := s.cfg
	if err := s.Init("testdata", "eng", TesseractLSTMCombined, nil, nil, true); err != nil {
		t.Fatalf("re-Init: %v", err)
	}
	if s.cfg != cfgBefore {
		t.Fatalf("re-Init with identical datapath/language/mode replaced the config store, want adaptive-only reset")
	}

	if err := s.Init("testdata", "fra", TesseractLSTMCombined, nil, nil, true); err != nil {
		t.Fatalf("Init with new language: %v", err)
	}
	if s.cfg == cfgBefore {
		t.Fatalf("Init with a different language reused the old config store, want a fresh engine")
	}
}

func TestOperationsRequireInit(t *testing.T) {
	s := New(Collaborators{})
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if err := s.Recognize(context.Background(), nil); err != ErrNotInitialized {
		t.Fatalf("Recognize before Init = %v, want ErrNotInitialized", err)
	}
}

func TestRecognizeRequiresImage(t *testing.T) {
	s := newTestSession(t)
	if err := s.Recognize(context.Background(), nil); err != ErrNoImage {
		t.Fatalf("Recognize without image = %v, want ErrNoImage", err)
	}
}

func TestSetImageResetsRectangleAndResult(t *testing.T) {
	s := newTestSession(t)
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if s.rect.Width() != 200 || s.rect.Height() != 100 {
		t.Fatalf("rect = %+v, want full image bounds", s.rect)
	}
	if err := s.Recognize(context.Background(), nil); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if !s.recognitionDone {
		t.Fatalf("expected recognitionDone after Recognize")
	}
	s.SetRectangle(10, 10, 50, 50)
	if s.recognitionDone {
		t.Fatalf("SetRectangle should clear the prior PageResult")
	}
}

func TestSetSourceResolutionClamps(t *testing.T) {
	s := newTestSession(t)
	s.SetSourceResolution(300)
	if s.sourceResolution != 300 {
		t.Fatalf("in-range resolution not kept: %v", s.sourceResolution)
	}
	s.SetSourceResolution(1)
	if s.sourceResolution != kMinCredibleResolution {
		t.Fatalf("under-range resolution = %v, want default floor", s.sourceResolution)
	}
	s.SetSourceResolution(9000)
	if s.sourceResolution != kMinCredibleResolution {
		t.Fatalf("over-range resolution = %v, want default floor", s.sourceResolution)
	}
}

func TestGetUTF8TextRecognizesOnDemand(t *testing.T) {
	s := newTestSession(t)
	img := image.NewGray(image.Rect(0, 0, 200, 40))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	text, err := s.GetUTF8Text(context.Background())
	if err != nil {
		t.Fatalf("GetUTF8Text: %v", err)
	}
	if !strings.Contains(text, "hello") || !strings.Contains(text, "world") {
		t.Fatalf("GetUTF8Text = %q, want it to contain the stub words", text)
	}
}

func TestMeanTextConfidenceAndAllWordConfidences(t *testing.T) {
	s := newTestSession(t)
	img := image.NewGray(image.Rect(0, 0, 200, 40))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	confs, err := s.AllWordConfidences(context.Background())
	if err != nil {
		t.Fatalf("AllWordConfidences: %v", err)
	}
	if len(confs) != 2 {
		t.Fatalf("got %d confidences, want 2", len(confs))
	}
	mean, err := s.MeanTextConfidence(context.Background())
	if err != nil {
		t.Fatalf("MeanTextConfidence: %v", err)
	}
	if mean < 0 || mean > 100 {
		t.Fatalf("mean confidence %d out of [0,100]", mean)
	}
}

func TestMonitorCancelStopsRecognition(t *testing.T) {
	s := New(Collaborators{Classifier: recognizer.Stub{Words: []string{"a", "b", "c"}}})
	if err := s.Init("testdata", "eng", TesseractLSTMCombined, nil, nil, true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	img := image.NewGray(image.Rect(0, 0, 200, 40))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	seen := 0
	mon := &Monitor{Cancel: func(n int) bool {
		seen = n
		return n == 1
	}}
	if err := s.Recognize(context.Background(), mon); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if seen != 1 {
		t.Fatalf("monitor saw progress %d, want 1", seen)
	}
}

func TestAdaptToWordNoopOnMismatchedTruth(t *testing.T) {
	s := newTestSession(t)
	img := image.NewGray(image.Rect(0, 0, 200, 40))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if err := s.AdaptToWord(context.Background(), "nonsense"); err != nil {
		t.Fatalf("AdaptToWord: %v", err)
	}
}

func TestClearAndEnd(t *testing.T) {
	s := newTestSession(t)
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	s.Clear()
	if s.hasImage {
		t.Fatalf("Clear did not release the image")
	}
	s.End()
	if s.inited {
		t.Fatalf("End did not mark the session uninitialized")
	}
}

// osdClassifier wraps recognizer.Stub and additionally implements
// recognizer.OrientationDetector, exercising Session's OSD-coupling
// type assertion in runOSD.
type osdClassifier struct {
	recognizer.Stub
}

func (osdClassifier) DetectOrientation(context.Context, image.Image) (recognizer.OrientationResult, error) {
	return recognizer.OrientationResult{Orientation: 90, Rotate: 270, OrientationConfidence: 4.5, Script: "Latin", ScriptConfidence: 8.1}, nil
}

func TestOSDOnlyShortCircuitsRecognitionAndReportsOrientation(t *testing.T) {
	s := New(Collaborators{Classifier: osdClassifier{}})
	if err := s.Init("testdata", "eng", TesseractOnly, nil, nil, true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	if err := s.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	s.SetPageSegmentationMode(OSDOnly)

	if err := s.Recognize(context.Background(), nil); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if !s.recognitionDone {
		t.Fatalf("OSDOnly should still mark recognitionDone")
	}
	confs, err := s.AllWordConfidences(context.Background())
	if err != nil {
		t.Fatalf("AllWordConfidences: %v", err)
	}
	if len(confs) != 0 {
		t.Fatalf("OSDOnly should yield an empty PageResult, got %d words", len(confs))
	}

	res, ok := s.OSDResult()
	if !ok {
		t.Fatalf("expected an OSD result after an OSDOnly Recognize")
	}
	if res.Orientation != 90 || res.Script != "Latin" {
		t.Fatalf("OSDResult = %+v, want orientation 90 / script Latin", res)
	}
}

// recordingRenderer counts BeginDocument/AddImage/EndDocument calls, for
// exercising the multi-page driver in pages_test.go.
type recordingRenderer struct {
	*render.Base
	pages int
}

func newRecordingRenderer() *recordingRenderer {
	r := &recordingRenderer{}
	r.Base = render.NewBase(r)
	return r
}

func (r *recordingRenderer) HandleBegin(string) error { return nil }
func (r *recordingRenderer) HandleImage(render.Page) error {
	r.pages++
	return nil
}
func (r *recordingRenderer) HandleEnd() error { return nil }

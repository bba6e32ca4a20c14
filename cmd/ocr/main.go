// Command ocr is the CLI contract of spec §6.2: a thin flag-parsing
// and renderer-wiring layer over package session, adapted from the
// teacher's cmd/extract idiom (custom flag.Usage, explicit exit codes,
// one-line "ocr: ..." stderr diagnostics) and grounded on the original
// domain ancestor's tesseractmain.cpp for flag names, --help-psm/--oem
// text and exit-code assignment.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tessgo/ocrkit/recognizer/gosseractshim"
	"github.com/tessgo/ocrkit/render"
	"github.com/tessgo/ocrkit/render/alto"
	"github.com/tessgo/ocrkit/render/hocr"
	"github.com/tessgo/ocrkit/render/osd"
	"github.com/tessgo/ocrkit/render/pdf"
	"github.com/tessgo/ocrkit/session"
)

const versionString = "ocrkit 1.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cvarFlags collects repeatable "-c name=value" occurrences.
type cvarFlags []string

func (c *cvarFlags) String() string     { return strings.Join(*c, ",") }
func (c *cvarFlags) Set(v string) error { *c = append(*c, v); return nil }

// outputFormats are the recognized trailing positional arguments that
// select a renderer rather than naming a real config file on disk,
// matching the teacher domain's built-in config names (hocr, pdf, ...).
var outputFormats = []string{"txt", "hocr", "tsv", "box", "unlv", "alto", "pdf", "osd"}

func isOutputFormat(name string) bool {
	for _, f := range outputFormats {
		if strings.EqualFold(name, f) {
			return true
		}
	}
	return false
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ocr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n"+
			"  ocr --help | --help-psm | --help-oem | --help-extra | --version\n"+
			"  ocr --list-langs [--tessdata-dir PATH]\n"+
			"  ocr --print-parameters [options...] image output_base [configfile...]\n"+
			"  ocr [options] image output_base [configfile...]\n\n")
		fs.PrintDefaults()
	}

	lang := fs.String("l", "eng", "Language(s) used for OCR, e.g. eng or eng+fra")
	tessdataDir := fs.String("tessdata-dir", "", "Location of the language data directory")
	userWords := fs.String("user-words", "", "Location of a user words file")
	userPatterns := fs.String("user-patterns", "", "Location of a user patterns file")
	dpi := fs.Int("dpi", 0, "Source image resolution in pixels per inch")
	psm := fs.Int("psm", int(session.Auto), "Page segmentation mode")
	oem := fs.Int("oem", int(session.DefaultEngine), "OCR engine mode")
	listLangs := fs.Bool("list-langs", false, "List available languages and exit")
	printParameters := fs.Bool("print-parameters", false, "Print config parameters to stdout and exit")
	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "v", false, "Show version information and exit")
	fs.BoolVar(&showVersion, "version", false, "Show version information and exit")
	fs.BoolVar(&showHelp, "h", false, "Show this help message and exit")
	fs.BoolVar(&showHelp, "help", false, "Show this help message and exit")
	helpPsm := fs.Bool("help-psm", false, "Show page segmentation modes and exit")
	helpOem := fs.Bool("help-oem", false, "Show OCR engine modes and exit")
	helpExtra := fs.Bool("help-extra", false, "Show extra configuration options and exit")
	var cvars cvarFlags
	fs.Var(&cvars, "c", "Set a config variable as name=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	switch {
	case showHelp:
		fs.Usage()
		printExtraHelp(stderr)
		return 0
	case showVersion:
		fmt.Fprintln(stdout, versionString)
		return 0
	case *helpPsm:
		printPSMHelp(stderr)
		return 0
	case *helpOem:
		printOEMHelp(stderr)
		return 0
	case *helpExtra:
		printExtraHelp(stderr)
		return 0
	case *listLangs:
		return listLanguages(*tessdataDir, stdout, stderr)
	}

	if fs.NArg() < 2 {
		fs.Usage()
		return 1
	}
	imagePath := fs.Arg(0)
	outputBase := fs.Arg(1)

	var configFiles []string
	formats := map[string]bool{}
	for _, a := range fs.Args()[2:] {
		if isOutputFormat(a) {
			formats[strings.ToLower(a)] = true
			continue
		}
		configFiles = append(configFiles, a)
	}
	if len(formats) == 0 {
		formats["txt"] = true
	}

	streaming := outputBase == "-" || outputBase == "stdout"
	if streaming && len(formats) > 1 {
		fmt.Fprintln(stderr, "ocr: streaming to stdout supports only one output format")
		return 1
	}

	if _, err := os.Stat(imagePath); err != nil {
		fmt.Fprintf(stderr, "ocr: cannot open input file: %s\n", imagePath)
		return 2
	}

	classifier, err := gosseractshim.New(*lang)
	if err != nil {
		fmt.Fprintf(stderr, "ocr: could not initialize tesseract: %v\n", err)
		return 1
	}
	defer classifier.Close()

	sess := session.New(session.Collaborators{Classifier: classifier})

	varOverrides := map[string]string{}
	for _, kv := range cvars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(stderr, "ocr: missing = in configvar assignment: %s\n", kv)
			return 1
		}
		varOverrides[name] = value
	}
	if *userWords != "" {
		varOverrides["user_words_file"] = *userWords
	}
	if *userPatterns != "" {
		varOverrides["user_patterns_file"] = *userPatterns
	}

	if err := sess.Init(*tessdataDir, *lang, session.OcrEngineMode(*oem), configFiles, varOverrides, true); err != nil {
		fmt.Fprintf(stderr, "ocr: could not initialize tesseract: %v\n", err)
		return 1
	}
	sess.SetPageSegmentationMode(session.PageSegMode(*psm))
	if *dpi > 0 {
		sess.SetSourceResolution(float64(*dpi))
	}

	if *printParameters {
		fmt.Fprintln(stdout, "Tesseract parameters:")
		if err := sess.Config().PrintVariables(stdout); err != nil {
			fmt.Fprintf(stderr, "ocr: print-parameters: %v\n", err)
			return 1
		}
		return 0
	}

	if !streaming {
		fmt.Fprintf(stderr, "ocrkit %s with a pluggable recognizer\n", versionString)
	}

	chain, closers, err := buildRendererChain(formats, outputBase, streaming, sess, stdout)
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	if err != nil {
		fmt.Fprintf(stderr, "ocr: %v\n", err)
		return 1
	}

	if err := sess.ProcessPages(context.Background(), imagePath, "", 0, chain); err != nil {
		fmt.Fprintf(stderr, "ocr: %v\n", err)
		return 1
	}
	return 0
}

// buildRendererChain opens one output sink per requested format and
// links them into a single render.Renderer chain, in a fixed,
// deterministic order.
func buildRendererChain(formats map[string]bool, outputBase string, streaming bool, sess *session.Session, stdout io.Writer) (render.Renderer, []io.Closer, error) {
	var closers []io.Closer
	sinkFor := func(ext string) (io.Writer, error) {
		if streaming {
			return stdout, nil
		}
		f, err := os.Create(outputBase + ext)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		closers = append(closers, f)
		return f, nil
	}

	var chain render.Renderer
	link := func(r render.Renderer) {
		if chain == nil {
			chain = r
			return
		}
		chain.Insert(r)
	}

	for _, name := range outputFormats {
		if !formats[name] {
			continue
		}
		switch name {
		case "txt":
			w, err := sinkFor(".txt")
			if err != nil {
				return nil, closers, err
			}
			link(render.NewTextRenderer(w))
		case "hocr":
			w, err := sinkFor(".hocr")
			if err != nil {
				return nil, closers, err
			}
			link(hocr.New(w))
		case "tsv":
			w, err := sinkFor(".tsv")
			if err != nil {
				return nil, closers, err
			}
			link(render.NewTSVRenderer(w))
		case "box":
			w, err := sinkFor(".box")
			if err != nil {
				return nil, closers, err
			}
			link(render.NewBoxRenderer(w))
		case "unlv":
			w, err := sinkFor(".unlv")
			if err != nil {
				return nil, closers, err
			}
			link(render.NewUNLVRenderer(w))
		case "alto":
			w, err := sinkFor(".xml")
			if err != nil {
				return nil, closers, err
			}
			link(alto.New(w))
		case "pdf":
			w, err := sinkFor(".pdf")
			if err != nil {
				return nil, closers, err
			}
			link(pdf.New(w, nil))
		case "osd":
			w, err := sinkFor(".osd")
			if err != nil {
				return nil, closers, err
			}
			link(newOSDBridge(w, sess))
		}
	}
	return chain, closers, nil
}

// osdBridge adapts render/osd's fixed six-line report to a live
// session: each HandleImage call pulls that page's just-computed OSD
// result from the session instead of requiring a caller to stage it
// via osd.Renderer.SetResult before every AddImage.
type osdBridge struct {
	*render.Base
	inner *osd.Renderer
	sess  *session.Session
}

func newOSDBridge(w io.Writer, sess *session.Session) *osdBridge {
	b := &osdBridge{inner: osd.New(w), sess: sess}
	b.Base = render.NewBase(b)
	return b
}

func (b *osdBridge) HandleBegin(title string) error { return b.inner.HandleBegin(title) }

func (b *osdBridge) HandleImage(p render.Page) error {
	if res, ok := b.sess.OSDResult(); ok {
		b.inner.SetResult(osd.Result{
			Orientation:           res.Orientation,
			Rotate:                res.Rotate,
			OrientationConfidence: res.OrientationConfidence,
			Script:                res.Script,
			ScriptConfidence:      res.ScriptConfidence,
		})
	}
	return b.inner.HandleImage(p)
}

func (b *osdBridge) HandleEnd() error { return b.inner.HandleEnd() }

func listLanguages(tessdataDir string, stdout, stderr io.Writer) int {
	if tessdataDir == "" {
		fmt.Fprintln(stderr, "ocr: --list-langs requires --tessdata-dir")
		return 1
	}
	entries, err := os.ReadDir(tessdataDir)
	if err != nil {
		fmt.Fprintf(stderr, "ocr: --list-langs: %v\n", err)
		return 1
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".traineddata" {
			langs = append(langs, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(langs)
	fmt.Fprintf(stdout, "List of available languages (%d):\n", len(langs))
	for _, l := range langs {
		fmt.Fprintln(stdout, l)
	}
	return 0
}

func printPSMHelp(w io.Writer) {
	fmt.Fprint(w, "Page segmentation modes:\n"+
		"  0    Orientation and script detection (OSD) only.\n"+
		"  1    Automatic page segmentation with OSD.\n"+
		"  2    Automatic page segmentation, but no OSD, or OCR.\n"+
		"  3    Fully automatic page segmentation, but no OSD. (Default)\n"+
		"  4    Assume a single column of text of variable sizes.\n"+
		"  5    Assume a single uniform block of vertically aligned text.\n"+
		"  6    Assume a single uniform block of text.\n"+
		"  7    Treat the image as a single text line.\n"+
		"  8    Treat the image as a single word.\n"+
		"  9    Treat the image as a single word in a circle.\n"+
		" 10    Treat the image as a single character.\n"+
		" 11    Sparse text. Find as much text as possible in no particular order.\n"+
		" 12    Sparse text with OSD.\n"+
		" 13    Raw line. Treat the image as a single text line, bypassing hacks "+
		"that are specific to certain behaviors.\n")
}

func printOEMHelp(w io.Writer) {
	fmt.Fprint(w, "OCR Engine modes:\n"+
		"  0    Tesseract only. Legacy engine, fastest.\n"+
		"  1    LSTM neural net only.\n"+
		"  2    Tesseract + LSTM combined.\n"+
		"  3    Default, based on what is available.\n")
}

func printExtraHelp(w io.Writer) {
	fmt.Fprint(w, "\nOCR options:\n"+
		"  --tessdata-dir PATH   Specify the location of tessdata path.\n"+
		"  --user-words PATH     Specify the location of user words file.\n"+
		"  --user-patterns PATH  Specify the location of user patterns file.\n"+
		"  -l LANG[+LANG]        Specify language(s) used for OCR.\n"+
		"  -c VAR=VALUE          Set value for config variables (repeatable).\n"+
		"  --psm NUM             Specify page segmentation mode.\n"+
		"  --oem NUM             Specify OCR engine mode.\n"+
		"  --dpi NUM             Specify source image resolution in PPI.\n"+
		"NOTE: These options must occur before any configfile.\n\n"+
		"Single options:\n"+
		"  -h, --help            Show this help message.\n"+
		"  --help-psm            Show page segmentation modes.\n"+
		"  --help-oem            Show OCR engine modes.\n"+
		"  --help-extra          Show these extra options.\n"+
		"  -v, --version         Show version information.\n"+
		"  --list-langs          List available languages.\n"+
		"  --print-parameters    Print tesseract parameters to stdout.\n")
}

// Package pageresult implements the recognized-page object graph of
// spec §3.1/§3.2: a directed tree of Block -> Paragraph -> Row -> Word
// -> Symbol, exclusively owned top-down, with explicit parent
// back-pointers on every level (the teacher's extractor/ir packages use
// ordinary pointer trees rather than arena-of-indices, and Go's GC makes
// that safe here too).
package pageresult

import "github.com/tessgo/ocrkit/geom"

// PolyBlockType is the block-type enum of spec §6.1.
type PolyBlockType int

const (
	Unknown PolyBlockType = iota
	FlowingText
	HeadingText
	PulloutText
	Equation
	InlineEquation
	Table
	VerticalText
	CaptionText
	FlowingImage
	HeadingImage
	PulloutImage
	HorzLine
	VertLine
	Noise
)

// WritingDirection classifies a word's direction per spec §3.1.
type WritingDirection int

const (
	LeftToRight WritingDirection = iota
	RightToLeft
	TopToBottom
)

// Direction is a word's own strong/neutral/mixed classification, used
// by the reading-order iterator (spec §4.2.1-§4.2.2) and distinct from
// WritingDirection, which is the output classification of §3.1.
type Direction int

const (
	DirNeutral Direction = iota
	DirStrongLTR
	DirStrongRTL
	DirMixed
)

// FontAttrs is the font-attribute bundle carried by every Word (spec
// §3.1).
type FontAttrs struct {
	Bold        bool
	Italic      bool
	Underlined  bool
	Monospace   bool
	Serif       bool
	SmallCaps   bool
	PointSize   int
	FontID      int
}

// Choice is one candidate reading for a Symbol, with its classifier
// certainty (an internal negative-or-zero score, per the GLOSSARY).
type Choice struct {
	Text      string
	Certainty float64
}

// Symbol is the leaf of the PageResult tree.
type Symbol struct {
	Parent      *Word
	Box         geom.Rect
	Choices     []Choice
	BestChoice  int // index into Choices, or -1 if none
	Superscript bool
	Subscript   bool
	DropCap     bool
}

// Text returns the best-choice text of the symbol, or "" if none.
func (s *Symbol) Text() string {
	if s.BestChoice < 0 || s.BestChoice >= len(s.Choices) {
		return ""
	}
	return s.Choices[s.BestChoice].Text
}

// Certainty returns the best-choice certainty, or 0 if none.
func (s *Symbol) Certainty() float64 {
	if s.BestChoice < 0 || s.BestChoice >= len(s.Choices) {
		return 0
	}
	return s.Choices[s.BestChoice].Certainty
}

// Confidence maps an internal certainty to the 0-100 percentage of spec
// §4.2.4/P4: clamp(round(100 + 5*c), 0, 100).
func Confidence(certainty float64) int {
	v := 100 + 5*certainty
	r := int(v + 0.5)
	if v < 0 {
		r = int(v - 0.5)
	}
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// Word is a sequence of Symbols with a best-choice box-word length, a
// bounding quadrilateral, font attributes, and a writing-direction
// classification (spec §3.1).
type Word struct {
	Parent      *Row
	Quad        geom.Quad
	Symbols     []*Symbol
	Permuter    string
	Rejected    bool
	Suspected   bool
	Attrs       FontAttrs
	Writing     WritingDirection
	Dir         Direction
	IsDictWord  bool
	IsNumeric   bool
	InterwordGap int // originally-recognized inter-word gap count preceding this word
}

// BestChoiceText concatenates the best-choice text of every symbol.
func (w *Word) BestChoiceText() string {
	var out []byte
	for _, s := range w.Symbols {
		out = append(out, s.Text()...)
	}
	return string(out)
}

// Confidence averages symbol confidences (spec §4.2.4).
func (w *Word) Confidence() int {
	if len(w.Symbols) == 0 {
		return 0
	}
	sum := 0
	for _, s := range w.Symbols {
		sum += Confidence(s.Certainty())
	}
	return sum / len(w.Symbols)
}

// Row is a textline: an ordered sequence of Words plus the baseline and
// x-height metrics the PDF and font-size computations need.
type Row struct {
	Parent       *Paragraph
	Box          geom.Rect
	Words        []*Word
	BaselineX1   float64
	BaselineY1   float64
	BaselineX2   float64
	BaselineY2   float64
	RowXHeight   float64
	CellOverXHeight float64
	Upright      bool
}

// Confidence averages word confidences in the row.
func (r *Row) Confidence() int {
	return meanWordConfidence(r.Words)
}

func meanWordConfidence(words []*Word) int {
	if len(words) == 0 {
		return 0
	}
	sum := 0
	for _, w := range words {
		sum += w.Confidence()
	}
	return sum / len(words)
}

// Paragraph groups Rows and carries a stable direction decided once
// (spec §3.2 "A paragraph-direction is decided once per paragraph").
type Paragraph struct {
	Parent *Block
	Rows   []*Row
	IsLTR  bool
	// isLTRSet guards against redeciding direction after it is first
	// computed; set by the iterator on first paragraph entry.
	isLTRSet bool
}

// SetDirectionOnce decides the paragraph direction the first time it is
// called and is a no-op thereafter, enforcing the §3.2 invariant.
func (p *Paragraph) SetDirectionOnce(ltr bool) {
	if p.isLTRSet {
		return
	}
	p.IsLTR = ltr
	p.isLTRSet = true
}

func (p *Paragraph) Confidence() int {
	var words []*Word
	for _, r := range p.Rows {
		words = append(words, r.Words...)
	}
	return meanWordConfidence(words)
}

// Block is a connected region of the page: bounding box, polygon mask,
// a block-type tag, re-rotation vector, and its paragraph partition
// (spec §3.1).
type Block struct {
	Parent      *PageResult
	Box         geom.Rect
	Polygon     geom.Quad
	Type        PolyBlockType
	ReRotation  geom.Affine // cos/sin of the rotation applied to reach upright internal coordinates
	ClassifyRotation geom.Affine
	Paragraphs  []*Paragraph
}

func (b *Block) Confidence() int {
	var words []*Word
	for _, p := range b.Paragraphs {
		for _, r := range p.Rows {
			words = append(words, r.Words...)
		}
	}
	return meanWordConfidence(words)
}

// PageResult is the recognized-page graph: the root that exclusively
// owns Blocks, which own Paragraphs, which own Rows, which own Words,
// which own Symbols and choice lists (spec §3.1).
type PageResult struct {
	Blocks []*Block
}

// New returns an empty PageResult ready to have blocks appended.
func New() *PageResult {
	return &PageResult{}
}

// AddBlock appends a new empty Block owned by this PageResult and
// returns it, with Parent already wired.
func (pr *PageResult) AddBlock(box geom.Rect, typ PolyBlockType) *Block {
	b := &Block{Parent: pr, Box: box, Type: typ}
	pr.Blocks = append(pr.Blocks, b)
	return b
}

// AddParagraph appends a new empty Paragraph owned by b.
func (b *Block) AddParagraph() *Paragraph {
	p := &Paragraph{Parent: b}
	b.Paragraphs = append(b.Paragraphs, p)
	return p
}

// AddRow appends a new empty Row owned by p.
func (p *Paragraph) AddRow(box geom.Rect) *Row {
	r := &Row{Parent: p, Box: box}
	p.Rows = append(p.Rows, r)
	return r
}

// AddWord appends a new Word owned by r.
func (r *Row) AddWord(quad geom.Quad) *Word {
	w := &Word{Parent: r, Quad: quad}
	r.Words = append(r.Words, w)
	return w
}

// AddSymbol appends a new Symbol owned by w.
func (w *Word) AddSymbol(box geom.Rect, choices []Choice, best int) *Symbol {
	s := &Symbol{Parent: w, Box: box, Choices: choices, BestChoice: best}
	w.Symbols = append(w.Symbols, s)
	return s
}

// MeanTextConfidence is Session.mean_text_confidence()'s underlying
// computation: mean confidence over every word in the page.
func (pr *PageResult) MeanTextConfidence() int {
	var words []*Word
	for _, b := range pr.Blocks {
		for _, p := range b.Paragraphs {
			for _, r := range p.Rows {
				words = append(words, r.Words...)
			}
		}
	}
	return meanWordConfidence(words)
}

// AllWordConfidences visits words in the same left-to-right-then-
// top-down order as LinearIterator (spec §5 ordering guarantee).
func (pr *PageResult) AllWordConfidences() []int {
	var out []int
	for _, b := range pr.Blocks {
		for _, p := range b.Paragraphs {
			for _, r := range p.Rows {
				for _, w := range r.Words {
					out = append(out, w.Confidence())
				}
			}
		}
	}
	return out
}

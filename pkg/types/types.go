package types

import (
	"fmt"
	"strings"
)

// FileKind is the closed set of inputs the pipeline knows how to route
type FileKind int

const (
	FileKindUnsupported FileKind = iota
	FileKindPDF
	FileKindImage
)

func (k FileKind) String() string {
	switch k {
	case FileKindPDF:
		return "pdf"
	case FileKindImage:
		return "image"
	default:
		return "unsupported"
	}
}

// Mode selects which recognizer output a page produces
type Mode int

const (
	ModeText Mode = iota
	ModeData
	ModeFiltered
)

func (m Mode) String() string {
	switch m {
	case ModeData:
		return "data"
	case ModeFiltered:
		return "filtered"
	default:
		return "text"
	}
}

// EngineKind names an OCR engine implementation
type EngineKind string

const (
	EngineCLI       EngineKind = "cli"
	EngineGosseract EngineKind = "gosseract"
)

// DataFormat is the tesseract output used to build token tables
type DataFormat string

const (
	DataFormatTSV  DataFormat = "tsv"
	DataFormatHOCR DataFormat = "hocr"
)

// NoConfidence is the confidence tesseract reports for non-text regions
const NoConfidence = -1.0

// BoundingBox locates a token in pixel units relative to its source image
type BoundingBox struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Right returns the exclusive right edge
func (b BoundingBox) Right() int { return b.Left + b.Width }

// Bottom returns the exclusive bottom edge
func (b BoundingBox) Bottom() int { return b.Top + b.Height }

// Union returns the smallest box covering both boxes
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.Width == 0 && b.Height == 0 {
		return o
	}
	if o.Width == 0 && o.Height == 0 {
		return b
	}
	left, top := min(b.Left, o.Left), min(b.Top, o.Top)
	right, bottom := max(b.Right(), o.Right()), max(b.Bottom(), o.Bottom())
	return BoundingBox{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Token is one row of a token table
type Token struct {
	Level      int
	PageNum    int
	BlockNum   int
	ParNum     int
	LineNum    int
	WordNum    int
	BBox       BoundingBox
	Confidence float64
	Text       string
}

// TokenTable is the engine's structured output viewed as parallel columns.
// Every column has the same length; index i describes one region across all of them.
type TokenTable struct {
	Level    []int     `json:"level" yaml:"level"`
	PageNum  []int     `json:"page_num" yaml:"page_num"`
	BlockNum []int     `json:"block_num" yaml:"block_num"`
	ParNum   []int     `json:"par_num" yaml:"par_num"`
	LineNum  []int     `json:"line_num" yaml:"line_num"`
	WordNum  []int     `json:"word_num" yaml:"word_num"`
	Left     []int     `json:"left" yaml:"left"`
	Top      []int     `json:"top" yaml:"top"`
	Width    []int     `json:"width" yaml:"width"`
	Height   []int     `json:"height" yaml:"height"`
	Conf     []float64 `json:"conf" yaml:"conf"`
	Text     []string  `json:"text" yaml:"text"`
}

// NewTokenTable returns an empty table with room for n rows
func NewTokenTable(n int) *TokenTable {
	return &TokenTable{
		Level:    make([]int, 0, n),
		PageNum:  make([]int, 0, n),
		BlockNum: make([]int, 0, n),
		ParNum:   make([]int, 0, n),
		LineNum:  make([]int, 0, n),
		WordNum:  make([]int, 0, n),
		Left:     make([]int, 0, n),
		Top:      make([]int, 0, n),
		Width:    make([]int, 0, n),
		Height:   make([]int, 0, n),
		Conf:     make([]float64, 0, n),
		Text:     make([]string, 0, n),
	}
}

// Append adds one row to every column
func (t *TokenTable) Append(tok Token) {
	t.Level = append(t.Level, tok.Level)
	t.PageNum = append(t.PageNum, tok.PageNum)
	t.BlockNum = append(t.BlockNum, tok.BlockNum)
	t.ParNum = append(t.ParNum, tok.ParNum)
	t.LineNum = append(t.LineNum, tok.LineNum)
	t.WordNum = append(t.WordNum, tok.WordNum)
	t.Left = append(t.Left, tok.BBox.Left)
	t.Top = append(t.Top, tok.BBox.Top)
	t.Width = append(t.Width, tok.BBox.Width)
	t.Height = append(t.Height, tok.BBox.Height)
	t.Conf = append(t.Conf, tok.Confidence)
	t.Text = append(t.Text, tok.Text)
}

// Len returns the number of rows
func (t *TokenTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Text)
}

// Token returns row i
func (t *TokenTable) Token(i int) Token {
	return Token{
		Level:    t.Level[i],
		PageNum:  t.PageNum[i],
		BlockNum: t.BlockNum[i],
		ParNum:   t.ParNum[i],
		LineNum:  t.LineNum[i],
		WordNum:  t.WordNum[i],
		BBox: BoundingBox{
			Left:   t.Left[i],
			Top:    t.Top[i],
			Width:  t.Width[i],
			Height: t.Height[i],
		},
		Confidence: t.Conf[i],
		Text:       t.Text[i],
	}
}

// Validate reports columns whose length differs from the text column
func (t *TokenTable) Validate() error {
	n := len(t.Text)
	columns := map[string]int{
		"level":     len(t.Level),
		"page_num":  len(t.PageNum),
		"block_num": len(t.BlockNum),
		"par_num":   len(t.ParNum),
		"line_num":  len(t.LineNum),
		"word_num":  len(t.WordNum),
		"left":      len(t.Left),
		"top":       len(t.Top),
		"width":     len(t.Width),
		"height":    len(t.Height),
		"conf":      len(t.Conf),
	}
	var bad []string
	for name, l := range columns {
		if l != n {
			bad = append(bad, fmt.Sprintf("%s=%d", name, l))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("token table columns differ from text=%d: %s", n, strings.Join(bad, ", "))
	}
	return nil
}

// WordCount returns the rows whose trimmed text is non-empty
func (t *TokenTable) WordCount() int {
	count := 0
	for _, s := range t.Text {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

// Word is a token that survived confidence filtering
type Word struct {
	Text       string      `json:"text" yaml:"text"`
	Confidence float64     `json:"confidence" yaml:"confidence"`
	BBox       BoundingBox `json:"bbox" yaml:"bbox"`
}

// Line is a run of words sharing a vertical band
type Line struct {
	Text  string      `json:"text" yaml:"text"`
	Words []Word      `json:"words" yaml:"words"`
	BBox  BoundingBox `json:"bbox" yaml:"bbox"`
}

// FilteredResult aggregates the words that passed a confidence threshold
type FilteredResult struct {
	FullText      string  `json:"full_text" yaml:"full_text"`
	Words         []Word  `json:"words" yaml:"words"`
	AvgConfidence float64 `json:"avg_confidence" yaml:"avg_confidence"`
	TotalWords    int     `json:"total_words" yaml:"total_words"`
}

// ResultKind tags which payload a PageResult carries
type ResultKind int

const (
	ResultText ResultKind = iota + 1
	ResultData
	ResultFiltered
)

func (k ResultKind) String() string {
	switch k {
	case ResultText:
		return "text"
	case ResultData:
		return "data"
	case ResultFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML output
func (k ResultKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PageResult is the recognition output for one image. Exactly one payload is set,
// the one named by Kind.
type PageResult struct {
	Kind     ResultKind      `json:"kind" yaml:"kind"`
	Page     int             `json:"page" yaml:"page"`
	Text     string          `json:"text,omitempty" yaml:"text,omitempty"`
	Data     *TokenTable     `json:"data,omitempty" yaml:"data,omitempty"`
	Filtered *FilteredResult `json:"filtered,omitempty" yaml:"filtered,omitempty"`
}

// NewTextResult wraps a plain text payload
func NewTextResult(page int, text string) PageResult {
	return PageResult{Kind: ResultText, Page: page, Text: text}
}

// NewDataResult wraps a token table payload
func NewDataResult(page int, data *TokenTable) PageResult {
	return PageResult{Kind: ResultData, Page: page, Data: data}
}

// NewFilteredResult wraps a filtered aggregate payload
func NewFilteredResult(page int, filtered *FilteredResult) PageResult {
	return PageResult{Kind: ResultFiltered, Page: page, Filtered: filtered}
}

// Result is what the orchestrator hands back: one page when a single image or page
// was requested, every page in order otherwise.
type Result struct {
	Multi bool         `json:"multi" yaml:"multi"`
	Pages []PageResult `json:"pages" yaml:"pages"`
}

// Single returns the only page of a non-multi result
func (r *Result) Single() (PageResult, bool) {
	if r == nil || r.Multi || len(r.Pages) != 1 {
		return PageResult{}, false
	}
	return r.Pages[0], true
}

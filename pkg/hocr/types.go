// Package hocr reads the hOCR documents tesseract emits and flattens them into
// the same token table the TSV output produces.
package hocr

// BBox is an hOCR bounding box given by its corners
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (b BBox) Width() int  { return b.X2 - b.X1 }
func (b BBox) Height() int { return b.Y2 - b.Y1 }

// Document is a parsed hOCR file
type Document struct {
	Title    string
	Language string
	Metadata map[string]string
	Pages    []Page
}

type Page struct {
	ID    string
	BBox  BBox
	Areas []Area
}

// Area is an ocr_carea block
type Area struct {
	ID         string
	BBox       BBox
	Paragraphs []Paragraph
}

type Paragraph struct {
	ID    string
	BBox  BBox
	Lang  string
	Lines []Line
}

// Line covers ocr_line and its variants (caption, header, textfloat)
type Line struct {
	ID    string
	BBox  BBox
	Words []Word
}

// Word is an ocrx_word. Confidence is -1 when x_wconf is absent.
type Word struct {
	ID         string
	BBox       BBox
	Confidence float64
	Text       string
}

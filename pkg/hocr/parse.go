package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/nodewee/ocr-pipeline/pkg/types"
)

// lineClasses are the hOCR classes tesseract uses for text lines
var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_caption":   true,
	"ocr_header":    true,
	"ocr_textfloat": true,
	"ocr_textimage": true,
}

// Parse converts raw hOCR data into a Document
func Parse(data []byte) (*Document, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	doc := &Document{Metadata: make(map[string]string)}
	extractDocumentMeta(doc, root)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			class := ocrClass(n)
			title := attr(n, "title")
			id := attr(n, "id")
			switch {
			case class == "ocr_page":
				doc.Pages = append(doc.Pages, Page{ID: id, BBox: bboxOrZero(title)})
			case class == "ocr_carea":
				page := doc.currentPage()
				page.Areas = append(page.Areas, Area{ID: id, BBox: bboxOrZero(title)})
			case class == "ocr_par":
				area := doc.currentPage().currentArea()
				area.Paragraphs = append(area.Paragraphs, Paragraph{ID: id, BBox: bboxOrZero(title), Lang: attr(n, "lang")})
			case lineClasses[class]:
				par := doc.currentPage().currentArea().currentParagraph()
				par.Lines = append(par.Lines, Line{ID: id, BBox: bboxOrZero(title)})
			case class == "ocrx_word":
				line := doc.currentPage().currentArea().currentParagraph().currentLine()
				line.Words = append(line.Words, Word{
					ID:         id,
					BBox:       bboxOrZero(title),
					Confidence: wordConfidence(title),
					Text:       strings.TrimSpace(textContent(n)),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return doc, nil
}

// ParseTitle breaks down an hOCR title attribute into its properties.
// "bbox 100 200 300 400; x_wconf 95" gives {"bbox": [100 200 300 400], "x_wconf": [95]}
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBBox extracts the bbox property of a title attribute
func ParseBBox(title string) (BBox, bool) {
	values, ok := ParseTitle(title)["bbox"]
	if !ok || len(values) < 4 {
		return BBox{}, false
	}
	var coords [4]int
	for i := range coords {
		v, err := strconv.Atoi(values[i])
		if err != nil {
			return BBox{}, false
		}
		coords[i] = v
	}
	return BBox{X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3]}, true
}

// TokenTable flattens the document in reading order, emitting a row for every
// page, block, paragraph, line and word the way tesseract's TSV output does
func (d *Document) TokenTable() *types.TokenTable {
	table := types.NewTokenTable(0)
	for pi, page := range d.Pages {
		pageNum := pi + 1
		table.Append(structural(1, pageNum, 0, 0, 0, page.BBox))
		for ai, area := range page.Areas {
			blockNum := ai + 1
			table.Append(structural(2, pageNum, blockNum, 0, 0, area.BBox))
			for pari, par := range area.Paragraphs {
				parNum := pari + 1
				table.Append(structural(3, pageNum, blockNum, parNum, 0, par.BBox))
				for li, line := range par.Lines {
					lineNum := li + 1
					table.Append(structural(4, pageNum, blockNum, parNum, lineNum, line.BBox))
					for wi, word := range line.Words {
						table.Append(types.Token{
							Level:      5,
							PageNum:    pageNum,
							BlockNum:   blockNum,
							ParNum:     parNum,
							LineNum:    lineNum,
							WordNum:    wi + 1,
							BBox:       toBoundingBox(word.BBox),
							Confidence: word.Confidence,
							Text:       word.Text,
						})
					}
				}
			}
		}
	}
	return table
}

func structural(level, page, block, par, line int, box BBox) types.Token {
	return types.Token{
		Level:      level,
		PageNum:    page,
		BlockNum:   block,
		ParNum:     par,
		LineNum:    line,
		BBox:       toBoundingBox(box),
		Confidence: types.NoConfidence,
	}
}

func toBoundingBox(b BBox) types.BoundingBox {
	return types.BoundingBox{Left: b.X1, Top: b.Y1, Width: b.Width(), Height: b.Height()}
}

// The current* helpers return the last container, creating an implicit one when
// the markup skips a level.

func (d *Document) currentPage() *Page {
	if len(d.Pages) == 0 {
		d.Pages = append(d.Pages, Page{})
	}
	return &d.Pages[len(d.Pages)-1]
}

func (p *Page) currentArea() *Area {
	if len(p.Areas) == 0 {
		p.Areas = append(p.Areas, Area{})
	}
	return &p.Areas[len(p.Areas)-1]
}

func (a *Area) currentParagraph() *Paragraph {
	if len(a.Paragraphs) == 0 {
		a.Paragraphs = append(a.Paragraphs, Paragraph{})
	}
	return &a.Paragraphs[len(a.Paragraphs)-1]
}

func (p *Paragraph) currentLine() *Line {
	if len(p.Lines) == 0 {
		p.Lines = append(p.Lines, Line{})
	}
	return &p.Lines[len(p.Lines)-1]
}

func bboxOrZero(title string) BBox {
	box, _ := ParseBBox(title)
	return box
}

func wordConfidence(title string) float64 {
	values, ok := ParseTitle(title)["x_wconf"]
	if !ok || len(values) == 0 {
		return types.NoConfidence
	}
	conf, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return types.NoConfidence
	}
	return conf
}

// ocrClass returns the first ocr_/ocrx_ class of an element
func ocrClass(n *html.Node) string {
	for _, class := range strings.Fields(attr(n, "class")) {
		if strings.HasPrefix(class, "ocr_") || strings.HasPrefix(class, "ocrx_") {
			return class
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

// extractDocumentMeta extracts title, language and ocr-* meta tags
func extractDocumentMeta(doc *Document, root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := attr(n, "lang"); lang != "" {
					doc.Language = lang
				} else if lang := attr(n, "xml:lang"); lang != "" {
					doc.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, content := attr(n, "name"), attr(n, "content")
				if strings.HasPrefix(name, "ocr-") && content != "" {
					doc.Metadata[name] = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// decodeCharset converts single-byte encoded hOCR to UTF-8
func decodeCharset(data []byte) ([]byte, error) {
	enc := declaredEncoding(data)
	if enc == nil {
		return data, nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hOCR charset: %w", err)
	}
	return decoded, nil
}

// declaredEncoding reads the charset= declaration from the head; nil means UTF-8
func declaredEncoding(data []byte) encoding.Encoding {
	head := strings.ToLower(string(data[:min(len(data), 2048)]))
	idx := strings.Index(head, "charset=")
	if idx < 0 {
		return nil
	}
	rest := head[idx+len("charset="):]
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "utf-8", "utf8":
		return nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	default:
		return charmap.ISO8859_1
	}
}

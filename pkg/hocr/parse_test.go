package hocr

import (
	"testing"

	"github.com/nodewee/ocr-pipeline/pkg/types"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='tesseract 5.3.0' />
  <meta name='ocr-capabilities' content='ocr_page ocr_carea ocr_par ocr_line ocrx_word ocrp_wconf'/>
 </head>
 <body>
  <div class='ocr_page' id='page_1' title='image "stdin"; bbox 0 0 200 80; ppageno 0; scan_res 70 70'>
   <div class='ocr_carea' id='block_1_1' title="bbox 10 40 120 52">
    <p class='ocr_par' id='par_1_1' lang='eng' title="bbox 10 40 120 52">
     <span class='ocr_line' id='line_1_1' title="bbox 10 40 120 52; baseline 0 -2; x_size 13">
      <span class='ocrx_word' id='word_1_1' title='bbox 10 40 43 50; x_wconf 91'>Hello</span>
      <span class='ocrx_word' id='word_1_2' title='bbox 50 40 120 52; x_wconf 87'><strong>World</strong></span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Language != "en" {
		t.Errorf("Language = %q, want en", doc.Language)
	}
	if doc.Metadata["ocr-system"] != "tesseract 5.3.0" {
		t.Errorf("ocr-system = %q", doc.Metadata["ocr-system"])
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}

	words := doc.Pages[0].Areas[0].Paragraphs[0].Lines[0].Words
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[1].Text != "World" {
		t.Errorf("nested markup text = %q, want World", words[1].Text)
	}
	if words[0].Confidence != 91 {
		t.Errorf("confidence = %v, want 91", words[0].Confidence)
	}
	if words[0].BBox != (BBox{X1: 10, Y1: 40, X2: 43, Y2: 50}) {
		t.Errorf("bbox = %+v", words[0].BBox)
	}
	if doc.Pages[0].Areas[0].Paragraphs[0].Lang != "eng" {
		t.Errorf("paragraph lang = %q", doc.Pages[0].Areas[0].Paragraphs[0].Lang)
	}
}

func TestParseNoPages(t *testing.T) {
	if _, err := Parse([]byte("<html><body><p>nothing</p></body></html>")); err == nil {
		t.Fatal("expected error for document without ocr_page")
	}
}

func TestParseLatin1(t *testing.T) {
	// "café" encoded as ISO-8859-1
	data := []byte("<html><head><meta http-equiv='Content-Type' content='text/html; charset=iso-8859-1'></head><body>" +
		"<div class='ocr_page' title='bbox 0 0 10 10'><span class='ocrx_word' title='bbox 0 0 5 5; x_wconf 80'>caf\xe9</span></div></body></html>")

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	table := doc.TokenTable()
	if got := table.Text[table.Len()-1]; got != "café" {
		t.Errorf("decoded word = %q, want café", got)
	}
}

func TestTokenTable(t *testing.T) {
	doc, err := Parse([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	table := doc.TokenTable()
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// page, block, paragraph, line, two words
	if table.Len() != 6 {
		t.Fatalf("expected 6 rows, got %d", table.Len())
	}

	wantLevels := []int{1, 2, 3, 4, 5, 5}
	for i, want := range wantLevels {
		if table.Level[i] != want {
			t.Errorf("row %d level = %d, want %d", i, table.Level[i], want)
		}
	}

	for i := 0; i < 4; i++ {
		if table.Conf[i] != types.NoConfidence || table.Text[i] != "" {
			t.Errorf("structural row %d = conf %v text %q", i, table.Conf[i], table.Text[i])
		}
	}

	second := table.Token(5)
	if second.WordNum != 2 || second.LineNum != 1 || second.BlockNum != 1 || second.PageNum != 1 {
		t.Errorf("unexpected numbering: %+v", second)
	}
	if second.BBox != (types.BoundingBox{Left: 50, Top: 40, Width: 70, Height: 12}) {
		t.Errorf("bbox = %+v", second.BBox)
	}
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle("bbox 100 200 300 400; x_wconf 95")
	if len(props["bbox"]) != 4 || props["x_wconf"][0] != "95" {
		t.Errorf("ParseTitle() = %v", props)
	}

	if _, ok := ParseBBox("x_wconf 95"); ok {
		t.Error("ParseBBox() should fail without bbox")
	}
	if _, ok := ParseBBox("bbox 1 2 x 4"); ok {
		t.Error("ParseBBox() should fail on non-numeric coordinates")
	}
}

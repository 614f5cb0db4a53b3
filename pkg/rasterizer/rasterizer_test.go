package rasterizer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/disintegration/imaging"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

func ensurePdftoppmAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		t.Skip("pdftoppm not installed in PATH")
	}
}

// writeTestPDF creates a PDF with one line of text per page
func writeTestPDF(t *testing.T, pages ...string) string {
	t.Helper()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 24)
	for _, text := range pages {
		pdf.AddPage()
		pdf.Text(72, 100, text)
	}

	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
	return path
}

func newTestRasterizer(dpi int) *Rasterizer {
	cfg := config.BaseConfig()
	cfg.DPI = dpi
	return NewRasterizer(cfg, logger.Discard())
}

func TestConvertAllPages(t *testing.T) {
	ensurePdftoppmAvailable(t)

	path := writeTestPDF(t, "one", "two", "three")
	images, err := newTestRasterizer(36).Convert(context.Background(), path, interfaces.PageRange{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(images))
	}

	// A4 is 595x842 pt, so 36 DPI gives roughly 298x421 px
	b := images[0].Bounds()
	if b.Dx() < 290 || b.Dx() > 305 || b.Dy() < 415 || b.Dy() > 428 {
		t.Errorf("unexpected page size at 36 DPI: %v", b)
	}
}

func TestConvertPageRange(t *testing.T) {
	ensurePdftoppmAvailable(t)

	path := writeTestPDF(t, "one", "two", "three")
	r := newTestRasterizer(36)

	images, err := r.Convert(context.Background(), path, interfaces.PageRange{First: 2, Last: 3})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(images) != 2 {
		t.Errorf("expected 2 images, got %d", len(images))
	}

	img, err := r.ConvertPage(context.Background(), path, 2)
	if err != nil {
		t.Fatalf("ConvertPage() error = %v", err)
	}
	if img.Bounds().Empty() {
		t.Error("ConvertPage() returned an empty image")
	}

	if _, err := r.ConvertPage(context.Background(), path, 10); !errors.Is(err, utils.ErrPDFConversion) {
		t.Errorf("page past the end: expected conversion error, got %v", err)
	}
}

func TestConvertCorruptPDF(t *testing.T) {
	ensurePdftoppmAvailable(t)

	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 this is not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := newTestRasterizer(36).Convert(context.Background(), path, interfaces.PageRange{})
	if !errors.Is(err, utils.ErrPDFConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestConvertErrors(t *testing.T) {
	r := newTestRasterizer(72)
	ctx := context.Background()

	_, err := r.Convert(ctx, filepath.Join(t.TempDir(), "missing.pdf"), interfaces.PageRange{})
	if !errors.Is(err, utils.ErrFileNotFound) {
		t.Errorf("missing file: expected not found error, got %v", err)
	}

	existing := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(existing, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Convert(ctx, existing, interfaces.PageRange{First: 3, Last: 1}); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("inverted range: expected validation error, got %v", err)
	}
	if _, err := r.ConvertPage(ctx, existing, 0); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("page 0: expected validation error, got %v", err)
	}
}

func TestConvertMissingTool(t *testing.T) {
	cfg := config.BaseConfig()
	cfg.PopplerPath = filepath.Join(t.TempDir(), "no-such-dir")
	r := NewRasterizer(cfg, logger.Discard())

	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := r.Convert(context.Background(), path, interfaces.PageRange{})
	if !errors.Is(err, utils.ErrPDFConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestSave(t *testing.T) {
	images := []image.Image{
		imaging.New(10, 10, color.White),
		imaging.New(10, 10, color.Black),
	}
	dir := filepath.Join(t.TempDir(), "out", "nested")

	paths, err := newTestRasterizer(72).Save(images, dir, "report", "JPG")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "report_001.jpg"),
		filepath.Join(dir, "report_002.jpg"),
	}
	if len(paths) != len(want) {
		t.Fatalf("Save() returned %v, want %v", paths, want)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("path[%d] = %s, want %s", i, p, want[i])
		}
		if _, err := imaging.Open(p); err != nil {
			t.Errorf("saved image %s is unreadable: %v", p, err)
		}
	}
}

func TestSaveEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")

	paths, err := newTestRasterizer(72).Save(nil, dir, "page", "png")
	if err != nil || len(paths) != 0 {
		t.Fatalf("Save(nil) = %v, %v", paths, err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("output directory should not be created for empty input")
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	images := []image.Image{imaging.New(4, 4, color.White)}
	_, err := newTestRasterizer(72).Save(images, t.TempDir(), "page", "heic")
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		name string
		num  int
		ok   bool
	}{
		{"page-1.png", 1, true},
		{"page-07.png", 7, true},
		{"page-123.png", 123, true},
		{"page-x.png", 0, false},
		{"other-1.png", 0, false},
		{"page-1.ppm", 0, false},
	}
	for _, tt := range tests {
		num, ok := pageNumber(tt.name)
		if num != tt.num || ok != tt.ok {
			t.Errorf("pageNumber(%q) = %d, %v; want %d, %v", tt.name, num, ok, tt.num, tt.ok)
		}
	}
}

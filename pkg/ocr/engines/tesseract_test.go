package engines

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os/exec"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

// renderText draws text with the basic bitmap font and upscales it so
// tesseract has enough pixels per glyph
func renderText(text string) image.Image {
	img := imaging.New(12+7*len(text), 30, color.White)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6, 20),
	}
	d.DrawString(text)
	return imaging.Resize(img, img.Bounds().Dx()*4, 0, imaging.Lanczos)
}

func testConfig(format types.DataFormat) *config.Config {
	cfg := config.BaseConfig()
	cfg.DataFormat = format
	return cfg
}

func TestTesseractEngineText(t *testing.T) {
	ensureTesseractAvailable(t)

	engine := NewTesseractEngine(testConfig(types.DataFormatTSV), logger.Discard())
	text, err := engine.Text(context.Background(), renderText("HELLO WORLD"))
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if !strings.Contains(strings.ToUpper(text), "HELLO") {
		t.Fatalf("unexpected OCR output: %q", text)
	}
}

func TestTesseractEngineData(t *testing.T) {
	ensureTesseractAvailable(t)

	for _, format := range []types.DataFormat{types.DataFormatTSV, types.DataFormatHOCR} {
		t.Run(string(format), func(t *testing.T) {
			engine := NewTesseractEngine(testConfig(format), logger.Discard())
			table, err := engine.Data(context.Background(), renderText("HELLO WORLD"))
			if err != nil {
				t.Fatalf("Data() error = %v", err)
			}
			if err := table.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if table.WordCount() == 0 {
				t.Fatalf("expected recognized words, got none")
			}
		})
	}
}

func TestTesseractEngineMissingBinary(t *testing.T) {
	cfg := testConfig(types.DataFormatTSV)
	cfg.TesseractPath = "/nonexistent/tesseract"

	engine := NewTesseractEngine(cfg, logger.Discard())
	_, err := engine.Text(context.Background(), renderText("X"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, utils.ErrOCR) {
		t.Errorf("expected OCR error, got %v", err)
	}
}

func TestTesseractEngineMissingLanguage(t *testing.T) {
	ensureTesseractAvailable(t)

	cfg := testConfig(types.DataFormatTSV)
	cfg.Language = "zzz_missing"

	engine := NewTesseractEngine(cfg, logger.Discard())
	_, err := engine.Text(context.Background(), renderText("X"))
	if !errors.Is(err, utils.ErrOCR) {
		t.Fatalf("expected OCR error, got %v", err)
	}

	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Context["stderr"] == "" {
		t.Errorf("expected engine diagnostics in error context, got %v", err)
	}
}

func TestGosseractStubOrEngine(t *testing.T) {
	engine, err := NewGosseractEngine(testConfig(types.DataFormatTSV), logger.Discard())
	if err != nil {
		if !errors.Is(err, ErrGosseractNotEnabled) {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if engine.Name() != "gosseract" {
		t.Errorf("Name() = %q", engine.Name())
	}
}

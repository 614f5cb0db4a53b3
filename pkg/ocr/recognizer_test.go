package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

type fakeEngine struct {
	text  string
	table *types.TokenTable
	err   error
	seen  []image.Rectangle
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Text(_ context.Context, img image.Image) (string, error) {
	f.seen = append(f.seen, img.Bounds())
	return f.text, f.err
}

func (f *fakeEngine) Data(_ context.Context, img image.Image) (*types.TokenTable, error) {
	f.seen = append(f.seen, img.Bounds())
	return f.table, f.err
}

func blankImage() image.Image {
	return imaging.New(40, 20, color.White)
}

func TestRecognizerExtractText(t *testing.T) {
	engine := &fakeEngine{text: "\n  Hello World \n\f"}
	r := NewRecognizerWithEngine(engine, logger.Discard())

	text, err := r.ExtractText(context.Background(), FromImage(blankImage()))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if text != "Hello World" {
		t.Errorf("ExtractText() = %q", text)
	}
}

func TestRecognizerExtractData(t *testing.T) {
	engine := &fakeEngine{table: sampleTable()}
	r := NewRecognizerWithEngine(engine, logger.Discard())

	table, err := r.ExtractData(context.Background(), FromImage(blankImage()))
	if err != nil {
		t.Fatalf("ExtractData() error = %v", err)
	}
	if table.Len() != 6 {
		t.Errorf("expected all 6 rows including non-text regions, got %d", table.Len())
	}
}

func TestRecognizerExtractDataInconsistentTable(t *testing.T) {
	table := sampleTable()
	table.Conf = table.Conf[:2]

	r := NewRecognizerWithEngine(&fakeEngine{table: table}, logger.Discard())
	_, err := r.ExtractData(context.Background(), FromImage(blankImage()))
	if !errors.Is(err, utils.ErrOCR) {
		t.Fatalf("expected OCR error, got %v", err)
	}
}

func TestRecognizerExtractFiltered(t *testing.T) {
	r := NewRecognizerWithEngine(&fakeEngine{table: sampleTable()}, logger.Discard())

	got, err := r.ExtractFiltered(context.Background(), FromImage(blankImage()), 50)
	if err != nil {
		t.Fatalf("ExtractFiltered() error = %v", err)
	}
	if got.FullText != "Hello again" || got.TotalWords != 2 {
		t.Errorf("unexpected filtered result: %+v", got)
	}
}

func TestRecognizerEngineError(t *testing.T) {
	engineErr := utils.NewOCRError("OCR processing failed", errors.New("boom"))
	r := NewRecognizerWithEngine(&fakeEngine{err: engineErr}, logger.Discard())

	if _, err := r.ExtractText(context.Background(), FromImage(blankImage())); !errors.Is(err, utils.ErrOCR) {
		t.Errorf("ExtractText: expected OCR error, got %v", err)
	}
	if _, err := r.ExtractFiltered(context.Background(), FromImage(blankImage()), 0); !errors.Is(err, utils.ErrOCR) {
		t.Errorf("ExtractFiltered: expected OCR error, got %v", err)
	}
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	if err := imaging.Save(blankImage(), path); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, blankImage(), imaging.JPEG); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	engine := &fakeEngine{text: "ok"}
	r := NewRecognizerWithEngine(engine, logger.Discard())
	ctx := context.Background()

	for _, src := range []interface {
		Load() (image.Image, error)
		String() string
	}{FromImage(blankImage()), FromPath(path), FromBytes(buf.Bytes())} {
		if _, err := r.ExtractText(ctx, src); err != nil {
			t.Errorf("%s: ExtractText() error = %v", src, err)
		}
	}

	want := image.Rect(0, 0, 40, 20)
	for i, b := range engine.seen {
		if b.Dx() != want.Dx() || b.Dy() != want.Dy() {
			t.Errorf("source %d decoded to %v, want %v", i, b, want)
		}
	}
}

func TestSourceErrors(t *testing.T) {
	r := NewRecognizerWithEngine(&fakeEngine{}, logger.Discard())
	ctx := context.Background()

	_, err := r.ExtractText(ctx, FromPath(filepath.Join(t.TempDir(), "missing.png")))
	if !errors.Is(err, utils.ErrFileNotFound) {
		t.Errorf("missing file: expected not found error, got %v", err)
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ExtractText(ctx, FromPath(garbage)); !errors.Is(err, utils.ErrOCR) {
		t.Errorf("undecodable file: expected OCR error, got %v", err)
	}

	if _, err := r.ExtractText(ctx, FromBytes(nil)); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("empty bytes: expected validation error, got %v", err)
	}
	if _, err := r.ExtractText(ctx, FromImage(nil)); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("nil image: expected validation error, got %v", err)
	}
}

func TestNewEngine(t *testing.T) {
	cfg := config.BaseConfig()

	engine, err := NewEngine(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewEngine(cli) error = %v", err)
	}
	if engine.Name() != "tesseract" {
		t.Errorf("Name() = %q", engine.Name())
	}

	cfg.Engine = "paddle"
	if _, err := NewEngine(cfg, logger.Discard()); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("expected validation error for unknown engine, got %v", err)
	}

	if got := AvailableEngines(); len(got) == 0 || got[0] != types.EngineCLI {
		t.Errorf("AvailableEngines() = %v", got)
	}
}

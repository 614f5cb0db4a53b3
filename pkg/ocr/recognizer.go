package ocr

import (
	"context"
	"strings"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// Recognizer extracts text from one image at a time. Language and engine
// arguments are fixed by the engine it was built with.
type Recognizer struct {
	engine interfaces.OCREngine
	logger *logger.Logger
}

// Ensure Recognizer implements the Recognizer interface
var _ interfaces.Recognizer = (*Recognizer)(nil)

// NewRecognizer builds the engine named by the configuration
func NewRecognizer(cfg *config.Config, log *logger.Logger) (*Recognizer, error) {
	engine, err := NewEngine(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("Recognizer initialized with engine %s, language: %s", engine.Name(), cfg.Language)
	return NewRecognizerWithEngine(engine, log), nil
}

// NewRecognizerWithEngine wraps an existing engine
func NewRecognizerWithEngine(engine interfaces.OCREngine, log *logger.Logger) *Recognizer {
	return &Recognizer{
		engine: engine,
		logger: log.WithField("component", "recognizer"),
	}
}

// Engine returns the underlying OCR engine
func (r *Recognizer) Engine() interfaces.OCREngine {
	return r.engine
}

// ExtractText returns the recognized text trimmed of surrounding whitespace
func (r *Recognizer) ExtractText(ctx context.Context, src interfaces.ImageSource) (string, error) {
	img, err := src.Load()
	if err != nil {
		return "", err
	}

	b := img.Bounds()
	r.logger.Info("Extracting text from image %s (size: %dx%d)", src, b.Dx(), b.Dy())

	text, err := r.engine.Text(ctx, img)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	r.logger.Debug("Extracted %d characters", len(text))
	return text, nil
}

// ExtractData returns every region the engine detected, including non-text
// regions with NoConfidence and empty text
func (r *Recognizer) ExtractData(ctx context.Context, src interfaces.ImageSource) (*types.TokenTable, error) {
	img, err := src.Load()
	if err != nil {
		return nil, err
	}

	r.logger.Info("Extracting detailed data from image %s", src)

	table, err := r.engine.Data(ctx, img)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, utils.NewOCRError("engine returned an inconsistent token table", err)
	}

	stats := FilterTokens(table, 0)
	r.logger.Info("Extracted %d text elements, avg confidence: %.2f%%", table.WordCount(), stats.AvgConfidence)
	return table, nil
}

// ExtractFiltered keeps words with confidence >= minConfidence and aggregates them
func (r *Recognizer) ExtractFiltered(ctx context.Context, src interfaces.ImageSource, minConfidence float64) (*types.FilteredResult, error) {
	table, err := r.ExtractData(ctx, src)
	if err != nil {
		return nil, err
	}

	result := FilterTokens(table, minConfidence)
	r.logger.Debug("%d of %d words passed confidence %.1f", result.TotalWords, table.WordCount(), minConfidence)
	return result, nil
}

package interfaces

import (
	"context"
	"image"

	"github.com/nodewee/ocr-pipeline/pkg/types"
)

// OCREngine defines the interface for different OCR implementations.
// Language and engine arguments are fixed when the engine is built.
type OCREngine interface {
	// Name returns the name of the OCR engine
	Name() string

	// Text recognizes img and returns the raw text blob
	Text(ctx context.Context, img image.Image) (string, error)

	// Data recognizes img and returns every detected region as a token table
	Data(ctx context.Context, img image.Image) (*types.TokenTable, error)
}

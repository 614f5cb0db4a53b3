package core

import (
	"github.com/nodewee/ocr-pipeline/pkg/constants"
	"github.com/nodewee/ocr-pipeline/pkg/types"
)

// ProcessOptions controls a single Process call
type ProcessOptions struct {
	ExtractData bool

	// Page is the 1-indexed PDF page to process; 0 means every page
	Page int

	// MinConfidence enables filtered output when set
	MinConfidence *float64

	// SaveImagesDir persists rasterized PDF pages when non-empty
	SaveImagesDir string
	ImageFormat   string
}

// ProcessOption configures a Process call
type ProcessOption func(*ProcessOptions)

// WithExtractData requests the full token table instead of plain text
func WithExtractData() ProcessOption {
	return func(o *ProcessOptions) {
		o.ExtractData = true
	}
}

// WithPage restricts PDF processing to one page
func WithPage(page int) ProcessOption {
	return func(o *ProcessOptions) {
		o.Page = page
	}
}

// WithMinConfidence requests words with confidence >= v
func WithMinConfidence(v float64) ProcessOption {
	return func(o *ProcessOptions) {
		o.MinConfidence = &v
	}
}

// WithSaveImages writes rasterized pages to dir in the given format
func WithSaveImages(dir, format string) ProcessOption {
	return func(o *ProcessOptions) {
		o.SaveImagesDir = dir
		o.ImageFormat = format
	}
}

func newProcessOptions(opts []ProcessOption) ProcessOptions {
	o := ProcessOptions{ImageFormat: constants.DefaultImageFormat}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Mode picks the recognizer output. A confidence threshold wins over
// ExtractData, which wins over plain text.
func (o ProcessOptions) Mode() types.Mode {
	switch {
	case o.MinConfidence != nil:
		return types.ModeFiltered
	case o.ExtractData:
		return types.ModeData
	default:
		return types.ModeText
	}
}

package interfaces

import (
	"context"
	"image"

	"github.com/nodewee/ocr-pipeline/pkg/types"
)

// PageRange bounds a PDF conversion, 1-indexed and inclusive.
// Zero First or Last leaves that side open.
type PageRange struct {
	First int
	Last  int
}

// SinglePage returns the range covering only page n
func SinglePage(n int) PageRange {
	return PageRange{First: n, Last: n}
}

// Rasterizer turns PDF pages into images
type Rasterizer interface {
	// Convert renders the requested pages in page order
	Convert(ctx context.Context, pdfPath string, pages PageRange) ([]image.Image, error)

	// Save writes images as {baseName}_{idx:03d}.{format} into outputDir
	Save(images []image.Image, outputDir, baseName, format string) ([]string, error)
}

// ImageSource is anything that can be normalized into an in-memory image
type ImageSource interface {
	Load() (image.Image, error)
	String() string
}

// Recognizer runs the three extraction modes over one image
type Recognizer interface {
	ExtractText(ctx context.Context, src ImageSource) (string, error)
	ExtractData(ctx context.Context, src ImageSource) (*types.TokenTable, error)
	ExtractFiltered(ctx context.Context, src ImageSource, minConfidence float64) (*types.FilteredResult, error)
}

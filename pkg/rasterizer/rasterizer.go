package rasterizer

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/constants"
	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// Rasterizer renders PDF pages to images with poppler's pdftoppm
type Rasterizer struct {
	pdftoppmPath string
	dpi          int
	logger       *logger.Logger
}

// Ensure Rasterizer implements the Rasterizer interface
var _ interfaces.Rasterizer = (*Rasterizer)(nil)

// NewRasterizer creates a rasterizer. PopplerPath is the directory holding
// pdftoppm; when empty pdftoppm is looked up on PATH.
func NewRasterizer(cfg *config.Config, log *logger.Logger) *Rasterizer {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = constants.DefaultImageDPI
	}

	return &Rasterizer{
		pdftoppmPath: utils.ResolveTool(cfg.PopplerPath, constants.PdftoppmExecutable),
		dpi:          dpi,
		logger:       log.WithField("component", "rasterizer"),
	}
}

// DPI returns the resolution pages are rendered at
func (r *Rasterizer) DPI() int {
	return r.dpi
}

// Convert renders the pages in the range, in page order
func (r *Rasterizer) Convert(ctx context.Context, pdfPath string, pages interfaces.PageRange) ([]image.Image, error) {
	if err := utils.CheckFileExists(pdfPath); err != nil {
		return nil, err
	}
	if err := validateRange(pages); err != nil {
		return nil, err
	}

	tm := utils.NewTempManager(constants.AppName+"-pages", r.logger)
	var images []image.Image
	err := tm.WithCleanup(func() error {
		outputDir, err := tm.CreateTempDir()
		if err != nil {
			return utils.NewIOError("failed to create temporary directory for pages", err)
		}

		if err := r.runPdftoppm(ctx, pdfPath, pages, outputDir); err != nil {
			return err
		}

		images, err = loadPages(outputDir)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return nil, utils.NewConversionError(constants.ErrNoPagesExtracted, nil).
			WithContext("pdf", pdfPath)
	}

	r.logger.Info("Converted %d page(s) from %s at %d DPI", len(images), pdfPath, r.dpi)
	return images, nil
}

// ConvertPage renders a single 1-indexed page
func (r *Rasterizer) ConvertPage(ctx context.Context, pdfPath string, page int) (image.Image, error) {
	if page < 1 {
		return nil, utils.NewValidationError(fmt.Sprintf("page number must be >= 1, got %d", page), nil)
	}

	images, err := r.Convert(ctx, pdfPath, interfaces.SinglePage(page))
	if err != nil {
		return nil, err
	}
	if len(images) != 1 {
		return nil, utils.NewConversionError(fmt.Sprintf("expected 1 image for page %d, got %d", page, len(images)), nil)
	}
	return images[0], nil
}

// Save writes images as {baseName}_{idx:03d}.{format} with idx starting at 1
// and returns the written paths. Nothing is created for an empty slice.
func (r *Rasterizer) Save(images []image.Image, outputDir, baseName, format string) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = constants.DefaultImageFormat
	}
	if _, err := imaging.FormatFromExtension(format); err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("unsupported image format: %s", format), err)
	}

	if baseName == "" {
		baseName = constants.DefaultSaveBaseName
	}
	baseName = utils.SanitizeFileName(baseName)

	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, utils.NewIOError(fmt.Sprintf("failed to create output directory: %s", outputDir), err)
	}

	paths := make([]string, 0, len(images))
	for i, img := range images {
		name := fmt.Sprintf(constants.SavedImagePattern, baseName, i+1, format)
		path := utils.NormalizePath(filepath.Join(outputDir, name))
		if err := imaging.Save(img, path); err != nil {
			return paths, utils.NewIOError(fmt.Sprintf("failed to save image: %s", path), err)
		}
		paths = append(paths, path)
	}

	r.logger.Info("Saved %d image(s) to %s", len(paths), outputDir)
	return paths, nil
}

func (r *Rasterizer) runPdftoppm(ctx context.Context, pdfPath string, pages interfaces.PageRange, outputDir string) error {
	args := []string{"-r", strconv.Itoa(r.dpi)}
	if pages.First > 0 {
		args = append(args, "-f", strconv.Itoa(pages.First))
	}
	if pages.Last > 0 {
		args = append(args, "-l", strconv.Itoa(pages.Last))
	}
	args = append(args, "-png",
		utils.NormalizePath(pdfPath),
		filepath.Join(outputDir, constants.PDFPagePrefix))

	r.logger.Debug("Running %s %v", r.pdftoppmPath, args)
	out, err := utils.RunTool(ctx, utils.ToolCommand{Path: r.pdftoppmPath, Args: args})
	if err != nil {
		r.logger.Error("PDF conversion failed: %v", err)
		return utils.NewConversionError(fmt.Sprintf("failed to convert PDF: %s", pdfPath), err).
			WithContext("stderr", out.Stderr)
	}
	return nil
}

// loadPages decodes pdftoppm's {prefix}-{N}.png files ordered by N.
// The width of N depends on the page count, so ordering is numeric.
func loadPages(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, utils.NewIOError("failed to read rendered pages", err)
	}

	type page struct {
		num  int
		path string
	}
	var found []page
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if num, ok := pageNumber(entry.Name()); ok {
			found = append(found, page{num: num, path: filepath.Join(dir, entry.Name())})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].num < found[j].num })

	images := make([]image.Image, 0, len(found))
	for _, p := range found {
		img, err := imaging.Open(p.path)
		if err != nil {
			return nil, utils.NewConversionError(fmt.Sprintf("failed to decode rendered page %d", p.num), err)
		}
		images = append(images, img)
	}
	return images, nil
}

func pageNumber(name string) (int, bool) {
	stem, ok := strings.CutSuffix(name, ".png")
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutPrefix(stem, constants.PDFPagePrefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func validateRange(pages interfaces.PageRange) error {
	if pages.First < 0 || pages.Last < 0 {
		return utils.NewValidationError(fmt.Sprintf("page numbers must be positive: %d-%d", pages.First, pages.Last), nil)
	}
	if pages.First > 0 && pages.Last > 0 && pages.First > pages.Last {
		return utils.NewValidationError(fmt.Sprintf("first page %d is after last page %d", pages.First, pages.Last), nil)
	}
	return nil
}

package core

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/ocr"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// ClassifyFile maps a path to the kind of input it names, by extension only
func ClassifyFile(path string) types.FileKind {
	ext := utils.GetExtension(path)
	switch {
	case utils.IsPDFFile(ext):
		return types.FileKindPDF
	case utils.IsImageFile(ext):
		return types.FileKindImage
	default:
		return types.FileKindUnsupported
	}
}

// Orchestrator routes input files through the rasterizer and recognizer.
// Processing stops at the first failing page and errors are returned unchanged.
type Orchestrator struct {
	rasterizer interfaces.Rasterizer
	recognizer interfaces.Recognizer
	timeout    time.Duration
	logger     *logger.Logger
}

// NewOrchestrator composes already constructed components
func NewOrchestrator(rasterizer interfaces.Rasterizer, recognizer interfaces.Recognizer, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		rasterizer: rasterizer,
		recognizer: recognizer,
		logger:     log,
	}
}

// SetTimeout bounds every Process call; 0 disables the deadline
func (o *Orchestrator) SetTimeout(d time.Duration) {
	o.timeout = d
}

// Process validates and classifies the input, then hands it to ProcessPDF or ProcessImage
func (o *Orchestrator) Process(ctx context.Context, path string, opts ...ProcessOption) (*types.Result, error) {
	if err := utils.CheckFileExists(path); err != nil {
		return nil, err
	}

	kind := ClassifyFile(path)
	o.logger.Debug("Classified %s as %s", path, kind)

	switch kind {
	case types.FileKindPDF:
		return o.ProcessPDF(ctx, path, opts...)
	case types.FileKindImage:
		return o.ProcessImage(ctx, path, opts...)
	default:
		return nil, utils.NewUnsupportedError(
			fmt.Sprintf("unsupported file type: .%s", utils.GetExtension(path)), nil).
			WithContext("path", path)
	}
}

// ProcessImage recognizes a single image file
func (o *Orchestrator) ProcessImage(ctx context.Context, path string, opts ...ProcessOption) (*types.Result, error) {
	options := newProcessOptions(opts)
	if options.Page != 0 {
		o.logger.Warn("Page number %d ignored for image input %s", options.Page, path)
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	o.logger.Progress("🖼️", "Recognizing image %s (%s mode)", path, options.Mode())
	page, err := o.recognize(ctx, ocr.FromPath(path), 1, options)
	if err != nil {
		return nil, o.contextError(ctx, err)
	}

	return &types.Result{Pages: []types.PageResult{page}}, nil
}

// ProcessPDF rasterizes the requested pages and recognizes them in page order.
// A specific page gives a single result; otherwise every page is returned.
func (o *Orchestrator) ProcessPDF(ctx context.Context, path string, opts ...ProcessOption) (*types.Result, error) {
	options := newProcessOptions(opts)
	if options.Page < 0 {
		return nil, utils.NewValidationError(fmt.Sprintf("page number must be >= 1, got %d", options.Page), nil)
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	pages := interfaces.PageRange{}
	if options.Page > 0 {
		pages = interfaces.SinglePage(options.Page)
	}

	o.logger.Progress("📄", "Rasterizing %s", path)
	images, err := o.rasterizer.Convert(ctx, path, pages)
	if err != nil {
		return nil, o.contextError(ctx, err)
	}

	if options.SaveImagesDir != "" {
		saved, err := o.rasterizer.Save(images, options.SaveImagesDir, utils.GetFileStem(path), options.ImageFormat)
		if err != nil {
			return nil, err
		}
		o.logger.Info("Saved %d page image(s) to %s", len(saved), options.SaveImagesDir)
	}

	if options.Page > 0 {
		if len(images) != 1 {
			return nil, utils.NewConversionError(
				fmt.Sprintf("expected 1 image for page %d, got %d", options.Page, len(images)), nil)
		}
		page, err := o.recognize(ctx, ocr.FromImage(images[0]), options.Page, options)
		if err != nil {
			return nil, o.contextError(ctx, err)
		}
		return &types.Result{Pages: []types.PageResult{page}}, nil
	}

	return o.recognizeAll(ctx, images, options)
}

func (o *Orchestrator) recognizeAll(ctx context.Context, images []image.Image, options ProcessOptions) (*types.Result, error) {
	result := &types.Result{
		Multi: true,
		Pages: make([]types.PageResult, 0, len(images)),
	}

	for i, img := range images {
		if ctx.Err() != nil {
			return nil, o.contextError(ctx, nil)
		}

		o.logger.Progress("🔍", "Recognizing page %d/%d", i+1, len(images))
		page, err := o.recognize(ctx, ocr.FromImage(img), i+1, options)
		if err != nil {
			err = o.contextError(ctx, err)
			o.logger.Error("Page %d failed: %v", i+1, err)
			return nil, err
		}
		result.Pages = append(result.Pages, page)
	}

	return result, nil
}

func (o *Orchestrator) recognize(ctx context.Context, src interfaces.ImageSource, pageNum int, options ProcessOptions) (types.PageResult, error) {
	switch options.Mode() {
	case types.ModeFiltered:
		filtered, err := o.recognizer.ExtractFiltered(ctx, src, *options.MinConfidence)
		if err != nil {
			return types.PageResult{}, err
		}
		return types.NewFilteredResult(pageNum, filtered), nil

	case types.ModeData:
		data, err := o.recognizer.ExtractData(ctx, src)
		if err != nil {
			return types.PageResult{}, err
		}
		return types.NewDataResult(pageNum, data), nil

	default:
		text, err := o.recognizer.ExtractText(ctx, src)
		if err != nil {
			return types.PageResult{}, err
		}
		return types.NewTextResult(pageNum, text), nil
	}
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}

// contextError replaces err with a cancelled error when ctx is done. A killed
// child process otherwise surfaces as an engine or conversion failure.
func (o *Orchestrator) contextError(ctx context.Context, err error) error {
	switch ctx.Err() {
	case nil:
		return err
	case context.DeadlineExceeded:
		return utils.NewCancelledError(fmt.Sprintf("processing timed out after %s", o.timeout), ctx.Err())
	default:
		return utils.NewCancelledError("processing cancelled", ctx.Err())
	}
}

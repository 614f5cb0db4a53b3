package engines

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/constants"
	"github.com/nodewee/ocr-pipeline/pkg/hocr"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// TesseractEngine runs the tesseract command line tool.
// Images are streamed over stdin and results read from stdout, so nothing
// touches the disk.
type TesseractEngine struct {
	path           string
	tessdataPrefix string
	language       string
	args           []string
	dataFormat     types.DataFormat
	logger         *logger.Logger
}

// NewTesseractEngine creates the command line engine
func NewTesseractEngine(cfg *config.Config, log *logger.Logger) *TesseractEngine {
	dataFormat := cfg.DataFormat
	if dataFormat == "" {
		dataFormat = types.DataFormatTSV
	}

	return &TesseractEngine{
		path:           utils.ResolveTool(cfg.TesseractPath, constants.TesseractExecutable),
		tessdataPrefix: cfg.TessdataPrefix,
		language:       cfg.Language,
		args:           parseEngineArgs(cfg.EngineConfig).Raw,
		dataFormat:     dataFormat,
		logger:         log.WithField("engine", "tesseract"),
	}
}

func (e *TesseractEngine) Name() string {
	return "tesseract"
}

// Text returns tesseract's plain text output untrimmed
func (e *TesseractEngine) Text(ctx context.Context, img image.Image) (string, error) {
	out, err := e.run(ctx, img, "")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Data returns the token table from tsv or hOCR output
func (e *TesseractEngine) Data(ctx context.Context, img image.Image) (*types.TokenTable, error) {
	out, err := e.run(ctx, img, string(e.dataFormat))
	if err != nil {
		return nil, err
	}

	if e.dataFormat == types.DataFormatHOCR {
		doc, err := hocr.Parse(out)
		if err != nil {
			return nil, utils.NewOCRError("failed to parse tesseract hOCR output", err)
		}
		return doc.TokenTable(), nil
	}

	table, err := ParseTSV(out)
	if err != nil {
		return nil, utils.NewOCRError("failed to parse tesseract tsv output", err)
	}
	return table, nil
}

// run invokes: tesseract stdin stdout -l <lang> [engine args...] [output config]
func (e *TesseractEngine) run(ctx context.Context, img image.Image, outputConfig string) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, utils.NewOCRError("failed to encode image for tesseract", err)
	}

	args := []string{"stdin", "stdout", "-l", e.language}
	args = append(args, e.args...)
	if outputConfig != "" {
		args = append(args, outputConfig)
	}

	var env []string
	if e.tessdataPrefix != "" {
		env = append(env, "TESSDATA_PREFIX="+e.tessdataPrefix)
	}

	b := img.Bounds()
	e.logger.Debug("Running %s %v on %dx%d image", e.path, args, b.Dx(), b.Dy())

	out, err := utils.RunTool(ctx, utils.ToolCommand{
		Path:  e.path,
		Args:  args,
		Env:   env,
		Stdin: &buf,
	})
	if err != nil {
		e.logger.Error("Tesseract OCR failed: %v", err)
		return nil, utils.NewOCRError("OCR processing failed", err).WithContext("stderr", out.Stderr)
	}

	return out.Stdout, nil
}

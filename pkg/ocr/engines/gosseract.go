//go:build gosseract

package engines

import (
	"bytes"
	"context"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// GosseractEngine recognizes in-process through libtesseract
type GosseractEngine struct {
	languages      []string
	tessdataPrefix string
	args           engineArgs
	clientFactory  func() *gosseract.Client
	logger         *logger.Logger
}

// NewGosseractEngine creates the in-process engine
func NewGosseractEngine(cfg *config.Config, log *logger.Logger) (interfaces.OCREngine, error) {
	e := &GosseractEngine{
		languages:      strings.Split(cfg.Language, "+"),
		tessdataPrefix: cfg.TessdataPrefix,
		args:           parseEngineArgs(cfg.EngineConfig),
		clientFactory:  gosseract.NewClient,
		logger:         log.WithField("engine", "gosseract"),
	}
	if len(e.args.Ignored) > 0 {
		e.logger.Warn("Engine options not supported in-process, use the cli engine: %s", strings.Join(e.args.Ignored, " "))
	}
	return e, nil
}

func (e *GosseractEngine) Name() string {
	return "gosseract"
}

func (e *GosseractEngine) Text(ctx context.Context, img image.Image) (string, error) {
	client, err := e.newClient(ctx, img)
	if err != nil {
		return "", err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return "", utils.NewOCRError("OCR processing failed", err)
	}
	return text, nil
}

// Data builds a word-level table; libtesseract's iterator gives no rows for
// page, block, paragraph or line regions
func (e *GosseractEngine) Data(ctx context.Context, img image.Image) (*types.TokenTable, error) {
	client, err := e.newClient(ctx, img)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, utils.NewOCRError("OCR data extraction failed", err)
	}

	table := types.NewTokenTable(len(boxes))
	for _, b := range boxes {
		table.Append(types.Token{
			Level:    5,
			PageNum:  1,
			BlockNum: b.BlockNum,
			ParNum:   b.ParNum,
			LineNum:  b.LineNum,
			WordNum:  b.WordNum,
			BBox: types.BoundingBox{
				Left:   b.Box.Min.X,
				Top:    b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
			Confidence: b.Confidence,
			Text:       b.Word,
		})
	}
	return table, nil
}

func (e *GosseractEngine) newClient(ctx context.Context, img image.Image) (*gosseract.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.NewCancelledError("OCR cancelled", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, utils.NewOCRError("failed to encode image", err)
	}

	client := e.clientFactory()
	if err := e.configure(client); err != nil {
		client.Close()
		return nil, utils.NewOCRError("failed to configure tesseract", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		client.Close()
		return nil, utils.NewOCRError("failed to set image", err)
	}
	return client, nil
}

func (e *GosseractEngine) configure(client *gosseract.Client) error {
	if e.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return err
		}
	}
	if err := client.SetLanguage(e.languages...); err != nil {
		return err
	}
	if e.args.PSM >= 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(e.args.PSM)); err != nil {
			return err
		}
	}
	for key, value := range e.args.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(key), value); err != nil {
			return err
		}
	}
	return nil
}

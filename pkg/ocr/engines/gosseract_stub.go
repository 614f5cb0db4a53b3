//go:build !gosseract

package engines

import (
	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// NewGosseractEngine reports that the in-process engine is not compiled in
func NewGosseractEngine(cfg *config.Config, log *logger.Logger) (interfaces.OCREngine, error) {
	return nil, utils.NewValidationError("gosseract engine unavailable", ErrGosseractNotEnabled)
}

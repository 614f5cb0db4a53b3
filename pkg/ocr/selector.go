package ocr

import (
	"fmt"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/ocr/engines"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// NewEngine creates the OCR engine selected in the configuration
func NewEngine(cfg *config.Config, log *logger.Logger) (interfaces.OCREngine, error) {
	switch cfg.Engine {
	case types.EngineCLI, "":
		return engines.NewTesseractEngine(cfg, log), nil
	case types.EngineGosseract:
		return engines.NewGosseractEngine(cfg, log)
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("unknown OCR engine: %s", cfg.Engine), nil)
	}
}

// AvailableEngines lists the engine kinds compiled into this binary
func AvailableEngines() []types.EngineKind {
	available := []types.EngineKind{types.EngineCLI}
	if _, err := engines.NewGosseractEngine(config.BaseConfig(), logger.Discard()); err == nil {
		available = append(available, types.EngineGosseract)
	}
	return available
}

package core

import (
	"time"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/ocr"
	"github.com/nodewee/ocr-pipeline/pkg/rasterizer"
)

// NewPipeline builds the rasterizer, recognizer and orchestrator from one
// resolved configuration
func NewPipeline(cfg *config.Config, log *logger.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	recognizer, err := ocr.NewRecognizer(cfg, log)
	if err != nil {
		return nil, err
	}

	raster := rasterizer.NewRasterizer(cfg, log)
	orchestrator := NewOrchestrator(raster, recognizer, log)
	orchestrator.SetTimeout(time.Duration(cfg.TimeoutMinutes) * time.Minute)

	log.Info("Pipeline initialized:")
	log.Info("  Language: %s", cfg.Language)
	log.Info("  DPI: %d", raster.DPI())
	log.Info("  Engine: %s (%s data)", recognizer.Engine().Name(), cfg.DataFormat)
	if cfg.EngineConfig != "" {
		log.Info("  Engine config: %s", cfg.EngineConfig)
	}
	if cfg.TimeoutMinutes > 0 {
		log.Info("  Timeout: %d minutes", cfg.TimeoutMinutes)
	}

	return orchestrator, nil
}

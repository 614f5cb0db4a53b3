package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nodewee/ocr-pipeline/pkg/constants"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// languagePattern accepts tesseract language specs such as "eng", "chi_sim" or "eng+fra"
var languagePattern = regexp.MustCompile(`^[A-Za-z0-9_/\-]+(\+[A-Za-z0-9_/\-]+)*$`)

// ConfigValidator checks a resolved configuration
type ConfigValidator struct{}

// NewConfigValidator creates a config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate collects every problem and reports them together
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateEngine(c.Engine); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateDataFormat(c.DataFormat); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLanguage(c.Language); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateNumericValues(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError(
			fmt.Sprintf("configuration validation failed: %s", strings.Join(errors, "; ")), nil)
	}

	return nil
}

func (v *ConfigValidator) validateEngine(engine types.EngineKind) error {
	switch engine {
	case types.EngineCLI, types.EngineGosseract:
		return nil
	}
	return fmt.Errorf("invalid OCR engine: %s", engine)
}

func (v *ConfigValidator) validateDataFormat(format types.DataFormat) error {
	switch format {
	case types.DataFormatTSV, types.DataFormatHOCR:
		return nil
	}
	return fmt.Errorf("invalid data format: %s", format)
}

func (v *ConfigValidator) validateLanguage(lang string) error {
	if !languagePattern.MatchString(lang) {
		return fmt.Errorf("invalid language: %q", lang)
	}
	return nil
}

func (v *ConfigValidator) validateNumericValues(c *Config) error {
	if c.DPI < constants.MinImageDPI || c.DPI > constants.MaxImageDPI {
		return fmt.Errorf("dpi must be between %d and %d", constants.MinImageDPI, constants.MaxImageDPI)
	}
	if c.TimeoutMinutes < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

func (v *ConfigValidator) validateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}

	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s", level)
}

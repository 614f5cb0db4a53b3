package config

import "github.com/nodewee/ocr-pipeline/pkg/types"

// Option sets one configuration value explicitly
type Option func(*Config)

// WithTesseractPath sets the tesseract executable
func WithTesseractPath(path string) Option {
	return func(c *Config) { c.TesseractPath = path }
}

// WithTessdataPrefix sets the language data directory
func WithTessdataPrefix(path string) Option {
	return func(c *Config) { c.TessdataPrefix = path }
}

// WithPopplerPath sets the directory holding pdftoppm
func WithPopplerPath(path string) Option {
	return func(c *Config) { c.PopplerPath = path }
}

// WithDPI sets the rasterization resolution
func WithDPI(dpi int) Option {
	return func(c *Config) { c.DPI = dpi }
}

// WithLanguage sets the recognition language, e.g. "eng" or "eng+fra"
func WithLanguage(lang string) Option {
	return func(c *Config) { c.Language = lang }
}

// WithEngineConfig sets the extra engine arguments, e.g. "--psm 6"
func WithEngineConfig(engineConfig string) Option {
	return func(c *Config) { c.EngineConfig = engineConfig }
}

func WithEngine(engine types.EngineKind) Option {
	return func(c *Config) { c.Engine = engine }
}

func WithDataFormat(format types.DataFormat) Option {
	return func(c *Config) { c.DataFormat = format }
}

func WithTimeoutMinutes(minutes int) Option {
	return func(c *Config) { c.TimeoutMinutes = minutes }
}

func WithLogLevel(level string) Option {
	return func(c *Config) { c.LogLevel = level }
}

func WithVerbose(verbose bool) Option {
	return func(c *Config) { c.EnableVerbose = verbose }
}

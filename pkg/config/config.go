package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nodewee/ocr-pipeline/pkg/constants"
	"github.com/nodewee/ocr-pipeline/pkg/types"
)

// Default values and constants
const (
	DefaultLogLevel      = "info"
	DefaultEnableVerbose = false
	DefaultEngine        = types.EngineCLI
	DefaultDataFormat    = types.DataFormatTSV

	// DotEnvFile is loaded from the working directory before environment overrides
	DotEnvFile = ".env"
)

// Environment variables consulted during resolution
const (
	EnvTesseractCmd   = "TESSERACT_CMD"
	EnvTessdataPrefix = "TESSDATA_PREFIX"
	EnvPopplerPath    = "POPPLER_PATH"
	EnvDPI            = "OCR_DPI"
	EnvLanguage       = "OCR_LANG"
	EnvEngineConfig   = "OCR_ENGINE_CONFIG"
	EnvEngine         = "OCR_ENGINE"
	EnvDataFormat     = "OCR_DATA_FORMAT"
	EnvTimeoutMinutes = "OCR_TIMEOUT_MINUTES"
	EnvLogLevel       = "OCR_LOG_LEVEL"
	EnvVerbose        = "OCR_VERBOSE"
	EnvConfigDir      = "OCR_PIPELINE_HOME"
)

// Config holds application configuration. It is resolved once and then only read.
type Config struct {
	// External tool paths
	TesseractPath  string `json:"tesseract_path"`
	TessdataPrefix string `json:"tessdata_prefix"`
	PopplerPath    string `json:"poppler_path"`

	// Runtime settings (not persisted to file)
	DPI            int              `json:"-"`
	Language       string           `json:"-"`
	EngineConfig   string           `json:"-"` // passed to the engine verbatim, e.g. "--psm 6"
	Engine         types.EngineKind `json:"-"`
	DataFormat     types.DataFormat `json:"-"`
	TimeoutMinutes int              `json:"-"` // 0 disables the deadline
	LogLevel       string           `json:"-"`
	EnableVerbose  bool             `json:"-"`
}

// BaseConfig returns the built-in defaults with no tool paths
func BaseConfig() *Config {
	return &Config{
		DPI:            constants.DefaultImageDPI,
		Language:       constants.DefaultLanguage,
		Engine:         DefaultEngine,
		DataFormat:     DefaultDataFormat,
		TimeoutMinutes: constants.DefaultTimeoutMinutes,
		LogLevel:       DefaultLogLevel,
		EnableVerbose:  DefaultEnableVerbose,
	}
}

// DefaultConfig returns the defaults merged with the tool-path configuration file
func DefaultConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config file, using basic defaults: %v\n", err)
		return BaseConfig()
	}
	return config
}

// LoadConfigWithEnvOverrides loads config from file and applies environment variable overrides
func LoadConfigWithEnvOverrides() *Config {
	config := DefaultConfig()
	loadDotEnv(DotEnvFile)
	applyEnvOverrides(config)
	return config
}

// Load resolves the configuration once: explicit options win over environment
// variables, which win over the config file, which wins over built-in defaults.
func Load(opts ...Option) (*Config, error) {
	config := LoadConfigWithEnvOverrides()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadDotEnv loads KEY=VALUE pairs without overriding variables already set
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", path, err)
	}
}

func applyEnvOverrides(config *Config) {
	// Tool paths
	if value := os.Getenv(EnvTesseractCmd); value != "" {
		config.TesseractPath = value
	}
	if value := os.Getenv(EnvTessdataPrefix); value != "" {
		config.TessdataPrefix = value
	}
	if value := os.Getenv(EnvPopplerPath); value != "" {
		config.PopplerPath = value
	}

	// Runtime settings
	if value := os.Getenv(EnvDPI); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			config.DPI = intVal
		}
	}
	if value := os.Getenv(EnvLanguage); value != "" {
		config.Language = value
	}
	if value := os.Getenv(EnvEngineConfig); value != "" {
		config.EngineConfig = value
	}
	if value := os.Getenv(EnvEngine); value != "" {
		config.Engine = types.EngineKind(value)
	}
	if value := os.Getenv(EnvDataFormat); value != "" {
		config.DataFormat = types.DataFormat(value)
	}
	if value := os.Getenv(EnvTimeoutMinutes); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			config.TimeoutMinutes = intVal
		}
	}
	if value := os.Getenv(EnvLogLevel); value != "" {
		config.LogLevel = value
	}
	if value := os.Getenv(EnvVerbose); value != "" {
		config.EnableVerbose = value == "true" || value == "1" || value == "yes"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()
	return validator.Validate(c)
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Engine: %s, Language: %s, DPI: %d, DataFormat: %s, LogLevel: %s, Verbose: %v}",
		c.Engine, c.Language, c.DPI, c.DataFormat, c.LogLevel, c.EnableVerbose)
}

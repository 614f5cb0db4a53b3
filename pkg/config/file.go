package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nodewee/ocr-pipeline/pkg/constants"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

const (
	ConfigFileName = "config.json"
	AppDirName     = ".ocr-pipeline"
)

// Tool path keys accepted by GetConfigValue and SetConfigValue
const (
	KeyTesseractPath  = "tesseract_path"
	KeyTessdataPrefix = "tessdata_prefix"
	KeyPopplerPath    = "poppler_path"
)

// ConfigFile represents the JSON configuration file structure
type ConfigFile struct {
	TesseractPath  string `json:"tesseract_path"`
	TessdataPrefix string `json:"tessdata_prefix"`
	PopplerPath    string `json:"poppler_path"`
}

// GetConfigDir returns the user configuration directory (~/.ocr-pipeline).
// OCR_PIPELINE_HOME overrides it.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeIO, "failed to get user home directory")
	}

	return filepath.Join(homeDir, AppDirName), nil
}

// GetConfigFilePath returns the full path to the configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig loads the configuration file, or auto-detects tool paths when
// no file exists yet. Detection results are not written back.
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configFile := &ConfigFile{}
		detectAndUpdateToolPaths(configFile)
		return configFileToConfig(configFile), nil
	}

	return loadConfigFromFile(configPath)
}

// loadConfigFromFile loads configuration from an existing file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read config file")
	}

	var configFile ConfigFile
	if err := json.Unmarshal(data, &configFile); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeValidation, "failed to parse config file")
	}

	return configFileToConfig(&configFile), nil
}

// SaveConfig saves the tool paths of a configuration to file
func SaveConfig(config *Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}

	return saveConfigFile(configPath, configToConfigFile(config))
}

// saveConfigFile saves ConfigFile to disk
func saveConfigFile(configPath string, configFile *ConfigFile) error {
	data, err := json.MarshalIndent(configFile, "", "  ")
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeSystem, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, constants.DefaultFilePermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to write config file")
	}

	return nil
}

// detectAndUpdateToolPaths fills empty tool paths from the platform candidates.
// TessdataPrefix is never detected: tesseract's compiled-in default knows
// where its own language files are.
func detectAndUpdateToolPaths(configFile *ConfigFile) {
	platformConfig := constants.GetPlatformConfig()

	if configFile.TesseractPath == "" {
		configFile.TesseractPath = utils.DefaultPathUtils.DetectTool(platformConfig.TesseractPaths)
	}
	if configFile.PopplerPath == "" {
		// Only record a directory when pdftoppm is not reachable through PATH
		pdftoppm := utils.DefaultPathUtils.GetExecutableName(constants.PdftoppmExecutable)
		if utils.DefaultPathUtils.DetectTool([]string{pdftoppm}) == "" {
			configFile.PopplerPath = detectDir(platformConfig.PopplerPaths, pdftoppm)
		}
	}
}

// detectDir returns the first existing directory that holds the executable file
func detectDir(candidates []string, file string) string {
	for _, dir := range candidates {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if !utils.DefaultPathUtils.IsExecutable(filepath.Join(dir, file)) {
			continue
		}
		return utils.NormalizePath(dir)
	}
	return ""
}

// configFileToConfig converts ConfigFile to Config with runtime defaults
func configFileToConfig(cf *ConfigFile) *Config {
	config := BaseConfig()
	config.TesseractPath = cf.TesseractPath
	config.TessdataPrefix = cf.TessdataPrefix
	config.PopplerPath = cf.PopplerPath
	return config
}

// configToConfigFile converts Config to ConfigFile
func configToConfigFile(c *Config) *ConfigFile {
	return &ConfigFile{
		TesseractPath:  c.TesseractPath,
		TessdataPrefix: c.TessdataPrefix,
		PopplerPath:    c.PopplerPath,
	}
}

// GetConfigValue gets a specific configuration value by key
func GetConfigValue(key string) (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyTesseractPath:
		return config.TesseractPath, nil
	case KeyTessdataPrefix:
		return config.TessdataPrefix, nil
	case KeyPopplerPath:
		return config.PopplerPath, nil
	default:
		return "", utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}
}

// SetConfigValue sets a specific configuration value by key and persists it
func SetConfigValue(key, value string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	switch key {
	case KeyTesseractPath:
		config.TesseractPath = value
	case KeyTessdataPrefix:
		config.TessdataPrefix = value
	case KeyPopplerPath:
		config.PopplerPath = value
	default:
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	return SaveConfig(config)
}

// ListConfigKeys returns all available configuration keys
func ListConfigKeys() []string {
	return []string{
		KeyTesseractPath,
		KeyTessdataPrefix,
		KeyPopplerPath,
	}
}

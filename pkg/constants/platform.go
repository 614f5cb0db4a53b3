package constants

import (
	"runtime"
)

// PlatformConfig lists where the external tools usually live
type PlatformConfig struct {
	TesseractPaths []string
	PopplerPaths   []string // directories holding pdftoppm
}

// GetPlatformConfig returns platform-specific configuration
func GetPlatformConfig() *PlatformConfig {
	switch runtime.GOOS {
	case "windows":
		return &PlatformConfig{
			TesseractPaths: []string{
				"tesseract.exe",
				"C:\\Program Files\\Tesseract-OCR\\tesseract.exe",
				"C:\\Program Files (x86)\\Tesseract-OCR\\tesseract.exe",
			},
			PopplerPaths: []string{
				"C:\\Program Files\\poppler\\Library\\bin",
				"C:\\ProgramData\\chocolatey\\bin",
			},
		}
	case "darwin":
		return &PlatformConfig{
			TesseractPaths: []string{
				"tesseract",
				"/opt/homebrew/bin/tesseract",
				"/usr/local/bin/tesseract",
			},
			PopplerPaths: []string{
				"/opt/homebrew/bin",
				"/usr/local/bin",
			},
		}
	default: // Linux and other Unix-like systems
		return &PlatformConfig{
			TesseractPaths: []string{
				"tesseract",
				"/usr/bin/tesseract",
				"/usr/local/bin/tesseract",
			},
			PopplerPaths: []string{
				"/usr/bin",
				"/usr/local/bin",
			},
		}
	}
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File extension sets the pipeline routes on
var (
	// ImageExtensions are the raster formats the image decoders can read
	ImageExtensions = map[string]bool{
		"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true,
		"webp": true, "tiff": true, "tif": true,
	}

	DocumentExtensions = map[string]bool{
		"pdf": true,
	}
)

// GetExtension returns the lower-cased extension of a path without the dot
func GetExtension(filePath string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
}

// GetFileStem returns the base name of a path without its extension
func GetFileStem(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsImageFile determines if an extension names an image file
func IsImageFile(extension string) bool {
	return ImageExtensions[strings.ToLower(extension)]
}

// IsPDFFile determines if an extension names a PDF document
func IsPDFFile(extension string) bool {
	return DocumentExtensions[strings.ToLower(extension)]
}

// CheckFileExists returns a not_found AppError when filePath is missing,
// and an io AppError when it cannot be inspected or is a directory
func CheckFileExists(filePath string) error {
	if filePath == "" {
		return NewValidationError("input file path cannot be empty", nil)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return NewNotFoundError(fmt.Sprintf("input file not found: %s", filePath), err)
	}
	if err != nil {
		return NewIOError(fmt.Sprintf("cannot access input file: %s", filePath), err)
	}
	if info.IsDir() {
		return NewIOError(fmt.Sprintf("input path is a directory: %s", filePath), nil)
	}
	return nil
}

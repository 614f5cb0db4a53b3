package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nodewee/ocr-pipeline/pkg/constants"
)

// PathUtils provides cross-platform path utilities
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// NormalizePath normalizes a path for the current platform
func (p *PathUtils) NormalizePath(path string) string {
	cleaned := filepath.Clean(path)

	// Uppercase drive letter on Windows
	if constants.IsWindows() && len(cleaned) >= 2 && cleaned[1] == ':' {
		if cleaned[0] >= 'a' && cleaned[0] <= 'z' {
			cleaned = strings.ToUpper(string(cleaned[0])) + cleaned[1:]
		}
	}

	return cleaned
}

// EnsureDir creates a directory if it doesn't exist
func (p *PathUtils) EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	return os.MkdirAll(p.NormalizePath(dirPath), constants.DefaultDirPermission)
}

// CreateTempDir creates a temporary directory under the system temp dir
func (p *PathUtils) CreateTempDir(prefix string) (string, error) {
	fullPrefix := prefix
	if !strings.HasSuffix(fullPrefix, "-") {
		fullPrefix += "-"
	}

	dir, err := os.MkdirTemp("", fullPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	return p.NormalizePath(dir), nil
}

// IsExecutable checks if a file is executable on the current platform
func (p *PathUtils) IsExecutable(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return false
	}

	if constants.IsWindows() {
		ext := strings.ToLower(filepath.Ext(filePath))
		return ext == ".exe" || ext == ".bat" || ext == ".cmd"
	}
	return info.Mode()&0111 != 0
}

// GetExecutableName returns the platform-appropriate executable name
func (p *PathUtils) GetExecutableName(baseName string) string {
	if constants.IsWindows() && !strings.HasSuffix(strings.ToLower(baseName), ".exe") {
		return baseName + ".exe"
	}
	return baseName
}

// ResolveTool returns the executable to run for a tool.
// An explicit path wins; a directory is joined with the executable name; otherwise
// the bare name is left for PATH lookup at exec time.
func (p *PathUtils) ResolveTool(configured, baseName string) string {
	if configured == "" {
		return p.GetExecutableName(baseName)
	}
	if info, err := os.Stat(configured); err == nil && info.IsDir() {
		return filepath.Join(configured, p.GetExecutableName(baseName))
	}
	return configured
}

// DetectTool finds the first usable candidate, by absolute path or PATH lookup
func (p *PathUtils) DetectTool(candidates []string) string {
	for _, candidate := range candidates {
		if filepath.IsAbs(candidate) {
			if p.IsExecutable(candidate) {
				return p.NormalizePath(candidate)
			}
			continue
		}
		if found, err := exec.LookPath(candidate); err == nil {
			return p.NormalizePath(found)
		}
	}
	return ""
}

// SanitizeFileName sanitizes a filename for the current platform
func (p *PathUtils) SanitizeFileName(filename string) string {
	sanitized := filename

	if constants.IsWindows() {
		invalidChars := []string{"<", ">", ":", "\"", "/", "\\", "|", "?", "*"}
		for _, char := range invalidChars {
			sanitized = strings.ReplaceAll(sanitized, char, "_")
		}
		sanitized = strings.TrimRight(sanitized, ". ")
	} else {
		sanitized = strings.ReplaceAll(sanitized, "/", "_")
		sanitized = strings.ReplaceAll(sanitized, "\x00", "_")
	}

	if strings.TrimSpace(sanitized) == "" {
		sanitized = "unnamed_file"
	}

	return sanitized
}

// Global instance for easy access
var DefaultPathUtils = NewPathUtils()

func NormalizePath(path string) string {
	return DefaultPathUtils.NormalizePath(path)
}

func EnsureDir(dirPath string) error {
	return DefaultPathUtils.EnsureDir(dirPath)
}

func SanitizeFileName(filename string) string {
	return DefaultPathUtils.SanitizeFileName(filename)
}

func ResolveTool(configured, baseName string) string {
	return DefaultPathUtils.ResolveTool(configured, baseName)
}

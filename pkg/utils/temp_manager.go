package utils

import (
	"fmt"
	"os"
	"sync"

	"github.com/nodewee/ocr-pipeline/pkg/logger"
)

// TempManager tracks temporary directories created for one operation
// and removes them on Cleanup
type TempManager struct {
	prefix   string
	tempDirs []string
	mu       sync.Mutex
	logger   *logger.Logger
}

// NewTempManager creates a new temporary directory manager
func NewTempManager(prefix string, log *logger.Logger) *TempManager {
	if prefix == "" {
		prefix = "temp"
	}
	return &TempManager{
		prefix: SanitizeFileName(prefix),
		logger: log,
	}
}

// CreateTempDir creates and tracks a temporary directory
func (tm *TempManager) CreateTempDir() (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tempDir, err := DefaultPathUtils.CreateTempDir(tm.prefix)
	if err != nil {
		return "", err
	}

	tm.tempDirs = append(tm.tempDirs, tempDir)
	tm.logger.Debug("Created temp directory: %s", tempDir)
	return tempDir, nil
}

// WithCleanup executes a function with automatic cleanup
func (tm *TempManager) WithCleanup(fn func() error) error {
	defer func() {
		if err := tm.Cleanup(); err != nil {
			tm.logger.Error("Temporary file cleanup failed: %v", err)
		}
	}()
	return fn()
}

// Cleanup removes every tracked directory
func (tm *TempManager) Cleanup() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	var errors []error
	for _, dir := range tm.tempDirs {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			errors = append(errors, fmt.Errorf("failed to remove temp dir %s: %w", dir, err))
			tm.logger.Warn("Failed to remove temporary directory: %s, error: %v", dir, err)
		} else {
			tm.logger.Debug("Removed temporary directory: %s", dir)
		}
	}
	tm.tempDirs = tm.tempDirs[:0]

	if len(errors) > 0 {
		return fmt.Errorf("cleanup failed with %d errors: %v", len(errors), errors)
	}
	return nil
}

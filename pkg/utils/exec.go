package utils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ToolCommand describes one external tool invocation
type ToolCommand struct {
	Path  string
	Args  []string
	Env   []string // appended to the parent environment
	Stdin io.Reader
}

// ToolOutput is what a finished tool left on its pipes
type ToolOutput struct {
	Stdout []byte
	Stderr string
}

// RunTool runs an external tool and captures stdout and stderr.
// On failure the returned error carries the tool's stderr, and the output
// is still returned so callers can attach it to their own error.
func RunTool(ctx context.Context, tc ToolCommand) (*ToolOutput, error) {
	cmd := exec.CommandContext(ctx, tc.Path, tc.Args...)
	if len(tc.Env) > 0 {
		cmd.Env = append(os.Environ(), tc.Env...)
	}
	cmd.Stdin = tc.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &ToolOutput{
		Stdout: stdout.Bytes(),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return out, nil
	}

	name := filepath.Base(tc.Path)
	if errors.Is(err, exec.ErrNotFound) {
		return out, eris.Wrapf(err, "%s executable not found", name)
	}
	if out.Stderr != "" {
		return out, eris.Wrapf(err, "%s failed: %s", name, out.Stderr)
	}
	return out, eris.Wrapf(err, "%s failed", name)
}

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/ocr-pipeline/pkg/ocr"
)

// Version information variables - set by main.go
var (
	version   = "dev"
	gitCommit = "none"
	buildTime = "unknown"
	buildBy   = "unknown"
)

// SetVersionInfo sets the version information from main.go
func SetVersionInfo(v, commit, buildTimeParam, buildByParam string) {
	version = v
	gitCommit = commit
	buildTime = buildTimeParam
	buildBy = buildByParam
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		showVersionInfo(cmd.OutOrStdout())
	},
}

// showVersionInfo displays build, runtime and engine information
func showVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "🔍 OCR Pipeline\n")
	fmt.Fprintf(w, "===============\n\n")

	fmt.Fprintf(w, "🔖 Version Information:\n")
	fmt.Fprintf(w, "  Version:     %s\n", version)
	fmt.Fprintf(w, "  Git Commit:  %s\n", gitCommit)
	fmt.Fprintf(w, "  Build Time:  %s\n", buildTime)
	fmt.Fprintf(w, "  Built By:    %s\n", buildBy)
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "⚙️ Runtime Information:\n")
	fmt.Fprintf(w, "  Go Version:  %s\n", runtime.Version())
	fmt.Fprintf(w, "  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  Compiler:    %s\n", runtime.Compiler)
	fmt.Fprintf(w, "\n")

	engines := make([]string, 0, 2)
	for _, e := range ocr.AvailableEngines() {
		engines = append(engines, string(e))
	}
	fmt.Fprintf(w, "🧩 OCR Engines: %s\n", strings.Join(engines, ", "))

	if version == "dev" || strings.Contains(version, "dev") || strings.Contains(version, "+") {
		fmt.Fprintf(w, "🔧 This is a development build\n")
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

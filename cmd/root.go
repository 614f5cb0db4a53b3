package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nodewee/ocr-pipeline/pkg/config"
	"github.com/nodewee/ocr-pipeline/pkg/constants"
	"github.com/nodewee/ocr-pipeline/pkg/core"
	"github.com/nodewee/ocr-pipeline/pkg/logger"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"

	"github.com/spf13/cobra"
)

// cliFlags holds the values bound to the root command's flags
type cliFlags struct {
	outputPath    string
	outputFormat  string
	extractData   bool
	page          int
	minConfidence float64
	language      string
	dpi           int
	tessConfig    string
	tesseractPath string
	tessdataDir   string
	popplerPath   string
	engine        string
	dataFormat    string
	showLines     bool
	saveImagesDir string
	imageFormat   string
	verbose       bool
	showVersion   bool
}

var flags cliFlags

// AppHandler encapsulates application main processing logic
type AppHandler struct {
	flags    cliFlags
	changed  func(name string) bool
	config   *config.Config
	logger   *logger.Logger
	pipeline *core.Orchestrator
}

// NewAppHandler creates an application handler. changed reports whether a flag
// was given explicitly; only those override environment and file settings.
func NewAppHandler(f cliFlags, changed func(name string) bool) *AppHandler {
	return &AppHandler{flags: f, changed: changed}
}

// ProcessFile runs the pipeline on inputFile and writes the rendered result
// to the output file, or to stdout when none was given
func (h *AppHandler) ProcessFile(ctx context.Context, inputFile string, stdout io.Writer) error {
	if h.changed("page") && h.flags.page < 1 {
		return utils.NewValidationError(fmt.Sprintf("page number must be >= 1, got %d", h.flags.page), nil)
	}
	if err := h.initialize(); err != nil {
		return err
	}

	result, err := h.pipeline.Process(ctx, inputFile, h.processOptions()...)
	if err != nil {
		return err
	}

	return h.writeResult(result, stdout)
}

// initialize resolves configuration and builds the pipeline
func (h *AppHandler) initialize() error {
	cfg, err := config.Load(h.configOptions()...)
	if err != nil {
		return err
	}
	h.config = cfg
	h.logger = logger.NewLogger(cfg.LogLevel, cfg.EnableVerbose)

	pipeline, err := core.NewPipeline(cfg, h.logger)
	if err != nil {
		return err
	}
	h.pipeline = pipeline
	return nil
}

// configOptions turns explicitly set flags into config options
func (h *AppHandler) configOptions() []config.Option {
	var opts []config.Option
	if h.changed("lang") {
		opts = append(opts, config.WithLanguage(h.flags.language))
	}
	if h.changed("dpi") {
		opts = append(opts, config.WithDPI(h.flags.dpi))
	}
	if h.changed("tess-config") {
		opts = append(opts, config.WithEngineConfig(h.flags.tessConfig))
	}
	if h.changed("tesseract") {
		opts = append(opts, config.WithTesseractPath(h.flags.tesseractPath))
	}
	if h.changed("tessdata") {
		opts = append(opts, config.WithTessdataPrefix(h.flags.tessdataDir))
	}
	if h.changed("poppler") {
		opts = append(opts, config.WithPopplerPath(h.flags.popplerPath))
	}
	if h.changed("engine") {
		opts = append(opts, config.WithEngine(types.EngineKind(h.flags.engine)))
	}
	if h.changed("data-format") {
		opts = append(opts, config.WithDataFormat(types.DataFormat(h.flags.dataFormat)))
	}
	if h.flags.verbose {
		opts = append(opts, config.WithVerbose(true))
	}
	return opts
}

// processOptions turns the mode flags into process options
func (h *AppHandler) processOptions() []core.ProcessOption {
	var opts []core.ProcessOption
	if h.flags.extractData {
		opts = append(opts, core.WithExtractData())
	}
	if h.changed("page") {
		opts = append(opts, core.WithPage(h.flags.page))
	}
	if h.changed("min-confidence") {
		opts = append(opts, core.WithMinConfidence(h.flags.minConfidence))
	}
	if h.flags.saveImagesDir != "" {
		opts = append(opts, core.WithSaveImages(h.flags.saveImagesDir, h.flags.imageFormat))
	}
	return opts
}

func (h *AppHandler) writeResult(result *types.Result, stdout io.Writer) error {
	if h.flags.outputPath == "" {
		return renderResult(stdout, result, h.flags.outputFormat, h.flags.showLines)
	}

	var buf bytes.Buffer
	if err := renderResult(&buf, result, h.flags.outputFormat, h.flags.showLines); err != nil {
		return err
	}

	outputPath := utils.NormalizePath(h.flags.outputPath)
	if err := utils.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return utils.NewIOError(fmt.Sprintf("failed to create output directory for %s", outputPath), err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), constants.DefaultFilePermission); err != nil {
		return utils.NewIOError(fmt.Sprintf("failed to write output file: %s", outputPath), err)
	}

	h.logger.ProgressAlways("✅", "Result written to %s", outputPath)
	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   constants.AppName + " [input_file]",
	Short: "Extract text from images and PDFs with Tesseract OCR",
	Long: `Extract text from images and PDF documents using the Tesseract OCR engine.
PDF pages are rasterized with poppler's pdftoppm before recognition.

Output modes:
- text (default): plain text per image or page
- --data: every region tesseract detected, with level, numbering, box and confidence
- --min-confidence N: only words with confidence >= N, their average and count
  (takes priority over --data)

Configuration is resolved once per run: flags win over environment variables
(TESSERACT_CMD, TESSDATA_PREFIX, POPPLER_PATH, OCR_DPI, OCR_LANG, OCR_ENGINE_CONFIG,
OCR_ENGINE, OCR_DATA_FORMAT, OCR_TIMEOUT_MINUTES, OCR_LOG_LEVEL, OCR_VERBOSE),
which win over ~/.ocr-pipeline/config.json, which wins over built-in defaults.
A .env file in the working directory is loaded first.

Examples:
  ocr-pipeline scan.png                                   # Plain text from an image
  ocr-pipeline document.pdf                               # Text of every page
  ocr-pipeline document.pdf --page 2                      # Text of page 2 only
  ocr-pipeline scan.png --min-confidence 80 --lines       # Confident words grouped into lines
  ocr-pipeline scan.png --data --format json              # Full token table as JSON
  ocr-pipeline document.pdf --lang eng+fra --dpi 400      # Multi-language at higher resolution
  ocr-pipeline scan.png --tess-config "--psm 6"           # Pass options through to tesseract
  ocr-pipeline document.pdf --save-images ./pages         # Keep the rasterized pages
  ocr-pipeline document.pdf -o ./out/text.txt -v          # Write to a file with progress output`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flags.showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, version)
			return nil
		}

		if len(args) == 0 {
			return cmd.Help()
		}

		handler := NewAppHandler(flags, func(name string) bool {
			return cmd.Flags().Changed(name)
		})
		if err := handler.ProcessFile(cmd.Context(), args[0], cmd.OutOrStdout()); err != nil {
			fatal(handler.logger, err)
		}
		return nil
	},
}

// fatal reports err in the "Error (<type>): <message>" form and exits
func fatal(log *logger.Logger, err error) {
	if log == nil {
		log = logger.DefaultLogger()
	}

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		if stderr, ok := appErr.Context["stderr"].(string); ok && stderr != "" {
			log.Error("Tool output: %s", stderr)
		}
		if appErr.Cause != nil {
			log.Debug("Cause: %v", appErr.Cause)
		}
		log.Fatal("Error (%s): %s", appErr.Type, appErr.Message)
	}
	log.Fatal("Error: %v", err)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	f := rootCmd.Flags()

	f.BoolVar(&flags.extractData, "data", false,
		"Output the full token table instead of plain text")
	f.IntVar(&flags.page, "page", 0,
		"Process only this PDF page (1-indexed; ignored for images)")
	f.Float64Var(&flags.minConfidence, "min-confidence", 0,
		"Only keep words with confidence >= this value (0-100)")
	f.StringVar(&flags.language, "lang", constants.DefaultLanguage,
		"Tesseract language(s), e.g. eng or eng+fra")
	f.IntVar(&flags.dpi, "dpi", constants.DefaultImageDPI,
		"Resolution used to rasterize PDF pages")
	f.StringVar(&flags.tessConfig, "tess-config", "",
		`Extra tesseract options passed through verbatim, e.g. "--psm 6"`)
	f.StringVar(&flags.tesseractPath, "tesseract", "",
		"Path to the tesseract executable")
	f.StringVar(&flags.tessdataDir, "tessdata", "",
		"Tesseract language data directory (TESSDATA_PREFIX)")
	f.StringVar(&flags.popplerPath, "poppler", "",
		"Directory containing pdftoppm")
	f.StringVar(&flags.engine, "engine", string(config.DefaultEngine),
		"OCR engine (cli, gosseract)")
	f.StringVar(&flags.dataFormat, "data-format", string(config.DefaultDataFormat),
		"Tesseract output used for --data and --min-confidence (tsv, hocr)")
	f.StringVar(&flags.outputFormat, "format", FormatText,
		"Output format (text, json, yaml)")
	f.BoolVar(&flags.showLines, "lines", false,
		"Group recognized words into lines")
	f.StringVar(&flags.saveImagesDir, "save-images", "",
		"Directory to save rasterized PDF pages to")
	f.StringVar(&flags.imageFormat, "image-format", constants.DefaultImageFormat,
		"Format for --save-images (png, jpg, tiff, bmp, gif)")
	f.StringVarP(&flags.outputPath, "output", "o", "",
		"Write the result to this file instead of stdout")
	f.BoolVarP(&flags.verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
	f.BoolVarP(&flags.showVersion, "version", "V", false,
		"Show version information")
}

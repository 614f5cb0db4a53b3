package constants

// Application constants
const (
	AppName = "ocr-pipeline"
)

// File processing constants
const (
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755
)

// Recognition defaults
const (
	DefaultImageDPI       = 300
	MinImageDPI           = 1
	MaxImageDPI           = 2400
	DefaultLanguage       = "eng"
	DefaultImageFormat    = "png"
	DefaultSaveBaseName   = "page"
	DefaultTimeoutMinutes = 0 // no deadline unless OCR_TIMEOUT_MINUTES is set

	// SavedImagePattern names persisted pages: base name, 1-based index, extension
	SavedImagePattern = "%s_%03d.%s"

	// PDFPagePrefix is the output prefix handed to pdftoppm
	PDFPagePrefix = "page"
)

// External tool executable names
const (
	TesseractExecutable = "tesseract"
	PdftoppmExecutable  = "pdftoppm"
)

// Error messages
const (
	ErrNoPagesExtracted = "no pages extracted from PDF. This usually means:\n" +
		"  1. Poppler version is incompatible\n" +
		"  2. PDF is corrupted or protected\n" +
		"  3. Poppler binaries not properly configured"
)

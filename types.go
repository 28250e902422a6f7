package mdexport

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-mdexport/internal/document"
	"github.com/alnah/go-mdexport/internal/docx"
	"github.com/alnah/go-mdexport/internal/printimage"
	"github.com/alnah/go-mdexport/internal/theme"
)

// Block model aliases. Callers that only consume Converter.Blocks can switch
// on these without importing internal packages.
type (
	Block      = document.Block
	Heading    = document.Heading
	Paragraph  = document.Paragraph
	Annotation = document.Annotation
	Table      = document.Table
	Cell       = document.Cell
	Rule       = document.Rule
	Run        = document.Run
)

// Theme identifies a built-in visual theme.
type Theme = theme.Theme

// Built-in themes.
const (
	ThemeModern  = theme.Modern
	ThemeVintage = theme.Vintage
	ThemeMinimal = theme.Minimal
	ThemeNature  = theme.Nature
)

// Themes returns every built-in theme in display order.
func Themes() []Theme { return theme.All() }

// Default output filenames.
const (
	DOCXFilename = docx.DefaultFilename
	PDFFilename  = printimage.DefaultFilename
	HTMLFilename = "document.html"
)

// Format selects an export surface.
type Format string

// Export formats.
const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOCX, FormatPDF, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (must be docx, pdf, or html)", ErrUnknownFormat, s)
}

// Extension returns the file extension for f, with the leading dot.
func (f Format) Extension() string { return "." + string(f) }

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// PageSettings configures DOCX page geometry.
// The print-image PDF always uses A4 portrait with no outer margin.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// docxPage converts validated settings to serializer geometry.
func (p *PageSettings) docxPage() docx.Page {
	if p == nil {
		return docx.DefaultPage()
	}
	return docx.Page{
		Size:        docx.PaperSize(strings.ToLower(p.Size)),
		Orientation: docx.Orientation(strings.ToLower(p.Orientation)),
		Margin:      p.Margin,
	}
}

// Input contains export parameters.
type Input struct {
	Markdown   string        // source text (required)
	Theme      string        // theme name; empty selects the default theme
	Dark       bool          // dark preview palette (HTML only)
	SinglePage bool          // one continuous PDF page (PDF only)
	Title      string        // document title for HTML and PDF metadata
	FontSize   string        // CSS font size for the preview, e.g. "16px"
	CSS        string        // extra CSS appended to the preview stylesheet
	SourceDir  string        // base directory for relative image paths
	Page       *PageSettings // DOCX page geometry (nil = A4, 1 inch margins)
}

// validate checks the input options and resolves its theme. Blank markdown
// is valid here: it parses to no blocks and serializes to an empty document.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI and HTTP callers validate earlier; both paths converge here.
func (in Input) validate() (theme.Theme, error) {
	t, err := theme.Parse(in.Theme)
	if err != nil {
		return "", err
	}
	if err := in.Page.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// validateContent is validate plus a non-blank check, for the rendered
// outputs that have nothing to draw without content.
func (in Input) validateContent() (theme.Theme, error) {
	if strings.TrimSpace(in.Markdown) == "" {
		return "", ErrEmptyMarkdown
	}
	return in.validate()
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout   time.Duration
	assetPath string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the browser timeout for PDF export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdexport: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithAssetPath overrides embedded styles and templates with files under dir.
// Missing files fall back to the embedded versions.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

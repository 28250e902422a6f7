package mdexport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-mdexport/internal/assets"
	"github.com/alnah/go-mdexport/internal/document"
	"github.com/alnah/go-mdexport/internal/docx"
	"github.com/alnah/go-mdexport/internal/pipeline"
	"github.com/alnah/go-mdexport/internal/printimage"
	"github.com/alnah/go-mdexport/internal/theme"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.PreviewPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ rasterizer                    = (*rodRasterizer)(nil)
)

// rasterizer is a printimage.Rasterizer holding a releasable browser.
type rasterizer interface {
	printimage.Rasterizer
	Close() error
}

// Converter exports markdown to DOCX, print-image PDF and themed HTML.
// Create with NewConverter and Close when done. A Converter is safe for
// concurrent use; PDF exports share one browser and run one at a time.
type Converter struct {
	cfg           converterConfig
	log           *zap.SugaredLogger
	parser        *document.Parser
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	assembler     *pipeline.PageAssembler
	rasterizer    rasterizer

	mu     sync.Mutex // guards browser use and closed
	closed bool
}

// NewConverter creates a Converter with default configuration.
// Returns an error if assets cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		log:           zap.NewNop().Sugar(),
		parser:        document.NewParser(),
		preprocessor:  &pipeline.PreviewPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.log.Debugw("asset override", "dir", c.cfg.assetPath, "custom", resolver.HasCustomLoader())
		loader = resolver
	}

	assembler, err := pipeline.NewPageAssembler(loader)
	if err != nil {
		return nil, fmt.Errorf("initializing preview assembler: %w", err)
	}
	c.assembler = assembler

	// Tests inject a rasterizer; production starts the browser lazily.
	if c.rasterizer == nil {
		c.rasterizer = newRodRasterizer(c.cfg.timeout, c.log)
	}

	return c, nil
}

// Blocks parses input into the block model used by the DOCX backend.
func (c *Converter) Blocks(ctx context.Context, input Input) (blocks []Block, err error) {
	defer recoverInternal(&err)

	if _, err := input.validate(); err != nil {
		return nil, err
	}
	return runWithContext(ctx, func() ([]Block, error) {
		blocks := c.parser.Parse(input.Markdown)
		if blocks == nil {
			blocks = []Block{}
		}
		return blocks, nil
	})
}

// DOCX exports input as a themed word-processing document.
func (c *Converter) DOCX(ctx context.Context, input Input) (out []byte, err error) {
	defer recoverInternal(&err)

	t, err := input.validate()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err = runWithContext(ctx, func() ([]byte, error) {
		blocks := c.parser.Parse(input.Markdown)
		return docx.Serialize(blocks, theme.Resolve(t), docx.WithPage(input.Page.docxPage()))
	})
	if err != nil {
		return nil, err
	}

	c.log.Debugw("exported docx", "theme", t, "bytes", len(out), "elapsed", time.Since(start))
	return out, nil
}

// Preview renders input as a standalone themed HTML page.
func (c *Converter) Preview(ctx context.Context, input Input) (out []byte, err error) {
	defer recoverInternal(&err)

	t, err := input.validateContent()
	if err != nil {
		return nil, err
	}

	page, err := c.renderPage(ctx, input, t, input.Dark)
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

// PDF exports input as an image-based PDF of the rendered preview. The
// print export always uses the light palette.
func (c *Converter) PDF(ctx context.Context, input Input) (out []byte, err error) {
	defer recoverInternal(&err)

	t, err := input.validateContent()
	if err != nil {
		return nil, err
	}

	page, err := c.renderPage(ctx, input, t, false)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	out, err = printimage.NewExporter(c.rasterizer).Export(ctx, page, printimage.Options{
		SinglePage: input.SinglePage,
		Title:      input.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting PDF: %w", err)
	}

	c.log.Debugw("exported pdf", "theme", t, "singlePage", input.SinglePage, "bytes", len(out), "elapsed", time.Since(start))
	return out, nil
}

// Export dispatches to DOCX, PDF or Preview.
func (c *Converter) Export(ctx context.Context, format Format, input Input) ([]byte, error) {
	switch format {
	case FormatDOCX:
		return c.DOCX(ctx, input)
	case FormatPDF:
		return c.PDF(ctx, input)
	case FormatHTML:
		return c.Preview(ctx, input)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Close releases the headless browser, if one was started.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.rasterizer != nil {
		return c.rasterizer.Close()
	}
	return nil
}

// renderPage runs the preview pipeline: annotation rewrite, goldmark, image
// path resolution and page assembly.
func (c *Converter) renderPage(ctx context.Context, input Input, t theme.Theme, dark bool) (string, error) {
	md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	if input.SourceDir != "" {
		body, err = pipeline.ResolveImagePaths(body, input.SourceDir)
		if err != nil {
			return "", fmt.Errorf("resolving image paths: %w", err)
		}
	}

	return c.assembler.Assemble(ctx, body, pipeline.PageOptions{
		Title:    input.Title,
		Theme:    t,
		Dark:     dark,
		FontSize: input.FontSize,
		CSS:      input.CSS,
	})
}

// runWithContext runs fn in a goroutine and returns early if ctx ends first.
// A panic in fn is returned as an error.
func runWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	go func() {
		var r result
		defer func() {
			if p := recover(); p != nil {
				r = result{err: fmt.Errorf("internal error: %v", p)}
			}
			done <- r
		}()
		r.val, r.err = fn()
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-done:
		return r.val, r.err
	}
}

// recoverInternal turns a panic into an error so it never reaches callers.
func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = errors.Join(*err, fmt.Errorf("internal error: %v", r))
	}
}

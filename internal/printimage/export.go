// Package printimage turns a rendered preview into an image-based PDF.
//
// The flow mirrors a browser print-to-image export:
//
//	rendered HTML ─► Rasterizer (temporary container, 2x capture)
//	              ─► Paginate (block-aware page slicing)
//	              ─► JPEG frames ─► Assemble (fpdf, zero margins)
//
// Rasterization is delegated through the Rasterizer interface; the browser
// implementation lives in the root package.
package printimage

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Raster is a captured render of the export container.
type Raster struct {
	Image image.Image
	// SoftBreaks are y offsets in pixels where a page may end, typically the
	// bottom edge of each top-level block.
	SoftBreaks []int
	// ForcedBreaks are y offsets where a new page must begin.
	ForcedBreaks []int
}

// Rasterizer renders an HTML document to a Raster.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) (*Raster, error)
}

// Surface is a loaded document that can host a temporary export container.
type Surface interface {
	// Attach clones the preview content into a new container with the given id.
	Attach(ctx context.Context, id string) error
	// Capture rasterizes the container.
	Capture(ctx context.Context, id string) (*Raster, error)
	// Detach removes the container.
	Detach(ctx context.Context, id string) error
}

// CaptureScoped attaches a container, captures it and always detaches it,
// including when attaching partially failed or capture returned an error.
// Detach runs on a context that survives cancellation of ctx.
func CaptureScoped(ctx context.Context, s Surface, id string) (r *Raster, err error) {
	defer func() {
		if derr := s.Detach(context.WithoutCancel(ctx), id); derr != nil {
			r = nil
			err = errors.Join(err, fmt.Errorf("%w: removing container: %w", ErrRasterize, derr))
		}
	}()

	if err := s.Attach(ctx, id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	r, err = s.Capture(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	return r, nil
}

// Options configures one export.
type Options struct {
	SinglePage bool
	Title      string
}

// Exporter produces print-image PDFs.
type Exporter struct {
	rasterizer Rasterizer
}

// NewExporter creates an Exporter backed by r.
func NewExporter(r Rasterizer) *Exporter {
	return &Exporter{rasterizer: r}
}

// Export rasterizes html and assembles the frames into a PDF.
func (e *Exporter) Export(ctx context.Context, html string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raster, err := e.rasterizer.Rasterize(ctx, html)
	if err != nil {
		if errors.Is(err, ErrRasterize) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	if raster == nil || raster.Image == nil || raster.Image.Bounds().Empty() {
		return nil, ErrNoContent
	}

	return ExportRaster(ctx, raster, opts)
}

// ExportRaster paginates an existing raster and assembles the PDF.
func ExportRaster(ctx context.Context, raster *Raster, opts Options) ([]byte, error) {
	b := raster.Image.Bounds()

	var frames []Frame
	if opts.SinglePage {
		frames = SinglePage(b.Dy())
	} else {
		frames = Paginate(b.Dy(), pageHeightPx(b.Dx()), raster.SoftBreaks, raster.ForcedBreaks)
	}
	if len(frames) == 0 {
		return nil, ErrNoContent
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pages, err := buildPages(raster.Image, frames, opts.SinglePage)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Assemble(pages, opts.Title)
}

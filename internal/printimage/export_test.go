package printimage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
)

// solid returns a w x h image filled with c.
func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// pageCount counts page objects in a PDF.
func pageCount(pdf []byte) int {
	s := string(pdf)
	return strings.Count(s, "/Type /Page") - strings.Count(s, "/Type /Pages")
}

type mockRasterizer struct {
	raster *Raster
	err    error
	calls  int
	html   string
}

func (m *mockRasterizer) Rasterize(_ context.Context, html string) (*Raster, error) {
	m.calls++
	m.html = html
	return m.raster, m.err
}

type mockSurface struct {
	attachErr  error
	captureErr error
	detachErr  error
	attached   []string
	detached   []string
	raster     *Raster
}

func (m *mockSurface) Attach(_ context.Context, id string) error {
	m.attached = append(m.attached, id)
	return m.attachErr
}

func (m *mockSurface) Capture(_ context.Context, _ string) (*Raster, error) {
	return m.raster, m.captureErr
}

func (m *mockSurface) Detach(ctx context.Context, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.detached = append(m.detached, id)
	return m.detachErr
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	// 100px wide, so an A4 page is 141px tall.
	tall := &Raster{Image: solid(100, 400, color.White), SoftBreaks: []int{130, 260}}

	tests := []struct {
		name      string
		raster    *Raster
		err       error
		opts      Options
		wantPages int
		wantErr   error
	}{
		{
			name:      "paginated",
			raster:    tall,
			wantPages: 3,
		},
		{
			name:      "single page",
			raster:    tall,
			opts:      Options{SinglePage: true},
			wantPages: 1,
		},
		{
			name:      "forced break",
			raster:    &Raster{Image: solid(100, 100, color.White), ForcedBreaks: []int{50}},
			wantPages: 2,
		},
		{
			name:    "rasterizer failure",
			err:     errors.New("target not found"),
			wantErr: ErrRasterize,
		},
		{
			name:    "nil raster",
			wantErr: ErrNoContent,
		},
		{
			name:    "empty image",
			raster:  &Raster{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))},
			wantErr: ErrNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &mockRasterizer{raster: tt.raster, err: tt.err}
			pdf, err := NewExporter(r).Export(context.Background(), "<html></html>", tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Export() error = %v, want %v", err, tt.wantErr)
				}
				if pdf != nil {
					t.Error("Export() returned output on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Export() unexpected error: %v", err)
			}
			if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
				t.Fatalf("output is not a PDF: %q", pdf[:min(len(pdf), 16)])
			}
			if got := pageCount(pdf); got != tt.wantPages {
				t.Errorf("page count = %d, want %d", got, tt.wantPages)
			}
			if r.html != "<html></html>" {
				t.Errorf("rasterizer got html %q", r.html)
			}
		})
	}
}

func TestExporter_Export_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &mockRasterizer{raster: &Raster{Image: solid(10, 10, color.White)}}
	_, err := NewExporter(r).Export(ctx, "<html></html>", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Export() error = %v, want context.Canceled", err)
	}
	if r.calls != 0 {
		t.Errorf("rasterizer called %d times on canceled context", r.calls)
	}
}

func TestCaptureScoped(t *testing.T) {
	t.Parallel()

	raster := &Raster{Image: solid(4, 4, color.White)}

	tests := []struct {
		name       string
		surface    *mockSurface
		wantRaster bool
		wantErr    bool
	}{
		{
			name:       "success detaches",
			surface:    &mockSurface{raster: raster},
			wantRaster: true,
		},
		{
			name:    "capture failure still detaches",
			surface: &mockSurface{captureErr: errors.New("screenshot failed")},
			wantErr: true,
		},
		{
			name:    "attach failure still detaches",
			surface: &mockSurface{attachErr: errors.New("no .preview-content")},
			wantErr: true,
		},
		{
			name:    "detach failure is reported",
			surface: &mockSurface{raster: raster, detachErr: errors.New("node gone")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := CaptureScoped(context.Background(), tt.surface, "export-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CaptureScoped() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrRasterize) {
				t.Errorf("error = %v, want ErrRasterize", err)
			}
			if (got != nil) != tt.wantRaster {
				t.Errorf("raster = %v, wantRaster %v", got, tt.wantRaster)
			}
			if len(tt.surface.detached) != 1 || tt.surface.detached[0] != "export-1" {
				t.Errorf("detached = %v, want [export-1]", tt.surface.detached)
			}
		})
	}
}

func TestCaptureScoped_DetachesAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &mockSurface{captureErr: errors.New("interrupted")}
	if _, err := CaptureScoped(ctx, s, "c"); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(s.detached) != 1 {
		t.Errorf("container not removed after cancellation: %v", s.detached)
	}
}

func TestEncodeFrame(t *testing.T) {
	t.Parallel()

	img := solid(20, 100, color.RGBA{R: 255, A: 255})
	data, err := encodeFrame(img, Frame{Top: 40, Bottom: 70})
	if err != nil {
		t.Fatalf("encodeFrame() unexpected error: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 20 || b.Dy() != 30 {
		t.Errorf("frame size = %dx%d, want 20x30", b.Dx(), b.Dy())
	}
}

func TestEncodeFrame_TransparentBecomesWhite(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	data, err := encodeFrame(img, Frame{Top: 0, Bottom: 8})
	if err != nil {
		t.Fatalf("encodeFrame() unexpected error: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode: %v", err)
	}
	r, g, b, _ := decoded.At(4, 4).RGBA()
	if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Errorf("pixel = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestFitWithin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, limit  int
		wantW, wantH int
	}{
		{100, 200, 1000, 100, 200},
		{2000, 500, 1000, 1000, 250},
		{500, 4000, 1000, 125, 1000},
		{10, 100000, 1000, 1, 1000},
	}
	for _, tt := range tests {
		gotW, gotH := fitWithin(tt.w, tt.h, tt.limit)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("fitWithin(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, tt.limit, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestAssemble_NoPages(t *testing.T) {
	t.Parallel()

	if _, err := Assemble(nil, ""); !errors.Is(err, ErrNoContent) {
		t.Errorf("Assemble(nil) error = %v, want ErrNoContent", err)
	}
}

func TestAssemble_InvalidJPEG(t *testing.T) {
	t.Parallel()

	_, err := Assemble([]Page{{JPEG: []byte("not a jpeg"), HeightMM: 10, PageMM: 297}}, "")
	if !errors.Is(err, ErrAssemble) {
		t.Errorf("Assemble() error = %v, want ErrAssemble", err)
	}
}

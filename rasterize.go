package mdexport

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // screenshots are PNG
	"math"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/printimage"
	"github.com/alnah/go-mdexport/internal/process"
)

// Compile-time interface checks.
var _ printimage.Surface = (*rodSurface)(nil)

// containerPrefix prefixes the id of every temporary export container.
const containerPrefix = "mdexport-print-"

// attachJS clones .preview-content into a fixed-width container appended to
// <body>. The clone loses its own inline style so page chrome does not leak
// into the print image.
const attachJS = `(id, width, padding) => {
  const src = document.querySelector('.preview-content');
  if (!src) return false;
  const container = document.createElement('div');
  container.id = id;
  container.className = 'pdf-export-container';
  container.style.cssText = 'position:absolute;left:0;top:0;z-index:2147483647;box-sizing:content-box;' +
    'width:' + width + ';padding:' + padding + ';background:white;';
  const clone = src.cloneNode(true);
  clone.removeAttribute('style');
  clone.style.cssText = 'margin:0;padding:0;border:none;box-shadow:none;border-radius:0;' +
    'background:white;width:100%;max-width:none;';
  container.appendChild(clone);
  document.body.appendChild(container);
  return true;
}`

// measureJS returns the container box and break candidates in CSS pixels,
// relative to the container top. Soft breaks are block bottoms, forced breaks
// are the tops of .page-break elements.
const measureJS = `(id, breakClass) => {
  const container = document.getElementById(id);
  if (!container) return null;
  const box = container.getBoundingClientRect();
  const top = box.top;
  const content = container.firstElementChild;
  const soft = [];
  for (const el of content ? content.children : []) {
    soft.push(el.getBoundingClientRect().bottom - top);
  }
  const forced = [];
  for (const el of container.getElementsByClassName(breakClass)) {
    forced.push(el.getBoundingClientRect().top - top);
  }
  return {
    x: box.left + window.scrollX,
    y: box.top + window.scrollY,
    width: box.width,
    height: box.height,
    soft: soft,
    forced: forced,
  };
}`

const detachJS = `(id) => {
  const el = document.getElementById(id);
  if (el) el.remove();
}`

// containerBox mirrors the measureJS result.
type containerBox struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Soft   []float64 `json:"soft"`
	Forced []float64 `json:"forced"`
}

// rodRasterizer implements printimage.Rasterizer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRasterizer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	log      *zap.SugaredLogger
}

func newRodRasterizer(timeout time.Duration, log *zap.SugaredLogger) *rodRasterizer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &rodRasterizer{timeout: timeout, log: log}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRasterizer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.killBrowser()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.log.Debugw("browser connected", "controlURL", u, "pid", l.PID())
	return nil
}

// Close releases browser resources. Chrome helper processes that outlive
// the browser connection are killed with their process group.
func (r *rodRasterizer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killBrowser()
	return err
}

func (r *rodRasterizer) killBrowser() {
	if r.launcher == nil {
		return
	}
	if pid := r.launcher.PID(); pid > 0 {
		process.KillTree(pid)
	}
	r.launcher.Kill()
	r.launcher.Cleanup()
	r.launcher = nil
}

// Rasterize loads html in a fresh tab and captures the export container.
func (r *rodRasterizer) Rasterize(ctx context.Context, html string) (*printimage.Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	id := containerPrefix + uuid.NewString()
	return printimage.CaptureScoped(ctx, &rodSurface{page: page, timeout: timeout}, id)
}

// rodSurface hosts the export container inside a loaded page.
type rodSurface struct {
	page    *rod.Page
	timeout time.Duration
}

// on binds the page to ctx with the surface timeout.
func (s *rodSurface) on(ctx context.Context) *rod.Page {
	return s.page.Context(ctx).Timeout(s.timeout)
}

func (s *rodSurface) Attach(ctx context.Context, id string) error {
	res, err := s.on(ctx).Eval(attachJS, id,
		fmt.Sprintf("%gmm", printimage.PageWidthMM),
		fmt.Sprintf("%gmm", printimage.PaddingMM))
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return ErrRenderTarget
	}
	return nil
}

func (s *rodSurface) Capture(ctx context.Context, id string) (*printimage.Raster, error) {
	page := s.on(ctx)

	res, err := page.Eval(measureJS, id, printimage.PageBreakClass)
	if err != nil {
		return nil, err
	}
	if res.Value.Nil() {
		return nil, ErrRenderTarget
	}
	var box containerBox
	if err := res.Value.Unmarshal(&box); err != nil {
		return nil, fmt.Errorf("decoding container metrics: %w", err)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return nil, printimage.ErrNoContent
	}

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  printimage.Scale,
		},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}

	return &printimage.Raster{
		Image:        img,
		SoftBreaks:   scaleOffsets(box.Soft, printimage.Scale),
		ForcedBreaks: scaleOffsets(box.Forced, printimage.Scale),
	}, nil
}

func (s *rodSurface) Detach(ctx context.Context, id string) error {
	_, err := s.on(ctx).Eval(detachJS, id)
	return err
}

// scaleOffsets converts CSS pixel offsets to raster pixels.
func scaleOffsets(offsets []float64, scale float64) []int {
	if len(offsets) == 0 {
		return nil
	}
	out := make([]int, len(offsets))
	for i, o := range offsets {
		out[i] = int(math.Round(o * scale))
	}
	return out
}

package printimage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// encodeFrame crops f out of src onto a white page and encodes it as JPEG.
// Frames taller or wider than a JPEG can hold are scaled down to fit.
func encodeFrame(src image.Image, f Frame) ([]byte, error) {
	b := src.Bounds()
	cropRect := image.Rect(0, 0, b.Dx(), f.Height())
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, image.White, image.Point{}, draw.Src)
	draw.Draw(cropped, cropRect, src, image.Point{X: b.Min.X, Y: b.Min.Y + f.Top}, draw.Over)

	var out image.Image = cropped
	if w, h := fitWithin(cropRect.Dx(), cropRect.Dy(), maxFrameSide); w != cropRect.Dx() || h != cropRect.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales (w, h) down proportionally so neither side exceeds limit.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

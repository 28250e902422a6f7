package printimage

import "slices"

// Frame is one horizontal slice of the raster, [Top, Bottom) in pixels.
type Frame struct {
	Top    int
	Bottom int
}

// Height returns the frame height in pixels.
func (f Frame) Height() int { return f.Bottom - f.Top }

// Paginate slices a raster of the given height into frames no taller than
// pageHeight.
//
// A frame ends at the earliest forced break inside the page, otherwise at the
// last soft break that fits, otherwise at the page boundary. Breaks outside
// (0, height) are ignored.
func Paginate(height, pageHeight int, soft, forced []int) []Frame {
	if height <= 0 || pageHeight <= 0 {
		return nil
	}
	soft = normalizeBreaks(soft, height)
	forced = normalizeBreaks(forced, height)

	var frames []Frame
	for top := 0; top < height; {
		limit := min(top+pageHeight, height)
		bottom := limit

		if f, ok := firstAfter(forced, top); ok && f <= limit {
			bottom = f
		} else if limit < height {
			if s, ok := lastWithin(soft, top, limit); ok {
				bottom = s
			}
		}

		frames = append(frames, Frame{Top: top, Bottom: bottom})
		top = bottom
	}
	return frames
}

// SinglePage returns one frame covering the whole raster.
func SinglePage(height int) []Frame {
	if height <= 0 {
		return nil
	}
	return []Frame{{Top: 0, Bottom: height}}
}

// normalizeBreaks sorts, deduplicates and drops offsets outside (0, height).
func normalizeBreaks(breaks []int, height int) []int {
	out := make([]int, 0, len(breaks))
	for _, b := range breaks {
		if b > 0 && b < height {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// firstAfter returns the smallest break greater than top.
func firstAfter(breaks []int, top int) (int, bool) {
	i, found := slices.BinarySearch(breaks, top)
	if found {
		i++
	}
	if i < len(breaks) {
		return breaks[i], true
	}
	return 0, false
}

// lastWithin returns the largest break in (top, limit].
func lastWithin(breaks []int, top, limit int) (int, bool) {
	i, found := slices.BinarySearch(breaks, limit)
	if found {
		return breaks[i], breaks[i] > top
	}
	if i > 0 && breaks[i-1] > top {
		return breaks[i-1], true
	}
	return 0, false
}

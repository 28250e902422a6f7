package docx

import "fmt"

// PaperSize names a supported paper format.
type PaperSize string

// Supported paper sizes.
const (
	A4     PaperSize = "a4"
	Letter PaperSize = "letter"
	Legal  PaperSize = "legal"
)

// Orientation is the page orientation.
type Orientation string

// Supported orientations.
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// twipsPerInch converts inches to twentieths of a point.
const twipsPerInch = 1440

// DefaultMargin is the margin on every side, in inches.
const DefaultMargin = 1.0

// paperTwips holds portrait dimensions (width, height) in twips.
var paperTwips = map[PaperSize][2]int{
	A4:     {11906, 16838},
	Letter: {12240, 15840},
	Legal:  {12240, 20160},
}

// Page describes the section geometry.
type Page struct {
	Size        PaperSize
	Orientation Orientation
	Margin      float64 // inches, applied to all four sides
}

// DefaultPage is A4 portrait with one-inch margins.
func DefaultPage() Page {
	return Page{Size: A4, Orientation: Portrait, Margin: DefaultMargin}
}

// Validate checks the page can hold content.
func (p Page) Validate() error {
	if _, ok := paperTwips[p.Size]; !ok {
		return fmt.Errorf("%w: unknown paper size %q", ErrInvalidPage, p.Size)
	}
	if p.Orientation != Portrait && p.Orientation != Landscape {
		return fmt.Errorf("%w: unknown orientation %q", ErrInvalidPage, p.Orientation)
	}
	if p.Margin < 0 {
		return fmt.Errorf("%w: negative margin %.2f", ErrInvalidPage, p.Margin)
	}
	if p.textWidth() <= 0 || p.dimensions()[1]-2*p.marginTwips() <= 0 {
		return fmt.Errorf("%w: margin %.2fin leaves no room for content", ErrInvalidPage, p.Margin)
	}
	return nil
}

// dimensions returns (width, height) in twips for the orientation.
func (p Page) dimensions() [2]int {
	d := paperTwips[p.Size]
	if p.Orientation == Landscape {
		d[0], d[1] = d[1], d[0]
	}
	return d
}

func (p Page) marginTwips() int {
	return int(p.Margin*twipsPerInch + 0.5)
}

// textWidth is the width between the left and right margins, in twips.
func (p Page) textWidth() int {
	return p.dimensions()[0] - 2*p.marginTwips()
}

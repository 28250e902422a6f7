package printimage

// Page geometry, in millimeters unless noted.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	PaddingMM    = 20.0
	Scale        = 2.0 // device pixels per CSS pixel
	JPEGQuality  = 100

	// PageBreakClass forces a new page before any element carrying it.
	PageBreakClass = "page-break"

	// DefaultFilename is the name offered for downloaded documents.
	DefaultFilename = "document.pdf"
)

// maxFrameSide is the largest edge a JPEG frame can have.
const maxFrameSide = 65535

// pageHeightPx returns the A4 page height for a raster that is widthPx wide.
func pageHeightPx(widthPx int) int {
	return int(float64(widthPx)*PageHeightMM/PageWidthMM + 0.5)
}

// pxToMM converts a raster length to millimeters on a page PageWidthMM wide.
func pxToMM(px, widthPx int) float64 {
	return float64(px) * PageWidthMM / float64(widthPx)
}

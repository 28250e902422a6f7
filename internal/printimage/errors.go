package printimage

import "errors"

// Sentinel errors for print-image export.
var (
	ErrRasterize = errors.New("rasterization failed")
	ErrAssemble  = errors.New("PDF assembly failed")
	ErrNoContent = errors.New("nothing to export")
)

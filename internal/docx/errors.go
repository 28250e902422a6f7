package docx

import "errors"

// Sentinel errors for DOCX serialization.
var (
	ErrSerialize   = errors.New("docx serialization failed")
	ErrInvalidPage = errors.New("invalid page settings")
)

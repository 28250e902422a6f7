package assets

import (
	"fmt"
	"strings"
)

// maxAssetNameLen bounds names accepted from configuration.
const maxAssetNameLen = 64

// ValidateAssetName rejects names that could address anything other than a
// single file in the asset directory: empty or overlong names, path
// separators, and dots.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLen:
		return fmt.Errorf("%w: name longer than %d bytes", ErrInvalidAssetName, maxAssetNameLen)
	case strings.ContainsAny(name, "/\\."):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// Package theme holds the closed set of visual themes and their style records.
//
// A Style is shared by every output surface: the DOCX serializer reads the
// colors, sizes and spacing directly, and the preview CSS builder derives its
// stylesheet from the same record so both exports stay visually consistent.
package theme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTheme indicates a theme identifier outside the enumeration.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme identifies one of the built-in visual themes.
type Theme string

// Built-in themes.
const (
	Modern  Theme = "modern"
	Vintage Theme = "vintage"
	Minimal Theme = "minimal"
	Nature  Theme = "nature"
)

// Default is the theme used when none is selected.
const Default = Modern

// All returns every theme in display order.
func All() []Theme {
	return []Theme{Modern, Vintage, Minimal, Nature}
}

// Names returns the identifiers of every theme in display order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	return names
}

// Parse validates a theme identifier (case-insensitive, surrounding space ignored).
// An empty string resolves to Default.
func Parse(s string) (Theme, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Default, nil
	}
	for _, t := range All() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownTheme, s, strings.Join(Names(), ", "))
}

// Label returns the human-readable name shown in theme pickers.
func (t Theme) Label() string {
	switch t {
	case Modern:
		return "Modern Theme"
	case Vintage:
		return "Vintage Theme"
	case Minimal:
		return "Minimal Theme"
	case Nature:
		return "Nature Theme"
	}
	return string(t)
}

func (t Theme) String() string { return string(t) }

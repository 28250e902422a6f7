package theme

import (
	"errors"
	"fmt"
)

// ErrIncompleteStyle indicates a style record with missing fields.
var ErrIncompleteStyle = errors.New("incomplete style")

// Style is the resolved set of visual parameters for one theme.
// Colors are 6-digit hex without '#'. Sizes are half-points and spacing is
// twips, the units the DOCX serializer writes verbatim.
type Style struct {
	H1         H1Style
	H2         H2Style
	H3         H3Style
	Blockquote BlockquoteStyle
	Table      TableStyle
}

// H1Style styles level-1 headings.
// AccentFrom is the DOCX left border; AccentTo completes the accent pair.
// BannerFrom/BannerTo form the preview banner gradient, and BadgeColor and
// TitleColor are preview-only as well.
type H1Style struct {
	Color      string
	Background string
	AccentFrom string
	AccentTo   string
	BannerFrom string
	BannerTo   string
	BadgeColor string
	TitleColor string
	Size       int
	Spacing    int
}

// H2Style styles level-2 headings.
type H2Style struct {
	Color      string
	Background string
	Size       int
	Spacing    int
}

// H3Style styles level-3 headings.
type H3Style struct {
	Color       string
	BorderColor string
	Size        int
	Spacing     int
}

// BlockquoteStyle styles preview blockquotes, which is how annotations render
// in the preview.
type BlockquoteStyle struct {
	BorderColor string
	Background  string
}

// TableStyle styles tables. RowHover has no export analog.
type TableStyle struct {
	HeaderFill  string
	BorderColor string
	RowHover    string
}

// Heading sizes and spacing are identical across themes.
const (
	h1Size    = 48
	h1Spacing = 480
	h2Size    = 36
	h2Spacing = 360
	h3Size    = 30
	h3Spacing = 240
)

// Resolve returns the style record for t.
// Callers validate identifiers with Parse first; an unknown value is a
// programmer error and panics.
func Resolve(t Theme) Style {
	switch t {
	case Modern:
		return Style{
			H1: H1Style{
				Color: "6B46C1", Background: "F3E8FF",
				AccentFrom: "7C3AED", AccentTo: "9333EA",
				BannerFrom: "9333EA", BannerTo: "DB2777",
				BadgeColor: "6B21A8", TitleColor: "FFFFFF",
				Size: h1Size, Spacing: h1Spacing,
			},
			H2:         H2Style{Color: "9333EA", Background: "F3E8FF", Size: h2Size, Spacing: h2Spacing},
			H3:         H3Style{Color: "7C3AED", BorderColor: "7C3AED", Size: h3Size, Spacing: h3Spacing},
			Blockquote: BlockquoteStyle{BorderColor: "EC4899", Background: "FDF2F8"},
			Table:      TableStyle{HeaderFill: "F3E8FF", BorderColor: "E9D5FF", RowHover: "FAF5FF"},
		}
	case Vintage:
		return Style{
			H1: H1Style{
				Color: "92400E", Background: "FEF3C7",
				AccentFrom: "B45309", AccentTo: "D97706",
				BannerFrom: "B45309", BannerTo: "92400E",
				BadgeColor: "451A03", TitleColor: "FEF3C7",
				Size: h1Size, Spacing: h1Spacing,
			},
			H2:         H2Style{Color: "B45309", Background: "FEF3C7", Size: h2Size, Spacing: h2Spacing},
			H3:         H3Style{Color: "D97706", BorderColor: "D97706", Size: h3Size, Spacing: h3Spacing},
			Blockquote: BlockquoteStyle{BorderColor: "F59E0B", Background: "FFFBEB"},
			Table:      TableStyle{HeaderFill: "FEF3C7", BorderColor: "FDE68A", RowHover: "FFFBEB"},
		}
	case Minimal:
		return Style{
			H1: H1Style{
				Color: "111827", Background: "F3F4F6",
				AccentFrom: "374151", AccentTo: "4B5563",
				BannerFrom: "F3F4F6", BannerTo: "F3F4F6",
				BadgeColor: "374151", TitleColor: "111827",
				Size: h1Size, Spacing: h1Spacing,
			},
			H2:         H2Style{Color: "374151", Background: "F3F4F6", Size: h2Size, Spacing: h2Spacing},
			H3:         H3Style{Color: "4B5563", BorderColor: "4B5563", Size: h3Size, Spacing: h3Spacing},
			Blockquote: BlockquoteStyle{BorderColor: "D1D5DB", Background: "F9FAFB"},
			Table:      TableStyle{HeaderFill: "F3F4F6", BorderColor: "E5E7EB", RowHover: "F9FAFB"},
		}
	case Nature:
		return Style{
			H1: H1Style{
				Color: "047857", Background: "ECFDF5",
				AccentFrom: "059669", AccentTo: "10B981",
				BannerFrom: "16A34A", BannerTo: "059669",
				BadgeColor: "166534", TitleColor: "FFFFFF",
				Size: h1Size, Spacing: h1Spacing,
			},
			H2:         H2Style{Color: "059669", Background: "ECFDF5", Size: h2Size, Spacing: h2Spacing},
			H3:         H3Style{Color: "10B981", BorderColor: "10B981", Size: h3Size, Spacing: h3Spacing},
			Blockquote: BlockquoteStyle{BorderColor: "22C55E", Background: "F0FDF4"},
			Table:      TableStyle{HeaderFill: "ECFDF5", BorderColor: "A7F3D0", RowHover: "F0FDF4"},
		}
	}
	panic(fmt.Sprintf("theme: Resolve called with unvalidated theme %q", string(t)))
}

// Validate reports the first missing or malformed field.
func (s Style) Validate() error {
	colors := []struct {
		field string
		value string
	}{
		{"h1.color", s.H1.Color},
		{"h1.background", s.H1.Background},
		{"h1.accentFrom", s.H1.AccentFrom},
		{"h1.accentTo", s.H1.AccentTo},
		{"h1.bannerFrom", s.H1.BannerFrom},
		{"h1.bannerTo", s.H1.BannerTo},
		{"h1.badgeColor", s.H1.BadgeColor},
		{"h1.titleColor", s.H1.TitleColor},
		{"h2.color", s.H2.Color},
		{"h2.background", s.H2.Background},
		{"h3.color", s.H3.Color},
		{"h3.borderColor", s.H3.BorderColor},
		{"blockquote.borderColor", s.Blockquote.BorderColor},
		{"blockquote.background", s.Blockquote.Background},
		{"table.headerFill", s.Table.HeaderFill},
		{"table.borderColor", s.Table.BorderColor},
		{"table.rowHover", s.Table.RowHover},
	}
	for _, c := range colors {
		if !isHexColor(c.value) {
			return fmt.Errorf("%w: %s: %q is not a 6-digit hex color", ErrIncompleteStyle, c.field, c.value)
		}
	}

	sizes := []struct {
		field string
		value int
	}{
		{"h1.size", s.H1.Size},
		{"h1.spacing", s.H1.Spacing},
		{"h2.size", s.H2.Size},
		{"h2.spacing", s.H2.Spacing},
		{"h3.size", s.H3.Size},
		{"h3.spacing", s.H3.Spacing},
	}
	for _, sz := range sizes {
		if sz.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrIncompleteStyle, sz.field, sz.value)
		}
	}
	return nil
}

// isHexColor reports whether v is exactly six hex digits.
func isHexColor(v string) bool {
	if len(v) != 6 {
		return false
	}
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

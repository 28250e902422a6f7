package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-mdexport/internal/theme"
)

// Page colors outside the theme palette.
const (
	lightPageBg = "#FFFFFF"
	lightText   = "#1F2937"
	darkPageBg  = "#111827"
	darkText    = "#F3F4F6"
	codeColor   = "#6B7280"
	lightRule   = "#E5E7EB"
	darkRule    = "#374151"
	darkBanner  = "#1F2937"

	// Tinted backgrounds in dark mode are the accent color at this opacity.
	darkTint       = 0.2
	darkHeaderTint = 0.4
)

// defaultFontSize applies when ThemeCSSOptions.FontSize is empty.
const defaultFontSize = "16px"

// ThemeCSSOptions selects the color scheme variant for BuildThemeCSS.
type ThemeCSSOptions struct {
	Dark     bool
	FontSize string // CSS length, e.g. "14px"
}

// BuildThemeCSS renders a theme's palette as the custom properties consumed
// by the base stylesheet.
func BuildThemeCSS(s theme.Style, opts ThemeCSSOptions) string {
	fontSize := opts.FontSize
	if fontSize == "" {
		fontSize = defaultFontSize
	}

	vars := []struct{ name, value string }{
		{"--md-page-bg", lightPageBg},
		{"--md-text", lightText},
		{"--md-font-size", escapeCSSValue(fontSize)},
		{"--md-code", codeColor},
		{"--md-rule", lightRule},
		{"--md-h1-from", hex(s.H1.BannerFrom)},
		{"--md-h1-to", hex(s.H1.BannerTo)},
		{"--md-h1-badge", hex(s.H1.BadgeColor)},
		{"--md-h1-title", hex(s.H1.TitleColor)},
		{"--md-h2", hex(s.H2.Color)},
		{"--md-h2-bg", hex(s.H2.Background)},
		{"--md-h3", hex(s.H3.Color)},
		{"--md-h3-border", hex(s.H3.BorderColor)},
		{"--md-quote-border", hex(s.Blockquote.BorderColor)},
		{"--md-quote-bg", hex(s.Blockquote.Background)},
		{"--md-table-header", hex(s.Table.HeaderFill)},
		{"--md-table-border", hex(s.Table.BorderColor)},
		{"--md-table-hover", hex(s.Table.RowHover)},
	}

	if opts.Dark {
		dark := map[string]string{
			"--md-page-bg":      darkPageBg,
			"--md-text":         darkText,
			"--md-rule":         darkRule,
			"--md-h2-bg":        rgba(s.H2.Color, darkTint),
			"--md-quote-bg":     rgba(s.Blockquote.BorderColor, darkTint),
			"--md-table-header": rgba(s.Table.BorderColor, darkHeaderTint),
			"--md-table-border": darkRule,
			"--md-table-hover":  rgba(s.Table.BorderColor, darkTint),
		}
		// Light banners carry dark titles; both invert in dark mode.
		if isLight(s.H1.BannerFrom) {
			dark["--md-h1-from"] = darkBanner
			dark["--md-h1-to"] = darkBanner
			dark["--md-h1-title"] = darkText
		}
		for i, v := range vars {
			if d, ok := dark[v.name]; ok {
				vars[i].value = d
			}
		}
	}

	var b strings.Builder
	b.WriteString("\n/* Theme palette */\n:root {\n")
	for _, v := range vars {
		fmt.Fprintf(&b, "  %s: %s;\n", v.name, v.value)
	}
	b.WriteString("}\n")
	return b.String()
}

func hex(c string) string { return "#" + c }

// rgba converts a 6-digit hex color to an rgba() with the given alpha.
func rgba(c string, alpha float64) string {
	r, g, bl := channels(c)
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", r, g, bl, alpha)
}

// isLight reports whether a color's perceived luminance is above the midpoint.
func isLight(c string) bool {
	r, g, b := channels(c)
	return 299*r+587*g+114*b > 128*1000
}

func channels(c string) (r, g, b int) {
	v, err := strconv.ParseUint(c, 16, 32)
	if err != nil || len(c) != 6 {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

// escapeCSSValue drops characters that could end a declaration or block.
func escapeCSSValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

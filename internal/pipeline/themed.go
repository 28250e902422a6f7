package pipeline

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Class names the base stylesheet keys theme colors on.
const (
	classH1      = "md-h1"
	classH1Badge = "md-h1-badge"
	classH1Body  = "md-h1-body"
	classNote    = "md-note"
	classTable   = "md-table"
)

// defaultBadge is shown when a level 1 heading has no ASCII letter or digit.
const defaultBadge = "1"

// themeRenderer overrides heading, blockquote and table output with the
// markup the themed stylesheet expects.
type themeRenderer struct{}

func newThemeRenderer() renderer.NodeRenderer {
	return &themeRenderer{}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *themeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(extast.KindTable, r.renderTable)
}

// renderHeading wraps h1 in a badge banner and tags h2/h3 with their
// level class. Deeper levels render plain.
func (r *themeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	tag := "h" + strconv.Itoa(n.Level)

	if n.Level == 1 {
		if entering {
			_, _ = w.WriteString(`<div class="` + classH1 + `"><div class="` + classH1Badge + `">`)
			_, _ = w.WriteString(badgeChar(headingText(n, source)))
			_, _ = w.WriteString(`</div><div class="` + classH1Body + `"><h1`)
			renderHeadingAttributes(w, n)
			_ = w.WriteByte('>')
		} else {
			_, _ = w.WriteString("</h1></div></div>\n")
		}
		return ast.WalkContinue, nil
	}

	if entering {
		_, _ = w.WriteString("<" + tag)
		if n.Level <= 3 {
			_, _ = w.WriteString(` class="md-` + tag + `"`)
		}
		renderHeadingAttributes(w, n)
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("</" + tag + ">\n")
	}
	return ast.WalkContinue, nil
}

func renderHeadingAttributes(w util.BufWriter, n ast.Node) {
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, html.HeadingAttributeFilter)
	}
}

func (r *themeRenderer) renderBlockquote(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<blockquote class="` + classNote + `">` + "\n")
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func (r *themeRenderer) renderTable(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="` + classTable + `"><table`)
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, extension.TableAttributeFilter)
		}
		_, _ = w.WriteString(">\n")
	} else {
		_, _ = w.WriteString("</table></div>\n")
	}
	return ast.WalkContinue, nil
}

// headingText collects the literal text under a heading.
func headingText(n ast.Node, source []byte) string {
	var b []byte
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b = append(b, t.Segment.Value(source)...)
		case *ast.String:
			b = append(b, t.Value...)
		}
		return ast.WalkContinue, nil
	})
	return string(b)
}

// badgeChar returns the first ASCII letter or digit of text.
func badgeChar(text string) string {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return string(c)
		}
	}
	return defaultBadge
}

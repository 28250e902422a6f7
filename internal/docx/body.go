package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/alnah/go-mdexport/internal/document"
)

// Run and paragraph constants. Sizes are half-points, spacing is twips.
const (
	bodySize         = 24
	codeFont         = "Consolas"
	codeColor        = "6B7280"
	blockSpacing     = 120
	annotationIndent = 720
	annotationFill   = "F3F4F6"
	ruleGlyph        = "⎯"
	ruleLength       = 50
	ruleColor        = "666666"
	tableWidthPct    = 5000 // fiftieths of a percent
	tableBorderSize  = 1
	h1BorderSize     = 6
	h3BorderSize     = 4
	borderSpace      = 4
)

// runProps are the properties a block imposes on every run it contains.
type runProps struct {
	color string
	size  int
	bold  bool
}

// paraProps are emitted in schema order: pStyle, keepNext, pBdr, shd,
// spacing, ind.
type paraProps struct {
	style       string
	keepNext    bool
	borderColor string
	borderSize  int
	fill        string
	before      int
	after       int
	indent      int
}

func (w *Writer) documentXML(blocks []document.Block) (string, error) {
	var b strings.Builder
	b.WriteString(documentOpen)

	lastTable := false
	for i, blk := range blocks {
		lastTable = false
		switch v := blk.(type) {
		case document.Heading:
			if err := w.writeHeading(&b, v); err != nil {
				return "", err
			}
		case document.Paragraph:
			writeParagraph(&b, paraProps{before: blockSpacing, after: blockSpacing}, v.Runs, runProps{size: bodySize})
		case document.Annotation:
			writeParagraph(&b, paraProps{
				fill:   annotationFill,
				before: blockSpacing,
				after:  blockSpacing,
				indent: annotationIndent,
			}, v.Runs, runProps{size: bodySize})
		case document.Table:
			w.writeTable(&b, v)
			lastTable = true
		case document.Rule:
			writeParagraph(&b, paraProps{before: blockSpacing, after: blockSpacing},
				[]document.Run{{Text: strings.Repeat(ruleGlyph, ruleLength)}},
				runProps{size: bodySize, color: ruleColor})
		default:
			return "", fmt.Errorf("%w: block %d: unsupported block type %T", ErrSerialize, i, blk)
		}
	}

	// A body must hold at least one paragraph and must not end on a table.
	if len(blocks) == 0 || lastTable {
		b.WriteString("<w:p/>")
	}

	w.writeSection(&b)
	b.WriteString(documentClose)
	return b.String(), nil
}

func (w *Writer) writeHeading(b *strings.Builder, h document.Heading) error {
	pp := paraProps{keepNext: true}
	rp := runProps{bold: true}

	switch h.Level {
	case 1:
		s := w.style.H1
		pp.style = "Heading1"
		pp.fill = s.Background
		pp.borderColor, pp.borderSize = s.AccentFrom, h1BorderSize
		pp.before, pp.after = s.Spacing, s.Spacing/2
		rp.color, rp.size = s.Color, s.Size
	case 2:
		s := w.style.H2
		pp.style = "Heading2"
		pp.fill = s.Background
		pp.before, pp.after = s.Spacing, s.Spacing/2
		rp.color, rp.size = s.Color, s.Size
	case 3:
		s := w.style.H3
		pp.style = "Heading3"
		pp.borderColor, pp.borderSize = s.BorderColor, h3BorderSize
		pp.before, pp.after = s.Spacing, s.Spacing/2
		rp.color, rp.size = s.Color, s.Size
	default:
		return fmt.Errorf("%w: heading level %d out of range", ErrSerialize, h.Level)
	}

	writeParagraph(b, pp, h.Runs, rp)
	return nil
}

func writeParagraph(b *strings.Builder, pp paraProps, runs []document.Run, rp runProps) {
	b.WriteString("<w:p>")
	writeParaProps(b, pp)
	for _, r := range runs {
		writeRun(b, r, rp)
	}
	b.WriteString("</w:p>")
}

func writeParaProps(b *strings.Builder, pp paraProps) {
	b.WriteString("<w:pPr>")
	if pp.style != "" {
		fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, pp.style)
	}
	if pp.keepNext {
		b.WriteString("<w:keepNext/>")
	}
	if pp.borderColor != "" {
		fmt.Fprintf(b, `<w:pBdr><w:left w:val="single" w:sz="%d" w:space="%d" w:color="%s"/></w:pBdr>`,
			pp.borderSize, borderSpace, pp.borderColor)
	}
	if pp.fill != "" {
		writeShading(b, pp.fill)
	}
	fmt.Fprintf(b, `<w:spacing w:before="%d" w:after="%d"/>`, pp.before, pp.after)
	if pp.indent > 0 {
		fmt.Fprintf(b, `<w:ind w:left="%d"/>`, pp.indent)
	}
	b.WriteString("</w:pPr>")
}

func writeShading(b *strings.Builder, fill string) {
	fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, fill)
}

// writeRun emits one run. Property order follows the schema: rFonts, b, i,
// strike, color, sz, szCs. Embedded newlines become line breaks.
func writeRun(b *strings.Builder, r document.Run, rp runProps) {
	b.WriteString("<w:r><w:rPr>")
	if r.Code {
		fmt.Fprintf(b, `<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/>`, codeFont)
	}
	if r.Bold || rp.bold {
		b.WriteString("<w:b/>")
	}
	if r.Italic {
		b.WriteString("<w:i/>")
	}
	if r.Strikethrough {
		b.WriteString("<w:strike/>")
	}
	color := rp.color
	if r.Code {
		color = codeColor
	}
	if color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, color)
	}
	fmt.Fprintf(b, `<w:sz w:val="%[1]d"/><w:szCs w:val="%[1]d"/>`, rp.size)
	b.WriteString("</w:rPr>")

	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		if line == "" {
			continue
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escape(line))
		b.WriteString("</w:t>")
	}
	b.WriteString("</w:r>")
}

func (w *Writer) writeTable(b *strings.Builder, t document.Table) {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}
	colWidth := w.page.textWidth() / cols
	border := w.style.Table.BorderColor

	b.WriteString("<w:tbl><w:tblPr>")
	fmt.Fprintf(b, `<w:tblW w:w="%d" w:type="pct"/>`, tableWidthPct)
	b.WriteString("<w:tblBorders>")
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(b, `<w:%s w:val="single" w:sz="%d" w:space="0" w:color="%s"/>`, edge, tableBorderSize, border)
	}
	b.WriteString("</w:tblBorders></w:tblPr><w:tblGrid>")
	for range cols {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, colWidth)
	}
	b.WriteString("</w:tblGrid>")

	for i, row := range t.Rows {
		header := i == 0
		b.WriteString("<w:tr>")
		if header {
			b.WriteString("<w:trPr><w:tblHeader/></w:trPr>")
		}
		for c := range cols {
			var cell document.Cell
			if c < len(row) {
				cell = row[c]
			}
			b.WriteString("<w:tc><w:tcPr>")
			fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="dxa"/>`, colWidth)
			if header {
				writeShading(b, w.style.Table.HeaderFill)
			}
			b.WriteString("</w:tcPr>")
			writeParagraph(b, paraProps{before: blockSpacing, after: blockSpacing}, cell.Runs, runProps{size: bodySize})
			b.WriteString("</w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
}

func (w *Writer) writeSection(b *strings.Builder) {
	dim := w.page.dimensions()
	m := w.page.marginTwips()
	b.WriteString("<w:sectPr>")
	if w.page.Orientation == Landscape {
		fmt.Fprintf(b, `<w:pgSz w:w="%d" w:h="%d" w:orient="landscape"/>`, dim[0], dim[1])
	} else {
		fmt.Fprintf(b, `<w:pgSz w:w="%d" w:h="%d"/>`, dim[0], dim[1])
	}
	fmt.Fprintf(b, `<w:pgMar w:top="%[1]d" w:right="%[1]d" w:bottom="%[1]d" w:left="%[1]d" w:header="720" w:footer="720" w:gutter="0"/>`, m)
	b.WriteString("</w:sectPr>")
}

func escape(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

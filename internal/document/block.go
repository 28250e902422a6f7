// Package document turns source text into an ordered sequence of typed blocks.
//
// The block model is the single structural view of a document shared by the
// export backends:
//
//	source ─► Spans (annotation boundaries) ─► Parse ─► []Block
//	                                              │
//	                                              └─► Resolver (inline runs per block)
//
// Blocks are immutable once produced and carry inline content as styled runs.
package document

import "strings"

// Kind identifies a block variant.
type Kind int

// Block kinds.
const (
	KindHeading Kind = iota + 1
	KindParagraph
	KindAnnotation
	KindTable
	KindRule
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindAnnotation:
		return "annotation"
	case KindTable:
		return "table"
	case KindRule:
		return "rule"
	}
	return "unknown"
}

// Block is one structural unit of a document.
// The set of implementations is closed: Heading, Paragraph, Annotation, Table, Rule.
type Block interface {
	Kind() Kind
	block()
}

// Run is a contiguous span of text sharing one set of inline style flags.
type Run struct {
	Text          string
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
}

// sameStyle reports whether r and o carry identical style flags.
func (r Run) sameStyle(o Run) bool {
	return r.Bold == o.Bold && r.Italic == o.Italic &&
		r.Strikethrough == o.Strikethrough && r.Code == o.Code
}

// PlainText concatenates the text of runs.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Heading is a level 1-3 heading.
type Heading struct {
	Level int
	Runs  []Run
}

// Paragraph is a single source line of body text.
type Paragraph struct {
	Runs []Run
}

// Annotation is a >> ... << callout; its runs may contain line breaks.
type Annotation struct {
	Runs []Run
}

// Table is a pipe table. Rows[0] is the header row.
type Table struct {
	Rows [][]Cell
}

// Cell is one table cell with its raw text and resolved runs.
type Cell struct {
	Text string
	Runs []Run
}

// Rule is a horizontal divider.
type Rule struct{}

func (Heading) Kind() Kind    { return KindHeading }
func (Paragraph) Kind() Kind  { return KindParagraph }
func (Annotation) Kind() Kind { return KindAnnotation }
func (Table) Kind() Kind      { return KindTable }
func (Rule) Kind() Kind       { return KindRule }

func (Heading) block()    {}
func (Paragraph) block()  {}
func (Annotation) block() {}
func (Table) block()      {}
func (Rule) block()       {}

// Texts returns the raw cell text of every row.
func (t Table) Texts() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.Text
		}
		out[i] = cells
	}
	return out
}

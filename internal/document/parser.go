package document

import (
	"regexp"
	"strings"
)

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// headingPrefixes maps ATX markers to levels. Only levels 1-3 exist;
// "#### x" falls through to a paragraph.
var headingPrefixes = []struct {
	prefix string
	level  int
}{
	{"# ", 1},
	{"## ", 2},
	{"### ", 3},
}

const (
	tableMarker    = "|"
	tableSeparator = "---"
	ruleMarker     = "---"
)

// SplitLines normalizes line endings and splits src into lines.
func SplitLines(src string) []string {
	return strings.Split(crlfOrCR.ReplaceAllString(src, "\n"), "\n")
}

// Parser partitions source text into blocks.
type Parser struct {
	resolver *Resolver
}

// NewParser creates a Parser with the default inline resolver.
func NewParser() *Parser {
	return &Parser{resolver: NewResolver()}
}

var defaultParser = NewParser()

// Parse partitions src into blocks using the default parser.
func Parse(src string) []Block {
	return defaultParser.Parse(src)
}

// Parse partitions src into an ordered block sequence.
//
// Each line is dispatched in precedence order: heading, annotation span,
// table row, rule, blank, paragraph. Pending table rows are flushed before any
// other block is emitted and at end of input, so output order always matches
// source order.
func (p *Parser) Parse(src string) []Block {
	lines := SplitLines(src)
	spans := Spans(lines)
	b := &blockBuilder{resolver: p.resolver}

	next := 0
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if !strings.HasPrefix(line, tableMarker) {
			b.flushTable()
		}

		if level, text, ok := headingLine(line); ok {
			b.add(Heading{Level: level, Runs: p.resolver.Resolve(text)})
			continue
		}

		if next < len(spans) && spans[next].Start == i {
			span := spans[next]
			next++
			b.add(Annotation{Runs: p.resolver.Resolve(span.Content(lines))})
			i = span.End
			continue
		}

		if strings.HasPrefix(line, tableMarker) {
			if !strings.Contains(line, tableSeparator) {
				b.addRow(splitRow(line))
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == ruleMarker:
			b.add(Rule{})
		case trimmed == "":
		default:
			b.add(Paragraph{Runs: p.resolver.Resolve(line)})
		}
	}
	b.flushTable()

	return b.blocks
}

// headingLine reports whether line is a level 1-3 ATX heading and returns its text.
func headingLine(line string) (level int, text string, ok bool) {
	for _, h := range headingPrefixes {
		if strings.HasPrefix(line, h.prefix) {
			return h.level, line[len(h.prefix):], true
		}
	}
	return 0, "", false
}

// splitRow splits a pipe-table line into trimmed cells, dropping the empty
// cells produced by leading and trailing pipes.
func splitRow(line string) []string {
	parts := strings.Split(line, tableMarker)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	for len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// blockBuilder accumulates blocks and pending table rows.
type blockBuilder struct {
	resolver *Resolver
	blocks   []Block
	rows     [][]Cell
}

func (b *blockBuilder) add(block Block) {
	b.blocks = append(b.blocks, block)
}

func (b *blockBuilder) addRow(cells []string) {
	if len(cells) == 0 {
		return
	}
	row := make([]Cell, len(cells))
	for i, c := range cells {
		row[i] = Cell{Text: c, Runs: b.resolver.Resolve(c)}
	}
	b.rows = append(b.rows, row)
}

// flushTable emits pending rows as one Table block.
func (b *blockBuilder) flushTable() {
	if len(b.rows) == 0 {
		return
	}
	b.blocks = append(b.blocks, Table{Rows: b.rows})
	b.rows = nil
}

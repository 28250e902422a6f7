package document

import "strings"

// Annotation markers.
const (
	AnnotationOpen  = ">>"
	AnnotationClose = "<<"
)

// Span is a closed annotation span over a slice of lines.
// Start and End are inclusive line indexes; Start == End for a single-line span.
type Span struct {
	Start int
	End   int
}

// Spans returns every closed annotation span in lines, in order.
//
// A span opens on a line starting with ">>" and closes on the first line at or
// after the opener that ends with "<<". An opener without a closer yields no
// span: its lines stay ordinary text. Both the block parser and the preview
// rewrite use this scanner, so they always agree on boundaries.
func Spans(lines []string) []Span {
	var spans []Span
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], AnnotationOpen) {
			continue
		}
		end := closingLine(lines, i)
		if end < 0 {
			continue
		}
		spans = append(spans, Span{Start: i, End: end})
		i = end
	}
	return spans
}

// closingLine finds the line that closes a span opened at start, or -1.
func closingLine(lines []string, start int) int {
	// The opener's own markers must not overlap: ">><<" closes, ">><" does not.
	if rest := strings.TrimPrefix(lines[start], AnnotationOpen); strings.HasSuffix(rest, AnnotationClose) {
		return start
	}
	for j := start + 1; j < len(lines); j++ {
		if strings.HasSuffix(lines[j], AnnotationClose) {
			return j
		}
	}
	return -1
}

// Content returns the span's text with the opening and closing markers
// stripped and lines joined with "\n".
func (s Span) Content(lines []string) string {
	parts := make([]string, 0, s.End-s.Start+1)
	for i := s.Start; i <= s.End; i++ {
		line := lines[i]
		if i == s.Start {
			line = strings.TrimPrefix(line, AnnotationOpen)
		}
		if i == s.End {
			line = strings.TrimSuffix(line, AnnotationClose)
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

// Lines returns the span's content split back into lines.
func (s Span) Lines(lines []string) []string {
	return strings.Split(s.Content(lines), "\n")
}

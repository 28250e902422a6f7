package pipeline

import (
	"context"
	"strings"

	"github.com/alnah/go-mdexport/internal/document"
)

// quotePrefix turns a line into a blockquote line.
const quotePrefix = "> "

// MarkdownPreprocessor prepares source text for the preview renderer.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// PreviewPreprocessor applies the preview-path rewrites.
type PreviewPreprocessor struct{}

// PreprocessMarkdown normalizes line endings and rewrites annotation spans.
func (p *PreviewPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return RewriteAnnotations(content)
}

// RewriteAnnotations rewrites every closed >> ... << span into blockquote
// lines, one "> " line per span line, interior line breaks kept. Span
// boundaries come from document.Spans so the preview and the block parser
// always agree. A blank line is inserted after a span followed directly by
// text, otherwise markdown would fold that text into the quote.
//
// An unclosed opener has its first '>' escaped so it renders as the literal
// paragraph the block parser produces, not as a nested quote. Line endings
// are normalized to "\n".
func RewriteAnnotations(content string) string {
	lines := document.SplitLines(content)
	spans := document.Spans(lines)

	out := make([]string, 0, len(lines)+len(spans))
	cursor := 0
	for _, s := range spans {
		out = appendLiteral(out, lines[cursor:s.Start])
		for _, line := range s.Lines(lines) {
			out = append(out, quotePrefix+line)
		}
		cursor = s.End + 1
		if cursor < len(lines) && strings.TrimSpace(lines[cursor]) != "" {
			out = append(out, "")
		}
	}
	out = appendLiteral(out, lines[cursor:])
	return strings.Join(out, "\n")
}

// appendLiteral appends lines that lie outside every span.
func appendLiteral(out, lines []string) []string {
	for _, line := range lines {
		if strings.HasPrefix(line, document.AnnotationOpen) {
			line = `\` + line
		}
		out = append(out, line)
	}
	return out
}

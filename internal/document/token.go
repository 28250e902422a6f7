package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// TokenKind identifies an inline token variant.
type TokenKind int

// Inline token kinds.
const (
	TokenText TokenKind = iota
	TokenStrong
	TokenEmphasis
	TokenStrike
	TokenCodeSpan
	TokenRaw // unrecognized construct, carried as its source text
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenStrong:
		return "strong"
	case TokenEmphasis:
		return "emphasis"
	case TokenStrike:
		return "strike"
	case TokenCodeSpan:
		return "codespan"
	case TokenRaw:
		return "raw"
	}
	return "unknown"
}

// Token is one lexical unit of inline markdown.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenizer lowers goldmark's AST for a piece of inline text into a flat
// token stream. Safe for concurrent use.
type Tokenizer struct {
	parser parser.Parser
}

// NewTokenizer creates a Tokenizer with GFM strikethrough enabled.
// Tables, autolinking and raw HTML rendering are deliberately not enabled:
// the block structure has already been decided by the line parser.
func NewTokenizer() *Tokenizer {
	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
	return &Tokenizer{parser: md.Parser()}
}

// Tokenize splits src into tokens. Concatenating the token texts reproduces
// src with inline markers removed. Never fails.
func (t *Tokenizer) Tokenize(src string) []Token {
	source := []byte(src)
	doc := t.parser.Parse(text.NewReader(source))

	z := &tokenStream{source: source}
	cursor := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		start, stop, ok := blockExtent(n, source)
		if !ok {
			// Covered by the surrounding gaps.
			continue
		}
		if _, isPara := n.(*ast.Paragraph); !isPara {
			start = lineStart(source, start)
		}
		if start < cursor {
			start = cursor
		}

		gap := string(source[cursor:start])
		if cursor == 0 && strings.TrimSpace(gap) == "" {
			// Leading blank lines go; the first line's indentation stays.
			gap = gap[strings.LastIndex(gap, "\n")+1:]
		}
		z.emit(TokenText, gap)

		if para, isPara := n.(*ast.Paragraph); isPara {
			z.inline(para)
		} else {
			z.emit(TokenRaw, string(source[start:stop]))
		}
		cursor = stop
	}

	// Trailing spaces on the last line are text; trailing blank lines are not.
	rest := strings.TrimRight(string(source[cursor:]), "\n")
	if strings.TrimSpace(rest) != "" || !strings.Contains(rest, "\n") {
		z.emit(TokenText, rest)
	}
	return z.tokens
}

type tokenStream struct {
	source []byte
	tokens []Token
}

func (z *tokenStream) emit(kind TokenKind, s string) {
	if s == "" {
		return
	}
	z.tokens = append(z.tokens, Token{Kind: kind, Text: s})
}

// inline emits one token per top-level inline child of n.
// Nested styles collapse into the outermost token.
func (z *tokenStream) inline(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			z.emit(TokenText, textValue(node, z.source))
		case *ast.String:
			z.emit(TokenText, string(node.Value))
		case *ast.Emphasis:
			z.emit(emphasisKind(node), flatten(node, z.source))
		case *extast.Strikethrough:
			z.emit(TokenStrike, flatten(node, z.source))
		case *ast.CodeSpan:
			z.emit(TokenCodeSpan, flatten(node, z.source))
		default:
			z.emit(TokenRaw, rawInline(c, z.source))
		}
	}
}

// emphasisKind maps an emphasis node to its token kind. A triple marker
// parses as emphasis wrapping strong and resolves to strong.
func emphasisKind(e *ast.Emphasis) TokenKind {
	if e.Level >= 2 {
		return TokenStrong
	}
	if inner, ok := e.FirstChild().(*ast.Emphasis); ok && inner.NextSibling() == nil && inner.Level >= 2 {
		return TokenStrong
	}
	return TokenEmphasis
}

// textValue returns a text node's content including its line break.
func textValue(t *ast.Text, source []byte) string {
	v := string(t.Segment.Value(source))
	if t.SoftLineBreak() || t.HardLineBreak() {
		v += lineBreak(source, t.Segment.Stop)
	}
	return v
}

// lineBreak returns the source from pos through the next newline and the
// following line's indentation. The parser trims both from text segments,
// including the spaces or backslash that mark a hard break.
func lineBreak(source []byte, pos int) string {
	end := pos
	for end < len(source) && source[end] != '\n' {
		end++
	}
	if end == len(source) {
		return string(source[pos:]) + "\n"
	}
	end++
	for end < len(source) && (source[end] == ' ' || source[end] == '\t') {
		end++
	}
	return string(source[pos:end])
}

// flatten concatenates the text of every descendant of n.
func flatten(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.WriteString(textValue(node, source))
		case *ast.String:
			b.Write(node.Value)
		case *ast.RawHTML, *ast.AutoLink, *ast.Link, *ast.Image:
			b.WriteString(rawInline(c, source))
		default:
			b.WriteString(flatten(c, source))
		}
	}
	return b.String()
}

// rawInline reconstructs the source of an unrecognized inline node.
func rawInline(n ast.Node, source []byte) string {
	switch node := n.(type) {
	case *ast.Link:
		return "[" + flatten(node, source) + "](" + destination(node.Destination, node.Title) + ")"
	case *ast.Image:
		return "![" + flatten(node, source) + "](" + destination(node.Destination, node.Title) + ")"
	case *ast.AutoLink:
		return "<" + string(node.Label(source)) + ">"
	case *ast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(source))
		}
		return b.String()
	}
	return flatten(n, source)
}

func destination(dest, title []byte) string {
	if len(title) == 0 {
		return string(dest)
	}
	return string(dest) + ` "` + string(title) + `"`
}

// blockExtent returns the source range covered by a block node's lines,
// without the trailing line terminator.
func blockExtent(n ast.Node, source []byte) (start, stop int, ok bool) {
	start, stop = -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := c.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if start < 0 || seg.Start < start {
				start = seg.Start
			}
			if seg.Stop > stop {
				stop = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if start < 0 {
		return 0, 0, false
	}
	for stop > start && (source[stop-1] == '\n' || source[stop-1] == '\r') {
		stop--
	}
	return start, stop, true
}

// lineStart moves pos back to the first byte of its line.
func lineStart(source []byte, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

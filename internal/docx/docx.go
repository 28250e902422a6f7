// Package docx serializes a block sequence into an Office Open XML
// word-processing package.
//
// Output is deterministic: the same blocks, style and page always produce the
// same bytes. Serialization either succeeds completely or writes nothing.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/alnah/go-mdexport/internal/document"
	"github.com/alnah/go-mdexport/internal/theme"
)

// DefaultFilename is the name offered for downloaded documents.
const DefaultFilename = "document.docx"

// zipModTime is stamped on every archive entry so output is reproducible.
var zipModTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Option configures a Writer.
type Option func(*Writer)

// WithPage overrides the default A4 portrait, one-inch-margin page.
func WithPage(p Page) Option {
	return func(w *Writer) {
		w.page = p
	}
}

// Writer turns blocks into a .docx package using one theme style.
type Writer struct {
	style theme.Style
	page  Page
}

// NewWriter creates a Writer for style.
func NewWriter(style theme.Style, opts ...Option) *Writer {
	w := &Writer{style: style, page: DefaultPage()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Serialize is a convenience wrapper around NewWriter and Writer.Bytes.
func Serialize(blocks []document.Block, style theme.Style, opts ...Option) ([]byte, error) {
	return NewWriter(style, opts...).Bytes(blocks)
}

// Write serializes blocks to out. The package is built in memory first, so
// out receives nothing when serialization fails.
func (w *Writer) Write(out io.Writer, blocks []document.Block) error {
	data, err := w.Bytes(blocks)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("%w: writing output: %v", ErrSerialize, err)
	}
	return nil
}

// Bytes returns the complete package for blocks.
func (w *Writer) Bytes(blocks []document.Block) ([]byte, error) {
	if err := w.style.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	if err := w.page.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	body, err := w.documentXML(blocks)
	if err != nil {
		return nil, err
	}

	parts := []struct {
		name    string
		content string
	}{
		{partContentTypes, contentTypesXML},
		{partRels, relsXML},
		{partDocumentRels, documentRelsXML},
		{partStyles, stylesXML(w.style)},
		{partSettings, settingsXML},
		{partDocument, body},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: zipModTime,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrSerialize, p.name, err)
		}
		if _, err := io.WriteString(fw, p.content); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %v", ErrSerialize, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing archive: %v", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}

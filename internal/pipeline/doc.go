// Package pipeline renders source text into the themed preview document.
//
// Stages, in order:
//   - Preprocessing: line ending normalization and the annotation rewrite
//     (>> ... << spans become blockquote lines)
//   - Markdown to HTML via goldmark, with node renderers that add the
//     theme hooks (h1 badge, heading and note classes, table wrapper)
//   - Page assembly: the preview template, base stylesheet and generated
//     theme stylesheet are combined into one standalone HTML document
//   - Optional rewriting of relative image and link paths to file:// URLs
//
// The structured export path (block parser and DOCX writer) does not pass
// through this package; both paths share only the annotation span scanner.
package pipeline

// Package mdexport exports themed Markdown to DOCX, print-image PDF and HTML.
//
// # Quick Start
//
// Create a converter, export, and close when done:
//
//	conv, err := mdexport.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	doc, err := conv.DOCX(ctx, mdexport.Input{
//	    Markdown: "# Hello\n\n>>A note\nacross lines<<",
//	    Theme:    "nature",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(mdexport.DOCXFilename, doc, 0o644)
//
// # Export Paths
//
// The same source feeds two independent paths:
//
//  1. Block path (DOCX): the source is parsed once into an ordered block
//     sequence (headings 1-3, paragraphs, annotations, tables, rules) with
//     styled inline runs, then serialized with the theme's colors, sizes and
//     spacing.
//  2. Rendered path (HTML, PDF): >> ... << annotations are rewritten to
//     blockquotes, goldmark renders the markdown with theme-aware node
//     renderers, and the page is wrapped in the preview template. The PDF
//     export rasterizes that page in headless Chrome at 2x and slices it into
//     A4 JPEG frames.
//
// Use Converter.Blocks to inspect the block sequence directly.
//
// # Themes
//
// Four built-in themes are available: modern (default), vintage, minimal and
// nature. Unknown theme names are rejected before any export work starts.
//
// # Parallel Processing
//
// For batch export, use ConverterPool to manage multiple browser instances:
//
//	pool := mdexport.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	pdf, err := conv.PDF(ctx, input)
//
// # Browser Requirements
//
// PDF export requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// DOCX and HTML exports never start a browser.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mdexport

package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds DOCX page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// exportFlags holds rendering options.
type exportFlags struct {
	format     string
	theme      string
	singlePage bool
	dark       bool
	title      string
	fontSize   string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	export    exportFlags
	page      pageFlags
	output    string
	workers   int
	timeout   string
	assetPath string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common       commonFlags
	addr         string
	prefsBackend string
	prefsPath    string
	workers      int
	timeout      string
	assetPath    string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
}

func addExportFlags(fs *flag.FlagSet, f *exportFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "output format: docx, pdf, html")
	fs.StringVar(&f.theme, "theme", "", "theme: modern, vintage, minimal, nature")
	fs.BoolVar(&f.singlePage, "single-page", false, "render the PDF as one continuous page")
	fs.BoolVar(&f.dark, "dark", false, "dark palette for HTML output")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.fontSize, "font-size", "", "base font size for HTML and PDF (e.g. 16px)")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "DOCX page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "DOCX orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "DOCX margin in inches (0.25-3.0)")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")

	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)
	addPageFlags(fs, &f.page)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	fs.StringVar(&f.prefsBackend, "prefs-backend", "", "preference store: file, sqlite")
	fs.StringVar(&f.prefsPath, "prefs-path", "", "preference file or database path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent PDF exports (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")

	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printServeUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Export markdown files to DOCX, PDF, or HTML")
	fmt.Fprintln(w, "  serve      Run the preview and export HTTP service")
	fmt.Fprintln(w, "  themes     List available themes")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdexport help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport convert <input...> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export markdown files to DOCX, PDF, or HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files or directories")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -f, --format <s>          Format: docx, pdf, html (default docx)")
	fmt.Fprintln(w, "      --theme <s>           Theme: modern, vintage, minimal, nature")
	fmt.Fprintln(w, "      --single-page         One continuous PDF page")
	fmt.Fprintln(w, "      --dark                Dark palette (HTML only)")
	fmt.Fprintln(w, "      --title <s>           Document title")
	fmt.Fprintln(w, "      --font-size <s>       Base font size (HTML and PDF)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (DOCX):")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --asset-path <dir>    Override embedded styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve previews, exports, and saved preferences over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "      --prefs-backend <s>   Preference store: file, sqlite")
	fmt.Fprintln(w, "      --prefs-path <path>   Preference file or database")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent PDF exports (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF export timeout")
	fmt.Fprintln(w, "      --asset-path <dir>    Override embedded styles and templates")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDEXPORT_ADDR, MDEXPORT_PREFS_BACKEND, MDEXPORT_PREFS_PATH")
	fmt.Fprintln(w, "  override the config file; flags override both.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "themes":
		fmt.Fprintln(env.Stdout, "Usage: mdexport themes")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List available themes. The default is marked with '*'.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdexport version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdexport help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

// Package hints appends remedies to CLI error messages. Each helper returns
// "" or a suffix of the form "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// Indirections swapped by tests.
var (
	getenv      = os.Getenv
	inContainer = func() bool { return fileutil.FileExists("/.dockerenv") }
)

// ciVars are set by common CI runners.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

// ForBrowserConnect suggests launcher settings for PDF export failures.
// Chrome refuses to start sandboxed inside most containers and CI runners.
func ForBrowserConnect() string {
	var parts []string
	if sandboxed() && getenv("ROD_NO_SANDBOX") != "1" {
		parts = append(parts, "set ROD_NO_SANDBOX=1 inside containers and CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "point ROD_BROWSER_BIN at an installed Chrome")
	}
	if len(parts) == 0 {
		return ""
	}
	parts = append(parts, "docx and html exports work without a browser")
	return suffix(strings.Join(parts, "; "))
}

func sandboxed() bool {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return true
		}
	}
	return inContainer()
}

// ForTimeout suggests a longer PDF export budget.
func ForTimeout() string {
	return suffix("raise --timeout (or export.timeout in the config) for long documents")
}

// ForConfigNotFound suggests --config, or creating the per-user config that
// was searched for.
func ForConfigNotFound(searched []string) string {
	text := "pass --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(p, "go-mdexport") {
			text += " or create " + p
			break
		}
	}
	return suffix(text)
}

// ForOutputDirectory covers output directory creation failures.
func ForOutputDirectory() string {
	return suffix("check the parent of --output exists and is writable")
}

// ForUnknownTheme lists the accepted theme names.
func ForUnknownTheme(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return suffix("available: " + strings.Join(available, ", "))
}

// ForPrefsStore covers preference store failures in serve.
func ForPrefsStore() string {
	return suffix("set MDEXPORT_PREFS_PATH to a writable location or use --prefs-backend file")
}

func suffix(text string) string {
	return "\n  hint: " + text
}

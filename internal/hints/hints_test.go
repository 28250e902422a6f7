package hints

// Notes:
// - ForBrowserConnect reads the environment through the package getenv and
//   inContainer hooks; tests that swap them do not run in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"strings"
	"testing"
)

// fakeEnv swaps the environment hooks for the duration of a test.
func fakeEnv(t *testing.T, vars map[string]string, container bool) {
	t.Helper()
	origEnv, origContainer := getenv, inContainer
	t.Cleanup(func() { getenv, inContainer = origEnv, origContainer })
	getenv = func(k string) string { return vars[k] }
	inContainer = func() bool { return container }
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Launcher suggestions
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name      string
		vars      map[string]string
		container bool
		want      []string
		notWant   []string
	}{
		{
			name: "ci without settings",
			vars: map[string]string{"GITHUB_ACTIONS": "true"},
			want: []string{"hint:", "ROD_NO_SANDBOX=1", "ROD_BROWSER_BIN", "without a browser"},
		},
		{
			name:      "container without settings",
			container: true,
			want:      []string{"ROD_NO_SANDBOX=1"},
		},
		{
			name:    "desktop only needs a browser path",
			want:    []string{"ROD_BROWSER_BIN"},
			notWant: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:      "sandbox already disabled",
			vars:      map[string]string{"CI": "1", "ROD_NO_SANDBOX": "1"},
			container: true,
			want:      []string{"ROD_BROWSER_BIN"},
			notWant:   []string{"ROD_NO_SANDBOX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeEnv(t, tt.vars, tt.container)
			got := ForBrowserConnect()
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("ForBrowserConnect() = %q, want substring %q", got, s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(got, s) {
					t.Errorf("ForBrowserConnect() = %q, should not mention %q", got, s)
				}
			}
		})
	}
}

func TestForBrowserConnect_FullyConfigured(t *testing.T) {
	fakeEnv(t, map[string]string{"CI": "true", "ROD_NO_SANDBOX": "1", "ROD_BROWSER_BIN": "/usr/bin/chromium"}, true)

	if got := ForBrowserConnect(); got != "" {
		t.Errorf("ForBrowserConnect() = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// TestStaticHints - Fixed suggestions
// ---------------------------------------------------------------------------

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "writable"},
		{"prefs store", ForPrefsStore(), "MDEXPORT_PREFS_PATH"},
		{"themes", ForUnknownTheme([]string{"modern", "nature"}), "available: modern, nature"},
		{"config without user path", ForConfigNotFound([]string{"a.yaml"}), "pass --config"},
		{
			"config with user path",
			ForConfigNotFound([]string{"a.yaml", "/home/u/.config/go-mdexport/a.yaml", "/home/u/.config/go-mdexport/a.yml"}),
			"or create /home/u/.config/go-mdexport/a.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("hint %q lacks the standard prefix", tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint = %q, want substring %q", tt.got, tt.want)
			}
		})
	}
}

func TestForUnknownTheme_Empty(t *testing.T) {
	t.Parallel()

	if got := ForUnknownTheme(nil); got != "" {
		t.Errorf("ForUnknownTheme(nil) = %q, want empty", got)
	}
}

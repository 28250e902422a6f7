package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestResolveImagePaths(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	tests := []struct {
		name         string
		html         string
		baseDir      string
		wantContains string
	}{
		{"relative with dot slash", `<img src="./img/a.png">`, "/docs", `src="file:///docs/img/a.png"`},
		{"relative plain", `<img src="img/a.png">`, "/docs", `src="file:///docs/img/a.png"`},
		{"absolute unchanged", `<img src="/abs/a.png">`, "/docs", `src="/abs/a.png"`},
		{"https unchanged", `<img src="https://x.test/a.png">`, "/docs", `src="https://x.test/a.png"`},
		{"data unchanged", `<img src="data:image/png;base64,AA==">`, "/docs", `src="data:image/png;base64,AA=="`},
		{"traversal unchanged", `<img src="../secret.png">`, "/docs", `src="../secret.png"`},
		{"links unchanged", `<a href="other.md">x</a>`, "/docs", `href="other.md"`},
		{"spaces escaped", `<img src="my pic.png">`, "/docs", `src="file:///docs/my%20pic.png"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveImagePaths("<!DOCTYPE html><html><body>"+tt.html+"</body></html>", tt.baseDir)
			if err != nil {
				t.Fatalf("ResolveImagePaths() unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("ResolveImagePaths() = %q, want it to contain %q", got, tt.wantContains)
			}
		})
	}
}

func TestResolveImagePaths_EmptyBaseDir(t *testing.T) {
	t.Parallel()

	in := `<img src="a.png">`
	got, err := ResolveImagePaths(in, "")
	if err != nil || got != in {
		t.Errorf("ResolveImagePaths() = %q, %v; want input unchanged", got, err)
	}
}

func TestIsWithin(t *testing.T) {
	t.Parallel()

	dir := filepath.FromSlash("/docs")
	tests := []struct {
		path string
		want bool
	}{
		{"/docs/a.png", true},
		{"/docs/sub/a.png", true},
		{"/docs", true},
		{"/docs/../etc/passwd", false},
		{"/docsevil/a.png", false},
		{"/docs/..foo/a.png", true},
	}
	for _, tt := range tests {
		if got := isWithin(filepath.FromSlash(tt.path), dir); got != tt.want {
			t.Errorf("isWithin(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

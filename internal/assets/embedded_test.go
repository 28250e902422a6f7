package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		styleName   string
		wantErr     error
		wantContain string
	}{
		{
			name:        "loads base style",
			styleName:   DefaultStyleName,
			wantContain: ".preview-content",
		},
		{
			name:      "unknown style",
			styleName: "nonexistent-style-xyz",
			wantErr:   ErrStyleNotFound,
		},
		{
			name:      "traversal rejected",
			styleName: "../secret",
			wantErr:   ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadStyle(%q) missing %q", tt.styleName, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	got, err := NewEmbeddedLoader().LoadTemplate(PreviewTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() unexpected error: %v", err)
	}
	for _, want := range []string{"{{.Body}}", "{{.Title}}", `class="preview-content"`, "</head>"} {
		if !strings.Contains(got, want) {
			t.Errorf("preview template missing %q", want)
		}
	}

	if _, err := NewEmbeddedLoader().LoadTemplate("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestBaseStyle_UsesThemeProperties(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle(DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() unexpected error: %v", err)
	}
	for _, prop := range []string{"--md-h1-from", "--md-h2-bg", "--md-h3-border", "--md-quote-bg", "--md-table-header", "--md-table-hover"} {
		if !strings.Contains(css, "var("+prop+")") {
			t.Errorf("base.css does not reference %s", prop)
		}
	}
}

func TestLoadTemplate_PackageLevel(t *testing.T) {
	t.Parallel()

	if _, err := LoadTemplate(PreviewTemplateName); err != nil {
		t.Errorf("LoadTemplate() unexpected error: %v", err)
	}
}

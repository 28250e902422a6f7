// Package assets provides the stylesheet and page template used to render
// the themed preview document.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// The theme-independent layout lives in styles/base.css; theme colors are
// generated at render time as CSS custom properties and injected alongside it.
// A custom directory can override either asset by name:
//
//	{basePath}/
//	├── styles/
//	│   └── base.css
//	└── templates/
//	    └── preview.html
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets

// Built-in asset names.
const (
	DefaultStyleName    = "base"
	PreviewTemplateName = "preview"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS file by name (without the .css extension).
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in HTML template by name (without the .html extension).
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

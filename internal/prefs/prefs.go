// Package prefs persists editor preferences between sessions: the last
// document, the selected theme and the dark-mode flag.
//
// State is loaded once at start and saved whenever it changes. Missing or
// stale state never fails a load; it falls back to the defaults.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mdexport/internal/theme"
)

// Sentinel errors for preference storage.
var (
	ErrStore          = errors.New("preference store failed")
	ErrUnknownBackend = errors.New("unknown preference backend")
)

// WelcomeMarkdown is the document shown when nothing has been saved yet.
const WelcomeMarkdown = `# Welcome to Markdown Export

## Features
- Multiple beautiful themes
- Live preview
- DOCX and PDF export
- Dark mode
- Share links

### Try it out!
Start typing to see the preview update...`

// Prefs is the persisted editor state.
type Prefs struct {
	Markdown string      `yaml:"markdown" json:"markdown"`
	Theme    theme.Theme `yaml:"theme" json:"theme"`
	DarkMode bool        `yaml:"darkMode" json:"darkMode"`
}

// Default returns the first-run state: welcome document, default theme, light mode.
func Default() Prefs {
	return Prefs{
		Markdown: WelcomeMarkdown,
		Theme:    theme.Default,
	}
}

// Validate rejects a theme outside the enumeration.
func (p Prefs) Validate() error {
	_, err := theme.Parse(string(p.Theme))
	return err
}

// normalize fills empty fields with defaults and drops a stale theme.
func (p Prefs) normalize() Prefs {
	if p.Markdown == "" {
		p.Markdown = WelcomeMarkdown
	}
	t, err := theme.Parse(string(p.Theme))
	if err != nil {
		t = theme.Default
	}
	p.Theme = t
	return p
}

// Store loads and saves preferences.
type Store interface {
	Load(ctx context.Context) (Prefs, error)
	Save(ctx context.Context, p Prefs) error
}

// StoreCloser is a Store holding releasable resources.
type StoreCloser interface {
	Store
	io.Closer
}

// Backend selects a Store implementation.
type Backend string

// Supported backends.
const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Open creates the store for backend at path.
func Open(backend Backend, path string) (StoreCloser, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("%w: %q (must be file or sqlite)", ErrUnknownBackend, backend)
}

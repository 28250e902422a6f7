package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/yamlutil"
)

// DefaultFilename is the preference file inside the user config directory.
const DefaultFilename = "prefs.yaml"

// appDir is the per-user configuration directory name.
const appDir = "go-mdexport"

// FileStore keeps preferences in a YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the YAML file at path. The file is
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns ~/.config/go-mdexport/prefs.yaml (or the platform
// equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}
	return filepath.Join(dir, appDir, DefaultFilename), nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (Prefs, error) {
	if err := ctx.Err(); err != nil {
		return Prefs{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path) // #nosec G304 -- path comes from local config
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Prefs{}, fmt.Errorf("%w: reading %s: %w", ErrStore, s.path, err)
	}

	var p Prefs
	if err := yamlutil.Unmarshal(data, &p); err != nil {
		if errors.Is(err, yamlutil.ErrNilData) {
			return Default(), nil
		}
		return Prefs{}, fmt.Errorf("%w: parsing %s: %w", ErrStore, s.path, err)
	}
	return p.normalize(), nil
}

func (s *FileStore) Save(ctx context.Context, p Prefs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yamlutil.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("%w: creating directory: %w", ErrStore, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error { return nil }

var _ StoreCloser = (*FileStore)(nil)

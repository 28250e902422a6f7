package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/theme"
	"github.com/alnah/go-mdexport/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength       = 200  // Document title
	MaxPathLength        = 4096 // PATH_MAX on Linux
	MaxAddrLength        = 255  // host:port
	MaxFontSizeLength    = 20   // "16px", "1.125rem"
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
)

// Margin bounds in inches. Zero means "use the default".
const (
	minMargin = 0.25
	maxMargin = 3.0
)

// Default server settings.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 4 << 20
)

// Environment overrides.
const (
	EnvAddr         = "MDEXPORT_ADDR"
	EnvPrefsBackend = "MDEXPORT_PREFS_BACKEND"
	EnvPrefsPath    = "MDEXPORT_PREFS_PATH"
)

// appDir is the per-user configuration directory name.
const appDir = "go-mdexport"

// Config holds all configuration for the CLI and the HTTP service.
type Config struct {
	Export ExportConfig `yaml:"export"`
	Output OutputConfig `yaml:"output"`
	Assets AssetsConfig `yaml:"assets"`
	Page   PageConfig   `yaml:"page"`
	Server ServerConfig `yaml:"server"`
	Prefs  PrefsConfig  `yaml:"prefs"`
}

// ExportConfig defines default export options.
type ExportConfig struct {
	Format     string `yaml:"format"`     // "docx", "pdf", "html" (default: "docx")
	Theme      string `yaml:"theme"`      // theme name (default: "modern")
	SinglePage bool   `yaml:"singlePage"` // one continuous PDF page
	Dark       bool   `yaml:"dark"`       // dark HTML preview
	Title      string `yaml:"title"`      // Empty = "Document"
	FontSize   string `yaml:"fontSize"`   // CSS size, e.g. "16px"
	Timeout    string `yaml:"timeout"`    // Go duration, e.g. "45s"
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines DOCX page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 1.0)
}

// ServerConfig defines the HTTP service.
type ServerConfig struct {
	Addr         string `yaml:"addr"`         // listen address (default: ":8080")
	MaxBodyBytes int64  `yaml:"maxBodyBytes"` // request body cap (default: 4 MiB)
}

// PrefsConfig selects the preference store.
type PrefsConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite" (default: "file")
	Path    string `yaml:"path"`    // Empty = user config directory
}

// Validate checks value sets and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Export.Format != "" {
		switch strings.ToLower(c.Export.Format) {
		case "docx", "pdf", "html":
		default:
			return fmt.Errorf("%w: export.format %q (must be docx, pdf, or html)", ErrInvalidValue, c.Export.Format)
		}
	}
	if c.Export.Theme != "" {
		if _, err := theme.Parse(c.Export.Theme); err != nil {
			return fmt.Errorf("export.theme: %w", err)
		}
	}
	if err := validateFieldLength("export.title", c.Export.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.fontSize", c.Export.FontSize, MaxFontSizeLength); err != nil {
		return err
	}
	if c.Export.Timeout != "" {
		d, err := time.ParseDuration(c.Export.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: export.timeout %q (must be a positive duration)", ErrInvalidValue, c.Export.Timeout)
		}
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if err := c.validatePage(); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must not be negative, got %d", ErrInvalidValue, c.Server.MaxBodyBytes)
	}

	if c.Prefs.Backend != "" {
		switch strings.ToLower(c.Prefs.Backend) {
		case "file", "sqlite":
		default:
			return fmt.Errorf("%w: prefs.backend %q (must be file or sqlite)", ErrInvalidValue, c.Prefs.Backend)
		}
	}
	return validateFieldLength("prefs.path", c.Prefs.Path, MaxPathLength)
}

func (c *Config) validatePage() error {
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if c.Page.Size != "" {
		switch strings.ToLower(c.Page.Size) {
		case "letter", "a4", "legal":
		default:
			return fmt.Errorf("%w: page.size %q (must be letter, a4, or legal)", ErrInvalidValue, c.Page.Size)
		}
	}
	if c.Page.Orientation != "" {
		switch strings.ToLower(c.Page.Orientation) {
		case "portrait", "landscape":
		default:
			return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.Page.Orientation)
		}
	}
	if c.Page.Margin != 0 && (c.Page.Margin < minMargin || c.Page.Margin > maxMargin) {
		return fmt.Errorf("%w: page.margin must be between %.2f and %.2f, got %.2f", ErrInvalidValue, minMargin, maxMargin, c.Page.Margin)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// TimeoutDuration returns the configured export timeout, or zero if unset.
// Call after Validate.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Export.Timeout)
	return d
}

// ApplyEnv overrides server and preference settings from MDEXPORT_*
// variables. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvPrefsBackend); v != "" {
		c.Prefs.Backend = v
	}
	if v := getenv(EnvPrefsPath); v != "" {
		c.Prefs.Path = v
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{Format: "docx", Theme: string(theme.Default)},
		Server: ServerConfig{Addr: DefaultAddr, MaxBodyBytes: DefaultMaxBodyBytes},
		Prefs:  PrefsConfig{Backend: "file"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdexport/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

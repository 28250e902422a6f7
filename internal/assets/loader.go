package assets

// AssetLoader loads CSS styles and HTML templates by bare name.
type AssetLoader interface {
	// LoadStyle returns ErrStyleNotFound when the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns ErrTemplateNotFound when the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-mdexport/internal/assets"
	"github.com/alnah/go-mdexport/internal/theme"
)

// ErrPageRender indicates the preview template could not be executed.
var ErrPageRender = errors.New("preview page rendering failed")

// defaultTitle is used when PageOptions.Title is empty.
const defaultTitle = "Document"

// PageOptions configures preview page assembly.
type PageOptions struct {
	Title    string
	Theme    theme.Theme
	Dark     bool
	FontSize string
	CSS      string // appended after the generated stylesheets
}

// pageData feeds the preview template.
type pageData struct {
	Title string
	Theme string
	Dark  bool
	Body  template.HTML
}

// PageAssembler wraps rendered HTML fragments in the preview template and
// injects the base, highlight and theme stylesheets.
type PageAssembler struct {
	tmpl     *template.Template
	baseCSS  string
	codeCSS  string
	injector CSSInjector
}

// NewPageAssembler loads the preview template and base stylesheet from loader.
func NewPageAssembler(loader assets.AssetLoader) (*PageAssembler, error) {
	tmplContent, err := loader.LoadTemplate(assets.PreviewTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading preview template: %w", err)
	}
	tmpl, err := template.New(assets.PreviewTemplateName).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing preview template: %w", err)
	}

	baseCSS, err := loader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading base style: %w", err)
	}

	codeCSS, err := HighlightCSS()
	if err != nil {
		return nil, err
	}

	return &PageAssembler{
		tmpl:     tmpl,
		baseCSS:  baseCSS,
		codeCSS:  codeCSS,
		injector: &CSSInjection{},
	}, nil
}

// Assemble returns a standalone HTML document around body. The theme must
// already be validated.
func (a *PageAssembler) Assemble(ctx context.Context, body string, opts PageOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t := opts.Theme
	if t == "" {
		t = theme.Default
	}
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}

	var buf bytes.Buffer
	err := a.tmpl.Execute(&buf, pageData{
		Title: title,
		Theme: t.String(),
		Dark:  opts.Dark,
		// #nosec G203 -- goldmark output without the unsafe option.
		Body: template.HTML(body),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	css := strings.Join([]string{
		a.baseCSS,
		a.codeCSS,
		BuildThemeCSS(theme.Resolve(t), ThemeCSSOptions{Dark: opts.Dark, FontSize: opts.FontSize}),
		opts.CSS,
	}, "\n")
	return a.injector.InjectCSS(ctx, buf.String(), css), nil
}

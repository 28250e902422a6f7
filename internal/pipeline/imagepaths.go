package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResolveImagePaths rewrites relative <img src> values in a standalone HTML
// document to file:// URLs under baseDir, so the browser that rasterizes the
// page from a temp file still finds images next to the markdown source.
//
// URLs, anchors, absolute paths and paths escaping baseDir are left as is.
// An empty baseDir returns the document unchanged.
func ResolveImagePaths(document, baseDir string) (string, error) {
	if baseDir == "" {
		return document, nil
	}
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for i, a := range n.Attr {
				if a.Key == "src" {
					if resolved, ok := resolveUnder(absDir, a.Val); ok {
						n.Attr[i].Val = resolved
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

// resolveUnder joins a relative ref onto dir and returns it as a file:// URL.
// ok is false when ref is not a local relative path or escapes dir.
func resolveUnder(dir, ref string) (string, bool) {
	if !isRelativeRef(ref) {
		return "", false
	}
	p := filepath.Join(dir, filepath.FromSlash(ref))
	if !isWithin(p, dir) {
		return "", false
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String(), true
}

// isRelativeRef reports whether ref is a relative filesystem path.
func isRelativeRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		// Single-letter schemes are Windows drive letters.
		return false
	}
	return !filepath.IsAbs(ref) && !strings.HasPrefix(ref, "/")
}

// isWithin reports whether p lies inside dir after cleaning.
func isWithin(p, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

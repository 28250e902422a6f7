package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/prefs"
	"github.com/alnah/go-mdexport/internal/theme"
)

// Response content types.
const (
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypePDF  = "application/pdf"
	contentTypeHTML = "text/html; charset=utf-8"
)

// exportRequest is the body of the preview and export endpoints.
type exportRequest struct {
	Markdown   string       `json:"markdown" binding:"required"`
	Theme      string       `json:"theme" binding:"omitempty,oneof=modern vintage minimal nature"`
	Dark       bool         `json:"dark"`
	SinglePage bool         `json:"singlePage"`
	Title      string       `json:"title" binding:"max=200"`
	Page       *pageRequest `json:"page"`
}

type pageRequest struct {
	Size        string  `json:"size" binding:"omitempty,oneof=letter a4 legal"`
	Orientation string  `json:"orientation" binding:"omitempty,oneof=portrait landscape"`
	Margin      float64 `json:"margin" binding:"omitempty,gte=0.25,lte=3"`
}

func (r exportRequest) input() mdexport.Input {
	in := mdexport.Input{
		Markdown:   r.Markdown,
		Theme:      r.Theme,
		Dark:       r.Dark,
		SinglePage: r.SinglePage,
		Title:      r.Title,
	}
	if r.Page != nil {
		page := mdexport.DefaultPageSettings()
		if r.Page.Size != "" {
			page.Size = r.Page.Size
		}
		if r.Page.Orientation != "" {
			page.Orientation = r.Page.Orientation
		}
		if r.Page.Margin != 0 {
			page.Margin = r.Page.Margin
		}
		in.Page = page
	}
	return in
}

// previewQuery is the share-link form: /preview?content=...&theme=...&dark=...
type previewQuery struct {
	Content string `form:"content"`
	Theme   string `form:"theme" binding:"omitempty,oneof=modern vintage minimal nature"`
	Dark    *bool  `form:"dark"`
}

type prefsRequest struct {
	Markdown string `json:"markdown"`
	Theme    string `json:"theme" binding:"required,oneof=modern vintage minimal nature"`
	DarkMode bool   `json:"darkMode"`
}

type shareRequest struct {
	Markdown string `json:"markdown" binding:"required"`
	Theme    string `json:"theme" binding:"omitempty,oneof=modern vintage minimal nature"`
	Dark     bool   `json:"dark"`
}

type themeInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Default bool   `json:"default,omitempty"`
}

type handlers struct {
	exp   Exporter
	store prefs.Store
	log   *zap.SugaredLogger
}

// GET /healthcheck
func (h *handlers) healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/themes
func (h *handlers) themes(c *gin.Context) {
	all := theme.All()
	out := make([]themeInfo, 0, len(all))
	for _, t := range all {
		out = append(out, themeInfo{ID: string(t), Label: t.Label(), Default: t == theme.Default})
	}
	c.JSON(http.StatusOK, gin.H{"themes": out})
}

// GET /preview?content=&theme=&dark=
// Without content, renders the saved document with the saved theme and mode.
func (h *handlers) sharedPreview(c *gin.Context) {
	var q previewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.loadPrefs(c)
	if err != nil {
		prefsError(c, err)
		return
	}

	in := mdexport.Input{Markdown: p.Markdown, Theme: string(p.Theme), Dark: p.DarkMode}
	if q.Content != "" {
		in.Markdown = q.Content
	}
	if q.Theme != "" {
		in.Theme = q.Theme
	}
	if q.Dark != nil {
		in.Dark = *q.Dark
	}

	out, err := h.exp.Preview(c.Request.Context(), in)
	if err != nil {
		exportError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, out)
}

// POST /api/preview
func (h *handlers) preview(c *gin.Context) {
	h.export(c, mdexport.FormatHTML)
}

// POST /api/export/docx
func (h *handlers) exportDOCX(c *gin.Context) {
	h.export(c, mdexport.FormatDOCX)
}

// POST /api/export/pdf
func (h *handlers) exportPDF(c *gin.Context) {
	h.export(c, mdexport.FormatPDF)
}

func (h *handlers) export(c *gin.Context, format mdexport.Format) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in := req.input()
	ctx := c.Request.Context()

	var (
		out         []byte
		err         error
		contentType string
		filename    string
	)
	switch format {
	case mdexport.FormatDOCX:
		out, err = h.exp.DOCX(ctx, in)
		contentType, filename = contentTypeDOCX, mdexport.DOCXFilename
	case mdexport.FormatPDF:
		out, err = h.exp.PDF(ctx, in)
		contentType, filename = contentTypePDF, mdexport.PDFFilename
	default:
		out, err = h.exp.Preview(ctx, in)
		contentType = contentTypeHTML
	}
	if err != nil {
		h.log.Warnw("export failed", "format", format, "error", err, "request_id", c.GetString(requestIDKey))
		exportError(c, err)
		return
	}

	if filename != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	c.Data(http.StatusOK, contentType, out)
}

// POST /api/share
// Returns a /preview link carrying the document in its query string.
func (h *handlers) share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	q := url.Values{}
	q.Set("content", req.Markdown)
	if req.Theme != "" {
		q.Set("theme", req.Theme)
	}
	if req.Dark {
		q.Set("dark", "true")
	}
	c.JSON(http.StatusOK, gin.H{"url": "/preview?" + q.Encode()})
}

// GET /api/prefs
func (h *handlers) getPrefs(c *gin.Context) {
	p, err := h.loadPrefs(c)
	if err != nil {
		prefsError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /api/prefs
func (h *handlers) putPrefs(c *gin.Context) {
	var req prefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if h.store == nil {
		respondError(c, http.StatusNotFound, codeUnknownResource, fmt.Errorf("preference store disabled"))
		return
	}

	p := prefs.Prefs{Markdown: req.Markdown, Theme: theme.Theme(req.Theme), DarkMode: req.DarkMode}
	if err := h.store.Save(c.Request.Context(), p); err != nil {
		h.log.Errorw("saving prefs failed", "error", err, "request_id", c.GetString(requestIDKey))
		prefsError(c, err)
		return
	}

	// Echo what a subsequent load returns.
	saved, err := h.store.Load(c.Request.Context())
	if err != nil {
		prefsError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *handlers) loadPrefs(c *gin.Context) (prefs.Prefs, error) {
	if h.store == nil {
		return prefs.Default(), nil
	}
	return h.store.Load(c.Request.Context())
}

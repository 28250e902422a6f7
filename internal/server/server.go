// Package server exposes preview, export and preference endpoints over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-mdexport/internal/prefs"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Config configures the HTTP service.
type Config struct {
	Addr         string
	MaxBodyBytes int64 // 0 = unlimited
}

// Server is the HTTP front end for a converter.
type Server struct {
	engine *gin.Engine
	cfg    Config
	log    *zap.SugaredLogger
}

// New builds the router. store may be nil to disable persisted preferences;
// log may be nil to discard logs.
func New(cfg Config, exp Exporter, store prefs.Store, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &handlers{exp: exp, store: store, log: log}
	return &Server{engine: newRouter(cfg, h, log), cfg: cfg, log: log}
}

func newRouter(cfg Config, h *handlers, log *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(log), bodyLimit(cfg.MaxBodyBytes))

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, codeUnknownResource, errors.New("no such route"))
	})

	router.GET("/healthcheck", h.healthCheck)
	router.GET("/preview", h.sharedPreview)

	api := router.Group("/api")
	{
		api.GET("/themes", h.themes)
		api.POST("/preview", h.preview)
		api.POST("/share", h.share)
		api.POST("/export/docx", h.exportDOCX)
		api.POST("/export/pdf", h.exportPDF)
		api.GET("/prefs", h.getPrefs)
		api.PUT("/prefs", h.putPrefs)
	}

	return router
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

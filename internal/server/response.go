package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/prefs"
	"github.com/alnah/go-mdexport/internal/theme"
)

// Error codes returned in the error envelope.
const (
	codeInvalidRequest  = "invalid_request"
	codeBodyTooLarge    = "body_too_large"
	codeExportFailed    = "export_failed"
	codeUnavailable     = "unavailable"
	codeTimeout         = "timeout"
	codePrefsFailed     = "prefs_failed"
	codeUnknownResource = "not_found"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   msg,
			Code:      code,
			RequestID: c.GetString(requestIDKey),
		},
	})
}

// bindError reports a request that failed binding or validation.
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, codeBodyTooLarge, err)
		return
	}
	respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
}

// exportError maps converter errors to HTTP statuses.
func exportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mdexport.ErrEmptyMarkdown),
		errors.Is(err, theme.ErrUnknownTheme),
		errors.Is(err, mdexport.ErrInvalidPageSize),
		errors.Is(err, mdexport.ErrInvalidOrientation),
		errors.Is(err, mdexport.ErrInvalidMargin):
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
	case errors.Is(err, mdexport.ErrClosed),
		errors.Is(err, mdexport.ErrBrowserConnect):
		respondError(c, http.StatusServiceUnavailable, codeUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, codeTimeout, err)
	default:
		respondError(c, http.StatusInternalServerError, codeExportFailed, err)
	}
}

// prefsError maps preference store errors to HTTP statuses.
func prefsError(c *gin.Context, err error) {
	if errors.Is(err, theme.ErrUnknownTheme) {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
		return
	}
	if errors.Is(err, context.Canceled) && !errors.Is(err, prefs.ErrStore) {
		// Client went away; nothing useful to send.
		c.AbortWithStatus(499)
		return
	}
	respondError(c, http.StatusInternalServerError, codePrefsFailed, err)
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"auditflow/backend/internal/assist"
	"auditflow/backend/pkg/models"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// MIMEProblemJSON is the media type of problem responses.
const MIMEProblemJSON = "application/problem+json"

// statusFor maps an error returned by a handler to an HTTP status and a
// detail safe to show the caller.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	switch {
	case errors.Is(err, models.ErrInvalidIdentifier),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, assist.ErrUnsupportedKind):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrClientNotFound),
		errors.Is(err, models.ErrWorkflowNotFound),
		errors.Is(err, models.ErrStepNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ErrorHandler renders handler errors as problem documents. Server errors
// are logged with the underlying cause.
func ErrorHandler(logger Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, detail := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}

		c.Response().Header().Set(echo.HeaderContentType, MIMEProblemJSON)
		_ = c.JSON(status, ProblemDetails{
			Type:     "about:blank",
			Title:    http.StatusText(status),
			Status:   status,
			Detail:   detail,
			Instance: c.Request().URL.Path,
		})
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "studentblog/internal/errors"
	"studentblog/internal/logger"
)

// ErrorHandler renders every error as the response envelope. Causes of
// 5xx responses are logged, never sent.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpErr := toHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Msg("request failed")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(httpErr.StatusCode)
	} else {
		writeErr = c.JSON(httpErr.StatusCode, httpErr.ToResponse())
	}
	if writeErr != nil {
		logger.Warn().Err(writeErr).Msg("write error response")
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		message := http.StatusText(echoErr.Code)
		if s, ok := echoErr.Message.(string); ok && s != "" {
			message = s
		} else if echoErr.Message != nil {
			message = fmt.Sprint(echoErr.Message)
		}
		httpErr := apperrors.NewHTTPError(echoErr.Code, message, codeForStatus(echoErr.Code))
		httpErr.Internal = echoErr.Internal
		if echoErr.Code >= http.StatusInternalServerError {
			httpErr.Message = "internal server error"
		}
		return httpErr
	}
	return apperrors.MapErrorToHTTP(err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "HTTP_ERROR"
}

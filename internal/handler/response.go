package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "studentblog/internal/errors"
)

// respond writes a successful envelope.
func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, apperrors.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// bindAndValidate decodes the request into req and runs the echo validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		httpErr := apperrors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			if msg, ok := echoErr.Message.(string); ok {
				httpErr.Errors = []string{msg}
			}
		}
		return httpErr
	}
	return c.Validate(req)
}

// parseID reads a UUID path parameter.
func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewHTTPError(http.StatusBadRequest, "invalid "+name, "INVALID_ID")
	}
	return id, nil
}

// TagList accepts either a JSON array of tags or one comma separated string.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("tags must be a string or an array of strings")
	}
	*t = splitTags(raw)
	return nil
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

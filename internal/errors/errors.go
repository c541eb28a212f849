package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrStudentNotFound is returned when a student is not found.
	ErrStudentNotFound = errors.New("student not found")
	// ErrBlogNotFound is returned when a blog is not found.
	ErrBlogNotFound = errors.New("blog not found")
	// ErrBlogNotOwned is returned when a blog does not exist or belongs to
	// someone else. Both cases share one response on purpose.
	ErrBlogNotOwned = errors.New("blog not found or you are not authorized to modify it")
	// ErrCommentNotFound is returned when a comment is not found on the blog.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrCommentForbidden is returned when neither the comment author nor the
	// blog author tries to delete a comment.
	ErrCommentForbidden = errors.New("not authorized to delete this comment")
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// ValidationError carries field level messages for a rejected request.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Errors     []string
	// Internal is logged but never sent to the client.
	Internal error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// WithErrors attaches field level messages.
func (e *HTTPError) WithErrors(messages []string) *HTTPError {
	e.Errors = messages
	return e
}

// ToResponse converts an HTTPError to the response envelope.
func (e *HTTPError) ToResponse() Response {
	return Response{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
		Errors:  e.Errors,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHTTPError(http.StatusBadRequest, "Validation error", "VALIDATION_ERROR").
			WithErrors(validationErr.Errors)
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", "USER_NOT_FOUND")
	case errors.Is(err, ErrStudentNotFound):
		return NewHTTPError(http.StatusNotFound, "Student not found", "STUDENT_NOT_FOUND")
	case errors.Is(err, ErrBlogNotFound):
		return NewHTTPError(http.StatusNotFound, "Blog not found", "BLOG_NOT_FOUND")
	case errors.Is(err, ErrBlogNotOwned):
		return NewHTTPError(http.StatusNotFound, "Blog not found or you are not authorized to modify it", "BLOG_NOT_FOUND")
	case errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, "Comment not found", "COMMENT_NOT_FOUND")
	case errors.Is(err, ErrCommentForbidden):
		return NewHTTPError(http.StatusForbidden, "Not authorized to delete this comment", "FORBIDDEN")
	default:
		e := NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		e.Internal = err
		return e
	}
}

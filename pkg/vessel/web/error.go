package web

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP error with a specific status code and message
type HTTPError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// NewHTTPErrorWithDetails creates a new HTTPError with additional details
func NewHTTPErrorWithDetails(statusCode int, message string, details any) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message, Details: details}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

// ErrUnauthorized creates a 401 Unauthorized error
func ErrUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// ErrForbidden creates a 403 Forbidden error
func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

// ErrConflict creates a 409 Conflict error
func ErrConflict(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message)
}

// Render maps a handler outcome to a status code and a JSON body. A nil body
// means the adapter sends headers only. Errors that are not *HTTPError
// become a bare 500 so internal messages never reach clients.
func Render(result any, err error) (int, any) {
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.StatusCode, httpErr
		}
		return http.StatusInternalServerError, NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	switch r := result.(type) {
	case nil:
		return http.StatusNoContent, nil
	case *Response:
		if r.StatusCode == 0 {
			return http.StatusOK, r.Body
		}
		return r.StatusCode, r.Body
	default:
		return http.StatusOK, result
	}
}

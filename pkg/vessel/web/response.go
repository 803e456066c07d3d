package web

import "net/http"

// Response lets a handler choose the status code of its reply.
//
// Example usage:
//
//	func (c *UserController) Create(ctx web.RequestContext) (any, error) {
//		// ... create user logic ...
//		return web.Created(user), nil
//	}
type Response struct {
	// StatusCode is the HTTP status code to return
	StatusCode int `json:"-"`

	// Body is JSON-encoded; nil sends no body
	Body any `json:"body,omitempty"`
}

// NewResponse creates a new Response with the specified status code and body
func NewResponse(statusCode int, body any) *Response {
	return &Response{StatusCode: statusCode, Body: body}
}

// OK creates a 200 OK response with the given body
func OK(body any) *Response {
	return NewResponse(http.StatusOK, body)
}

// Created creates a 201 Created response with the given body
func Created(body any) *Response {
	return NewResponse(http.StatusCreated, body)
}

// NoContent creates a 204 No Content response
func NoContent() *Response {
	return NewResponse(http.StatusNoContent, nil)
}

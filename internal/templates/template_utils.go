package templates

import (
	"strconv"
	"strings"
)

// ToCamelCase converts a string to camelCase
func ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// HandlerID returns the id a handler annotation registers under
func HandlerID(importPath, receiver, method string) string {
	return importPath + "." + receiver + "." + method
}

// HandlerConstName returns the name of the constant holding a handler id
func HandlerConstName(receiver, method string) string {
	return "Handler" + receiver + method
}

func quote(s string) string {
	return strconv.Quote(s)
}

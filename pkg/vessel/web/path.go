package web

import (
	"fmt"
	"strings"
)

// PathPartType represents the type of path part
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart represents a single part of a route path
type PathPart struct {
	Type      PathPartType
	Value     string // For static parts: the literal text, for parameters: the parameter name
	ParamType string // For parameters: the declared type, empty for untyped
}

// Path is a route path using {name}, {name:type} and {*} placeholders
type Path string

// Raw returns the path as written
func (p Path) Raw() string {
	return string(p)
}

// Parts splits the path into static text, parameters and wildcards
func (p Path) Parts() []PathPart {
	path := string(p)
	var parts []PathPart

	i := 0
	for i < len(path) {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				content := path[i+1 : j]
				if content == "*" {
					parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
				} else {
					name, paramType := content, ""
					if colon := strings.Index(content, ":"); colon != -1 {
						name = content[:colon]
						paramType = content[colon+1:]
					}
					parts = append(parts, PathPart{Type: ParameterPart, Value: name, ParamType: paramType})
				}
				i = j + 1
			} else {
				// unclosed brace, keep it literal
				parts = append(parts, PathPart{Type: StaticPart, Value: string(path[i])})
				i++
			}
			continue
		}

		start := i
		for i < len(path) && path[i] != '{' {
			i++
		}
		parts = append(parts, PathPart{Type: StaticPart, Value: path[start:i]})
	}

	return parts
}

// Validate checks brace balance and parameter names
func (p Path) Validate() error {
	path := string(p)
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path %q must start with /", path)
	}
	if strings.Count(path, "{") != strings.Count(path, "}") {
		return fmt.Errorf("mismatched braces in path %q", path)
	}
	for _, part := range p.Parts() {
		if part.Type == ParameterPart && part.Value == "" {
			return fmt.Errorf("empty parameter name in path %q", path)
		}
	}
	return nil
}

// Convert renders the path for a router, using param to format parameter
// placeholders and wildcard for {*}
func (p Path) Convert(param func(name string) string, wildcard string) string {
	var b strings.Builder
	for _, part := range p.Parts() {
		switch part.Type {
		case ParameterPart:
			b.WriteString(param(part.Value))
		case WildcardPart:
			b.WriteString(wildcard)
		default:
			b.WriteString(part.Value)
		}
	}
	return b.String()
}

// JoinPath joins a controller base path and a route path
func JoinPath(base, path string) Path {
	base = strings.TrimRight(base, "/")
	if path == "" || path == "/" {
		if base == "" {
			return "/"
		}
		return Path(base)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return Path(base + path)
}

package errors

import "fmt"

// Wrapping patterns used by the code generator

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause).
		WithContext("target", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// NewAnnotationSyntaxError creates a syntax error at an annotation's location
func NewAnnotationSyntaxError(message string, loc SourceLocation) *BaseError {
	return New(SyntaxErrorCode, message).
		WithLocation(loc).
		WithSuggestion("annotations look like: //vessel::component or //vessel::handler -Interceptors=A,B")
}

// NewAnnotationValidationError creates a validation error at an annotation's location
func NewAnnotationValidationError(message string, loc SourceLocation) *BaseError {
	return New(ValidationErrorCode, message).WithLocation(loc)
}

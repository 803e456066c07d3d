package errors

import (
	"fmt"
	"strings"
)

// Container resolution errors. Type names are passed pre-rendered so this
// package stays free of reflection.

// NewCycleError reports the nodes left unsorted by the dependency graph
func NewCycleError(remaining []string) *BaseError {
	return Newf(CycleErrorCode, "circular dependency detected among: %s", strings.Join(remaining, ", ")).
		WithContext("nodes", remaining).
		WithSuggestion("break the cycle by moving shared state into a separate component")
}

// NewUnresolvedDependencyError reports a declared dependency with no provider
func NewUnresolvedDependencyError(owner, field, dependency string) *BaseError {
	return Newf(UnresolvedDependencyErrorCode, "%s.%s requires %s, which is not registered", owner, field, dependency).
		WithContext("owner", owner).
		WithContext("field", field).
		WithContext("dependency", dependency).
		WithSuggestion(fmt.Sprintf("register %s as a component or add a factory producing it", dependency))
}

// NewDuplicateRegistrationError reports two definitions claiming one type
func NewDuplicateRegistrationError(typeName, first, second string) *BaseError {
	return Newf(DuplicateRegistrationErrorCode, "%s is provided by both %s and %s", typeName, first, second).
		WithContext("type", typeName)
}

// NewRegistrationError reports a malformed definition
func NewRegistrationError(typeName, reason string) *BaseError {
	return Newf(RegistrationErrorCode, "invalid definition for %s: %s", typeName, reason).
		WithContext("type", typeName)
}

// NewScanError reports a namespace that could not be scanned
func NewScanError(namespace string, cause error) *BaseError {
	return Wrapf(ScanErrorCode, cause, "failed to scan namespace %q", namespace).
		WithContext("namespace", namespace)
}

// NewInitializationError reports a component that failed to construct
func NewInitializationError(typeName string, cause error) *BaseError {
	return Wrapf(InitializationErrorCode, cause, "failed to initialize %s", typeName).
		WithContext("type", typeName)
}

// NewNotFoundError reports a lookup for a type with no singleton
func NewNotFoundError(typeName string) *BaseError {
	return Newf(NotFoundErrorCode, "no singleton for %s", typeName).
		WithContext("type", typeName)
}

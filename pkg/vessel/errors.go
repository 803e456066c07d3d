package vessel

import (
	"github.com/toyz/vessel/internal/errors"
)

// Error is the interface every container error implements
type Error = errors.VesselError

var (
	// ErrAlreadyInitialized is returned by Initialize and ComponentScan once
	// the container has been initialized
	ErrAlreadyInitialized error = errors.New(errors.LifecycleErrorCode, "container already initialized")

	// ErrNotInitialized is returned by lookups before Initialize succeeds
	ErrNotInitialized error = errors.New(errors.LifecycleErrorCode, "container is not initialized")
)

// IsCycle reports whether err was caused by a circular dependency
func IsCycle(err error) bool {
	return errors.HasCode(err, errors.CycleErrorCode)
}

// IsUnresolvedDependency reports whether err was caused by a dependency
// nothing provides
func IsUnresolvedDependency(err error) bool {
	return errors.HasCode(err, errors.UnresolvedDependencyErrorCode)
}

// IsDuplicateRegistration reports whether err was caused by two providers of
// the same type
func IsDuplicateRegistration(err error) bool {
	return errors.HasCode(err, errors.DuplicateRegistrationErrorCode)
}

// IsNotFound reports whether err is a failed lookup
func IsNotFound(err error) bool {
	return errors.HasCode(err, errors.NotFoundErrorCode)
}

// IsScan reports whether err came from namespace scanning
func IsScan(err error) bool {
	return errors.HasCode(err, errors.ScanErrorCode)
}

// IsInitialization reports whether a component failed to construct
func IsInitialization(err error) bool {
	return errors.HasCode(err, errors.InitializationErrorCode)
}

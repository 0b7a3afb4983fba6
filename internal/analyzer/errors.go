package analyzer

import (
	"errors"
	"fmt"
)

// ErrDependencyUnavailable marks failures of the annotation or embedding
// collaborators. Match it with errors.Is.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// DependencyError wraps a collaborator failure.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDependencyUnavailable, e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependencyUnavailable
}

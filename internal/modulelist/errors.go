// SPDX-License-Identifier: MPL-2.0

package modulelist

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the sentinel wrapped by NotFoundError.
	ErrNotFound = errors.New("module not found")
	// ErrDependencyNotFound is the sentinel wrapped by DependencyNotFoundError.
	ErrDependencyNotFound = errors.New("module dependency not found")
	// ErrCyclicDependency is joined with the *dag.CycleError returned by
	// GenerateTree, so both errors.Is and errors.As work.
	ErrCyclicDependency = errors.New("cyclic module dependency")
	// ErrNotLoaded is the sentinel wrapped by InvalidTransitionError.
	ErrNotLoaded = errors.New("module not loaded")
)

type (
	// NotFoundError is returned when a module name is not registered.
	NotFoundError struct {
		Name string
	}

	// DependencyNotFoundError is returned when a module needs an unregistered module.
	DependencyNotFoundError struct {
		// Module is the dependent module.
		Module string
		// Dependency is the missing module.
		Dependency string
	}

	// InvalidTransitionError is returned when a module is marked run before
	// it was loaded.
	InvalidTransitionError struct {
		Module string
		From   Status
		To     Status
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found", e.Name)
}

// Unwrap returns ErrNotFound for errors.Is checks.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("module %q needs %q, which is not registered", e.Module, e.Dependency)
}

// Unwrap returns ErrDependencyNotFound for errors.Is checks.
func (e *DependencyNotFoundError) Unwrap() error { return ErrDependencyNotFound }

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("module %q cannot go from %s to %s", e.Module, e.From, e.To)
}

// Unwrap returns ErrNotLoaded for errors.Is checks.
func (e *InvalidTransitionError) Unwrap() error { return ErrNotLoaded }

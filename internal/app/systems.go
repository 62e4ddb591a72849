// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

const (
	// SystemConfig is the name of the configuration system.
	SystemConfig = "config"
	// SystemModuleList is the name of the module list system.
	SystemModuleList = "moduleList"
	// SystemModuleInstall is the name of the install system (install mode only).
	SystemModuleInstall = "moduleInstall"
	// SystemCli is the name of the cli script system.
	SystemCli = "cli"
)

// ErrSystemNotFound is the sentinel wrapped by SystemNotFoundError.
var ErrSystemNotFound = errors.New("core system not found")

type (
	// System is a core capability of the application.
	System interface {
		// Init prepares the system. It is called once by New.
		Init(ctx context.Context) error
		// IsInit reports whether Init succeeded.
		IsInit() bool
		// ToRun reports whether Run has work to do.
		ToRun() bool
		// IsRun reports whether Run completed.
		IsRun() bool
		// Run executes the system.
		Run(ctx context.Context) error
	}

	// Systems maps capability names to systems, in registration order.
	Systems struct {
		order   []string
		systems map[string]System
	}

	// SystemNotFoundError is returned by Lookup for an unknown name.
	SystemNotFoundError struct {
		Name string
	}
)

// NewSystems creates an empty registry.
func NewSystems() *Systems {
	return &Systems{systems: make(map[string]System)}
}

// Register adds or replaces the system under name.
func (s *Systems) Register(name string, sys System) {
	if _, ok := s.systems[name]; !ok {
		s.order = append(s.order, name)
	}
	s.systems[name] = sys
}

// Lookup returns the system registered under name.
func (s *Systems) Lookup(name string) (System, error) {
	sys, ok := s.systems[name]
	if !ok {
		return nil, &SystemNotFoundError{Name: name}
	}
	return sys, nil
}

// Names returns the registered names in registration order.
func (s *Systems) Names() []string {
	return slices.Clone(s.order)
}

// InitAll initialises every system not yet initialised, in registration order.
func (s *Systems) InitAll(ctx context.Context) error {
	for _, name := range s.order {
		sys := s.systems[name]
		if sys.IsInit() {
			continue
		}
		if err := sys.Init(ctx); err != nil {
			return fmt.Errorf("init %s: %w", name, err)
		}
	}
	return nil
}

// RunSystem runs the named system when it has work to do and has not run yet.
func (s *Systems) RunSystem(ctx context.Context, name string) error {
	sys, err := s.Lookup(name)
	if err != nil {
		return err
	}
	if !sys.ToRun() || sys.IsRun() {
		return nil
	}
	return sys.Run(ctx)
}

func (e *SystemNotFoundError) Error() string {
	return fmt.Sprintf("core system %q not found", e.Name)
}

// Unwrap returns ErrSystemNotFound for errors.Is checks.
func (e *SystemNotFoundError) Unwrap() error { return ErrSystemNotFound }

// lookupAs returns the system under name as T.
func lookupAs[T System](s *Systems, name string) (T, error) {
	var zero T
	sys, err := s.Lookup(name)
	if err != nil {
		return zero, err
	}
	typed, ok := sys.(T)
	if !ok {
		return zero, fmt.Errorf("core system %q has type %T", name, sys)
	}
	return typed, nil
}

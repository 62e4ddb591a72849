// SPDX-License-Identifier: MPL-2.0

package observer

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// ErrSubjectNotFound is the sentinel wrapped by SubjectNotFoundError.
var ErrSubjectNotFound = errors.New("subject not found")

type (
	// Action is a single notification.
	Action struct {
		// Name is the action token, e.g. "run_module_session".
		Name string
		// Context is an optional payload attached by the sender.
		Context any
	}

	// Observer receives actions from a Subject.
	Observer interface {
		Update(action Action)
	}

	// ObserverFunc adapts a function to the Observer interface.
	ObserverFunc func(action Action)

	// Subject keeps an ordered set of observers and notifies them synchronously.
	// The zero value is ready to use.
	Subject struct {
		observers []Observer
		last      Action
	}

	// List is a registry of named subjects.
	List struct {
		subjects map[string]*Subject
	}

	// SubjectNotFoundError is returned by List.Get for an unknown name.
	SubjectNotFoundError struct {
		Name string
	}
)

// Update calls f(action).
func (f ObserverFunc) Update(action Action) { f(action) }

// Attach adds o to the subject. Attaching the same comparable observer twice
// is a no-op.
func (s *Subject) Attach(o Observer) {
	if o == nil {
		return
	}
	if isComparable(o) && slices.Contains(s.observers, o) {
		return
	}
	s.observers = append(s.observers, o)
}

// Detach removes o from the subject. Observers of an uncomparable type, such
// as ObserverFunc, cannot be detached.
func (s *Subject) Detach(o Observer) {
	if o == nil || !isComparable(o) {
		return
	}
	s.observers = slices.DeleteFunc(s.observers, func(cur Observer) bool { return cur == o })
}

// isComparable reports whether o can be used with == without panicking.
func isComparable(o Observer) bool {
	return reflect.TypeOf(o).Comparable()
}

// Observers returns the attached observers in attach order.
func (s *Subject) Observers() []Observer {
	return slices.Clone(s.observers)
}

// Notify sends an action to every observer. A nil subject drops the action.
func (s *Subject) Notify(name string, context any) {
	if s == nil {
		return
	}
	s.last = Action{Name: name, Context: context}
	for _, o := range s.observers {
		o.Update(s.last)
	}
}

// LastAction returns the most recent action sent through the subject.
func (s *Subject) LastAction() Action {
	return s.last
}

func (e *SubjectNotFoundError) Error() string {
	return fmt.Sprintf("subject %q not found", e.Name)
}

// Unwrap returns ErrSubjectNotFound for errors.Is checks.
func (e *SubjectNotFoundError) Unwrap() error { return ErrSubjectNotFound }

// NewList creates an empty subject registry.
func NewList() *List {
	return &List{subjects: make(map[string]*Subject)}
}

// Add registers subject under name, replacing any previous one.
func (l *List) Add(name string, subject *Subject) {
	l.subjects[name] = subject
}

// Get returns the subject registered under name.
func (l *List) Get(name string) (*Subject, error) {
	s, ok := l.subjects[name]
	if !ok {
		return nil, &SubjectNotFoundError{Name: name}
	}
	return s, nil
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import "github.com/bfw-systems/bfw/internal/observer"

// Recorder is an observer that keeps every action it receives.
type Recorder struct {
	actions []observer.Action
}

// Update implements observer.Observer.
func (r *Recorder) Update(action observer.Action) {
	r.actions = append(r.actions, action)
}

// Names returns the received action tokens in order.
func (r *Recorder) Names() []string {
	names := make([]string, 0, len(r.actions))
	for _, a := range r.actions {
		names = append(names, a.Name)
	}
	return names
}

// Actions returns the received actions in order.
func (r *Recorder) Actions() []observer.Action {
	return append([]observer.Action(nil), r.actions...)
}

// Filter returns the tokens accepted by keep, in order.
func (r *Recorder) Filter(keep func(name string) bool) []string {
	var names []string
	for _, a := range r.actions {
		if keep(a.Name) {
			names = append(names, a.Name)
		}
	}
	return names
}

// Reset drops every recorded action.
func (r *Recorder) Reset() {
	r.actions = nil
}

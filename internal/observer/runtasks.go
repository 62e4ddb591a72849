// SPDX-License-Identifier: MPL-2.0

package observer

import (
	"context"
	"fmt"
)

type (
	// Step is one named unit of work run by RunTasks.
	Step struct {
		Name string
		Run  func(ctx context.Context) error
	}

	// RunTasks runs steps in declaration order and notifies its observers:
	//
	//	<prefix>_start_run_tasks
	//	<prefix>_exec_<step>     (before each step)
	//	<prefix>_done_<step>     (after each successful step)
	//	<prefix>_end_run_tasks
	//
	// The first failing step stops the sequence.
	RunTasks struct {
		Subject
		prefix string
		steps  []Step
	}
)

// NewRunTasks creates a step sequencer whose tokens start with prefix.
func NewRunTasks(prefix string, steps ...Step) *RunTasks {
	return &RunTasks{prefix: prefix, steps: steps}
}

// AddStep appends a step.
func (r *RunTasks) AddStep(name string, run func(ctx context.Context) error) {
	r.steps = append(r.steps, Step{Name: name, Run: run})
}

// StepNames returns the declared step names in order.
func (r *RunTasks) StepNames() []string {
	names := make([]string, 0, len(r.steps))
	for _, s := range r.steps {
		names = append(names, s.Name)
	}
	return names
}

// Prefix returns the token prefix.
func (r *RunTasks) Prefix() string {
	return r.prefix
}

// SendNotify sends a token that does not follow the step naming, such as
// "bfw_run_done".
func (r *RunTasks) SendNotify(name string) {
	r.Notify(name, nil)
}

// Run executes every step in order.
func (r *RunTasks) Run(ctx context.Context) error {
	r.Notify(r.prefix+"_start_run_tasks", nil)

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run tasks %s canceled before %s: %w", r.prefix, step.Name, err)
		}

		r.Notify(r.prefix+"_exec_"+step.Name, nil)
		if step.Run != nil {
			if err := step.Run(ctx); err != nil {
				return fmt.Errorf("%s: %w", step.Name, err)
			}
		}
		r.Notify(r.prefix+"_done_"+step.Name, nil)
	}

	r.Notify(r.prefix+"_end_run_tasks", nil)
	return nil
}

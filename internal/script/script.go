// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrScriptFailed is the sentinel wrapped by ExitError.
	ErrScriptFailed = errors.New("script failed")
	// ErrScriptSyntax is the sentinel wrapped by SyntaxError.
	ErrScriptSyntax = errors.New("script syntax error")
)

type (
	// Request describes one script execution.
	Request struct {
		// Path is the script file. Its content is read at execution time.
		Path string
		// Dir is the working directory; the script's directory when empty.
		Dir string
		// Env is added on top of the executor environment.
		Env map[string]string
		// Args are exposed as $1, $2, ...
		Args []string
	}

	// Executor runs scripts with shared stdio and a base environment.
	Executor struct {
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		baseEnv []string
	}

	// Option configures an Executor.
	Option func(*Executor)

	// ExitError reports a script that exited with a non-zero status.
	ExitError struct {
		Path string
		Code int
	}

	// SyntaxError reports a script that could not be parsed.
	SyntaxError struct {
		Path  string
		Cause error
	}
)

// WithStdio sets the streams given to scripts. Nil writers discard output.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdin, e.stdout, e.stderr = stdin, stdout, stderr
	}
}

// WithEnv replaces the base environment ("KEY=value" entries). The process
// environment is used by default.
func WithEnv(env []string) Option {
	return func(e *Executor) {
		e.baseEnv = slices.Clone(env)
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		stdout:  io.Discard,
		stderr:  io.Discard,
		baseEnv: os.Environ(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.stdout == nil {
		e.stdout = io.Discard
	}
	if e.stderr == nil {
		e.stderr = io.Discard
	}
	return e
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("script %s exited with status %d", filepath.Base(e.Path), e.Code)
}

// Unwrap returns ErrScriptFailed for errors.Is checks.
func (e *ExitError) Unwrap() error { return ErrScriptFailed }

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("script %s: %v", filepath.Base(e.Path), e.Cause)
}

// Unwrap exposes ErrScriptSyntax and the parser error.
func (e *SyntaxError) Unwrap() []error { return []error{ErrScriptSyntax, e.Cause} }

// Parse reads and parses the script at path without running it.
func Parse(path string) (*syntax.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(string(data)), path)
	if err != nil {
		return nil, &SyntaxError{Path: path, Cause: err}
	}
	return prog, nil
}

// RunFile parses and runs req.Path. A non-zero exit status is returned as
// *ExitError.
func (e *Executor) RunFile(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("script %s: %w", filepath.Base(req.Path), err)
	}

	prog, err := Parse(req.Path)
	if err != nil {
		return err
	}

	workDir := req.Dir
	if workDir == "" {
		workDir = filepath.Dir(req.Path)
	}

	opts := []interp.RunnerOption{
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(e.environ(req.Env)...)),
		interp.StdIO(e.stdin, e.stdout, e.stderr),
	}

	// "--" keeps arguments such as "-v" from being read as shell options.
	if len(req.Args) > 0 {
		params := append([]string{"--"}, req.Args...)
		opts = append(opts, interp.Params(params...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &ExitError{Path: req.Path, Code: int(exitStatus)}
		}
		return fmt.Errorf("script %s: %w", filepath.Base(req.Path), err)
	}
	return nil
}

// environ merges the base environment with extra, extra winning. Extra keys
// are appended in sorted order.
func (e *Executor) environ(extra map[string]string) []string {
	env := make([]string, 0, len(e.baseEnv)+len(extra))
	for _, kv := range e.baseEnv {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[key]; overridden {
			continue
		}
		env = append(env, kv)
	}
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		env = append(env, key+"="+extra[key])
	}
	return env
}

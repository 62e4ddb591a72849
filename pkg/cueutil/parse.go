// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the result of a successful parse.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the schema-unified CUE value, for callers that need fields
	// the Go type does not model.
	Unified cue.Value
}

// Validate compiles data, unifies it with the schema definition at schemaPath
// and validates the result. The returned value is ready to decode.
func Validate(schema string, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	return unified, nil
}

// ParseAndDecode validates data against the schema and decodes it into T.
func ParseAndDecode[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	unified, err := Validate(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		name := options.filename
		if name == "" {
			name = "<input>"
		}
		return nil, FormatError(err, name)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}


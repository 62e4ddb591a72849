// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates configuration documents against embedded CUE schemas.
//
// Module descriptors are plain JSON, which CUE compiles natively, so the same
// flow serves module.json, bfwModulesInfos.json and the framework config.cue:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed module_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecode[Descriptor](schema, data, "#Module", cueutil.WithFilename(path))
//	if err != nil {
//	    return nil, err // error message includes the CUE path of the bad field
//	}
//	return result.Value, nil
package cueutil

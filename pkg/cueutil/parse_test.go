// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Item: {
	name:   string & != ""
	count?: int & >=0
	...
}
`

type testItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantName  string
		wantCount int
		wantErr   string
	}{
		{
			name:     "json document",
			data:     `{"name": "router", "extra": true}`,
			wantName: "router",
		},
		{
			name:      "cue document",
			data:      "name: \"core\"\ncount: 2\n",
			wantName:  "core",
			wantCount: 2,
		},
		{
			name:    "schema violation reports path",
			data:    `{"name": "x", "count": -1}`,
			wantErr: "count",
		},
		{
			name:    "syntax error",
			data:    `{"name": `,
			wantErr: "item.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := ParseAndDecode[testItem](testSchema, []byte(tt.data), "#Item", WithFilename("item.json"))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Value.Name != tt.wantName || result.Value.Count != tt.wantCount {
				t.Errorf("got %+v", *result.Value)
			}
		})
	}
}

func TestParseAndDecode_MaxFileSize(t *testing.T) {
	t.Parallel()
	_, err := ParseAndDecode[testItem](testSchema, []byte(`{"name": "abc"}`), "#Item", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Fatalf("expected size error, got %v", err)
	}
}


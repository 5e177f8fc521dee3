package edit

import (
	"strings"
	"testing"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  call
	}{
		{
			name:  "no call",
			input: "box",
			want:  call{},
		},
		{
			name:  "first param",
			input: "box(",
			want:  call{name: "box", inCall: true},
		},
		{
			name:  "partial param name",
			input: "box(x=1, y",
			want:  call{name: "box", param: "y", argIndex: 1, inCall: true},
		},
		{
			name:  "param value",
			input: "box(x=1, y=2",
			want:  call{name: "box", param: "y", argIndex: 1, inCall: true, inValue: true},
		},
		{
			name:  "parenthesized value",
			input: "box(x=(1+2), z",
			want:  call{name: "box", param: "z", argIndex: 1, inCall: true},
		},
		{
			name:  "nested operand",
			input: "box { sphere(d",
			want:  call{name: "sphere", param: "d", inCall: true},
		},
		{
			name:  "space before paren",
			input: "cylinder (h",
			want:  call{name: "cylinder", param: "h", inCall: true},
		},
		{
			name:  "inside operand block",
			input: "box(x=1) { ",
			want:  call{},
		},
		{
			name:  "after closed call",
			input: "box(x=1) sph",
			want:  call{},
		},
		{
			name:  "missing name",
			input: "  (x",
			want:  call{},
		},
		{
			name:  "multiline",
			input: "union {\n  trans(\n    x=1,\n    z",
			want:  call{name: "trans", param: "z", argIndex: 1, inCall: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectCall(tt.input, len(tt.input)); got != tt.want {
				t.Errorf("detectCall(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSchemaOf(t *testing.T) {
	schema, ok := schemaOf("box")
	if !ok || len(schema.Params) != 3 {
		t.Errorf("schemaOf(box) = %+v, %v", schema, ok)
	}

	for _, name := range []string{"group", "foo", ""} {
		if _, ok := schemaOf(name); ok {
			t.Errorf("schemaOf(%q) reported a known function", name)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name     string
		function string
		call     call
		contains []string
	}{
		{
			name:     "box",
			function: "box",
			call:     call{name: "box", inCall: true},
			contains: []string{"box(x=1, y=1, z=1)", "box standing on the origin"},
		},
		{
			name:     "cylinder second param",
			function: "cylinder",
			call:     call{name: "cylinder", param: "d", argIndex: 1, inCall: true, inValue: true},
			contains: []string{"cylinder(h=1, d=1)"},
		},
		{
			name:     "no params",
			function: "union",
			call:     call{name: "union", inCall: true},
			contains: []string{"union", "union of operands"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, ok := schemaOf(tt.function)
			if !ok {
				t.Fatalf("schemaOf(%q) not found", tt.function)
			}

			got := renderSignatureHint(schema, tt.call)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("renderSignatureHint() = %q, missing %q", got, want)
				}
			}
		})
	}
}

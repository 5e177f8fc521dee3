package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/lang"
)

func TestNativeFmt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		indent  int
		want    string
		wantErr bool
	}{
		{
			name:  "parameters",
			input: "box(x=1,y = 2 ,z=3,)",
			want:  "box(x=1, y=2, z=3)\n",
		},
		{
			name:  "compact operands",
			input: "union{box sphere}",
			want:  "union { box sphere }\n",
		},
		{
			name:  "empty parens dropped",
			input: "box ( ) { }",
			want:  "box\n",
		},
		{
			name:    "syntax error",
			input:   "box(x=",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := withStdio(t, tt.input)

			err := (&Native{Indent: tt.indent, Source: "-"}).Run(ctx)
			if tt.wantErr {
				if !errors.Is(err, ErrCompile) {
					t.Errorf("Run() error = %v, want ErrCompile", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNativeFmt_Write(t *testing.T) {
	path := writeSource(t, "box(x=1,y=2)")
	ctx, out := withStdio(t, "")

	if err := (&Native{Source: path, Write: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("stdout written with -w: %q", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "box(x=1, y=2)\n" {
		t.Errorf("file = %q", data)
	}

	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	// Already formatted text is left alone.
	if err := (&Native{Source: path, Write: true}).Run(ctx); err != nil {
		t.Fatalf("second Run() error: %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if !os.SameFile(before, after) {
		t.Errorf("formatted file was rewritten")
	}
}

func TestNativeFmt_WriteStdin(t *testing.T) {
	ctx, out := withStdio(t, "sphere( d=2 )")

	if err := (&Native{Source: "-", Write: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if out.String() != "sphere(d=2)\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestJSONFmt(t *testing.T) {
	ctx, out := withStdio(t, "trans(z=1) { sphere(d=2) }")

	if err := (&JSON{Indent: 2, Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var tree struct {
		Name     string `json:"name"`
		Children []struct {
			Name     string             `json:"name"`
			Params   map[string]float64 `json:"params"`
			Children []struct {
				Name   string             `json:"name"`
				Params map[string]float64 `json:"params"`
			} `json:"children"`
		} `json:"children"`
	}

	if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}

	if tree.Name != "union" || len(tree.Children) != 1 {
		t.Fatalf("tree = %+v", tree)
	}

	trans := tree.Children[0]
	if trans.Name != "trans" || trans.Params["z"] != 1 || len(trans.Children) != 1 {
		t.Errorf("trans = %+v", trans)
	}

	if sphere := trans.Children[0]; sphere.Name != "sphere" || sphere.Params["d"] != 2 {
		t.Errorf("sphere = %+v", sphere)
	}
}

func TestYAMLFmt(t *testing.T) {
	ctx, out := withStdio(t, "box(x=2)")

	if err := (&YAML{Indent: 2, Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}

	if tree["name"] != "union" {
		t.Errorf("root name = %v", tree["name"])
	}

	if !strings.Contains(out.String(), "name: box") {
		t.Errorf("output missing box:\n%s", out.String())
	}
}

func TestASTFmt(t *testing.T) {
	ctx, out := withStdio(t, "box(x=1+2)")

	if err := (&AST{Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Root", "Function box", "x =", "Operator +", "Number 1", "Number 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("AST output missing %q:\n%s", want, got)
		}
	}
}

func TestFmt_Strict(t *testing.T) {
	const source = "box(x=1, x=2)"

	ctx, out := withStdio(t, source)

	if err := (&Native{Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("Run() without strict error: %v", err)
	}

	if out.String() != "box(x=2)\n" {
		t.Errorf("output = %q, want the later value", out.String())
	}

	ctx, out = withStdio(t, source)
	ctx = WithCompileOptions(ctx, compiler.WithStrictParams(true))

	err := (&Native{Source: "-"}).Run(ctx)
	if !errors.Is(err, ErrCompile) || !errors.Is(err, lang.ErrParse) {
		t.Errorf("strict Run() error = %v, want ErrCompile wrapping ErrParse", err)
	}

	if out.Len() != 0 {
		t.Errorf("strict Run() wrote output: %q", out.String())
	}
}

package compiler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/sdfc/lang"
	"github.com/ardnew/sdfc/log"
)

func TestCompile(t *testing.T) {
	res, err := Compile(context.Background(), "scale(r=2) { sphere(d=1) }")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if !strings.Contains(res.Code, "f1(p*float(0.5))*float(2)") {
		t.Errorf("Code = %s", res.Code)
	}

	if res.Helpers != 2 {
		t.Errorf("Helpers = %d, want 2", res.Helpers)
	}

	if res.Root == nil || res.Tree == nil || res.Tree.Name != "union" {
		t.Errorf("Compile() result missing tree: %+v", res)
	}

	if res.Hash == 0 || res.ETag() == `""` {
		t.Errorf("Hash = %d, ETag = %s", res.Hash, res.ETag())
	}
}

func TestCompile_Idempotent(t *testing.T) {
	source := "diff { box(x=2, y=2, z=2) rot(x=45) { cylinder(d=0.5, h=3) } }"

	a, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	b, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if a.Code != b.Code || a.Hash != b.Hash {
		t.Errorf("Compile() not idempotent")
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		source string
		want   error
	}{
		{"box $", lang.ErrLex},
		{"box(x=1,y=1,z=1){ 1+2 }", lang.ErrParse},
		{"1+2", lang.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			res, err := Compile(context.Background(), tt.source)
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile() error = %v, want %v", err, tt.want)
			}

			if res != nil {
				t.Errorf("Compile() returned result on error")
			}
		})
	}
}

func TestCompile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compile(ctx, "box")
	if !errors.Is(err, ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("Compile() error = %v, want ErrCanceled wrapping context.Canceled", err)
	}
}

func TestCompile_Warnings(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	res, err := Compile(context.Background(), "box(x=1, x=2)", WithLogger(logger))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want 1", res.Warnings)
	}

	if !strings.Contains(buf.String(), "duplicate parameter") {
		t.Errorf("warning not logged: %s", buf.String())
	}

	if !strings.Contains(buf.String(), `"msg":"compiled"`) {
		t.Errorf("compile not logged: %s", buf.String())
	}

	_, err = Compile(context.Background(), "box(x=1, x=2)", WithStrictParams(true))
	if !errors.Is(err, lang.ErrParse) {
		t.Errorf("strict Compile() error = %v, want ErrParse", err)
	}
}

func TestCompile_Concurrent(t *testing.T) {
	const source = "union { box trans(z=1) { sphere } rot(z=30) { cylinder } }"

	want, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	var wg sync.WaitGroup

	for range 16 {
		wg.Go(func() {
			got, err := Compile(context.Background(), source)
			if err != nil {
				t.Errorf("Compile() error: %v", err)

				return
			}

			if got.Code != want.Code {
				t.Errorf("concurrent Compile() produced different code")
			}
		})
	}

	wg.Wait()
}

func TestCompileReader(t *testing.T) {
	res, err := CompileReader(context.Background(), strings.NewReader("sphere(d=2)"))
	if err != nil {
		t.Fatalf("CompileReader() error: %v", err)
	}

	if !strings.HasSuffix(res.Code, "float he(vec3 p){return 1e9;}") {
		t.Errorf("Code = %s", res.Code)
	}
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/ardnew/sdfc/lang"
)

func TestError_Is(t *testing.T) {
	cause := fmt.Errorf("model.csg:1:5: %w", lang.ErrParse)

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel", ErrCompile, ErrCompile, true},
		{"wrapped", ErrCompile.Wrap(cause), ErrCompile, true},
		{"with attrs", ErrCompile.With(slog.String("source", "model.csg")).Wrap(cause), ErrCompile, true},
		{"in chain", fmt.Errorf("build: %w", ErrWriteOutput.Wrap(fs.ErrPermission)), ErrWriteOutput, true},
		{"cause", ErrCompile.Wrap(cause), lang.ErrParse, true},
		{"other sentinel", ErrCompile.Wrap(cause), ErrFormat, false},
		{"refined target", ErrCompile, ErrCompile.Wrap(cause), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{ErrFormat, "format failed"},
		{ErrFormat.Wrap(errors.New("bad indent")), "format failed: bad indent"},
		{(&Error{}).Wrap(errors.New("bare")), "bare"},
		{&Error{}, ""},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_With(t *testing.T) {
	base := ErrWriteOutput.With(slog.String("file", "a.glsl"))

	a := base.With(slog.Int("bytes", 1))
	b := base.With(slog.Int("bytes", 2))

	if got := a.LogValue().Group(); len(got) != 3 || !got[2].Equal(slog.Int("bytes", 1)) {
		t.Errorf("a attrs = %v", got)
	}

	if got := b.LogValue().Group(); len(got) != 3 || !got[2].Equal(slog.Int("bytes", 2)) {
		t.Errorf("b attrs = %v", got)
	}

	if len(ErrWriteOutput.attrs) != 0 {
		t.Errorf("sentinel modified: %v", ErrWriteOutput.attrs)
	}
}

package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ardnew/sdfc/pkg"
)

// Version prints version information.
type Version struct {
	Verbose bool `help:"Include Go runtime and author details." short:"v"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	out := stdoutFrom(ctx)

	_, err := fmt.Fprintln(out, pkg.Name, pkg.Version)
	if err != nil || !v.Verbose {
		return err
	}

	_, err = fmt.Fprintf(out, "%s %s/%s\n",
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	for _, a := range pkg.Author {
		_, err = fmt.Fprintf(out, "%s <%s>\n", a.Name, a.Email)
		if err != nil {
			return err
		}
	}

	return nil
}

//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sdfc/log"
	"github.com/ardnew/sdfc/pkg"
	"github.com/ardnew/sdfc/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the run in this mode." placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory."                                type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      pkg.CachePath(profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start begins the configured profile and returns the function that writes
// it. Commands that run until interrupted return normally on SIGINT, so the
// deferred stop still runs.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	p, err := profile.Config{Mode: f.Mode, Dir: f.Dir, Quiet: true}.Start()
	if err != nil {
		log.WarnContext(ctx, "profiling disabled", slog.Any("error", err))

		return func() {}
	}

	if f.Mode != "" {
		log.DebugContext(ctx, "pprof start",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
	}

	return func() {
		p.Stop()

		if f.Mode != "" {
			log.InfoContext(ctx, "profile written",
				slog.String("mode", f.Mode),
				slog.String("dir", f.Dir),
			)
		}
	}
}

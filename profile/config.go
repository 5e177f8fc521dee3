package profile

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMode is returned by [Config.Start] for a mode not listed by [Modes].
var ErrMode = errors.New("unsupported profile mode")

// Profiler is a running profile. Stop flushes it to disk; calling Stop more
// than once has no further effect.
type Profiler interface{ Stop() }

// Config describes a file profile of one sdfc run.
type Config struct {
	// Mode is one of [Modes]. Empty disables profiling.
	Mode string
	// Dir receives the profile, named after the mode, e.g. cpu.pprof.
	Dir   string
	Quiet bool
}

// Start begins profiling. The returned Profiler does nothing when Mode is
// empty. Unlike a bare pkg/profile session, the profile is not stopped on
// interrupt, so a command that handles SIGINT must stop it on the way out.
func (c Config) Start() (Profiler, error) {
	if c.Mode == "" {
		return ignore{}, nil
	}

	if !slices.Contains(Modes(), c.Mode) {
		return ignore{}, fmt.Errorf("%w: %q", ErrMode, c.Mode)
	}

	return start(c), nil
}

type ignore struct{}

func (ignore) Stop() {}

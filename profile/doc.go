// Package profile provides optional runtime profiling for sdfc.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] to provide runtime profiling
// capabilities with conditional compilation support. Profiling is optional and
// must be enabled at build time using the "pprof" build tag.
//
// When built without the tag, [Modes] is empty and [Config.Start] returns a
// no-op [Profiler] for an empty mode and [ErrMode] otherwise.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p, err := profile.Config{Mode: "cpu", Dir: "/tmp/profiles"}.Start()
//	if err != nil {
//		return err
//	}
//	defer p.Stop()
//
// The profile is written by Stop only. No interrupt handler is installed,
// which leaves SIGINT to the shutdown path of the long-running commands.
//
// The sdfc command exposes the same settings as flags when built with the
// pprof tag. A long-running command such as watch or serve is the usual
// target:
//
//	go build -tags pprof -o sdfc .
//	./sdfc --pprof-mode cpu watch model.csg
//
// The default output directory is $XDG_CACHE_HOME/sdfc/pprof.
//
// # Analyzing Profile Data
//
// Profiles open with go tool pprof. Pass the binary for symbols, -http for the
// web UI with flame graphs, and -base to diff two runs:
//
//	go tool pprof -http=: ./sdfc ~/.cache/sdfc/pprof/cpu.pprof
//	go tool pprof -base=before.pprof after.pprof
//
// Block and mutex profiles sample at the rates set by
// [runtime.SetBlockProfileRate] and [runtime.SetMutexProfileFraction].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

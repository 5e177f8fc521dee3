// Package log is the structured logger shared by the sdfc compiler and its
// commands. It wraps [log/slog].
//
// A [Logger] is an immutable value. [Make] builds one for a writer and
// [Logger.Wrap] derives a differently configured copy, which is how the
// editor redirects records to a file while it owns the terminal:
//
//	logger := log.Default().Wrap(log.WithOutput(file), log.WithPretty(false))
//
// The zero Logger discards records. Components such as the parser and the
// compile cache take a Logger through an option and stay silent without one.
//
// # Levels
//
// [LevelTrace] is below [LevelDebug] and carries per-node compiler detail
// such as cache lookups. Handlers print it as TRACE.
//
// # Attributes
//
// [Interval] groups a half-open source range as min and max. [Duration]
// attributes, and any other duration value, are rendered rounded to the
// microsecond.
//
// # Output
//
// Records are JSON by default, or text with [WithFormat]. [WithPretty]
// colorizes either form for a terminal and flattens groups into dotted keys.
// [WithTimeLayout] accepts the names of the layouts in package [time], a
// custom layout, or "none".
//
// # Package Logger
//
// The package functions log through [Default], which the CLI reconfigures
// from its --log-* flags with [Config].
package log

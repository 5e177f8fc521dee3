package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Level is the severity of a log message.
//
// [LevelTrace] sits below slog's debug level and carries per-node messages
// of the parser and code generator.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// Levels yields the names of all defined levels, most verbose first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError} {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively. Besides the names
// yielded by [Levels] it accepts slog's offset syntax such as "debug+2".
func ParseLevel(s string) (Level, error) {
	if strings.EqualFold(strings.TrimSpace(s), LevelTrace.String()) {
		return LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}

	return Level(l), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = v

	return nil
}

// Format is the encoding of log records.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// Formats yields the names of all defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{FormatJSON, FormatText} {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, nil
		}
	}

	return FormatJSON, fmt.Errorf("unknown log format %q", s)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = v

	return nil
}

// Option modifies the configuration of a [Logger].
type Option func(*config)

// WithOutput sets the destination of log records. A nil writer discards them.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel sets the minimum level of emitted records.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout. Named layouts of package [time]
// such as "RFC3339Nano" or "Kitchen" are recognized regardless of case.
// Anything else is passed to [time.Time.Format] verbatim. An empty layout or
// "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) {
		if named, ok := timeLayouts[strings.ToLower(strings.TrimSpace(layout))]; ok {
			layout = named
		}

		c.layout = layout
	}
}

// WithCaller includes the source position of the logging call in each record.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty colorizes output and flattens groups into dotted keys.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

var timeLayouts = map[string]string{
	"":            "",
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
}

type config struct {
	output io.Writer
	layout string
	level  Level
	format Format
	caller bool
	pretty bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	c := config{
		layout: time.RFC3339,
		level:  LevelInfo,
		format: FormatJSON,
		pretty: true,
	}

	WithOutput(w)(&c)

	return c.with(opts...)
}

// with returns a copy of c with opts applied.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty:
		return newPrettyHandler(c.output, opts, c.format == FormatJSON)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	default:
		return slog.NewJSONHandler(c.output, opts)
	}
}

// replaceAttr formats the record's own time and level, and rounds every
// duration to the microsecond.
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey:
			if t, ok := a.Value.Any().(time.Time); ok {
				if c.layout == "" {
					return slog.Attr{}
				}

				a.Value = slog.StringValue(t.Format(c.layout))
			}

			return a

		case slog.LevelKey:
			if l, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
			}

			return a
		}
	}

	if a.Value.Kind() == slog.KindDuration {
		a.Value = slog.StringValue(formatDuration(a.Value.Duration()))
	}

	return a
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}

// Interval returns a group holding the half-open source range [start, end).
func Interval(key string, start, end int) slog.Attr {
	return slog.Group(key,
		slog.Int("min", start),
		slog.Int("max", end),
	)
}

// Duration returns an attribute holding d. Handlers render it rounded to the
// microsecond, e.g. "1.25ms".
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

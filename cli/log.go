package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sdfc/log"
)

type logConfig struct {
	Level      log.Level  `default:"info"    help:"Set log level (${logLevels})."        placeholder:"LEVEL"`
	Format     log.Format `default:"json"    help:"Set log format (${logFormats})."      placeholder:"FORMAT"`
	TimeLayout string     `default:"RFC3339" help:"Set timestamp layout, or 'none'."`
	Caller     bool       `default:"false"   help:"Include caller information."       negatable:""`
	Pretty     bool       `default:"true"    help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ", "),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ", "),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) options() []log.Option {
	return []log.Option{
		log.WithLevel(f.Level),
		log.WithFormat(f.Format),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	}
}

// start applies the parsed flags, including any read from configuration
// files, to the package-level logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(f.options()...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", f.Level.String()),
		slog.String("format", f.Format.String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// logFlags maps the name of each --log-* flag to a parser of its value.
// Boolean flags also accept the --no-log-* form.
var logFlags = map[string]struct {
	parse   func(string) (log.Option, error)
	boolean bool
}{
	"level": {parse: func(s string) (log.Option, error) {
		l, err := log.ParseLevel(s)

		return log.WithLevel(l), err
	}},
	"format": {parse: func(s string) (log.Option, error) {
		f, err := log.ParseFormat(s)

		return log.WithFormat(f), err
	}},
	"time-layout": {parse: func(s string) (log.Option, error) {
		return log.WithTimeLayout(s), nil
	}},
	"caller": {boolean: true, parse: func(s string) (log.Option, error) {
		v, err := strconv.ParseBool(s)

		return log.WithCaller(v), err
	}},
	"pretty": {boolean: true, parse: func(s string) (log.Option, error) {
		v, err := strconv.ParseBool(s)

		return log.WithPretty(v), err
	}},
}

// scan returns the logger options named by --log-* flags anywhere in args,
// in order. Kong reports parse errors through the logger before it assigns
// any field, so these are applied ahead of parsing. Malformed values are
// skipped here and reported by kong.
func (*logConfig) scan(args []string) []log.Option {
	var opts []log.Option

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		name, value, assigned := strings.Cut(arg, "=")

		negate := false
		if n, ok := strings.CutPrefix(name, "--no-log-"); ok {
			name, negate = n, true
		} else if n, ok := strings.CutPrefix(name, "--log-"); ok {
			name = n
		} else {
			continue
		}

		flag, ok := logFlags[name]
		if !ok || (negate && !flag.boolean) {
			continue
		}

		switch {
		case flag.boolean:
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			value = strconv.FormatBool(on != negate)

		case !assigned:
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				continue
			}

			i++
			value = args[i]
		}

		if opt, err := flag.parse(value); err == nil {
			opts = append(opts, opt)
		}
	}

	return opts
}

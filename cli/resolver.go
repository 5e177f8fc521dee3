package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/sdfc/log"
)

// resolve returns a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Top-level keys set flags shared by every command. A mapping keyed by a
// command name sets flags of that command only and takes precedence over
// top-level keys. Keys may spell a flag name with hyphens or underscores.
//
// Example config file:
//
//	log-level: debug
//	log_pretty: false
//	strict: true
//	serve:
//	  addr: localhost:9000
//	  debounce: 250ms
//
// Command-line flags override config file values. A malformed config file is
// reported and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var values map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &values)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring malformed config file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		return config(values), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	scopes := make([]map[string]any, 0, 2)

	if parent != nil && parent.Command != nil {
		if section, ok := lookup(c, parent.Command.Name).(map[string]any); ok {
			scopes = append(scopes, section)
		}
	}

	scopes = append(scopes, c)

	for _, scope := range scopes {
		if value := lookup(scope, flag.Name); value != nil {
			return normalize(value), nil
		}
	}

	return nil, nil //nolint:nilnil
}

// lookup returns the value stored under name, trying the hyphenated and
// underscored spellings.
func lookup(values map[string]any, name string) any {
	for _, key := range []string{
		name,
		strings.ReplaceAll(name, "-", "_"),
		strings.ReplaceAll(name, "_", "-"),
	} {
		if value, ok := values[key]; ok {
			return value
		}
	}

	return nil
}

// normalize converts YAML scalars to the forms kong decodes. Kong requires
// numbers as strings for parsing.
func normalize(value any) any {
	switch v := value.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = normalize(elem)
		}

		return out
	default:
		return v
	}
}

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal, either as
// space-separated key=value pairs or as an indented JSON-like object.
// Groups are flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []slog.Attr
	json   bool
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		json: json,
	}
}

// field is one flattened key and its value.
type field struct {
	key   string
	value slog.Value
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []field

	if !r.Time.IsZero() {
		if a, ok := replaceTime(h.opts, r.Time); ok {
			fields = appendField(fields, "", a)
		}
	}

	fields = append(fields, field{slog.LevelKey, slog.AnyValue(r.Level)})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, field{
				slog.SourceKey,
				slog.StringValue(fmt.Sprintf("%s:%d", src.File, src.Line)),
			})
		}
	}

	fields = append(fields, field{slog.MessageKey, slog.StringValue(r.Message)})

	for _, a := range h.attrs {
		fields = appendField(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = appendField(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.json {
		writeObject(buf, fields)
	} else {
		writePairs(buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = append(slices.Clip(h.attrs), qualify(h.prefix, attrs))

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// appendField flattens a onto fields under the dotted prefix.
func appendField(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() != slog.KindGroup {
		return append(fields, field{prefix + a.Key, a.Value})
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		fields = appendField(fields, prefix, g)
	}

	return fields
}

func writePairs(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray + f.key + colorReset + "=")
		writeValue(buf, f.value)
	}

	buf.WriteByte('\n')
}

func writeObject(buf *bytes.Buffer, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  " + colorGray + f.key + colorReset + ": ")
		writeValue(buf, f.value)
	}

	buf.WriteString("\n}\n")
}

// writeValue writes v unquoted in a color chosen by its kind.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, formatDuration(v.Duration())

	case slog.KindTime:
		color, text = colorBlue, v.Time().String()

	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			color, text = levelColor(a), Level(a).String()
		case nil:
			color, text = colorGray, "null"
		default:
			text = fmt.Sprint(a)
		}

	default:
		text = v.String()
	}

	buf.WriteString(color + text + colorReset)
}

// qualify nests attrs under the dotted group prefix so they keep the group
// that was open when they were added.
func qualify(prefix string, attrs []slog.Attr) slog.Attr {
	return slog.Attr{
		Key:   strings.TrimSuffix(prefix, "."),
		Value: slog.GroupValue(attrs...),
	}
}

// replaceTime formats t through the configured ReplaceAttr hook. It reports
// false when the hook drops the timestamp.
func replaceTime(opts slog.HandlerOptions, t time.Time) (slog.Attr, bool) {
	a := slog.Time(slog.TimeKey, t)

	if opts.ReplaceAttr != nil {
		a = opts.ReplaceAttr(nil, a)
	}

	return a, !a.Equal(slog.Attr{})
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

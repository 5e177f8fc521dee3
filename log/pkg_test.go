package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// swapDefault installs l as the package-level logger for the duration of t.
func swapDefault(t *testing.T, l Logger) {
	t.Helper()

	defaultMu.Lock()
	saved := defaultLog
	defaultLog = l
	defaultMu.Unlock()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = saved
		defaultMu.Unlock()
	})
}

func TestPackage_Functions(t *testing.T) {
	var buf bytes.Buffer

	swapDefault(t, plain(&buf, WithLevel(LevelTrace)))

	tests := []struct {
		level string
		log   func(string, ...slog.Attr)
	}{
		{"TRACE", func(msg string, a ...slog.Attr) { TraceContext(t.Context(), msg, a...) }},
		{"DEBUG", func(msg string, a ...slog.Attr) { DebugContext(t.Context(), msg, a...) }},
		{"INFO", func(msg string, a ...slog.Attr) { InfoContext(t.Context(), msg, a...) }},
		{"WARN", func(msg string, a ...slog.Attr) { WarnContext(t.Context(), msg, a...) }},
		{"ERROR", Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()

			tt.log("watch", slog.String("file", "model.csg"))

			recs := records(t, &buf)
			if len(recs) != 1 {
				t.Fatalf("records = %v", recs)
			}

			if recs[0]["level"] != tt.level || recs[0]["file"] != "model.csg" {
				t.Errorf("record = %v", recs[0])
			}
		})
	}
}

// The CLI applies each log flag separately; settings it does not name must
// survive.
func TestConfig_KeepsOtherSettings(t *testing.T) {
	var buf bytes.Buffer

	swapDefault(t, Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("none")))

	DebugContext(t.Context(), "hidden")

	if buf.Len() != 0 {
		t.Fatalf("debug record emitted at info level: %q", buf.String())
	}

	Config(WithLevel(LevelDebug))
	DebugContext(t.Context(), "logger initialized", slog.String("level", "debug"))

	if got := buf.String(); got != "level=DEBUG msg=\"logger initialized\" level=debug\n" {
		t.Errorf("output = %q", got)
	}

	buf.Reset()

	Config(WithFormat(FormatJSON))
	InfoContext(t.Context(), "serving")

	if recs := records(t, &buf); len(recs) != 1 || recs[0]["msg"] != "serving" {
		t.Errorf("records = %v", recs)
	}

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("pretty output re-enabled: %q", buf.String())
	}
}

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPretty_GroupPrefixesLaterAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))

	grouped := Logger{
		cfg:    logger.cfg,
		Logger: slog.New(logger.Handler().WithGroup("req")),
	}
	grouped.Info("request", slog.Int("code", 200))

	if !strings.Contains(buf.String(), "req.code") {
		t.Errorf("expected grouped key, got: %s", buf.String())
	}
}

func TestPretty_TimeLayoutNone(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))

	logger.Info("quiet")

	if strings.Contains(buf.String(), "time") {
		t.Errorf("expected no time field, got: %s", buf.String())
	}
}

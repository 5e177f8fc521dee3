package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sdfc/log"
)

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "level before positional",
			args: []string{"build", "--log-level", "trace", "model.csg"},
			want: "level=TRACE msg=lookup\nlevel=INFO msg=compiled\n",
		},
		{
			name: "assigned format",
			args: []string{"--log-format=json"},
			want: `{"level":"INFO","msg":"compiled"}` + "\n",
		},
		{
			name: "last boolean wins",
			args: []string{"--log-pretty", "--no-log-pretty"},
			want: "level=INFO msg=compiled\n",
		},
		{
			name: "after terminator",
			args: []string{"--", "--log-level=trace"},
			want: "level=INFO msg=compiled\n",
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--strict"},
			want: "level=INFO msg=compiled\n",
		},
		{
			name: "malformed values",
			args: []string{"--log-level=loud", "--no-log-level=trace", "--log-pretty=maybe"},
			want: "level=INFO msg=compiled\n",
		},
		{
			name: "unrelated flags",
			args: []string{"--strict", "--logfile=x", "watch"},
			want: "level=INFO msg=compiled\n",
		},
		{
			name: "separate value",
			args: []string{"--log-level", "warn", "--log-time-layout", "none"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				buf bytes.Buffer
				f   logConfig
			)

			logger := log.Make(&buf, append([]log.Option{
				log.WithFormat(log.FormatText),
				log.WithTimeLayout("none"),
				log.WithPretty(false),
			}, f.scan(tt.args)...)...)

			logger.TraceContext(t.Context(), "lookup")
			logger.InfoContext(t.Context(), "compiled")

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogConfig_ScanCaller(t *testing.T) {
	var (
		buf bytes.Buffer
		f   logConfig
	)

	opts := f.scan([]string{"--no-log-caller=false", "--log-format=json", "--no-log-pretty"})
	if len(opts) != 3 {
		t.Fatalf("scan() returned %d options, want 3", len(opts))
	}

	log.Make(&buf, opts...).InfoContext(t.Context(), "compiled")

	if !strings.Contains(buf.String(), `"source":`) {
		t.Errorf("caller missing: %s", buf.String())
	}
}

func TestLogConfig_Parse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    logConfig
		wantErr bool
	}{
		{
			name: "defaults",
			want: logConfig{
				Level:      log.LevelInfo,
				Format:     log.FormatJSON,
				TimeLayout: "RFC3339",
				Pretty:     true,
			},
		},
		{
			name: "flags",
			args: []string{"--log-level=trace", "--log-format", "TEXT", "--no-log-pretty", "--log-caller"},
			want: logConfig{
				Level:      log.LevelTrace,
				Format:     log.FormatText,
				TimeLayout: "RFC3339",
				Caller:     true,
			},
		},
		{
			name:    "unknown level",
			args:    []string{"--log-level=loud"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli struct {
				Log logConfig `embed:"" prefix:"log-"`
			}

			parser, err := kong.New(&cli,
				kong.Exit(func(int) { t.Fatal("unexpected exit") }),
				cli.Log.vars(),
			)
			if err != nil {
				t.Fatalf("kong.New() error: %v", err)
			}

			_, err = parser.Parse(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("Parse() succeeded")
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}

			if cli.Log != tt.want {
				t.Errorf("Parse() = %+v, want %+v", cli.Log, tt.want)
			}
		})
	}
}

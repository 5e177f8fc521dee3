package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ardnew/sdfc/compiler"
)

func newTestServer(t *testing.T) (*compiler.Session, *Metrics, *httptest.Server) {
	t.Helper()

	metrics := NewMetrics(nil)
	session := compiler.NewSession(compiler.WithObserver(metrics.Observe))
	ts := httptest.NewServer(New(session, WithMetrics(metrics)).Handler())
	t.Cleanup(ts.Close)

	return session, metrics, ts
}

func get(t *testing.T, url string, header map[string]string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}

	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s error: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error: %v", err)
	}

	return resp, string(body)
}

func TestServer_Code(t *testing.T) {
	session, _, ts := newTestServer(t)

	resp, _ := get(t, ts.URL+RouteCode, nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status before compile = %d, want 503", resp.StatusCode)
	}

	u, err := session.Submit(context.Background(), "sphere(d=2)")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	resp, body := get(t, ts.URL+RouteCode, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if body != u.Result.Code {
		t.Errorf("body = %q, want %q", body, u.Result.Code)
	}

	etag := resp.Header.Get("ETag")
	if etag != u.Result.ETag() {
		t.Errorf("ETag = %q, want %q", etag, u.Result.ETag())
	}

	resp, body = get(t, ts.URL+RouteCode, map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusNotModified || body != "" {
		t.Errorf("conditional status = %d body = %q, want 304 and empty", resp.StatusCode, body)
	}

	if _, err := session.Submit(context.Background(), "box"); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	resp, _ = get(t, ts.URL+RouteCode, map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status after change = %d, want 200", resp.StatusCode)
	}

	// A failed compile keeps serving the last good code.
	_, _ = session.Submit(context.Background(), "box {")

	resp, body = get(t, ts.URL+RouteCode, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "float de(vec3 p)") {
		t.Errorf("status after failure = %d body = %q", resp.StatusCode, body)
	}
}

func TestServer_Status(t *testing.T) {
	session, _, ts := newTestServer(t)

	if _, err := session.Submit(context.Background(), "box"); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	_, _ = session.Submit(context.Background(), "box {\n  1+2\n}")

	resp, body := get(t, ts.URL+RouteStatus, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var status Status
	if err := json.Unmarshal([]byte(body), &status); err != nil {
		t.Fatalf("Unmarshal() error: %v\n%s", err, body)
	}

	if status.ID != session.ID() || status.Seq != 2 || status.OK {
		t.Errorf("status = %+v", status)
	}

	if status.Line != 2 || status.Col != 3 || status.Error == "" {
		t.Errorf("error position = %d:%d %q, want 2:3", status.Line, status.Col, status.Error)
	}

	if status.ETag != session.Current().ETag() || status.CodeBytes == 0 {
		t.Errorf("status keeps no last good result: %+v", status)
	}
}

func TestServer_Metrics(t *testing.T) {
	session, metrics, ts := newTestServer(t)

	_, _ = session.Submit(context.Background(), "box")
	_, _ = session.Submit(context.Background(), "box ")
	_, _ = session.Submit(context.Background(), "$")

	if got := testutil.ToFloat64(metrics.compiles.WithLabelValues(ResultOK)); got != 2 {
		t.Errorf("ok compiles = %v, want 2", got)
	}

	if got := testutil.ToFloat64(metrics.compiles.WithLabelValues(ResultError)); got != 1 {
		t.Errorf("error compiles = %v, want 1", got)
	}

	if got := testutil.ToFloat64(metrics.changes); got != 1 {
		t.Errorf("code changes = %v, want 1", got)
	}

	if got := testutil.ToFloat64(metrics.seq); got != 3 {
		t.Errorf("seq = %v, want 3", got)
	}

	get(t, ts.URL+RouteCode, nil)

	resp, body := get(t, ts.URL+RouteMetrics, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	for _, want := range []string{
		`sdfc_compiles_total{result="ok"} 2`,
		`sdfc_http_requests_total{code="200",route="/de.glsl"} 1`,
		"sdfc_compile_duration_seconds_count 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetrics_Stale(t *testing.T) {
	metrics := NewMetrics(nil)
	session := compiler.NewSession(compiler.WithObserver(metrics.Observe))

	older := session.Begin()
	newer := session.Begin()

	res, err := compiler.Compile(context.Background(), "box")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	session.Finish(newer, "box", res, nil)
	session.Finish(older, "box", res, nil)

	if got := testutil.ToFloat64(metrics.compiles.WithLabelValues(ResultStale)); got != 1 {
		t.Errorf("stale compiles = %v, want 1", got)
	}

	if got := testutil.ToFloat64(metrics.seq); got != float64(newer) {
		t.Errorf("seq = %v, want %d", got, newer)
	}
}

func TestServer_Serve(t *testing.T) {
	srv := New(compiler.NewSession(), WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() { done <- srv.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestServe_ListenError(t *testing.T) {
	srv := New(compiler.NewSession())

	if err := srv.Serve(t.Context(), "256.0.0.1:bad"); err == nil {
		t.Error("Serve() error = nil for invalid address")
	}
}

func TestMatchETag(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"xyz", "abc"`, true},
		{`"xyz"`, false},
		{"*", true},
	}

	for _, tt := range tests {
		if got := matchETag(tt.header, `"abc"`); got != tt.want {
			t.Errorf("matchETag(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestServer_Profiler(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{"enabled", true, http.StatusOK},
		{"disabled", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(compiler.NewSession(), WithProfiler(tt.enabled))
			ts := httptest.NewServer(srv.Handler())
			t.Cleanup(ts.Close)

			resp, _ := get(t, ts.URL+RouteDebug+"/pprof/", nil)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

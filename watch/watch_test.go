package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const waitFor = 5 * time.Second

func TestFileWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.csg")
	writeFile(t, path, "box")

	w, err := New(path, WithDebounce(50*time.Millisecond), WithInitial(true))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	changes := make(chan string, 8)
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			changes <- string(data)

			return nil
		})
	}()

	if got := receive(t, changes); got != "box" {
		t.Errorf("initial change = %q, want %q", got, "box")
	}

	writeFile(t, path, "sphere")

	if got := receive(t, changes); got != "sphere" {
		t.Errorf("change = %q, want %q", got, "sphere")
	}

	// Replacing the file by rename is observed as a create.
	tmp := filepath.Join(dir, ".model.csg.tmp")
	writeFile(t, tmp, "cylinder")

	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename() error: %v", err)
	}

	if got := receive(t, changes); got != "cylinder" {
		t.Errorf("change after rename = %q, want %q", got, "cylinder")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v, want nil", err)
		}
	case <-time.After(waitFor):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.csg")
	writeFile(t, path, "box")

	w, err := New(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var calls atomic.Int32

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	started := make(chan struct{})

	go func() {
		close(started)

		_ = w.Watch(ctx, func() error {
			calls.Add(1)

			return nil
		})
	}()

	<-started
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "other.csg"), "sphere")
	time.Sleep(200 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Errorf("onChange called %d times for an unrelated file", n)
	}
}

func TestFileWatcher_AlreadyRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.csg")
	writeFile(t, path, "box")

	w, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var (
		ready = make(chan struct{})
		once  sync.Once
	)

	go func() {
		_ = w.Watch(ctx, func() error {
			once.Do(func() { close(ready) })

			return nil
		})
	}()

	// The initial report is disabled, so trigger one change to know the first
	// Watch is running.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "sphere")

	select {
	case <-ready:
	case <-time.After(waitFor):
		t.Fatal("first Watch() did not report a change")
	}

	if err := w.Watch(ctx, func() error { return nil }); !errors.Is(err, ErrRunning) {
		t.Errorf("second Watch() error = %v, want ErrRunning", err)
	}
}

func TestFileWatcher_HandlerErrorsContinue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.csg")
	writeFile(t, path, "box")

	w, err := New(path, WithDebounce(10*time.Millisecond), WithInitial(true))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	calls := make(chan struct{}, 4)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func() error {
			calls <- struct{}{}

			return errors.New("compile failed")
		})
	}()

	receive(t, calls)
	writeFile(t, path, "sphere")
	receive(t, calls)
}

func TestDebouncer_Coalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32

	for range 10 {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(100 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Errorf("callback ran %d times after Stop, want 0", n)
	}
}

func TestNew_ResolvesPath(t *testing.T) {
	w, err := New("model.csg")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if !filepath.IsAbs(w.Path()) || filepath.Base(w.Path()) != "model.csg" {
		t.Errorf("Path() = %q", w.Path())
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func receive[T any](t *testing.T, ch chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for change")

		var zero T

		return zero
	}
}

package compiler

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/ardnew/sdfc/lang"
)

func TestCache_Hit(t *testing.T) {
	c := NewCache(0)

	a, err := Compile(context.Background(), "box", WithCache(c))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	b, err := Compile(context.Background(), "box", WithCache(c))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if a != b {
		t.Errorf("cached Compile() returned a different result")
	}

	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 1, 1", hits, misses)
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_OptionsAreKeyed(t *testing.T) {
	c := NewCache(0)
	source := "box(x=1, x=2)"

	if _, err := Compile(context.Background(), source, WithCache(c)); err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	_, err := Compile(context.Background(), source, WithCache(c), WithStrictParams(true))
	if !errors.Is(err, lang.ErrParse) {
		t.Errorf("strict cached Compile() error = %v, want ErrParse", err)
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCache_Errors(t *testing.T) {
	c := NewCache(0)

	for range 2 {
		if _, err := Compile(context.Background(), "1+2", WithCache(c)); !errors.Is(err, lang.ErrParse) {
			t.Errorf("Compile() error = %v, want ErrParse", err)
		}
	}

	if hits, _ := c.Stats(); hits != 1 {
		t.Errorf("error results not cached: hits = %d", hits)
	}
}

func TestCache_Limit(t *testing.T) {
	c := NewCache(2)

	for _, source := range []string{"box", "sphere", "cylinder"} {
		if _, err := Compile(context.Background(), source, WithCache(c)); err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after reset", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache(0)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = map[*Result]bool{}
	)

	for range 16 {
		wg.Go(func() {
			res, err := Compile(context.Background(), "trans(z=1) { box }", WithCache(c))
			if err != nil {
				t.Errorf("Compile() error: %v", err)

				return
			}

			mu.Lock()
			results[res] = true
			mu.Unlock()
		})
	}

	wg.Wait()

	if len(results) != 1 {
		t.Errorf("concurrent cached compiles produced %d results, want 1", len(results))
	}
}

func TestCache_Key(t *testing.T) {
	c := NewCache(0)

	sources := []string{"", "box", "sphere", "box(x=1, x=2)", "\x00box", "\x01box"}
	seen := map[string]string{}

	for _, source := range sources {
		for _, strict := range []bool{false, true} {
			o := options{strict: strict}
			key := c.key(source, o)

			if again := c.key(source, o); again != key {
				t.Errorf("key(%q, strict=%v) not stable: %s, %s", source, strict, key, again)
			}

			id := source + "|" + strconv.FormatBool(strict)
			if prev, ok := seen[key]; ok {
				t.Errorf("key(%s) collides with key(%s)", id, prev)
			}

			seen[key] = id
		}
	}
}

func TestOptionBytes(t *testing.T) {
	if got := optionBytes(options{}); len(got) != 1 || got[0] != 0 {
		t.Errorf("optionBytes(default) = %v", got)
	}

	if got := optionBytes(options{strict: true}); len(got) != 1 || got[0] != 1 {
		t.Errorf("optionBytes(strict) = %v", got)
	}

	// Options that do not affect output do not change the key.
	c := NewCache(0)
	if c.key("box", options{}) != c.key("box", options{cache: c}) {
		t.Errorf("key depends on the cache option")
	}
}

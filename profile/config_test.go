package profile

import (
	"errors"
	"slices"
	"testing"
)

func TestConfig_Start(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "disabled", cfg: Config{Dir: t.TempDir()}},
		{name: "unknown mode", cfg: Config{Mode: "quiet"}, wantErr: ErrMode},
		{name: "empty dir unknown mode", cfg: Config{Mode: "gpu"}, wantErr: ErrMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.cfg.Start()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Start() error = %v, want %v", err, tt.wantErr)
			}

			if _, ok := p.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", p)
			}

			p.Stop()
			p.Stop()
		})
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}

	if slices.Contains(modes, "quiet") {
		t.Errorf("Modes() = %v, contains quiet", modes)
	}
}

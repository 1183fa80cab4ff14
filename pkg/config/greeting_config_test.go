package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/decker502/valentine/pkg/stage"
)

func TestDefaultGreetingConfigIsValid(t *testing.T) {
	cfg := DefaultGreetingConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	timings := cfg.Timing.StageTimings()
	if timings != stage.DefaultTimings() {
		t.Errorf("default timings mismatch: %+v vs %+v", timings, stage.DefaultTimings())
	}
	if cfg.Timing.CarouselInterval() != 3*time.Second {
		t.Errorf("expected 3s carousel interval, got %v", cfg.Timing.CarouselInterval())
	}
	if len(cfg.Carousel.Images) != 5 {
		t.Errorf("expected 5 carousel images, got %d", len(cfg.Carousel.Images))
	}

	stages, err := cfg.Audio.Stages()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stages) != len(stage.All()) {
		t.Errorf("every stage should be audio eligible by default, got %v", stages)
	}
}

func TestEmbeddedDefaultFileMatchesDefaults(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "greeting.yaml"))
	if err != nil {
		t.Skipf("data/greeting.yaml not available: %v", err)
	}

	cfg, err := ParseGreetingConfig(data)
	if err != nil {
		t.Fatalf("failed to parse data/greeting.yaml: %v", err)
	}

	def := DefaultGreetingConfig()
	if cfg.Timing != def.Timing {
		t.Errorf("timing mismatch: file %+v, defaults %+v", cfg.Timing, def.Timing)
	}
	if cfg.Particles != def.Particles {
		t.Errorf("particles mismatch: file %+v, defaults %+v", cfg.Particles, def.Particles)
	}
}

func TestParseGreetingConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *GreetingConfig)
	}{
		{
			name: "partial override keeps defaults",
			yamlContent: `
timing:
  carouselIntervalMs: 2000
particles:
  count: 10
`,
			validate: func(t *testing.T, cfg *GreetingConfig) {
				if cfg.Timing.CarouselIntervalMs != 2000 {
					t.Errorf("expected carousel interval 2000, got %d", cfg.Timing.CarouselIntervalMs)
				}
				if cfg.Timing.GiftOpeningMs != 1500 {
					t.Errorf("expected default gift opening 1500, got %d", cfg.Timing.GiftOpeningMs)
				}
				if cfg.Particles.Count != 10 {
					t.Errorf("expected 10 particles, got %d", cfg.Particles.Count)
				}
				if cfg.Particles.RadiusMax != 2.5 {
					t.Errorf("expected default radiusMax 2.5, got %f", cfg.Particles.RadiusMax)
				}
			},
		},
		{
			name: "eligible stages subset",
			yamlContent: `
audio:
  eligibleStages: [Opened]
`,
			validate: func(t *testing.T, cfg *GreetingConfig) {
				stages, err := cfg.Audio.Stages()
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(stages) != 1 || stages[0] != stage.Opened {
					t.Errorf("expected [Opened], got %v", stages)
				}
			},
		},
		{
			name: "unknown stage",
			yamlContent: `
audio:
  eligibleStages: [TypingComplete]
`,
			wantErr:     true,
			errContains: "eligibleStages",
		},
		{
			name: "non-positive duration",
			yamlContent: `
timing:
  giftOpeningMs: 0
`,
			wantErr:     true,
			errContains: "giftOpeningMs",
		},
		{
			name: "typing shorter than letter reveal",
			yamlContent: `
timing:
  letterRevealMs: 5000
  typingMs: 4000
  typingRevealMs: 3000
`,
			wantErr:     true,
			errContains: "typingMs",
		},
		{
			name: "inverted radius range",
			yamlContent: `
particles:
  radiusMin: 3
  radiusMax: 1
`,
			wantErr:     true,
			errContains: "radius",
		},
		{
			name: "opacity above one",
			yamlContent: `
particles:
  opacityMax: 1.5
`,
			wantErr:     true,
			errContains: "opacity",
		},
		{
			name: "empty carousel",
			yamlContent: `
carousel:
  images: []
`,
			wantErr:     true,
			errContains: "carousel",
		},
		{
			name:        "malformed yaml",
			yamlContent: "timing: [",
			wantErr:     true,
			errContains: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseGreetingConfig([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestValidationErrorsWrapSentinel(t *testing.T) {
	cfg := DefaultGreetingConfig()
	cfg.Audio.Volume = 2
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidateReportsFirstInvalidDurationDeterministically(t *testing.T) {
	cfg := DefaultGreetingConfig()
	cfg.Timing.CarouselIntervalMs = 0
	cfg.Timing.GiftOpeningMs = 0
	cfg.Timing.LetterConfirmMs = -1

	// map 迭代顺序随机，多跑几次确认报告的字段稳定
	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "timing.giftOpeningMs") {
			t.Fatalf("run %d: expected giftOpeningMs to be reported first, got %v", i, err)
		}
	}
}

func TestLoadGreetingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.yaml")
	if err := os.WriteFile(path, []byte("window:\n  title: test\n"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := LoadGreetingConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Window.Title != "test" {
		t.Errorf("expected title 'test', got %q", cfg.Window.Title)
	}

	if _, err := LoadGreetingConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

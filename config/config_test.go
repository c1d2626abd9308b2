package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------- defaults ----------

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded defaults should validate: %v", err)
	}
	if cfg.Clock.DaysPerSecond != 42 {
		t.Errorf("expected 42 days per second, got %v", cfg.Clock.DaysPerSecond)
	}
	if cfg.Population.InitialRabbits != 10 || cfg.Population.InitialPredators != 0 {
		t.Errorf("unexpected initial population %+v", cfg.Population)
	}
	if cfg.Rabbit.BirthRate != 1.0 {
		t.Errorf("expected birth rate 1/day, got %v", cfg.Rabbit.BirthRate)
	}
	if cfg.Rabbit.Lifespan.Mean != 365 {
		t.Errorf("expected 365 day rabbit lifespan, got %v", cfg.Rabbit.Lifespan.Mean)
	}
}

// ---------- load / merge ----------

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "rabbit:\n  birth_rate: 2.5\npredator:\n  boundary_distance: 7\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rabbit.BirthRate != 2.5 {
		t.Errorf("birth rate not overridden: %v", cfg.Rabbit.BirthRate)
	}
	if cfg.Predator.BoundaryDistance != 7 {
		t.Errorf("boundary not overridden: %v", cfg.Predator.BoundaryDistance)
	}
	// Untouched fields keep defaults
	if cfg.Clock.DaysPerSecond != 42 {
		t.Errorf("days per second lost default: %v", cfg.Clock.DaysPerSecond)
	}
	if cfg.Rabbit.Lifespan.Kind != LifespanNormal {
		t.Errorf("lifespan kind lost default: %q", cfg.Rabbit.Lifespan.Kind)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Predator.GainRate = 3.25
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, *cfg)
	}
}

func TestClone_Independent(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	cp.Rabbit.BirthRate = 99
	if cfg.Rabbit.BirthRate == 99 {
		t.Error("mutating clone changed original")
	}
}

// ---------- validation ----------

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero rate", func(c *Config) { c.Clock.DaysPerSecond = 0 }, "clock.days_per_second"},
		{"oversized rate", func(c *Config) { c.Clock.DaysPerSecond = 1e20 }, "clock.days_per_second"},
		{"negative birth rate", func(c *Config) { c.Rabbit.BirthRate = -1 }, "rabbit.birth_rate"},
		{"nan birth rate", func(c *Config) { c.Rabbit.BirthRate = math.NaN() }, "rabbit.birth_rate"},
		{"inf threshold", func(c *Config) { c.Predator.MaintenanceThreshold = math.Inf(1) }, "maintenance_threshold"},
		{"negative rabbits", func(c *Config) { c.Population.InitialRabbits = -1 }, "initial_rabbits"},
		{"unknown lifespan", func(c *Config) { c.Rabbit.Lifespan.Kind = "gamma" }, "rabbit.lifespan.kind"},
		{"uniform min>max", func(c *Config) {
			c.Predator.Lifespan = LifespanConfig{Kind: LifespanUniform, Min: 10, Max: 5}
		}, "exceeds max"},
		{"nourishment zero", func(c *Config) { c.Predator.InitialNourishment = 0 }, "initial_nourishment"},
		{"nourishment above max", func(c *Config) { c.Predator.InitialNourishment = 101 }, "initial_nourishment"},
		{"unknown drift", func(c *Config) { c.Predator.Drift.Kind = "levy" }, "drift.kind"},
		{"unknown pool", func(c *Config) { c.Resource.Pool.Kind = "quadratic" }, "pool.kind"},
		{"saturating without K", func(c *Config) {
			c.Resource.Pool.Kind = PoolSaturating
			c.Resource.Pool.HalfSaturation = 0
		}, "half_saturation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error should wrap ErrInvalidConfiguration: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	cfg := Default()
	cfg.Rabbit.BirthRate = -1
	cfg.Predator.LossRate = -2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"rabbit.birth_rate", "predator.loss_rate"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
}

func TestValidate_ImmortalNeedsNoParameters(t *testing.T) {
	cfg := Default()
	cfg.Rabbit.Lifespan = LifespanConfig{Kind: LifespanImmortal}
	if err := cfg.Validate(); err != nil {
		t.Errorf("immortal lifespan should validate: %v", err)
	}
}

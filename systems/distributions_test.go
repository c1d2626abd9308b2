package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/commons/config"
)

// ---------- lifespans ----------

func TestDaysFrom(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{2.6, 3},
		{2.4, 2},
		{0.4, 1},
		{-50, 1},
		{math.NaN(), 1},
		{math.Inf(1), Immortal},
	}
	for _, tt := range tests {
		if got := daysFrom(tt.in); got != tt.want {
			t.Errorf("daysFrom(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewLifespan_FixedAndImmortal(t *testing.T) {
	fixed := NewLifespan(config.LifespanConfig{Kind: config.LifespanFixed, Mean: 200.4}, testRNG(1))
	if got := fixed.Sample(); got != 200 {
		t.Errorf("fixed lifespan = %d, want 200", got)
	}

	immortal := NewLifespan(config.LifespanConfig{Kind: config.LifespanImmortal}, testRNG(1))
	if got := immortal.Sample(); got != Immortal {
		t.Errorf("immortal lifespan = %d", got)
	}

	// Zero spread degenerates to the mean
	normal := NewLifespan(config.LifespanConfig{Kind: config.LifespanNormal, Mean: 90}, testRNG(1))
	if got := normal.Sample(); got != 90 {
		t.Errorf("zero-stddev normal = %d, want 90", got)
	}
}

func TestNewLifespan_NormalMean(t *testing.T) {
	l := NewLifespan(config.LifespanConfig{Kind: config.LifespanNormal, Mean: 365, StdDev: 30}, testRNG(7))

	const n = 4000
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(l.Sample())
	}
	if mean := sum / n; math.Abs(mean-365) > 5 {
		t.Errorf("sample mean %v too far from 365", mean)
	}
}

func TestNewLifespan_UniformBounds(t *testing.T) {
	l := NewLifespan(config.LifespanConfig{Kind: config.LifespanUniform, Min: 10, Max: 20}, testRNG(3))
	for i := 0; i < 1000; i++ {
		if got := l.Sample(); got < 10 || got > 20 {
			t.Fatalf("sample %d outside [10, 20]", got)
		}
	}
}

func TestNewLifespan_Deterministic(t *testing.T) {
	cfg := config.LifespanConfig{Kind: config.LifespanNormal, Mean: 365, StdDev: 30}
	a := NewLifespan(cfg, testRNG(11))
	b := NewLifespan(cfg, testRNG(11))
	for i := 0; i < 100; i++ {
		if x, y := a.Sample(), b.Sample(); x != y {
			t.Fatalf("sample %d differs: %d vs %d", i, x, y)
		}
	}
}

// ---------- drift ----------

func TestNewDrift_NoneAndConstant(t *testing.T) {
	none := NewDrift(config.DriftConfig{Kind: config.DriftNone, Rate: 5}, testRNG(1))
	if got := none.Step(3, 10); got != 3 {
		t.Errorf("none drift moved to %v", got)
	}

	constant := NewDrift(config.DriftConfig{Kind: config.DriftConstant, Rate: 0.25}, testRNG(1))
	if got := constant.Step(3, 10); got != 5.5 {
		t.Errorf("constant drift = %v, want 5.5", got)
	}

	// A random walk without spread is constant drift
	flat := NewDrift(config.DriftConfig{Kind: config.DriftRandomWalk, Rate: 1}, testRNG(1))
	if got := flat.Step(0, 4); got != 4 {
		t.Errorf("zero-sigma walk = %v, want 4", got)
	}
}

func TestNewDrift_RandomWalkNeverNegative(t *testing.T) {
	walk := NewDrift(config.DriftConfig{Kind: config.DriftRandomWalk, Sigma: 5}, testRNG(9))
	d := 0.0
	moved := false
	for i := 0; i < 1000; i++ {
		next := walk.Step(d, 1)
		if next < 0 {
			t.Fatalf("distance went negative: %v", next)
		}
		if next != d {
			moved = true
		}
		d = next
	}
	if !moved {
		t.Error("random walk never moved")
	}
}

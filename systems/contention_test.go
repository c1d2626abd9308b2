package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/commons/components"
	"github.com/pthm-cable/commons/config"
)

func contentionConfig() *config.Config {
	cfg := config.Default()
	cfg.Resource.Pool = config.PoolConfig{Kind: config.PoolLinear, Fraction: 0.05}
	cfg.Predator.ConsumptionRequirement = 1
	cfg.Predator.MaintenanceThreshold = 0.5
	cfg.Predator.GainRate = 10
	cfg.Predator.LossRate = 20
	cfg.Predator.MaxNourishment = 100
	return cfg
}

// ---------- pool and share ----------

func TestContention_PoolSize(t *testing.T) {
	tests := []struct {
		name    string
		pool    config.PoolConfig
		rabbits int
		days    int
		want    float64
	}{
		{"linear", config.PoolConfig{Kind: config.PoolLinear, Fraction: 0.05}, 100, 1, 5},
		{"linear multi-day", config.PoolConfig{Kind: config.PoolLinear, Fraction: 0.05}, 100, 3, 15},
		{"capped at population", config.PoolConfig{Kind: config.PoolLinear, Fraction: 1}, 100, 5, 100},
		{"saturating", config.PoolConfig{Kind: config.PoolSaturating, Fraction: 0.1, HalfSaturation: 50}, 50, 1, 2.5},
		{"empty", config.PoolConfig{Kind: config.PoolSaturating, Fraction: 0.1, HalfSaturation: 50}, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := contentionConfig()
			cfg.Resource.Pool = tt.pool
			c := NewContention(cfg)
			if got := c.PoolSize(tt.rabbits, tt.days); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PoolSize(%d, %d) = %v, want %v", tt.rabbits, tt.days, got, tt.want)
			}
		})
	}
}

func TestContention_ShareCappedAtRequirement(t *testing.T) {
	c := NewContention(contentionConfig())

	if got := c.Share(5, 10, 1); got != 0.5 {
		t.Errorf("scarce share = %v, want 0.5", got)
	}
	if got := c.Share(5, 2, 1); got != 1 {
		t.Errorf("abundant share = %v, want requirement 1", got)
	}
	if got := c.Share(5, 0, 1); got != 0 {
		t.Errorf("share with no predators = %v", got)
	}
}

func TestContention_ShareShrinksWithPredators(t *testing.T) {
	c := NewContention(contentionConfig())
	pool := c.PoolSize(40, 1) // 2 rabbits

	prev := math.Inf(1)
	for n := 1; n <= 8; n++ {
		share := c.Share(pool, n, 1)
		if share > prev {
			t.Errorf("share grew from %v to %v at n=%d", prev, share, n)
		}
		prev = share
	}
}

func TestContention_NourishmentDelta(t *testing.T) {
	c := NewContention(contentionConfig())

	if got := c.NourishmentDelta(1, 1); got != 5 {
		t.Errorf("surplus delta = %v, want 5", got)
	}
	if got := c.NourishmentDelta(0.25, 1); got != -5 {
		t.Errorf("deficit delta = %v, want -5", got)
	}
	if got := c.NourishmentDelta(0.5, 1); got != 0 {
		t.Errorf("maintenance delta = %v, want 0", got)
	}
	if got := c.NourishmentDelta(0, 4); got != -40 {
		t.Errorf("multi-day starvation delta = %v, want -40", got)
	}
}

// ---------- Apply ----------

func TestContention_ApplyFeedsAndMarksEaten(t *testing.T) {
	c := NewContention(contentionConfig())
	reg := NewRegistry()
	for i := 0; i < 100; i++ {
		reg.AddRabbit(365, 0)
	}
	id := reg.AddPredator(0, 3650, components.Predator{Nourishment: 50}, 0)

	res := c.Apply(reg, 1, testRNG(1))

	if res.Pool != 5 || res.Share != 1 || res.Consumed != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	p, _ := reg.Predator(id)
	if p.Nourishment != 55 {
		t.Errorf("nourishment = %v, want 55", p.Nourishment)
	}
	if p.LastIntake != 1 {
		t.Errorf("last intake = %v, want 1", p.LastIntake)
	}

	deaths := reg.Sweep(1)
	if len(deaths) != 1 || deaths[0].Cause != components.CauseEaten {
		t.Errorf("expected one eaten rabbit, got %+v", deaths)
	}
}

func TestContention_ApplyClampsNourishment(t *testing.T) {
	c := NewContention(contentionConfig())
	reg := NewRegistry()
	for i := 0; i < 100; i++ {
		reg.AddRabbit(365, 0)
	}
	full := reg.AddPredator(0, 3650, components.Predator{Nourishment: 98}, 0)

	c.Apply(reg, 1, testRNG(1))
	if p, _ := reg.Predator(full); p.Nourishment != 100 {
		t.Errorf("nourishment = %v, want clamped 100", p.Nourishment)
	}

	// No rabbits: nourishment falls and stops at 0
	empty := NewRegistry()
	starving := empty.AddPredator(0, 3650, components.Predator{Nourishment: 3}, 0)
	c.Apply(empty, 10, testRNG(1))
	if p, _ := empty.Predator(starving); p.Nourishment != 0 {
		t.Errorf("nourishment = %v, want clamped 0", p.Nourishment)
	}
}

func TestContention_ApplyWithoutPredators(t *testing.T) {
	c := NewContention(contentionConfig())
	reg := NewRegistry()
	for i := 0; i < 10; i++ {
		reg.AddRabbit(365, 0)
	}

	res := c.Apply(reg, 5, testRNG(1))
	if res.Consumed != 0 || res.Pool != 0 {
		t.Errorf("expected no feeding, got %+v", res)
	}
	if deaths := reg.Sweep(5); len(deaths) != 0 {
		t.Errorf("rabbits removed without predators: %d", len(deaths))
	}
}

func TestContention_FractionalConsumptionCarries(t *testing.T) {
	cfg := contentionConfig()
	cfg.Predator.ConsumptionRequirement = 0.5
	c := NewContention(cfg)
	reg := NewRegistry()
	for i := 0; i < 100; i++ {
		reg.AddRabbit(365, 0)
	}
	reg.AddPredator(0, 3650, components.Predator{Nourishment: 50}, 0)

	first := c.Apply(reg, 1, testRNG(1))
	second := c.Apply(reg, 1, testRNG(2))
	if first.Consumed != 0 || second.Consumed != 1 {
		t.Errorf("consumed %d then %d, want 0 then 1", first.Consumed, second.Consumed)
	}
}

func TestContention_TotalConsumptionGrowsWithPredators(t *testing.T) {
	consumedWith := func(n int) int {
		c := NewContention(contentionConfig())
		reg := NewRegistry()
		for i := 0; i < 200; i++ {
			reg.AddRabbit(365, 0)
		}
		for i := 0; i < n; i++ {
			reg.AddPredator(0, 3650, components.Predator{Nourishment: 50}, 0)
		}
		return c.Apply(reg, 1, testRNG(1)).Consumed
	}

	// Pool is 10 rabbits: 1 predator eats 1, 5 eat 5, 20 split all 10
	if a, b, d := consumedWith(1), consumedWith(5), consumedWith(20); !(a < b && b < d) {
		t.Errorf("total consumption should grow with predators: %d, %d, %d", a, b, d)
	}
}

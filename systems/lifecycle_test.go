package systems

import (
	"testing"

	"github.com/pthm-cable/commons/components"
	"github.com/pthm-cable/commons/config"
)

// lifecycleConfig returns defaults with deterministic lifespans and no drift.
func lifecycleConfig() *config.Config {
	cfg := config.Default()
	cfg.Rabbit.Lifespan = config.LifespanConfig{Kind: config.LifespanFixed, Mean: 365}
	cfg.Predator.Lifespan = config.LifespanConfig{Kind: config.LifespanFixed, Mean: 3650}
	cfg.Predator.Drift = config.DriftConfig{Kind: config.DriftNone}
	cfg.Predator.BoundaryDistance = 100
	return cfg
}

// ---------- births ----------

func TestLifecycle_BirthsWholeDays(t *testing.T) {
	l := NewLifecycle(lifecycleConfig(), testRNG(1))
	if got := l.Births(42); got != 42 {
		t.Errorf("expected 42 births at 1/day over 42 days, got %d", got)
	}
}

func TestLifecycle_BirthCarry(t *testing.T) {
	cfg := lifecycleConfig()
	cfg.Rabbit.BirthRate = 0.3
	l := NewLifecycle(cfg, testRNG(1))

	total := 0
	for i := 0; i < 10; i++ {
		total += l.Births(1)
	}
	if total != 3 {
		t.Errorf("expected 3 births over 10 days at 0.3/day, got %d (carry %v)", total, l.BirthCarry())
	}
}

func TestLifecycle_BirthsIndependentOfStepSize(t *testing.T) {
	cfg := lifecycleConfig()
	cfg.Rabbit.BirthRate = 0.7

	stepped := NewLifecycle(cfg, testRNG(1))
	total := 0
	for i := 0; i < 30; i++ {
		total += stepped.Births(1)
	}

	single := NewLifecycle(cfg, testRNG(1))
	if want := single.Births(30); total != want {
		t.Errorf("30 one-day steps gave %d births, one 30-day step gave %d", total, want)
	}
}

func TestLifecycle_NoBirthsAtZeroRate(t *testing.T) {
	cfg := lifecycleConfig()
	cfg.Rabbit.BirthRate = 0
	l := NewLifecycle(cfg, testRNG(1))
	if got := l.Births(1000); got != 0 {
		t.Errorf("expected no births, got %d", got)
	}
}

// ---------- aging ----------

func TestLifecycle_AgeAddsElapsedDays(t *testing.T) {
	cfg := lifecycleConfig()
	cfg.Predator.Drift = config.DriftConfig{Kind: config.DriftConstant, Rate: 0.5}
	l := NewLifecycle(cfg, testRNG(1))

	reg := NewRegistry()
	r := reg.AddRabbit(365, 0)
	p := reg.AddPredator(10, 3650, components.Predator{Nourishment: 50, Distance: 1}, 0)

	l.Age(reg, 4)
	l.Age(reg, 0)
	l.Age(reg, 3)

	ra, _ := reg.Agent(r)
	if ra.Age != 7 {
		t.Errorf("rabbit age = %d, want 7", ra.Age)
	}
	pa, _ := reg.Agent(p)
	if pa.Age != 17 {
		t.Errorf("predator age = %d, want 17", pa.Age)
	}
	pred, _ := reg.Predator(p)
	if pred.Distance != 4.5 {
		t.Errorf("distance = %v, want 4.5", pred.Distance)
	}
}

// ---------- deaths ----------

func TestLifecycle_RabbitOldAge(t *testing.T) {
	l := NewLifecycle(lifecycleConfig(), testRNG(1))
	reg := NewRegistry()
	young := reg.AddRabbit(10, 0)
	old := reg.AddRabbit(10, 0)

	a, _ := reg.Agent(young)
	a.Age = 9
	a, _ = reg.Agent(old)
	a.Age = 10 // age == lifespan dies

	counts := l.EvaluateDeaths(reg)
	if counts.RabbitOldAge != 1 {
		t.Errorf("old-age count = %d, want 1", counts.RabbitOldAge)
	}
	deaths := reg.Sweep(0)
	if len(deaths) != 1 || deaths[0].ID != old {
		t.Errorf("unexpected deaths %+v", deaths)
	}
}

func TestLifecycle_PredatorCausePriority(t *testing.T) {
	tests := []struct {
		name        string
		age         int
		distance    float64
		nourishment float64
		want        components.DeathCause
	}{
		{"all three", 3650, 150, 0, components.CauseOldAge},
		{"wandered and starved", 10, 150, 0, components.CauseWanderedOff},
		{"starved only", 10, 5, 0, components.CauseStarvation},
		{"at boundary", 10, 100, 20, components.CauseNone},
		{"healthy", 10, 5, 20, components.CauseNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(lifecycleConfig(), testRNG(1))
			reg := NewRegistry()
			id := reg.AddPredator(tt.age, 3650, components.Predator{
				Nourishment: tt.nourishment,
				Distance:    tt.distance,
			}, 0)

			l.EvaluateDeaths(reg)

			a, _ := reg.Agent(id)
			if a.Cause != tt.want {
				t.Errorf("cause = %v, want %v", a.Cause, tt.want)
			}
		})
	}
}

func TestLifecycle_PredatorMarkedEarlierKeepsCause(t *testing.T) {
	l := NewLifecycle(lifecycleConfig(), testRNG(1))
	reg := NewRegistry()
	id := reg.AddPredator(10, 3650, components.Predator{Nourishment: 0}, 0)
	a, _ := reg.Agent(id)
	a.Mark(components.CauseWanderedOff)

	counts := l.EvaluateDeaths(reg)
	if counts.PredatorStarved != 0 {
		t.Errorf("already-marked predator counted again: %+v", counts)
	}
	if a.Cause != components.CauseWanderedOff {
		t.Errorf("cause overwritten: %v", a.Cause)
	}
}

func TestLifecycle_ImmortalRabbitsNeverAge(t *testing.T) {
	cfg := lifecycleConfig()
	cfg.Rabbit.Lifespan = config.LifespanConfig{Kind: config.LifespanImmortal}
	l := NewLifecycle(cfg, testRNG(1))
	reg := NewRegistry()
	l.AddRabbits(reg, 5, 0)

	for i := 0; i < 100; i++ {
		l.Age(reg, 1000)
		l.EvaluateDeaths(reg)
	}
	if deaths := reg.Sweep(0); len(deaths) != 0 {
		t.Errorf("immortal rabbits died: %d", len(deaths))
	}
}

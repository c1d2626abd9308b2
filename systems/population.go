package systems

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/commons/components"
)

// Death describes an agent removed by the end-of-tick sweep.
type Death struct {
	ID          uint64
	Species     components.Species
	Cause       components.DeathCause
	Age         int
	Nourishment float64 // predators only
	Day         int64
}

// Registry owns the live rabbit and predator populations.
//
// Agents are stored in an ark world. Structural changes are not allowed while
// a query is open, so deaths found during a tick are marked on the Agent and
// removed together by Sweep once every pass has seen the same population.
// IDs are assigned monotonically from 1 and never reused.
type Registry struct {
	world *ecs.World

	rabbitMapper   *ecs.Map2[components.Agent, components.Rabbit]
	predatorMapper *ecs.Map2[components.Agent, components.Predator]
	rabbitFilter   *ecs.Filter2[components.Agent, components.Rabbit]
	predatorFilter *ecs.Filter2[components.Agent, components.Predator]
	agentMap       *ecs.Map[components.Agent]
	predatorMap    *ecs.Map[components.Predator]

	byID   map[uint64]ecs.Entity
	nextID uint64

	numRabbits   int
	numPredators int

	scratch []ecs.Entity
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	world := ecs.NewWorld()
	return &Registry{
		world:          world,
		rabbitMapper:   ecs.NewMap2[components.Agent, components.Rabbit](world),
		predatorMapper: ecs.NewMap2[components.Agent, components.Predator](world),
		rabbitFilter:   ecs.NewFilter2[components.Agent, components.Rabbit](world),
		predatorFilter: ecs.NewFilter2[components.Agent, components.Predator](world),
		agentMap:       ecs.NewMap[components.Agent](world),
		predatorMap:    ecs.NewMap[components.Predator](world),
		byID:           make(map[uint64]ecs.Entity),
		nextID:         1,
	}
}

// AddRabbit inserts a newborn rabbit and returns its ID.
func (r *Registry) AddRabbit(maxLifespan int, day int64) uint64 {
	id := r.nextID
	r.nextID++

	agent := components.Agent{
		ID:          id,
		Species:     components.SpeciesRabbit,
		MaxLifespan: maxLifespan,
		BornDay:     day,
	}
	e := r.rabbitMapper.NewEntity(&agent, &components.Rabbit{})
	r.byID[id] = e
	r.numRabbits++
	return id
}

// AddPredator inserts a predator and returns its ID.
func (r *Registry) AddPredator(age, maxLifespan int, pred components.Predator, day int64) uint64 {
	id := r.nextID
	r.nextID++

	agent := components.Agent{
		ID:          id,
		Species:     components.SpeciesPredator,
		Age:         age,
		MaxLifespan: maxLifespan,
		BornDay:     day,
	}
	e := r.predatorMapper.NewEntity(&agent, &pred)
	r.byID[id] = e
	r.numPredators++
	return id
}

// Remove deletes an agent immediately. It must not be called while
// iterating; tick passes use Agent.Mark and Sweep instead.
func (r *Registry) Remove(id uint64) bool {
	e, ok := r.byID[id]
	if !ok {
		return false
	}
	if r.agentMap.Get(e).Species == components.SpeciesPredator {
		r.numPredators--
	} else {
		r.numRabbits--
	}
	r.world.RemoveEntity(e)
	delete(r.byID, id)
	return true
}

// Agent returns the shared state of a live agent. The pointer is into the
// registry; only tick passes and test setup may write through it.
func (r *Registry) Agent(id uint64) (*components.Agent, bool) {
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.agentMap.Get(e), true
}

// Predator returns the predator state of a live predator. The pointer is into
// the registry; only tick passes and test setup may write through it.
func (r *Registry) Predator(id uint64) (*components.Predator, bool) {
	e, ok := r.byID[id]
	if !ok || !r.predatorMap.Has(e) {
		return nil, false
	}
	return r.predatorMap.Get(e), true
}

// EachRabbit calls fn for every live rabbit, including ones already marked.
// fn may mutate the agent but must not add or remove agents.
func (r *Registry) EachRabbit(fn func(a *components.Agent)) {
	query := r.rabbitFilter.Query()
	for query.Next() {
		a, _ := query.Get()
		fn(a)
	}
}

// EachPredator calls fn for every live predator, including ones already marked.
// fn may mutate the components but must not add or remove agents.
func (r *Registry) EachPredator(fn func(a *components.Agent, p *components.Predator)) {
	query := r.predatorFilter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// MarkRandomRabbits marks up to k unmarked rabbits with cause, chosen
// uniformly with rng. Returns the number marked.
func (r *Registry) MarkRandomRabbits(k int, cause components.DeathCause, rng *rand.Rand) int {
	if k <= 0 {
		return 0
	}

	r.scratch = r.scratch[:0]
	query := r.rabbitFilter.Query()
	for query.Next() {
		a, _ := query.Get()
		if !a.Doomed() {
			r.scratch = append(r.scratch, query.Entity())
		}
	}

	n := len(r.scratch)
	if k > n {
		k = n
	}
	// Partial Fisher-Yates: the first k slots become the victims.
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		r.scratch[i], r.scratch[j] = r.scratch[j], r.scratch[i]
		r.agentMap.Get(r.scratch[i]).Mark(cause)
	}
	return k
}

// Sweep removes every marked agent and returns what was removed, ordered by ID.
func (r *Registry) Sweep(day int64) []Death {
	type doomed struct {
		entity ecs.Entity
		death  Death
	}
	var toRemove []doomed

	// First pass: collect (queries must complete before removal)
	rq := r.rabbitFilter.Query()
	for rq.Next() {
		a, _ := rq.Get()
		if a.Doomed() {
			toRemove = append(toRemove, doomed{rq.Entity(), Death{
				ID: a.ID, Species: a.Species, Cause: a.Cause, Age: a.Age, Day: day,
			}})
		}
	}
	pq := r.predatorFilter.Query()
	for pq.Next() {
		a, p := pq.Get()
		if a.Doomed() {
			toRemove = append(toRemove, doomed{pq.Entity(), Death{
				ID: a.ID, Species: a.Species, Cause: a.Cause, Age: a.Age, Nourishment: p.Nourishment, Day: day,
			}})
		}
	}

	// Second pass: remove
	deaths := make([]Death, 0, len(toRemove))
	for _, d := range toRemove {
		r.world.RemoveEntity(d.entity)
		delete(r.byID, d.death.ID)
		if d.death.Species == components.SpeciesPredator {
			r.numPredators--
		} else {
			r.numRabbits--
		}
		deaths = append(deaths, d.death)
	}

	slices.SortFunc(deaths, func(a, b Death) int { return cmp.Compare(a.ID, b.ID) })
	return deaths
}

// Rabbits returns the live rabbit count, including marked rabbits.
func (r *Registry) Rabbits() int {
	return r.numRabbits
}

// Predators returns the live predator count, including marked predators.
func (r *Registry) Predators() int {
	return r.numPredators
}

// Nourishments appends the nourishment of every live predator to dst.
func (r *Registry) Nourishments(dst []float64) []float64 {
	query := r.predatorFilter.Query()
	for query.Next() {
		_, p := query.Get()
		dst = append(dst, p.Nourishment)
	}
	return dst
}

// MeanNourishment returns the mean nourishment of live predators, or 0 when there are none.
func (r *Registry) MeanNourishment() float64 {
	return meanOf(r.Nourishments(nil))
}

// NextID returns the ID the next inserted agent will receive.
func (r *Registry) NextID() uint64 {
	return r.nextID
}

package systems

// Tick phase IDs, in execution order.
const (
	PhaseClock   = "clock"
	PhaseBirth   = "birth"
	PhaseFeeding = "feeding"
	PhaseDeath   = "death"
	PhaseSweep   = "sweep"
	PhasePublish = "publish"
)

// PhaseInfo describes a tick phase for perf output and the HUD.
type PhaseInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
}

// PhaseRegistry holds metadata about the tick phases.
// This centralizes phase naming so the HUD and perf tracker stay in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with every tick phase in order.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{
		byID: make(map[string]PhaseInfo),
	}
	reg.Register(PhaseInfo{ID: PhaseClock, Name: "Clock", Description: "Converts real time to simulated days"})
	reg.Register(PhaseInfo{ID: PhaseBirth, Name: "Birth", Description: "Ages agents and queues rabbit births"})
	reg.Register(PhaseInfo{ID: PhaseFeeding, Name: "Feeding", Description: "Splits the rabbit pool among predators"})
	reg.Register(PhaseInfo{ID: PhaseDeath, Name: "Death", Description: "Marks old age, wandering and starvation"})
	reg.Register(PhaseInfo{ID: PhaseSweep, Name: "Sweep", Description: "Removes marked agents, inserts births"})
	reg.Register(PhaseInfo{ID: PhasePublish, Name: "Publish", Description: "Builds the snapshot and telemetry"})
	return reg
}

// Register adds a phase to the registry.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	r.phases = append(r.phases, info)
	r.byID[info.ID] = info
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all phases in execution order.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// IDs returns all phase IDs in execution order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}

package objective

import (
	"sort"
	"time"
)

// ManagerConfig bounds how many objectives can be in play at once and
// how long finished ones are retained.
type ManagerConfig struct {
	MaxActive    int
	MaxImmediate int
	MaxShortTerm int
	CleanupAfter time.Duration
	AutoCleanup  bool
}

// DefaultManagerConfig returns the standard caps.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxActive:    20,
		MaxImmediate: 5,
		MaxShortTerm: 10,
		CleanupAfter: 24 * time.Hour,
		AutoCleanup:  true,
	}
}

// Delta reports what one update cycle changed.
type Delta struct {
	Activated []string `json:"activated"`
	Updated   []string `json:"updated"`
	Completed []string `json:"completed"`
	Failed    []string `json:"failed"`
	Expired   []string `json:"expired"`
}

// Stats are cumulative orchestration counters.
type Stats struct {
	TotalCreated   int `json:"total_created"`
	TotalCompleted int `json:"total_completed"`
	TotalFailed    int `json:"total_failed"`
	TotalExpired   int `json:"total_expired"`
	TotalAbandoned int `json:"total_abandoned"`
	TotalSwept     int `json:"total_swept"`
	UpdateCycles   int `json:"update_cycles"`
}

// Manager orchestrates the full objective population: admission,
// per-turn updates, terminal bookkeeping and retention. It assumes a
// single writer; the game loop calls it from one goroutine.
type Manager struct {
	cfg      ManagerConfig
	registry *Registry
	bus      *EventBus
	logger   *Logger

	objectives map[string]Objective
	active     map[string]bool
	children   map[string][]string

	stats      Stats
	lastUpdate time.Time
}

// NewManager creates a manager with the given collaborators. A nil
// registry or bus gets a fresh default.
func NewManager(cfg ManagerConfig, registry *Registry, bus *EventBus) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if bus == nil {
		bus = NewEventBus()
	}
	return &Manager{
		cfg:        cfg,
		registry:   registry,
		bus:        bus,
		logger:     NewLogger(),
		objectives: make(map[string]Objective),
		active:     make(map[string]bool),
		children:   make(map[string][]string),
	}
}

// Registry exposes the variant registry for template registration.
func (m *Manager) Registry() *Registry { return m.registry }

// Bus exposes the event bus for subscription.
func (m *Manager) Bus() *EventBus { return m.bus }

// Add registers an objective. IDs are unique across the population.
func (m *Manager) Add(o Objective) error {
	c := o.Base()
	if c.ID == "" {
		return &ManagerError{Op: "add", Reason: "empty objective id"}
	}
	if _, exists := m.objectives[c.ID]; exists {
		return &ManagerError{Op: "add", ID: c.ID, Reason: "duplicate objective id"}
	}
	m.objectives[c.ID] = o
	if c.Parent != "" {
		m.children[c.Parent] = append(m.children[c.Parent], c.ID)
	}
	m.stats.TotalCreated++
	m.bus.Emit("objective_added", map[string]interface{}{
		"objective_id": c.ID,
		"scope":        string(c.Scope),
		"kind":         string(c.Kind),
	})
	return nil
}

// CreateFromTemplate instantiates a registered template and adds it.
func (m *Manager) CreateFromTemplate(templateName, id string, overrides map[string]interface{}) (Objective, error) {
	o, err := m.registry.CreateFromTemplate(templateName, id, overrides)
	if err != nil {
		return nil, err
	}
	if err := m.Add(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Remove drops an objective from the population and indices.
func (m *Manager) Remove(id string) error {
	o, ok := m.objectives[id]
	if !ok {
		return &ManagerError{Op: "remove", ID: id, Reason: "not found"}
	}
	c := o.Base()
	delete(m.objectives, id)
	delete(m.active, id)
	if c.Parent != "" {
		kept := m.children[c.Parent][:0]
		for _, child := range m.children[c.Parent] {
			if child != id {
				kept = append(kept, child)
			}
		}
		if len(kept) == 0 {
			delete(m.children, c.Parent)
		} else {
			m.children[c.Parent] = kept
		}
	}
	m.bus.Emit("objective_removed", map[string]interface{}{"objective_id": id})
	return nil
}

// Get looks an objective up by ID.
func (m *Manager) Get(id string) (Objective, bool) {
	o, ok := m.objectives[id]
	return o, ok
}

// Active returns the objectives currently in play, ordered by
// effective priority then age.
func (m *Manager) Active() []Objective {
	out := make([]Objective, 0, len(m.active))
	for id := range m.active {
		out = append(out, m.objectives[id])
	}
	sortByPriority(out)
	return out
}

// ByScope returns all objectives on one time horizon.
func (m *Manager) ByScope(scope Scope) []Objective {
	var out []Objective
	for _, o := range m.objectives {
		if o.Base().Scope == scope {
			out = append(out, o)
		}
	}
	sortByPriority(out)
	return out
}

// ByKind returns all objectives of one kind.
func (m *Manager) ByKind(kind Kind) []Objective {
	var out []Objective
	for _, o := range m.objectives {
		if o.Base().Kind == kind {
			out = append(out, o)
		}
	}
	sortByPriority(out)
	return out
}

// ByStatus returns all objectives in one lifecycle state.
func (m *Manager) ByStatus(status Status) []Objective {
	var out []Objective
	for _, o := range m.objectives {
		if o.Base().Status == status {
			out = append(out, o)
		}
	}
	sortByPriority(out)
	return out
}

// Children returns the direct children of an objective.
func (m *Manager) Children(id string) []Objective {
	ids := m.children[id]
	out := make([]Objective, 0, len(ids))
	for _, child := range ids {
		if o, ok := m.objectives[child]; ok {
			out = append(out, o)
		}
	}
	return out
}

// Activate admits one objective by hand, subject to the same caps as
// automatic admission.
func (m *Manager) Activate(id string, state GameState) error {
	o, ok := m.objectives[id]
	if !ok {
		return &ManagerError{Op: "activate", ID: id, Reason: "not found"}
	}
	if !o.CanActivate(state) {
		return &ManagerError{Op: "activate", ID: id, Reason: "activation conditions not met"}
	}
	if reason := m.admissionBlock(o.Base().Scope); reason != "" {
		return &ManagerError{Op: "activate", ID: id, Reason: reason}
	}
	m.admit(o, state)
	return nil
}

// Abandon drops an objective at the player's request.
func (m *Manager) Abandon(id, reason string) error {
	o, ok := m.objectives[id]
	if !ok {
		return &ManagerError{Op: "abandon", ID: id, Reason: "not found"}
	}
	prev := o.Base().Status
	if !o.Base().Abandon(reason) {
		return &ManagerError{Op: "abandon", ID: id, Reason: "not abandonable from " + string(prev)}
	}
	m.logger.LogStateTransition(id, prev, StatusAbandoned, reason)
	delete(m.active, id)
	m.stats.TotalAbandoned++
	m.bus.Emit("objective_abandoned", map[string]interface{}{"objective_id": id, "reason": reason})
	return nil
}

// Suspend pauses an active objective.
func (m *Manager) Suspend(id, reason string) error {
	o, ok := m.objectives[id]
	if !ok {
		return &ManagerError{Op: "suspend", ID: id, Reason: "not found"}
	}
	prev := o.Base().Status
	if !o.Base().Suspend(reason) {
		return &ManagerError{Op: "suspend", ID: id, Reason: "not suspendable from " + string(prev)}
	}
	m.logger.LogStateTransition(id, prev, StatusSuspended, reason)
	delete(m.active, id)
	m.bus.Emit("objective_suspended", map[string]interface{}{"objective_id": id, "reason": reason})
	return nil
}

// Resume returns a suspended objective to play, subject to caps.
func (m *Manager) Resume(id string) error {
	o, ok := m.objectives[id]
	if !ok {
		return &ManagerError{Op: "resume", ID: id, Reason: "not found"}
	}
	if reason := m.admissionBlock(o.Base().Scope); reason != "" {
		return &ManagerError{Op: "resume", ID: id, Reason: reason}
	}
	if !o.Base().Resume() {
		return &ManagerError{Op: "resume", ID: id, Reason: "not suspended"}
	}
	m.logger.LogStateTransition(id, StatusSuspended, StatusActive, "resumed")
	m.active[id] = true
	m.bus.Emit("objective_resumed", map[string]interface{}{"objective_id": id})
	return nil
}

// UpdateAll runs one full cycle: activation of eligible candidates,
// progress updates for everything in play, terminal bookkeeping, and
// the retention sweep. One broken objective never aborts the turn; a
// panicking update forces that objective into failure and the cycle
// moves on.
func (m *Manager) UpdateAll(state GameState, action ActionData) Delta {
	delta := Delta{
		Activated: []string{},
		Updated:   []string{},
		Completed: []string{},
		Failed:    []string{},
		Expired:   []string{},
	}

	// Activation pass: highest effective priority first. Priority is an
	// ordering hint only; the caps always bind.
	for _, o := range m.activationCandidates(state) {
		c := o.Base()
		if reason := m.admissionBlock(c.Scope); reason != "" {
			m.logger.LogAdmissionDeferred(c.ID, c.Scope, reason)
			continue
		}
		m.admit(o, state)
		delta.Activated = append(delta.Activated, c.ID)
	}

	// Update pass over a snapshot: updates may complete, fail or expire
	// objectives but the iteration set is fixed for the cycle.
	for _, id := range m.activeSnapshot() {
		o := m.objectives[id]
		c := o.Base()

		prev := c.Status
		changed := m.safeTick(o, state, action)

		if c.IsTerminal() {
			m.logger.LogStateTransition(id, prev, c.Status, "update cycle")
			delete(m.active, id)
			switch c.Status {
			case StatusCompleted:
				m.stats.TotalCompleted++
				delta.Completed = append(delta.Completed, id)
				m.bus.Emit("objective_completed", map[string]interface{}{
					"objective_id": id,
					"title":        c.Title,
					"kind":         string(c.Kind),
				})
			case StatusExpired:
				m.stats.TotalExpired++
				delta.Expired = append(delta.Expired, id)
				m.bus.Emit("objective_expired", map[string]interface{}{"objective_id": id})
			case StatusFailed:
				m.stats.TotalFailed++
				delta.Failed = append(delta.Failed, id)
				m.bus.Emit("objective_failed", map[string]interface{}{"objective_id": id})
			case StatusAbandoned:
				m.stats.TotalAbandoned++
				delta.Failed = append(delta.Failed, id)
			}
		} else if changed {
			delta.Updated = append(delta.Updated, id)
			m.logger.LogProgress(id, c.Progress)
		}
	}

	if m.cfg.AutoCleanup {
		m.Sweep()
	}

	m.stats.UpdateCycles++
	m.lastUpdate = time.Now()
	return delta
}

// safeTick isolates one objective's update. A panic is logged and
// converted into a forced failure of that objective alone.
func (m *Manager) safeTick(o Objective, state GameState, action ActionData) (changed bool) {
	defer func() {
		if r := recover(); r != nil {
			c := o.Base()
			m.logger.LogRecovery(c.ID, r)
			c.Fail(state, "internal error during update")
			changed = true
		}
	}()
	return Tick(o, state, action)
}

// Sweep evicts terminal objectives past the retention window:
// completed ones by completion time, all other terminal states by last
// update. Returns how many were removed.
func (m *Manager) Sweep() int {
	if m.cfg.CleanupAfter <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-m.cfg.CleanupAfter)
	var evict []string
	for id, o := range m.objectives {
		c := o.Base()
		if !c.IsTerminal() {
			continue
		}
		stamp := c.LastUpdate
		if c.Status == StatusCompleted && !c.CompletedAt.IsZero() {
			stamp = c.CompletedAt
		}
		if stamp.Before(cutoff) {
			evict = append(evict, id)
		}
	}
	for _, id := range evict {
		m.Remove(id)
	}
	if len(evict) > 0 {
		m.stats.TotalSwept += len(evict)
		m.logger.LogSweep(len(evict))
		m.bus.Emit("retention_sweep", map[string]interface{}{"removed": len(evict)})
	}
	return len(evict)
}

// Stats returns a copy of the cumulative counters.
func (m *Manager) Stats() Stats { return m.stats }

// Count returns population sizes: total and active.
func (m *Manager) Count() (total, active int) {
	return len(m.objectives), len(m.active)
}

// activationCandidates returns every admittable objective, highest
// effective priority first with deterministic tie-breaking.
func (m *Manager) activationCandidates(state GameState) []Objective {
	var out []Objective
	for _, o := range m.objectives {
		if o.CanActivate(state) {
			out = append(out, o)
		}
	}
	sortByPriority(out)
	return out
}

// activeSnapshot returns the in-play IDs in a deterministic order.
func (m *Manager) activeSnapshot() []string {
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) admit(o Objective, state GameState) {
	c := o.Base()
	c.Activate(state)
	m.active[c.ID] = true
	m.logger.LogActivation(c.ID, c.Scope, c.EffectivePriority())
	m.bus.Emit("objective_activated", map[string]interface{}{
		"objective_id": c.ID,
		"scope":        string(c.Scope),
		"priority":     int(c.EffectivePriority()),
	})
}

// admissionBlock reports why a new activation in this scope is not
// allowed right now, or "" when it is.
func (m *Manager) admissionBlock(scope Scope) string {
	if len(m.active) >= m.cfg.MaxActive {
		return "max active objectives reached"
	}
	switch scope {
	case ScopeImmediate:
		if m.countActive(ScopeImmediate) >= m.cfg.MaxImmediate {
			return "max immediate objectives reached"
		}
	case ScopeShortTerm:
		if m.countActive(ScopeShortTerm) >= m.cfg.MaxShortTerm {
			return "max short-term objectives reached"
		}
	}
	return ""
}

func (m *Manager) countActive(scope Scope) int {
	n := 0
	for id := range m.active {
		if m.objectives[id].Base().Scope == scope {
			n++
		}
	}
	return n
}

// sortByPriority orders by effective priority descending, then by
// creation time, then by ID for a stable total order.
func sortByPriority(objs []Objective) {
	sort.Slice(objs, func(i, j int) bool {
		a, b := objs[i].Base(), objs[j].Base()
		pa, pb := a.EffectivePriority(), b.EffectivePriority()
		if pa != pb {
			return pa > pb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

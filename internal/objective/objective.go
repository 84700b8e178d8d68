package objective

import (
	"time"

	"github.com/google/uuid"
)

// MaxEvents bounds each objective's audit log. Oldest entries fall off.
const MaxEvents = 50

// Objective is the capability surface the manager works against. Every
// scope variant embeds *Core and supplies its own progress algorithm;
// variants with extra gating shadow CanActivate.
type Objective interface {
	Base() *Core
	CanActivate(state GameState) bool
	UpdateProgress(state GameState, action ActionData) bool
}

// CompletionHook is implemented by variants that need side effects at
// the moment of completion (e.g. sanity recovery payouts).
type CompletionHook interface {
	OnComplete(state GameState)
}

// Def carries the shared definition fields for constructing any variant.
type Def struct {
	ID           string
	Title        string
	Description  string
	Kind         Kind
	Priority     Priority
	TimeLimit    time.Duration // 0 = no limit
	Activation   []Condition
	Completion   []Condition
	Rewards      []Reward
	Consequences []Consequence
	Parent       string
	Children     []string
	Metadata     map[string]interface{}
}

// Core holds the state machine, identity, hierarchy links and audit log
// shared by every objective variant.
type Core struct {
	ID          string
	UUID        string
	Title       string
	Description string
	Kind        Kind
	Scope       Scope
	Priority    Priority

	Status   Status
	Progress float64

	CreatedAt   time.Time
	ActivatedAt time.Time // zero until first activation
	CompletedAt time.Time // zero until terminal completion
	LastUpdate  time.Time

	TimeLimit time.Duration // measured from ActivatedAt; 0 = none

	Activation   []Condition
	Completion   []Condition
	Rewards      []Reward
	Consequences []Consequence

	Parent   string
	Children []string
	Metadata map[string]interface{}

	AttemptCount int
	Events       []Event

	modifiers []Modifier
}

func newCore(def Def, scope Scope) *Core {
	now := time.Now()
	prio := def.Priority
	if prio == 0 {
		prio = PriorityMedium
	}
	kind := def.Kind
	if kind == "" {
		kind = KindSurvival
	}
	meta := def.Metadata
	if meta == nil {
		meta = make(map[string]interface{})
	}
	return &Core{
		ID:           def.ID,
		UUID:         uuid.New().String(),
		Title:        def.Title,
		Description:  def.Description,
		Kind:         kind,
		Scope:        scope,
		Priority:     prio,
		Status:       StatusInactive,
		CreatedAt:    now,
		LastUpdate:   now,
		TimeLimit:    def.TimeLimit,
		Activation:   def.Activation,
		Completion:   def.Completion,
		Rewards:      def.Rewards,
		Consequences: def.Consequences,
		Parent:       def.Parent,
		Children:     append([]string(nil), def.Children...),
		Metadata:     meta,
	}
}

// Base satisfies Objective for every embedding variant.
func (c *Core) Base() *Core { return c }

// IsActive reports whether the objective is being worked on.
func (c *Core) IsActive() bool {
	return c.Status == StatusActive || c.Status == StatusInProgress
}

// IsTerminal reports whether the objective reached a final state.
func (c *Core) IsTerminal() bool { return IsTerminal(c.Status) }

// CanActivate checks activation readiness: inactive status plus every
// activation condition holding in the current state.
func (c *Core) CanActivate(state GameState) bool {
	if c.Status != StatusInactive {
		return false
	}
	for _, cond := range c.Activation {
		if !cond.Evaluate(state) {
			return false
		}
	}
	return true
}

// transitionTo applies a guarded status change. Terminal states never
// transition again.
func (c *Core) transitionTo(to Status) bool {
	if !CanTransition(c.Status, to) {
		return false
	}
	c.Status = to
	c.LastUpdate = time.Now()
	return true
}

// Activate moves the objective into play and starts its expiry clock.
func (c *Core) Activate(state GameState) bool {
	if !c.CanActivate(state) {
		return false
	}
	if !c.transitionTo(StatusActive) {
		return false
	}
	c.ActivatedAt = time.Now()
	c.AttemptCount++
	c.logEvent("activated", nil)
	return true
}

// StartProgress marks the first concrete advancement of an active
// objective.
func (c *Core) StartProgress() bool {
	if c.Status != StatusActive {
		return false
	}
	if !c.transitionTo(StatusInProgress) {
		return false
	}
	c.logEvent("progress_started", nil)
	return true
}

// SetProgress clamps and records new progress. Terminal objectives are
// frozen; their recorded progress never changes again.
func (c *Core) SetProgress(p float64) bool {
	if c.IsTerminal() {
		return false
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	if p == c.Progress {
		return false
	}
	c.Progress = p
	c.LastUpdate = time.Now()
	return true
}

// AddProgress is SetProgress relative to the current value.
func (c *Core) AddProgress(delta float64) bool {
	return c.SetProgress(c.Progress + delta)
}

// CheckCompletion reports whether the objective should complete now:
// all explicit completion conditions when present, otherwise full
// progress.
func (c *Core) CheckCompletion(state GameState) bool {
	if !c.IsActive() {
		return false
	}
	if len(c.Completion) > 0 {
		for _, cond := range c.Completion {
			if !cond.Evaluate(state) {
				return false
			}
		}
		return true
	}
	return c.Progress >= 1.0
}

// Complete finalizes the objective and pays out rewards.
func (c *Core) Complete(state GameState) bool {
	if !c.transitionTo(StatusCompleted) {
		return false
	}
	c.Progress = 1.0
	c.CompletedAt = time.Now()
	rewards := make([]string, 0, len(c.Rewards))
	for _, r := range c.Rewards {
		rewards = append(rewards, r.String())
	}
	c.logEvent("completed", map[string]interface{}{"rewards": rewards})
	return true
}

// Fail finalizes the objective with its consequences.
func (c *Core) Fail(state GameState, reason string) bool {
	if !c.transitionTo(StatusFailed) {
		return false
	}
	c.logEvent("failed", map[string]interface{}{
		"reason":       reason,
		"consequences": c.consequenceSummaries(),
	})
	return true
}

// Expire finalizes a timed-out objective with its consequences.
func (c *Core) Expire(state GameState) bool {
	if !c.transitionTo(StatusExpired) {
		return false
	}
	c.logEvent("expired", map[string]interface{}{
		"consequences": c.consequenceSummaries(),
	})
	return true
}

// Abandon drops the objective at the player's request.
func (c *Core) Abandon(reason string) bool {
	if !c.transitionTo(StatusAbandoned) {
		return false
	}
	c.logEvent("abandoned", map[string]interface{}{"reason": reason})
	return true
}

// Suspend pauses an active objective. Its expiry clock keeps running.
func (c *Core) Suspend(reason string) bool {
	if c.Status != StatusActive && c.Status != StatusInProgress {
		return false
	}
	if !c.transitionTo(StatusSuspended) {
		return false
	}
	c.logEvent("suspended", map[string]interface{}{"reason": reason})
	return true
}

// Resume returns a suspended objective to active play.
func (c *Core) Resume() bool {
	if c.Status != StatusSuspended {
		return false
	}
	if !c.transitionTo(StatusActive) {
		return false
	}
	c.logEvent("resumed", nil)
	return true
}

// IsExpired reports whether the effective time limit has elapsed since
// activation. Objectives never expire before they activate.
func (c *Core) IsExpired() bool {
	limit := c.EffectiveTimeLimit()
	if limit <= 0 || c.ActivatedAt.IsZero() {
		return false
	}
	return time.Since(c.ActivatedAt) > limit
}

// TimeRemaining returns how long until expiry, or 0 when no limit is
// set or the objective never activated.
func (c *Core) TimeRemaining() time.Duration {
	limit := c.EffectiveTimeLimit()
	if limit <= 0 || c.ActivatedAt.IsZero() {
		return 0
	}
	rem := limit - time.Since(c.ActivatedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

func (c *Core) consequenceSummaries() []string {
	out := make([]string, 0, len(c.Consequences))
	for _, q := range c.Consequences {
		out = append(out, q.String())
	}
	return out
}

// logEvent appends to the bounded audit log. This is the only mutation
// permitted after an objective goes terminal.
func (c *Core) logEvent(eventType string, data map[string]interface{}) {
	c.Events = append(c.Events, Event{
		Timestamp:   time.Now(),
		Type:        eventType,
		ObjectiveID: c.ID,
		Status:      c.Status,
		Progress:    c.Progress,
		Data:        data,
	})
	if len(c.Events) > MaxEvents {
		c.Events = c.Events[len(c.Events)-MaxEvents:]
	}
}

// Tick runs one update cycle for any variant: expiry check, variant
// progress, then completion. Returns true when anything changed.
func Tick(o Objective, state GameState, action ActionData) bool {
	c := o.Base()
	if !c.IsActive() {
		return false
	}
	if c.IsExpired() {
		c.Expire(state)
		return true
	}

	changed := o.UpdateProgress(state, action)
	if changed && c.Status == StatusActive {
		c.StartProgress()
	}

	if c.CheckCompletion(state) {
		if c.Complete(state) {
			if hook, ok := o.(CompletionHook); ok {
				hook.OnComplete(state)
			}
		}
		return true
	}
	return changed
}

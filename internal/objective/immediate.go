package objective

import "time"

// DefaultImmediateTimeLimit applies when a definition does not set one.
// Immediate objectives resolve within the current scene.
const DefaultImmediateTimeLimit = 5 * time.Minute

// ImmediateConfig carries the knobs specific to scene-level objectives.
type ImmediateConfig struct {
	RequiredActions []string
	AutoComplete    *bool                     // default true
	SimpleCheck     func(state GameState) bool // used when no actions are required
}

// Immediate is a scene-level objective: progress is the fraction of
// required action types the player has performed.
type Immediate struct {
	*Core
	RequiredActions  []string
	CompletedActions map[string]bool
	AutoComplete     bool
	SimpleCheck      func(state GameState) bool
}

// NewImmediate builds an immediate-scope objective.
func NewImmediate(def Def, cfg ImmediateConfig) *Immediate {
	if def.TimeLimit == 0 {
		def.TimeLimit = DefaultImmediateTimeLimit
	}
	auto := true
	if cfg.AutoComplete != nil {
		auto = *cfg.AutoComplete
	}
	return &Immediate{
		Core:             newCore(def, ScopeImmediate),
		RequiredActions:  append([]string(nil), cfg.RequiredActions...),
		CompletedActions: make(map[string]bool),
		AutoComplete:     auto,
		SimpleCheck:      cfg.SimpleCheck,
	}
}

// UpdateProgress records the acting action type and recomputes action
// coverage. Compulsions pushed by madness modifiers extend the
// denominator.
func (o *Immediate) UpdateProgress(state GameState, action ActionData) bool {
	required := append(append([]string(nil), o.RequiredActions...), o.ExtraRequiredActions()...)

	if len(required) == 0 {
		if o.SimpleCheck != nil && o.SimpleCheck(state) {
			return o.SetProgress(1.0)
		}
		return false
	}

	actionType := stateString(action, "action_type", "")
	if actionType != "" && !o.CompletedActions[actionType] {
		for _, req := range required {
			if req == actionType {
				o.CompletedActions[actionType] = true
				break
			}
		}
	}

	done := 0
	for _, req := range required {
		if o.CompletedActions[req] {
			done++
		}
	}
	return o.SetProgress(float64(done) / float64(len(required)))
}

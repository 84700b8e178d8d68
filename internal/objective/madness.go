package objective

// MadnessConfig carries the knobs for madness-driven objectives.
type MadnessConfig struct {
	RequiredMadness    []MadnessKind
	MinSeverity        int     // default 1
	ProgressMultiplier float64 // default 2.0
	SanityRecovery     int     // default 5, paid on completion
	RiskLevel          int
}

// MadnessObjective only exists while the character is afflicted: it
// activates when a required madness grips the mind, advances at double
// rate while the affliction holds, decays when it lapses, and pays a
// sanity recovery when seen through to the end.
type MadnessObjective struct {
	*SanityCore
	RequiredMadness    []MadnessKind
	MinSeverity        int
	ProgressMultiplier float64
	SanityRecovery     int
}

// NewMadnessObjective builds a madness objective on the short-term
// scope. Madness never feels optional, so priority is floored at high.
func NewMadnessObjective(def Def, cfg MadnessConfig) *MadnessObjective {
	if def.Priority < PriorityHigh {
		def.Priority = PriorityHigh
	}
	mult := cfg.ProgressMultiplier
	if mult == 0 {
		mult = 2.0
	}
	recovery := cfg.SanityRecovery
	if recovery == 0 {
		recovery = 5
	}
	minSeverity := cfg.MinSeverity
	if minSeverity == 0 {
		minSeverity = 1
	}
	return &MadnessObjective{
		SanityCore:         newSanityCore(def, ScopeShortTerm, "", cfg.RiskLevel),
		RequiredMadness:    append([]MadnessKind(nil), cfg.RequiredMadness...),
		MinSeverity:        minSeverity,
		ProgressMultiplier: mult,
		SanityRecovery:     recovery,
	}
}

// CanActivate requires the base checks, a required affliction when one
// is named, and a madness severity at or above the minimum.
func (o *MadnessObjective) CanActivate(state GameState) bool {
	if !o.SanityCore.CanActivate(state) {
		return false
	}
	if len(o.RequiredMadness) > 0 && !o.hasRequiredMadness(state) {
		return false
	}
	return stateInt(state, "madness_severity", 0) >= o.MinSeverity
}

// afflicted reports whether the mind is still in a state this objective
// feeds on. With required kinds, one of them must be active; otherwise
// any active madness or sufficient severity counts.
func (o *MadnessObjective) afflicted(state GameState) bool {
	if len(o.RequiredMadness) > 0 {
		return o.hasRequiredMadness(state)
	}
	return len(stateStrings(state, "active_madness")) > 0 ||
		stateInt(state, "madness_severity", 0) >= o.MinSeverity
}

func (o *MadnessObjective) hasRequiredMadness(state GameState) bool {
	active := stateStrings(state, "active_madness")
	for _, kind := range o.RequiredMadness {
		for _, a := range active {
			if a == string(kind) {
				return true
			}
		}
	}
	return false
}

// UpdateProgress advances at the madness multiplier while the
// affliction holds and bleeds progress away when it lapses.
func (o *MadnessObjective) UpdateProgress(state GameState, action ActionData) bool {
	if !o.afflicted(state) {
		if o.Progress > 0 {
			o.logEvent("madness_lapsed", nil)
			return o.AddProgress(-0.1)
		}
		return false
	}

	amount := stateFloat(action, "madness_progress", 0)
	if amount <= 0 {
		return false
	}
	return o.AddProgress(amount * o.ProgressMultiplier)
}

// OnComplete pays out the sanity recovery for surviving the episode.
func (o *MadnessObjective) OnComplete(state GameState) {
	if o.SanityRecovery > 0 {
		o.ApplySanGain(state, o.SanityRecovery, "madness overcome")
	}
}

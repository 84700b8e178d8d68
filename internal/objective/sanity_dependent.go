package objective

import "math/rand"

// StateConfig reshapes a sanity-dependent objective for one band.
type StateConfig struct {
	TitleSuffix         string
	DescriptionOverride string
	PriorityModifier    int
	SanLossMultiplier   float64
	CompletionSanBonus  int
}

// SanityDependentConfig carries the knobs for objectives whose texture
// changes with the investigator's mental state.
type SanityDependentConfig struct {
	StateConfigurations map[SanityState]StateConfig
	RequiredState       SanityState
	RiskLevel           int
}

// SanityDependent advances differently in every sanity band: steady
// while stable, crawling while disturbed, desperate leaps while
// unhinged, and mad flashes of insight at the bottom.
type SanityDependent struct {
	*SanityCore
	StateConfigurations map[SanityState]StateConfig

	// RandomSource drives the mad-flash roll; replaceable in tests.
	RandomSource func() float64
}

// NewSanityDependent builds a sanity-dependent objective on the
// short-term scope.
func NewSanityDependent(def Def, cfg SanityDependentConfig) *SanityDependent {
	return &SanityDependent{
		SanityCore:          newSanityCore(def, ScopeShortTerm, cfg.RequiredState, cfg.RiskLevel),
		StateConfigurations: cfg.StateConfigurations,
		RandomSource:        rand.Float64,
	}
}

// UpdateProgress picks the advancement rate for the current band.
func (o *SanityDependent) UpdateProgress(state GameState, action ActionData) bool {
	advancing := stateBool(action, "advance") || stateFloat(action, "progress_amount", 0) > 0

	switch o.CurrentState(state) {
	case SanityMad, SanityTempInsane:
		if stateBool(action, "insight_action") {
			return o.AddProgress(0.3)
		}
		// A broken mind occasionally lurches forward on its own.
		if o.RandomSource() < 0.1 {
			return o.AddProgress(0.1)
		}
		return false
	case SanityUnhinged:
		if stateBool(action, "desperate_action") {
			return o.AddProgress(0.2)
		}
		return false
	case SanityDisturbed:
		if advancing {
			return o.AddProgress(0.05)
		}
		return false
	default:
		if advancing {
			return o.AddProgress(0.1)
		}
		return false
	}
}

// EffectiveTitle decorates the title for the current band.
func (o *SanityDependent) EffectiveTitle(state GameState) string {
	if cfg, ok := o.StateConfigurations[o.CurrentState(state)]; ok && cfg.TitleSuffix != "" {
		return o.Title + " " + cfg.TitleSuffix
	}
	return o.Title
}

// EffectiveDescription swaps the description for the current band.
func (o *SanityDependent) EffectiveDescription(state GameState) string {
	if cfg, ok := o.StateConfigurations[o.CurrentState(state)]; ok && cfg.DescriptionOverride != "" {
		return cfg.DescriptionOverride
	}
	return o.Description
}

// StatePriority is the priority after the current band's modifier.
func (o *SanityDependent) StatePriority(state GameState) Priority {
	p := o.EffectivePriority()
	if cfg, ok := o.StateConfigurations[o.CurrentState(state)]; ok {
		p = clampPriority(p + Priority(cfg.PriorityModifier))
	}
	return p
}

// ScaleSanLoss applies the current band's loss multiplier.
func (o *SanityDependent) ScaleSanLoss(state GameState, amount int) int {
	if cfg, ok := o.StateConfigurations[o.CurrentState(state)]; ok && cfg.SanLossMultiplier > 0 {
		return int(float64(amount) * cfg.SanLossMultiplier)
	}
	return amount
}

// OnComplete pays the band-specific completion bonus, if any.
func (o *SanityDependent) OnComplete(state GameState) {
	if cfg, ok := o.StateConfigurations[o.CurrentState(state)]; ok && cfg.CompletionSanBonus > 0 {
		o.ApplySanGain(state, cfg.CompletionSanBonus, "completed despite affliction")
	}
}

package objective

import "time"

// SanityState is the coarse mental condition derived from the sanity
// score.
type SanityState string

const (
	SanityStable     SanityState = "stable"
	SanityStressed   SanityState = "stressed"
	SanityDisturbed  SanityState = "disturbed"
	SanityUnhinged   SanityState = "unhinged"
	SanityMad        SanityState = "mad"
	SanityTempInsane SanityState = "temporary_insanity"
)

// Thresholds are the lower bounds of each sanity band.
type Thresholds struct {
	StableMin    int
	StressedMin  int
	DisturbedMin int
	UnhingedMin  int
}

// DefaultThresholds matches the classic 0-99 sanity track.
func DefaultThresholds() Thresholds {
	return Thresholds{StableMin: 70, StressedMin: 50, DisturbedMin: 30, UnhingedMin: 10}
}

// SanityValue reads the current sanity score from game state. The
// canonical key is "sanity"; "san" is accepted as a fallback.
func SanityValue(state GameState) int {
	if _, ok := state["sanity"]; ok {
		return stateInt(state, "sanity", 99)
	}
	return stateInt(state, "san", 99)
}

// DeriveSanityState maps a game state to its sanity band. A temporary
// insanity flag overrides the score-derived band.
func DeriveSanityState(state GameState, t Thresholds) SanityState {
	if stateBool(state, "temporary_insanity") {
		return SanityTempInsane
	}
	san := SanityValue(state)
	switch {
	case san >= t.StableMin:
		return SanityStable
	case san >= t.StressedMin:
		return SanityStressed
	case san >= t.DisturbedMin:
		return SanityDisturbed
	case san >= t.UnhingedMin:
		return SanityUnhinged
	default:
		return SanityMad
	}
}

// MadnessKind names a madness affliction.
type MadnessKind string

const (
	MadnessParanoia        MadnessKind = "paranoia"
	MadnessHallucination   MadnessKind = "hallucination"
	MadnessObsession       MadnessKind = "obsession"
	MadnessPhobia          MadnessKind = "phobia"
	MadnessAmnesia         MadnessKind = "amnesia"
	MadnessCatatonia       MadnessKind = "catatonia"
	MadnessViolentOutburst MadnessKind = "violent_outburst"
	MadnessNightTerrors    MadnessKind = "night_terrors"
)

// ModifierSpec describes how a madness effect warps an objective while
// it afflicts the character.
type ModifierSpec struct {
	PriorityDelta int
	TimePressure  time.Duration // shortens the effective time limit
	AddCompulsion string        // extra action the player must perform
}

// MadnessEffect binds a madness kind to its in-play consequences.
// Higher severity effects trigger at milder sanity bands.
type MadnessEffect struct {
	Kind              MadnessKind
	Severity          int // 1..5
	Duration          time.Duration
	Triggers          []string
	BehavioralChanges map[string]interface{}
	ObjectiveMods     ModifierSpec
}

// SanityCore extends Core with the sanity mechanics shared by every
// sanity-integrated variant.
type SanityCore struct {
	*Core
	Thresholds            Thresholds
	RequiredState         SanityState // "" = any
	RiskLevel             int         // base san risk 1..10
	CosmicInsightRequired int
	MadnessEffects        []MadnessEffect
	MadnessProtection     bool

	CumulativeSanLoss int
	PotentialSanGain  int
	ActiveMadness     map[MadnessKind]bool
}

func newSanityCore(def Def, scope Scope, required SanityState, risk int) *SanityCore {
	if risk <= 0 {
		risk = 1
	}
	return &SanityCore{
		Core:          newCore(def, scope),
		Thresholds:    DefaultThresholds(),
		RequiredState: required,
		RiskLevel:     risk,
		ActiveMadness: make(map[MadnessKind]bool),
	}
}

// sanityAware lets the registry thread configured threshold bands into
// any variant carrying a SanityCore.
type sanityAware interface {
	setSanityThresholds(Thresholds)
}

func (s *SanityCore) setSanityThresholds(t Thresholds) {
	s.Thresholds = t
}

// CurrentState derives the sanity band for the given game state.
func (s *SanityCore) CurrentState(state GameState) SanityState {
	return DeriveSanityState(state, s.Thresholds)
}

// CanActivate adds sanity gating on top of the base checks.
func (s *SanityCore) CanActivate(state GameState) bool {
	if !s.Core.CanActivate(state) {
		return false
	}
	if s.RequiredState != "" && s.CurrentState(state) != s.RequiredState {
		return false
	}
	if s.CosmicInsightRequired > 0 && stateInt(state, "cosmic_insight", 0) < s.CosmicInsightRequired {
		return false
	}
	return true
}

// SanRisk computes the effective risk for the current state: base risk
// plus the band modifier, minus protection, clamped to 1..10.
func (s *SanityCore) SanRisk(state GameState) int {
	risk := s.RiskLevel
	switch s.CurrentState(state) {
	case SanityStressed:
		risk += 1
	case SanityDisturbed:
		risk += 2
	case SanityUnhinged:
		risk += 3
	case SanityMad:
		risk += 5
	case SanityTempInsane:
		risk += 3
	}
	if s.MadnessProtection {
		risk -= 2
	}
	if risk < 1 {
		risk = 1
	}
	if risk > 10 {
		risk = 10
	}
	return risk
}

// ApplySanLoss deducts sanity from game state, records the loss in the
// audit log, and checks whether the drop trips a madness effect.
func (s *SanityCore) ApplySanLoss(state GameState, amount int, reason string) {
	if amount <= 0 {
		return
	}
	before := SanityValue(state)
	after := before - amount
	if after < 0 {
		after = 0
	}
	state["sanity"] = after
	s.CumulativeSanLoss += amount
	s.logEvent("san_loss", map[string]interface{}{
		"amount": amount,
		"reason": reason,
		"before": before,
		"after":  after,
	})
	s.checkMadnessTrigger(state)
}

// ApplySanGain restores sanity, capped at the state's maximum.
func (s *SanityCore) ApplySanGain(state GameState, amount int, reason string) {
	if amount <= 0 {
		return
	}
	before := SanityValue(state)
	max := stateInt(state, "max_sanity", 99)
	after := before + amount
	if after > max {
		after = max
	}
	state["sanity"] = after
	s.logEvent("san_gain", map[string]interface{}{
		"amount": amount,
		"reason": reason,
		"before": before,
		"after":  after,
	})
}

// checkMadnessTrigger fires effects whose severity clears the current
// band: everything at mad or temporary insanity, severity 2+ at
// unhinged, severity 3+ at disturbed.
func (s *SanityCore) checkMadnessTrigger(state GameState) {
	band := s.CurrentState(state)
	for _, effect := range s.MadnessEffects {
		if s.ActiveMadness[effect.Kind] {
			continue
		}
		trigger := false
		switch band {
		case SanityMad, SanityTempInsane:
			trigger = true
		case SanityUnhinged:
			trigger = effect.Severity >= 2
		case SanityDisturbed:
			trigger = effect.Severity >= 3
		}
		if trigger {
			s.applyMadnessEffect(state, effect)
		}
	}
}

// applyMadnessEffect marks the affliction in game state, applies its
// behavioral changes, and pushes the objective modifiers it demands.
func (s *SanityCore) applyMadnessEffect(state GameState, effect MadnessEffect) {
	s.ActiveMadness[effect.Kind] = true

	active := stateStrings(state, "active_madness")
	state["active_madness"] = append(active, string(effect.Kind))
	for k, v := range effect.BehavioralChanges {
		state[k] = v
	}

	mod := Modifier{Source: string(effect.Kind)}
	mod.PriorityDelta = effect.ObjectiveMods.PriorityDelta
	if effect.ObjectiveMods.TimePressure > 0 {
		mod.TimeLimitDelta = -effect.ObjectiveMods.TimePressure
	}
	if effect.ObjectiveMods.AddCompulsion != "" {
		mod.ExtraActions = []string{effect.ObjectiveMods.AddCompulsion}
	}
	s.PushModifier(mod)

	s.logEvent("madness_triggered", map[string]interface{}{
		"kind":     string(effect.Kind),
		"severity": effect.Severity,
	})
}

// LiftMadness clears an affliction and pops the modifiers it pushed.
func (s *SanityCore) LiftMadness(state GameState, kind MadnessKind) {
	if !s.ActiveMadness[kind] {
		return
	}
	delete(s.ActiveMadness, kind)
	s.RemoveModifiers(string(kind))

	active := stateStrings(state, "active_madness")
	kept := active[:0]
	for _, k := range active {
		if k != string(kind) {
			kept = append(kept, k)
		}
	}
	state["active_madness"] = kept

	s.logEvent("madness_lifted", map[string]interface{}{"kind": string(kind)})
}

package objective

// ThemeReinforcementTarget is how many reinforcements establish a
// recurring theme.
const ThemeReinforcementTarget = 3

// CampaignPhase is one stage of a campaign arc. Effects merge into the
// objective's persistent elements exactly once, when the phase
// completes.
type CampaignPhase struct {
	Name     string
	Progress float64
	Complete bool
	Effects  map[string]interface{}
}

// LongTermConfig carries the knobs specific to campaign-level objectives.
type LongTermConfig struct {
	CampaignPhases       []CampaignPhase
	CharacterGrowthGoals map[string]int // attribute -> target
	RecurringThemes      []string
	PersistentElements   map[string]interface{}
}

// LongTerm is a campaign-level objective blending phase completion,
// character growth and theme reinforcement. It carries no time limit.
type LongTerm struct {
	*Core
	Phases            []CampaignPhase
	CurrentPhaseIndex int

	GrowthGoals    map[string]int
	GrowthProgress map[string]int

	RecurringThemes []string
	ThemeReinforced map[string]int

	PersistentElements map[string]interface{}
}

// NewLongTerm builds a long-term-scope objective.
func NewLongTerm(def Def, cfg LongTermConfig) *LongTerm {
	persistent := cfg.PersistentElements
	if persistent == nil {
		persistent = make(map[string]interface{})
	}
	return &LongTerm{
		Core:               newCore(def, ScopeLongTerm),
		Phases:             append([]CampaignPhase(nil), cfg.CampaignPhases...),
		GrowthGoals:        cfg.CharacterGrowthGoals,
		GrowthProgress:     make(map[string]int),
		RecurringThemes:    append([]string(nil), cfg.RecurringThemes...),
		ThemeReinforced:    make(map[string]int),
		PersistentElements: persistent,
	}
}

// UpdateProgress folds phase advancement, growth and theme actions into
// the weighted blend: 0.5 phases, 0.3 growth, 0.2 themes, renormalized
// over the components this objective tracks.
func (o *LongTerm) UpdateProgress(state GameState, action ActionData) bool {
	if adv := stateFloat(action, "phase_advancement", 0); adv > 0 && o.CurrentPhaseIndex < len(o.Phases) {
		phase := &o.Phases[o.CurrentPhaseIndex]
		phase.Progress += adv
		if phase.Progress > 1 {
			phase.Progress = 1
		}
		if phase.Progress >= 1 && !phase.Complete {
			o.completePhase(phase)
		}
	}

	if attr := stateString(action, "growth_attribute", ""); attr != "" {
		if _, tracked := o.GrowthGoals[attr]; tracked {
			o.GrowthProgress[attr] += stateInt(action, "growth_amount", 1)
		}
	}

	if theme := stateString(action, "theme", ""); theme != "" {
		for _, t := range o.RecurringThemes {
			if t == theme {
				o.ThemeReinforced[theme]++
				break
			}
		}
	}

	return o.SetProgress(o.weightedProgress())
}

// completePhase marks the current phase done, merges its effects into
// the persistent elements, and moves to the next phase. A phase
// completes at most once.
func (o *LongTerm) completePhase(phase *CampaignPhase) {
	phase.Complete = true
	for k, v := range phase.Effects {
		o.PersistentElements[k] = v
	}
	o.logEvent("phase_completed", map[string]interface{}{
		"phase": phase.Name,
		"index": o.CurrentPhaseIndex,
	})
	o.CurrentPhaseIndex++
}

func (o *LongTerm) weightedProgress() float64 {
	var sum, totalWeight float64

	if len(o.Phases) > 0 {
		var p float64
		for _, phase := range o.Phases {
			if phase.Complete {
				p += 1
			} else {
				p += phase.Progress
			}
		}
		sum += 0.5 * (p / float64(len(o.Phases)))
		totalWeight += 0.5
	}
	if len(o.GrowthGoals) > 0 {
		var g float64
		for attr, target := range o.GrowthGoals {
			if target <= 0 {
				continue
			}
			ratio := float64(o.GrowthProgress[attr]) / float64(target)
			if ratio > 1 {
				ratio = 1
			}
			g += ratio
		}
		sum += 0.3 * (g / float64(len(o.GrowthGoals)))
		totalWeight += 0.3
	}
	if len(o.RecurringThemes) > 0 {
		var t float64
		for _, theme := range o.RecurringThemes {
			ratio := float64(o.ThemeReinforced[theme]) / float64(ThemeReinforcementTarget)
			if ratio > 1 {
				ratio = 1
			}
			t += ratio
		}
		sum += 0.2 * (t / float64(len(o.RecurringThemes)))
		totalWeight += 0.2
	}

	if totalWeight == 0 {
		return o.Progress
	}
	return sum / totalWeight
}

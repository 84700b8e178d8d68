package objective

// DefaultSanityCostPerInsight scales the sanity price of revelation.
const DefaultSanityCostPerInsight = 3

// InsightLevel describes what one revelation tier grants and costs.
type InsightLevel struct {
	Name               string
	KnowledgeUnlocks   []string
	Abilities          []string
	SanityCeilingDelta int // permanent reduction of max sanity
}

// CosmicInsightConfig carries the knobs for forbidden-knowledge
// objectives.
type CosmicInsightConfig struct {
	InsightLevels        []InsightLevel
	RevelationThresholds []float64 // defaults to quarter steps
	SanityCostPerInsight int
	RequiredState        SanityState
	RiskLevel            int
	InsightRequired      int
}

// CosmicInsight trades sanity for understanding: every step of progress
// costs sanity, scaled up as the mind weakens, and each revelation
// threshold crossed grants a tier of forbidden knowledge.
type CosmicInsight struct {
	*SanityCore
	InsightLevels        []InsightLevel
	RevelationThresholds []float64
	SanityCostPerInsight int
	CurrentInsightLevel  int
}

// NewCosmicInsight builds a cosmic-insight objective on the mid-term
// scope.
func NewCosmicInsight(def Def, cfg CosmicInsightConfig) *CosmicInsight {
	if def.Kind == "" {
		def.Kind = KindCosmic
	}
	thresholds := cfg.RevelationThresholds
	if len(thresholds) == 0 {
		thresholds = []float64{0.25, 0.5, 0.75, 1.0}
	}
	cost := cfg.SanityCostPerInsight
	if cost == 0 {
		cost = DefaultSanityCostPerInsight
	}
	sc := newSanityCore(def, ScopeMidTerm, cfg.RequiredState, cfg.RiskLevel)
	sc.CosmicInsightRequired = cfg.InsightRequired
	return &CosmicInsight{
		SanityCore:           sc,
		InsightLevels:        append([]InsightLevel(nil), cfg.InsightLevels...),
		RevelationThresholds: append([]float64(nil), thresholds...),
		SanityCostPerInsight: cost,
	}
}

// UpdateProgress advances on cosmic revelations. The sanity price rises
// as sanity falls, but a mind already at the brink (sanity 10 or less)
// pays at most a single point per revelation.
func (o *CosmicInsight) UpdateProgress(state GameState, action ActionData) bool {
	if stateString(action, "cosmic_revelation", "") == "" {
		return false
	}
	gain := stateFloat(action, "insight_value", 0.1)
	if gain <= 0 {
		return false
	}

	changed := o.AddProgress(gain)

	loss := o.insightCost(state, gain)
	if loss > 0 {
		o.ApplySanLoss(state, loss, "cosmic revelation")
	}

	for o.CurrentInsightLevel < len(o.RevelationThresholds) &&
		o.Progress >= o.RevelationThresholds[o.CurrentInsightLevel] {
		o.advanceInsightLevel(state)
	}
	return changed
}

// insightCost scales the base cost by how fragile the mind already is.
func (o *CosmicInsight) insightCost(state GameState, gain float64) int {
	base := int(gain * float64(o.SanityCostPerInsight) * 10)
	san := SanityValue(state)

	switch {
	case san < 30:
		base = int(float64(base) * 1.5)
	case san < 50:
		base = int(float64(base) * 1.2)
	}
	if san <= 10 && base > 1 {
		base = 1
	}
	return base
}

// advanceInsightLevel grants the next tier: knowledge, abilities, and
// the permanent sanity ceiling cut that comes with them.
func (o *CosmicInsight) advanceInsightLevel(state GameState) {
	idx := o.CurrentInsightLevel
	o.CurrentInsightLevel++

	var level InsightLevel
	if idx < len(o.InsightLevels) {
		level = o.InsightLevels[idx]
	}

	if len(level.KnowledgeUnlocks) > 0 {
		known := stateStrings(state, "mythos_knowledge")
		state["mythos_knowledge"] = append(known, level.KnowledgeUnlocks...)
	}
	if len(level.Abilities) > 0 {
		abilities := stateStrings(state, "cosmic_abilities")
		state["cosmic_abilities"] = append(abilities, level.Abilities...)
	}
	if level.SanityCeilingDelta > 0 {
		max := stateInt(state, "max_sanity", 99) - level.SanityCeilingDelta
		if max < 10 {
			max = 10
		}
		state["max_sanity"] = max
	}

	o.logEvent("revelation", map[string]interface{}{
		"level":     o.CurrentInsightLevel,
		"threshold": o.RevelationThresholds[idx],
		"name":      level.Name,
	})
}

package objective

import "time"

// DefaultShortTermTimeLimit applies when a definition does not set one.
const DefaultShortTermTimeLimit = 20 * time.Minute

// DefaultMilestoneCount is the milestone denominator when unset.
const DefaultMilestoneCount = 3

// ShortTermConfig carries the knobs specific to session-level objectives.
type ShortTermConfig struct {
	RequiredDiscoveries []string
	MilestoneCount      int
	SubObjectives       []string
	SceneContext        map[string]interface{}
	TensionRamp         bool
	InitialTension      float64
	MaxTension          float64
	TensionCallback     func(tension, progress float64)
}

// ShortTerm is a session-level objective blending discovery coverage
// with milestone completion.
type ShortTerm struct {
	*Core
	RequiredDiscoveries  []string
	CompletedDiscoveries map[string]bool
	MilestoneCount       int
	CompletedMilestones  int
	SubObjectives        []string
	SceneContext         map[string]interface{}

	TensionRamp     bool
	InitialTension  float64
	MaxTension      float64
	CurrentTension  float64
	TensionCallback func(tension, progress float64)
}

// NewShortTerm builds a short-term-scope objective.
func NewShortTerm(def Def, cfg ShortTermConfig) *ShortTerm {
	if def.TimeLimit == 0 {
		def.TimeLimit = DefaultShortTermTimeLimit
	}
	count := cfg.MilestoneCount
	if count == 0 {
		count = DefaultMilestoneCount
	}
	maxTension := cfg.MaxTension
	if maxTension == 0 {
		maxTension = 1.0
	}
	return &ShortTerm{
		Core:                 newCore(def, ScopeShortTerm),
		RequiredDiscoveries:  append([]string(nil), cfg.RequiredDiscoveries...),
		CompletedDiscoveries: make(map[string]bool),
		MilestoneCount:       count,
		SubObjectives:        append([]string(nil), cfg.SubObjectives...),
		SceneContext:         cfg.SceneContext,
		TensionRamp:          cfg.TensionRamp,
		InitialTension:       cfg.InitialTension,
		MaxTension:           maxTension,
		CurrentTension:       cfg.InitialTension,
		TensionCallback:      cfg.TensionCallback,
	}
}

// UpdateProgress folds discoveries and milestones from the action into
// the weighted blend: 0.6 discoveries, 0.4 milestones. When one term
// has an empty denominator the other carries full weight.
func (o *ShortTerm) UpdateProgress(state GameState, action ActionData) bool {
	if d := stateString(action, "discovery", ""); d != "" && !o.CompletedDiscoveries[d] {
		for _, req := range o.RequiredDiscoveries {
			if req == d {
				o.CompletedDiscoveries[d] = true
				break
			}
		}
	}

	if stateBool(action, "milestone_completed") && o.CompletedMilestones < o.MilestoneCount {
		o.CompletedMilestones++
	}

	var progress float64
	switch {
	case len(o.RequiredDiscoveries) > 0 && o.MilestoneCount > 0:
		discovery := float64(o.discoveredCount()) / float64(len(o.RequiredDiscoveries))
		milestone := float64(o.CompletedMilestones) / float64(o.MilestoneCount)
		progress = 0.6*discovery + 0.4*milestone
	case len(o.RequiredDiscoveries) > 0:
		progress = float64(o.discoveredCount()) / float64(len(o.RequiredDiscoveries))
	case o.MilestoneCount > 0:
		progress = float64(o.CompletedMilestones) / float64(o.MilestoneCount)
	}

	changed := o.SetProgress(progress)
	if changed && o.TensionRamp {
		o.CurrentTension = o.InitialTension + (o.MaxTension-o.InitialTension)*o.Progress
		if o.TensionCallback != nil {
			o.TensionCallback(o.CurrentTension, o.Progress)
		}
	}
	return changed
}

func (o *ShortTerm) discoveredCount() int {
	n := 0
	for _, req := range o.RequiredDiscoveries {
		if o.CompletedDiscoveries[req] {
			n++
		}
	}
	return n
}

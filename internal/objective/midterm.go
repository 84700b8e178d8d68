package objective

import "time"

// DefaultMidTermTimeLimit applies when a definition does not set one.
const DefaultMidTermTimeLimit = 2 * time.Hour

// DefaultSanLossThreshold is the accumulated sanity loss that triggers
// the first horror escalation.
const DefaultSanLossThreshold = 10

// PathRequirements describes one way of finishing a mid-term arc. The
// first path satisfied is the one the record keeps.
type PathRequirements struct {
	Branches    []string // each must reach full progress
	StoryBeats  []string
	Challenges  []string
	Revelations []string
	MinProgress float64
}

// MidTermConfig carries the knobs specific to arc-level objectives.
type MidTermConfig struct {
	InvestigationBranches []string
	StoryBeats            []string
	SkillChallenges       map[string]int // challenge -> uses required
	HorrorRevelations     []string
	SanLossThreshold      int
	CompletionPaths       map[string]PathRequirements
	EscalationCallback    func(totalLoss int, state GameState)
}

// MidTerm is an arc-level objective tracking investigation branches,
// story beats, skill challenges and horror revelations under a weighted
// blend, with sanity-loss-driven escalation.
type MidTerm struct {
	*Core
	BranchProgress       map[string]float64
	StoryBeats           []string
	CompletedBeats       map[string]bool
	SkillChallenges      map[string]int
	SkillUses            map[string]int
	CompletedChallenges  map[string]bool
	HorrorRevelations    []string
	WitnessedRevelations map[string]bool

	SanLossThreshold   int
	AccumulatedSanLoss int
	EscalationCount    int
	EscalationCallback func(totalLoss int, state GameState)

	CompletionPaths map[string]PathRequirements
	PathTaken       string
}

// NewMidTerm builds a mid-term-scope objective.
func NewMidTerm(def Def, cfg MidTermConfig) *MidTerm {
	if def.TimeLimit == 0 {
		def.TimeLimit = DefaultMidTermTimeLimit
	}
	threshold := cfg.SanLossThreshold
	if threshold == 0 {
		threshold = DefaultSanLossThreshold
	}
	branches := make(map[string]float64, len(cfg.InvestigationBranches))
	for _, b := range cfg.InvestigationBranches {
		branches[b] = 0
	}
	return &MidTerm{
		Core:                 newCore(def, ScopeMidTerm),
		BranchProgress:       branches,
		StoryBeats:           append([]string(nil), cfg.StoryBeats...),
		CompletedBeats:       make(map[string]bool),
		SkillChallenges:      cfg.SkillChallenges,
		SkillUses:            make(map[string]int),
		CompletedChallenges:  make(map[string]bool),
		HorrorRevelations:    append([]string(nil), cfg.HorrorRevelations...),
		WitnessedRevelations: make(map[string]bool),
		SanLossThreshold:     threshold,
		EscalationCallback:   cfg.EscalationCallback,
		CompletionPaths:      cfg.CompletionPaths,
	}
}

// UpdateProgress folds the action into each tracked component, applies
// sanity-loss escalation, and recomputes the weighted blend. Weights
// are 0.4 branches, 0.3 beats, 0.2 revelations, 0.1 challenges,
// renormalized over the components this objective actually tracks.
func (o *MidTerm) UpdateProgress(state GameState, action ActionData) bool {
	if branch := stateString(action, "investigation_branch", ""); branch != "" {
		if _, tracked := o.BranchProgress[branch]; tracked {
			p := o.BranchProgress[branch] + stateFloat(action, "advancement", 0.1)
			if p > 1 {
				p = 1
			}
			if p < 0 {
				p = 0
			}
			o.BranchProgress[branch] = p
		}
	}

	if beat := stateString(action, "story_beat", ""); beat != "" && !o.CompletedBeats[beat] {
		for _, b := range o.StoryBeats {
			if b == beat {
				o.CompletedBeats[beat] = true
				break
			}
		}
	}

	if skill := stateString(action, "skill_used", ""); skill != "" {
		if required, tracked := o.SkillChallenges[skill]; tracked && !o.CompletedChallenges[skill] {
			o.SkillUses[skill]++
			if o.SkillUses[skill] >= required {
				o.CompletedChallenges[skill] = true
			}
		}
	}

	if rev := stateString(action, "revelation", ""); rev != "" && !o.WitnessedRevelations[rev] {
		for _, r := range o.HorrorRevelations {
			if r == rev {
				o.WitnessedRevelations[rev] = true
				break
			}
		}
	}

	if loss := stateInt(action, "san_loss", 0); loss > 0 {
		o.AccumulatedSanLoss += loss
		if o.AccumulatedSanLoss >= o.SanLossThreshold {
			o.escalate(state)
		}
	}

	changed := o.SetProgress(o.weightedProgress())

	if o.PathTaken == "" {
		if path := o.satisfiedPath(); path != "" {
			o.PathTaken = path
			o.logEvent("completion_path", map[string]interface{}{"path": path})
			changed = o.SetProgress(1.0) || changed
		}
	}
	return changed
}

// escalate fires one horror escalation and raises the bar for the next
// by half again, so repeated losses escalate at a decelerating rate.
func (o *MidTerm) escalate(state GameState) {
	o.EscalationCount++
	o.SanLossThreshold = o.SanLossThreshold * 3 / 2
	o.logEvent("horror_escalation", map[string]interface{}{
		"total_san_loss": o.AccumulatedSanLoss,
		"escalations":    o.EscalationCount,
		"next_threshold": o.SanLossThreshold,
	})
	if o.EscalationCallback != nil {
		o.EscalationCallback(o.AccumulatedSanLoss, state)
	}
}

func (o *MidTerm) weightedProgress() float64 {
	var sum, totalWeight float64

	if len(o.BranchProgress) > 0 {
		var b float64
		for _, p := range o.BranchProgress {
			b += p
		}
		sum += 0.4 * (b / float64(len(o.BranchProgress)))
		totalWeight += 0.4
	}
	if len(o.StoryBeats) > 0 {
		sum += 0.3 * (float64(len(o.CompletedBeats)) / float64(len(o.StoryBeats)))
		totalWeight += 0.3
	}
	if len(o.HorrorRevelations) > 0 {
		sum += 0.2 * (float64(len(o.WitnessedRevelations)) / float64(len(o.HorrorRevelations)))
		totalWeight += 0.2
	}
	if len(o.SkillChallenges) > 0 {
		sum += 0.1 * (float64(len(o.CompletedChallenges)) / float64(len(o.SkillChallenges)))
		totalWeight += 0.1
	}

	if totalWeight == 0 {
		return o.Progress
	}
	return sum / totalWeight
}

// satisfiedPath returns the first completion path whose requirements
// all hold, or "" when none do. Map iteration order is unspecified, so
// ties between simultaneously satisfied paths are broken arbitrarily;
// in practice paths are authored to be mutually exclusive.
func (o *MidTerm) satisfiedPath() string {
	for name, req := range o.CompletionPaths {
		if o.pathSatisfied(req) {
			return name
		}
	}
	return ""
}

func (o *MidTerm) pathSatisfied(req PathRequirements) bool {
	for _, b := range req.Branches {
		if o.BranchProgress[b] < 1.0 {
			return false
		}
	}
	for _, beat := range req.StoryBeats {
		if !o.CompletedBeats[beat] {
			return false
		}
	}
	for _, ch := range req.Challenges {
		if !o.CompletedChallenges[ch] {
			return false
		}
	}
	for _, r := range req.Revelations {
		if !o.WitnessedRevelations[r] {
			return false
		}
	}
	if req.MinProgress > 0 && o.Progress < req.MinProgress {
		return false
	}
	return len(req.Branches)+len(req.StoryBeats)+len(req.Challenges)+len(req.Revelations) > 0 || req.MinProgress > 0
}

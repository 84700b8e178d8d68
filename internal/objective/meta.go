package objective

// MasteryRequirement names a skill level inside a category that an
// unlock demands.
type MasteryRequirement struct {
	Category string
	Skill    string
	Level    int
}

// UnlockCriteria gates one piece of unlockable content. All non-zero
// fields must hold simultaneously.
type UnlockCriteria struct {
	MinCampaigns     int
	MinCharacters    int
	MinPlaytimeHours float64
	RequiredPatterns []string
	Mastery          *MasteryRequirement
	Content          interface{} // what unlocking grants
}

// MetaConfig carries the knobs specific to cross-session objectives.
type MetaConfig struct {
	UnlockCriteria map[string]UnlockCriteria
	// Normalizing targets for the fallback progress blend.
	CampaignTarget  int
	CharacterTarget int
	PlaytimeTarget  float64
}

// Meta is a cross-session objective: it counts campaigns, characters,
// playtime and story patterns, and evaluates unlock criteria until each
// first satisfies. Unlocked content is permanent.
type Meta struct {
	*Core
	CampaignsCompleted int
	CharactersCreated  int
	CharactersLost     int
	PlaytimeHours      float64
	StoryPatterns      map[string]bool
	Mastery            map[string]map[string]int // category -> skill -> level

	UnlockCriteria  map[string]UnlockCriteria
	UnlockedContent map[string]interface{}

	CampaignTarget  int
	CharacterTarget int
	PlaytimeTarget  float64
}

// NewMeta builds a meta-scope objective. Meta objectives carry no time
// limit and survive campaign boundaries.
func NewMeta(def Def, cfg MetaConfig) *Meta {
	campaignTarget := cfg.CampaignTarget
	if campaignTarget == 0 {
		campaignTarget = 5
	}
	characterTarget := cfg.CharacterTarget
	if characterTarget == 0 {
		characterTarget = 10
	}
	playtimeTarget := cfg.PlaytimeTarget
	if playtimeTarget == 0 {
		playtimeTarget = 50
	}
	return &Meta{
		Core:            newCore(def, ScopeMeta),
		StoryPatterns:   make(map[string]bool),
		Mastery:         make(map[string]map[string]int),
		UnlockCriteria:  cfg.UnlockCriteria,
		UnlockedContent: make(map[string]interface{}),
		CampaignTarget:  campaignTarget,
		CharacterTarget: characterTarget,
		PlaytimeTarget:  playtimeTarget,
	}
}

// UpdateProgress folds session events into the cross-session counters,
// evaluates open unlock criteria, and recomputes the fallback blend:
// 0.3 campaigns, 0.2 characters, 0.1 playtime, 0.4 unlocks.
func (o *Meta) UpdateProgress(state GameState, action ActionData) bool {
	if stateBool(action, "campaign_completed") {
		o.CampaignsCompleted++
	}
	if stateBool(action, "character_created") {
		o.CharactersCreated++
	}
	if stateBool(action, "character_lost") {
		o.CharactersLost++
	}
	o.PlaytimeHours += stateFloat(action, "playtime_hours", 0)
	if p := stateString(action, "story_pattern", ""); p != "" {
		o.StoryPatterns[p] = true
	}
	if cat := stateString(action, "mastery_category", ""); cat != "" {
		if skill := stateString(action, "mastery_skill", ""); skill != "" {
			if o.Mastery[cat] == nil {
				o.Mastery[cat] = make(map[string]int)
			}
			level := stateInt(action, "mastery_level", 0)
			if level > o.Mastery[cat][skill] {
				o.Mastery[cat][skill] = level
			}
		}
	}

	o.evaluateUnlocks()
	return o.SetProgress(o.blendedProgress())
}

// evaluateUnlocks checks every criterion that has not yet satisfied.
// A satisfied criterion unlocks its content permanently; it is never
// re-evaluated and never revoked.
func (o *Meta) evaluateUnlocks() {
	for name, crit := range o.UnlockCriteria {
		if _, done := o.UnlockedContent[name]; done {
			continue
		}
		if o.criteriaSatisfied(crit) {
			content := crit.Content
			if content == nil {
				content = true
			}
			o.UnlockedContent[name] = content
			o.logEvent("content_unlocked", map[string]interface{}{"unlock": name})
		}
	}
}

func (o *Meta) criteriaSatisfied(crit UnlockCriteria) bool {
	if o.CampaignsCompleted < crit.MinCampaigns {
		return false
	}
	if o.CharactersCreated < crit.MinCharacters {
		return false
	}
	if o.PlaytimeHours < crit.MinPlaytimeHours {
		return false
	}
	for _, p := range crit.RequiredPatterns {
		if !o.StoryPatterns[p] {
			return false
		}
	}
	if m := crit.Mastery; m != nil {
		if o.Mastery[m.Category][m.Skill] < m.Level {
			return false
		}
	}
	return true
}

func (o *Meta) blendedProgress() float64 {
	campaigns := capRatio(float64(o.CampaignsCompleted), float64(o.CampaignTarget))
	characters := capRatio(float64(o.CharactersCreated), float64(o.CharacterTarget))
	playtime := capRatio(o.PlaytimeHours, o.PlaytimeTarget)

	unlocks := 0.0
	if len(o.UnlockCriteria) > 0 {
		unlocks = float64(len(o.UnlockedContent)) / float64(len(o.UnlockCriteria))
	}

	return 0.3*campaigns + 0.2*characters + 0.1*playtime + 0.4*unlocks
}

func capRatio(n, d float64) float64 {
	if d <= 0 {
		return 0
	}
	r := n / d
	if r > 1 {
		return 1
	}
	return r
}

package objective

import "time"

// Factory constructs one variant from a shared definition plus variant
// knobs. Knobs arrive as loosely typed options so templates can be
// authored as plain data.
type Factory func(def Def, opts map[string]interface{}) (Objective, error)

// Template is a reusable objective blueprint.
type Template struct {
	Variant string
	Def     Def
	Opts    map[string]interface{}
}

// Registry maps variant names to factories and holds named templates.
// Sanity-integrated variants it creates use the registry's threshold
// bands.
type Registry struct {
	factories  map[string]Factory
	templates  map[string]Template
	thresholds Thresholds
}

// NewRegistry creates a registry preloaded with the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{
		factories:  make(map[string]Factory),
		templates:  make(map[string]Template),
		thresholds: DefaultThresholds(),
	}
	r.factories["immediate"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewImmediate(def, immediateConfig(opts)), nil
	}
	r.factories["short_term"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewShortTerm(def, shortTermConfig(opts)), nil
	}
	r.factories["mid_term"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewMidTerm(def, midTermConfig(opts)), nil
	}
	r.factories["long_term"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewLongTerm(def, longTermConfig(opts)), nil
	}
	r.factories["meta"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewMeta(def, metaConfig(opts)), nil
	}
	r.factories["sanity_dependent"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewSanityDependent(def, sanityDependentConfig(opts)), nil
	}
	r.factories["cosmic_insight"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewCosmicInsight(def, cosmicInsightConfig(opts)), nil
	}
	r.factories["madness"] = func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewMadnessObjective(def, madnessConfig(opts)), nil
	}
	return r
}

// RegisterFactory adds a custom variant. Registering over an existing
// name is an error.
func (r *Registry) RegisterFactory(name string, f Factory) error {
	if _, exists := r.factories[name]; exists {
		return &ManagerError{Op: "register_factory", ID: name, Reason: "variant already registered"}
	}
	r.factories[name] = f
	return nil
}

// RegisterTemplate stores a named blueprint, replacing any previous one.
func (r *Registry) RegisterTemplate(name string, tmpl Template) {
	r.templates[name] = tmpl
}

// SetSanityThresholds replaces the bands applied to sanity-integrated
// variants created from here on.
func (r *Registry) SetSanityThresholds(t Thresholds) {
	r.thresholds = t
}

// Create builds a variant directly.
func (r *Registry) Create(variant string, def Def, opts map[string]interface{}) (Objective, error) {
	f, ok := r.factories[variant]
	if !ok {
		return nil, &ManagerError{Op: "create", ID: def.ID, Reason: "unknown variant " + variant}
	}
	o, err := f(def, opts)
	if err != nil {
		return nil, err
	}
	if sa, ok := o.(sanityAware); ok {
		sa.setSanityThresholds(r.thresholds)
	}
	return o, nil
}

// CreateFromTemplate instantiates a blueprint with a fresh ID and
// per-instance overrides applied over the template's definition.
func (r *Registry) CreateFromTemplate(templateName, id string, overrides map[string]interface{}) (Objective, error) {
	tmpl, ok := r.templates[templateName]
	if !ok {
		return nil, &ManagerError{Op: "create_from_template", ID: templateName, Reason: "unknown template"}
	}

	def := tmpl.Def
	def.ID = id
	if v := stateString(overrides, "title", ""); v != "" {
		def.Title = v
	}
	if v := stateString(overrides, "description", ""); v != "" {
		def.Description = v
	}
	if v := stateInt(overrides, "priority", 0); v != 0 {
		def.Priority = clampPriority(Priority(v))
	}
	if v := stateFloat(overrides, "time_limit_seconds", 0); v > 0 {
		def.TimeLimit = time.Duration(v * float64(time.Second))
	}

	opts := make(map[string]interface{}, len(tmpl.Opts)+len(overrides))
	for k, v := range tmpl.Opts {
		opts[k] = v
	}
	for k, v := range overrides {
		switch k {
		case "title", "description", "priority", "time_limit_seconds":
		default:
			opts[k] = v
		}
	}
	return r.Create(tmpl.Variant, def, opts)
}

// Templates returns the registered template names.
func (r *Registry) Templates() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// Option decoders. Typed values pass straight through; JSON-shaped
// values are converted where reasonable.

func immediateConfig(opts map[string]interface{}) ImmediateConfig {
	cfg := ImmediateConfig{RequiredActions: stateStrings(opts, "required_actions")}
	if v, ok := opts["auto_complete"].(bool); ok {
		cfg.AutoComplete = &v
	}
	if f, ok := opts["simple_check"].(func(state GameState) bool); ok {
		cfg.SimpleCheck = f
	}
	return cfg
}

func shortTermConfig(opts map[string]interface{}) ShortTermConfig {
	return ShortTermConfig{
		RequiredDiscoveries: stateStrings(opts, "required_discoveries"),
		MilestoneCount:      stateInt(opts, "milestone_count", 0),
		SubObjectives:       stateStrings(opts, "sub_objectives"),
		SceneContext:        stateMap(opts, "scene_context"),
		TensionRamp:         stateBool(opts, "tension_ramp"),
		InitialTension:      stateFloat(opts, "initial_tension", 0),
		MaxTension:          stateFloat(opts, "max_tension", 0),
	}
}

func midTermConfig(opts map[string]interface{}) MidTermConfig {
	cfg := MidTermConfig{
		InvestigationBranches: stateStrings(opts, "investigation_branches"),
		StoryBeats:            stateStrings(opts, "story_beats"),
		HorrorRevelations:     stateStrings(opts, "horror_revelations"),
		SanLossThreshold:      stateInt(opts, "san_loss_threshold", 0),
	}
	if m, ok := opts["skill_challenges"].(map[string]int); ok {
		cfg.SkillChallenges = m
	}
	if m, ok := opts["completion_paths"].(map[string]PathRequirements); ok {
		cfg.CompletionPaths = m
	}
	if f, ok := opts["escalation_callback"].(func(totalLoss int, state GameState)); ok {
		cfg.EscalationCallback = f
	}
	return cfg
}

func longTermConfig(opts map[string]interface{}) LongTermConfig {
	cfg := LongTermConfig{
		RecurringThemes:    stateStrings(opts, "recurring_themes"),
		PersistentElements: stateMap(opts, "persistent_elements"),
	}
	if phases, ok := opts["campaign_phases"].([]CampaignPhase); ok {
		cfg.CampaignPhases = phases
	}
	if m, ok := opts["character_growth_goals"].(map[string]int); ok {
		cfg.CharacterGrowthGoals = m
	}
	return cfg
}

func metaConfig(opts map[string]interface{}) MetaConfig {
	cfg := MetaConfig{
		CampaignTarget:  stateInt(opts, "campaign_target", 0),
		CharacterTarget: stateInt(opts, "character_target", 0),
		PlaytimeTarget:  stateFloat(opts, "playtime_target", 0),
	}
	if m, ok := opts["unlock_criteria"].(map[string]UnlockCriteria); ok {
		cfg.UnlockCriteria = m
	}
	return cfg
}

func sanityDependentConfig(opts map[string]interface{}) SanityDependentConfig {
	cfg := SanityDependentConfig{
		RequiredState: SanityState(stateString(opts, "required_state", "")),
		RiskLevel:     stateInt(opts, "risk_level", 0),
	}
	if m, ok := opts["state_configurations"].(map[SanityState]StateConfig); ok {
		cfg.StateConfigurations = m
	}
	return cfg
}

func cosmicInsightConfig(opts map[string]interface{}) CosmicInsightConfig {
	cfg := CosmicInsightConfig{
		SanityCostPerInsight: stateInt(opts, "sanity_cost_per_insight", 0),
		RequiredState:        SanityState(stateString(opts, "required_state", "")),
		RiskLevel:            stateInt(opts, "risk_level", 0),
		InsightRequired:      stateInt(opts, "insight_required", 0),
	}
	if levels, ok := opts["insight_levels"].([]InsightLevel); ok {
		cfg.InsightLevels = levels
	}
	if v, ok := opts["revelation_thresholds"].([]float64); ok {
		cfg.RevelationThresholds = v
	}
	return cfg
}

func madnessConfig(opts map[string]interface{}) MadnessConfig {
	cfg := MadnessConfig{
		MinSeverity:        stateInt(opts, "min_severity", 0),
		ProgressMultiplier: stateFloat(opts, "progress_multiplier", 0),
		SanityRecovery:     stateInt(opts, "sanity_recovery", 0),
		RiskLevel:          stateInt(opts, "risk_level", 0),
	}
	if kinds, ok := opts["required_madness"].([]MadnessKind); ok {
		cfg.RequiredMadness = kinds
	} else {
		for _, s := range stateStrings(opts, "required_madness") {
			cfg.RequiredMadness = append(cfg.RequiredMadness, MadnessKind(s))
		}
	}
	return cfg
}

package ai

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"go-mythos/internal/objective"
)

// patternKinds maps a dominant play style to the objective kinds that
// match it, most-preferred first.
var patternKinds = map[BehaviorPattern][]objective.Kind{
	PatternInvestigative: {objective.KindInvestigation, objective.KindDiscovery},
	PatternAggressive:    {objective.KindBanishment, objective.KindRescue},
	PatternCautious:      {objective.KindSurvival, objective.KindEscape},
	PatternSocial:        {objective.KindRescue, objective.KindPersonal},
	PatternExplorer:      {objective.KindDiscovery, objective.KindEscape},
	PatternSurvival:      {objective.KindSurvival, objective.KindSanity},
	PatternPuzzleSolver:  {objective.KindKnowledge, objective.KindInvestigation},
	PatternHorrorSeeker:  {objective.KindCosmic, objective.KindKnowledge},
}

// GeneratorConfig tunes the suggestion pipeline.
type GeneratorConfig struct {
	MinConfidence  float64
	MaxSuggestions int
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{MinConfidence: 0.6, MaxSuggestions: 3}
}

// Generator merges pacing-, preference- and coverage-driven proposals.
type Generator struct {
	cfg GeneratorConfig
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.6
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 3
	}
	return &Generator{cfg: cfg}
}

// Generate builds the merged, filtered, sorted, limited suggestion list.
// mgr supplies the current objective mix; state supplies tension and
// sanity context.
func (g *Generator) Generate(mgr *objective.Manager, profile BehaviorProfile, state objective.GameState) []Suggestion {
	var out []Suggestion
	out = append(out, g.pacingSuggestions(state)...)
	out = append(out, g.preferenceSuggestions(mgr, profile)...)
	out = append(out, g.coverageSuggestions(mgr)...)

	filtered := out[:0]
	for _, s := range out {
		if s.Confidence >= g.cfg.MinConfidence {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Confidence != filtered[j].Confidence {
			return filtered[i].Confidence > filtered[j].Confidence
		}
		return filtered[i].ID < filtered[j].ID
	})
	if len(filtered) > g.cfg.MaxSuggestions {
		filtered = filtered[:g.cfg.MaxSuggestions]
	}
	return filtered
}

// pacingSuggestions reads narrative tension on a 0..5 scale: below 2 the
// story needs a spike, above 4 it needs relief.
func (g *Generator) pacingSuggestions(state objective.GameState) []Suggestion {
	tension, ok := state["tension"].(float64)
	if !ok {
		if n, isInt := state["tension"].(int); isInt {
			tension = float64(n)
		} else {
			return nil
		}
	}
	switch {
	case tension < 2:
		return []Suggestion{g.suggest("pacing", objective.KindInvestigation, objective.ScopeShortTerm,
			objective.PriorityHigh, 0.75,
			"A Thread Worth Pulling", "Something half-seen demands a closer look.",
			fmt.Sprintf("tension %.1f is low; raise the stakes", tension))}
	case tension > 4:
		return []Suggestion{g.suggest("pacing", objective.KindSanity, objective.ScopeImmediate,
			objective.PriorityMedium, 0.7,
			"A Moment to Breathe", "Find somewhere defensible and collect yourself.",
			fmt.Sprintf("tension %.1f is high; offer relief", tension))}
	default:
		return nil
	}
}

// preferenceSuggestions proposes kinds matching the dominant pattern that
// the player is not already pursuing.
func (g *Generator) preferenceSuggestions(mgr *objective.Manager, profile BehaviorProfile) []Suggestion {
	kinds, ok := patternKinds[profile.Primary]
	if !ok {
		return nil
	}
	var out []Suggestion
	for i, kind := range kinds {
		if countActive(mgr.ByKind(kind)) > 0 {
			continue
		}
		// confidence tracks the profile, discounted for secondary picks
		conf := profile.Confidence + 0.3 - 0.1*float64(i)
		if conf > 0.95 {
			conf = 0.95
		}
		out = append(out, g.suggest("preference", kind, objective.ScopeShortTerm,
			objective.PriorityMedium, conf,
			suggestionTitle(kind), suggestionBody(kind),
			fmt.Sprintf("player leans %s and has no %s objective", profile.Primary, kind)))
	}
	return out
}

// coverageSuggestions fills structural gaps: a turn with no immediate
// objective loses urgency, a campaign with no long-term thread drifts.
func (g *Generator) coverageSuggestions(mgr *objective.Manager) []Suggestion {
	var out []Suggestion
	if countActive(mgr.ByScope(objective.ScopeImmediate)) == 0 {
		out = append(out, g.suggest("coverage", objective.KindSurvival, objective.ScopeImmediate,
			objective.PriorityHigh, 0.65,
			"The Next Five Minutes", "Deal with what is in front of you, right now.",
			"no immediate objective is active"))
	}
	if countActive(mgr.ByScope(objective.ScopeLongTerm)) == 0 {
		out = append(out, g.suggest("coverage", objective.KindPersonal, objective.ScopeLongTerm,
			objective.PriorityMedium, 0.6,
			"Why You Came Here", "Decide what this investigation is really for.",
			"no long-term arc is active"))
	}
	return out
}

func countActive(objs []objective.Objective) int {
	n := 0
	for _, o := range objs {
		if o.Base().IsActive() {
			n++
		}
	}
	return n
}

func (g *Generator) suggest(source string, kind objective.Kind, scope objective.Scope,
	prio objective.Priority, conf float64, title, body, reason string) Suggestion {
	return Suggestion{
		ID:          uuid.New().String(),
		Title:       title,
		Description: body,
		Kind:        kind,
		Scope:       scope,
		Priority:    prio,
		Confidence:  conf,
		Source:      source,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}
}

func suggestionTitle(kind objective.Kind) string {
	switch kind {
	case objective.KindInvestigation:
		return "Follow the Evidence"
	case objective.KindDiscovery:
		return "Uncharted Ground"
	case objective.KindBanishment:
		return "Drive It Back"
	case objective.KindRescue:
		return "Someone Needs You"
	case objective.KindSurvival:
		return "Stay Alive"
	case objective.KindEscape:
		return "Find the Way Out"
	case objective.KindSanity:
		return "Hold the Line"
	case objective.KindKnowledge:
		return "The Unread Page"
	case objective.KindCosmic:
		return "Look Deeper"
	case objective.KindPersonal:
		return "Unfinished Business"
	default:
		return "A New Objective"
	}
}

func suggestionBody(kind objective.Kind) string {
	switch kind {
	case objective.KindInvestigation:
		return "The clues you hold point somewhere specific. Go there."
	case objective.KindDiscovery:
		return "A place no one has described to you is waiting."
	case objective.KindBanishment:
		return "The thing can be opposed. Learn how, then do it."
	case objective.KindRescue:
		return "Someone is still inside. They do not have long."
	case objective.KindSurvival:
		return "Whatever else happens tonight, see the morning."
	case objective.KindEscape:
		return "This place wants to keep you. Leave before it can."
	case objective.KindSanity:
		return "Keep your grip. The work depends on it."
	case objective.KindKnowledge:
		return "The text exists. Finding it is the dangerous part."
	case objective.KindCosmic:
		return "Understanding has a price. Decide if you will pay it."
	case objective.KindPersonal:
		return "You owe someone something. Settle it."
	default:
		return "Pursue it and see where it leads."
	}
}

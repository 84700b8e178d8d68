package ai

import (
	"testing"

	"go-mythos/internal/objective"
)

func newTestManager(t *testing.T) *objective.Manager {
	t.Helper()
	return objective.NewManager(objective.DefaultManagerConfig(), nil, nil)
}

func TestGenerator_LowTensionRaisesStakes(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	mgr := newTestManager(t)
	profile := BehaviorProfile{Primary: PatternCautious, Confidence: 0.2}

	out := g.Generate(mgr, profile, objective.GameState{"tension": 1.0})
	if len(out) == 0 {
		t.Fatal("expected suggestions")
	}
	found := false
	for _, s := range out {
		if s.Source == "pacing" && s.Kind == objective.KindInvestigation {
			found = true
		}
	}
	if !found {
		t.Fatalf("no pacing suggestion in %+v", out)
	}
}

func TestGenerator_HighTensionOffersRelief(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	mgr := newTestManager(t)

	out := g.Generate(mgr, BehaviorProfile{}, objective.GameState{"tension": 5})
	for _, s := range out {
		if s.Source == "pacing" {
			if s.Kind != objective.KindSanity || s.Scope != objective.ScopeImmediate {
				t.Fatalf("relief suggestion = %+v", s)
			}
			return
		}
	}
	t.Fatal("no relief suggestion generated")
}

func TestGenerator_ConfidenceFilterAndLimit(t *testing.T) {
	g := NewGenerator(GeneratorConfig{MinConfidence: 0.6, MaxSuggestions: 2})
	mgr := newTestManager(t)
	// strong investigative lean plus coverage gaps would yield > 2 candidates
	profile := BehaviorProfile{Primary: PatternInvestigative, Confidence: 0.6}

	out := g.Generate(mgr, profile, objective.GameState{"tension": 3})
	if len(out) > 2 {
		t.Fatalf("limit not applied, got %d suggestions", len(out))
	}
	for i, s := range out {
		if s.Confidence < 0.6 {
			t.Fatalf("suggestion below confidence floor: %+v", s)
		}
		if i > 0 && out[i-1].Confidence < s.Confidence {
			t.Fatalf("not sorted descending: %f before %f", out[i-1].Confidence, s.Confidence)
		}
	}
}

func TestGenerator_PreferenceSkipsCoveredKinds(t *testing.T) {
	g := NewGenerator(GeneratorConfig{MinConfidence: 0.1, MaxSuggestions: 10})
	mgr := newTestManager(t)

	obj := objective.NewImmediate(objective.Def{
		ID:   "inv1",
		Kind: objective.KindInvestigation,
	}, objective.ImmediateConfig{})
	if err := mgr.Add(obj); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := mgr.Activate("inv1", objective.GameState{}); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	profile := BehaviorProfile{Primary: PatternInvestigative, Confidence: 0.7}
	out := g.Generate(mgr, profile, objective.GameState{"tension": 3})
	for _, s := range out {
		if s.Source == "preference" && s.Kind == objective.KindInvestigation {
			t.Fatalf("suggested a kind already in play: %+v", s)
		}
	}
}

func TestGenerator_CoverageGaps(t *testing.T) {
	g := NewGenerator(GeneratorConfig{MinConfidence: 0.1, MaxSuggestions: 10})
	mgr := newTestManager(t)

	out := g.Generate(mgr, BehaviorProfile{}, objective.GameState{"tension": 3})
	var scopes []objective.Scope
	for _, s := range out {
		if s.Source == "coverage" {
			scopes = append(scopes, s.Scope)
		}
	}
	if len(scopes) != 2 {
		t.Fatalf("coverage scopes = %v, want immediate and long_term", scopes)
	}
}

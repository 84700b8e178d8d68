package objective

import (
	"errors"
	"testing"
	"time"
)

func TestRegistry_CreateBuiltins(t *testing.T) {
	r := NewRegistry()
	for variant, scope := range map[string]Scope{
		"immediate":  ScopeImmediate,
		"short_term": ScopeShortTerm,
		"mid_term":   ScopeMidTerm,
		"long_term":  ScopeLongTerm,
		"meta":       ScopeMeta,
	} {
		o, err := r.Create(variant, Def{ID: "x_" + variant}, nil)
		if err != nil {
			t.Fatalf("%s: %v", variant, err)
		}
		if o.Base().Scope != scope {
			t.Errorf("%s: expected scope %s, got %s", variant, scope, o.Base().Scope)
		}
	}

	if _, err := r.Create("nonsense", Def{ID: "x"}, nil); err == nil {
		t.Errorf("expected error for unknown variant")
	}
}

func TestRegistry_SanityThresholdsApplied(t *testing.T) {
	r := NewRegistry()
	r.SetSanityThresholds(Thresholds{StableMin: 90, StressedMin: 60, DisturbedMin: 40, UnhingedMin: 20})

	o, err := r.Create("sanity_dependent", Def{ID: "tuned"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sd, ok := o.(*SanityDependent)
	if !ok {
		t.Fatalf("unexpected variant type %T", o)
	}
	// Under the classic bands sanity 80 is stable; the tuned bands put
	// it in the stressed range.
	if got := sd.CurrentState(GameState{"sanity": 80}); got != SanityStressed {
		t.Errorf("expected stressed under tuned bands, got %s", got)
	}

	// A fresh registry keeps the classic bands.
	o2, err := NewRegistry().Create("madness", Def{ID: "m"}, nil)
	if err != nil {
		t.Fatalf("create default: %v", err)
	}
	if got := o2.(*MadnessObjective).Thresholds; got != DefaultThresholds() {
		t.Errorf("expected default bands, got %+v", got)
	}
}

func TestRegistry_SanityVariants(t *testing.T) {
	r := NewRegistry()

	o, err := r.Create("madness", Def{ID: "m"}, map[string]interface{}{
		"required_madness": []string{"paranoia"},
	})
	if err != nil {
		t.Fatalf("madness: %v", err)
	}
	mo, ok := o.(*MadnessObjective)
	if !ok {
		t.Fatalf("expected *MadnessObjective, got %T", o)
	}
	if len(mo.RequiredMadness) != 1 || mo.RequiredMadness[0] != MadnessParanoia {
		t.Errorf("required madness not decoded: %v", mo.RequiredMadness)
	}

	o, err = r.Create("cosmic_insight", Def{ID: "c"}, map[string]interface{}{
		"sanity_cost_per_insight": 5,
	})
	if err != nil {
		t.Fatalf("cosmic: %v", err)
	}
	if o.(*CosmicInsight).SanityCostPerInsight != 5 {
		t.Errorf("cost knob not decoded")
	}
}

func TestRegistry_DuplicateFactory(t *testing.T) {
	r := NewRegistry()
	err := r.RegisterFactory("immediate", func(def Def, opts map[string]interface{}) (Objective, error) {
		return NewImmediate(def, ImmediateConfig{}), nil
	})
	if err == nil {
		t.Errorf("expected duplicate factory error")
	}
	var me *ManagerError
	if !errors.As(err, &me) {
		t.Errorf("expected ManagerError, got %T", err)
	}
}

func TestRegistry_TemplateOverrides(t *testing.T) {
	r := NewRegistry()
	r.RegisterTemplate("flee_scene", Template{
		Variant: "immediate",
		Def: Def{
			Title:    "Flee the scene",
			Priority: PriorityMedium,
		},
		Opts: map[string]interface{}{
			"required_actions": []string{"run", "hide"},
		},
	})

	o, err := r.CreateFromTemplate("flee_scene", "flee_1", map[string]interface{}{
		"priority":           5,
		"time_limit_seconds": 90.0,
	})
	if err != nil {
		t.Fatalf("create from template: %v", err)
	}
	c := o.Base()
	if c.ID != "flee_1" || c.Title != "Flee the scene" {
		t.Errorf("template definition not applied: %s %q", c.ID, c.Title)
	}
	if c.Priority != PriorityCritical {
		t.Errorf("priority override lost: %s", c.Priority)
	}
	if c.TimeLimit != 90*time.Second {
		t.Errorf("time limit override lost: %s", c.TimeLimit)
	}
	if imm := o.(*Immediate); len(imm.RequiredActions) != 2 {
		t.Errorf("template opts lost: %v", imm.RequiredActions)
	}

	// Each instantiation is independent.
	o2, err := r.CreateFromTemplate("flee_scene", "flee_2", nil)
	if err != nil {
		t.Fatalf("second instantiation: %v", err)
	}
	if o2.Base().Priority != PriorityMedium {
		t.Errorf("override leaked into the template")
	}

	if _, err := r.CreateFromTemplate("no_such", "x", nil); err == nil {
		t.Errorf("expected unknown template error")
	}
}

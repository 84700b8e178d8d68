package achievement

import (
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine("player-1", nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestEngine_StatThresholdUnlock(t *testing.T) {
	e := newTestEngine(t)

	e.RecordStat("sessions_survived", 1)
	earned := e.HandleEvent("session_ended", nil)
	if len(earned) != 1 || earned[0].AchievementID != "first_survival" {
		t.Fatalf("expected first_survival, got %v", earned)
	}
	if !e.IsUnlocked("first_survival") {
		t.Fatal("first_survival should be unlocked")
	}
}

func TestEngine_MadnessEmbraceCondition(t *testing.T) {
	e := newTestEngine(t)

	earned := e.HandleEvent("turn_resolved", map[string]interface{}{"sanity_state": "stable"})
	if len(earned) != 0 {
		t.Fatalf("unexpected unlocks while stable: %v", earned)
	}
	earned = e.HandleEvent("turn_resolved", map[string]interface{}{"sanity_state": "mad"})
	if len(earned) != 1 || earned[0].AchievementID != "madness_embrace" {
		t.Fatalf("expected madness_embrace, got %v", earned)
	}
}

func TestEngine_UnlockIsIdempotent(t *testing.T) {
	e := newTestEngine(t)

	e.RecordStat("sessions_survived", 1)
	first := e.HandleEvent("session_ended", nil)
	second := e.HandleEvent("session_ended", nil)
	if len(first) != 1 {
		t.Fatalf("first pass: %v", first)
	}
	if len(second) != 0 {
		t.Fatalf("second pass should earn nothing, got %v", second)
	}
	if e.TotalPoints() != 10 {
		t.Fatalf("points = %d, want 10", e.TotalPoints())
	}
}

func TestEngine_ObjectiveCompletionCriterion(t *testing.T) {
	e := newTestEngine(t)

	earned := e.HandleEvent("objective_completed", map[string]interface{}{"kind": "investigation"})
	if len(earned) != 1 || earned[0].AchievementID != "first_mystery" {
		t.Fatalf("expected first_mystery, got %v", earned)
	}

	// wrong kind earns nothing
	e2 := newTestEngine(t)
	earned = e2.HandleEvent("objective_completed", map[string]interface{}{"kind": "survival"})
	if len(earned) != 0 {
		t.Fatalf("survival completion should earn nothing, got %v", earned)
	}
}

func TestEngine_PrerequisitesGate(t *testing.T) {
	e := newTestEngine(t)

	// master_detective needs first_mystery first, even with the counter met.
	e.RecordStat("investigations_completed", 10)
	earned := e.HandleEvent("objective_completed", map[string]interface{}{"kind": "combat"})
	for _, rec := range earned {
		if rec.AchievementID == "master_detective" {
			t.Fatal("master_detective unlocked without prerequisite")
		}
	}

	// earn the prerequisite, then the counter-based unlock follows.
	earned = e.HandleEvent("objective_completed", map[string]interface{}{"kind": "investigation"})
	ids := map[string]bool{}
	for _, rec := range earned {
		ids[rec.AchievementID] = true
	}
	if !ids["first_mystery"] || !ids["master_detective"] {
		t.Fatalf("expected both detective achievements, got %v", earned)
	}
}

func TestEngine_AllCriteriaMustHold(t *testing.T) {
	e := newTestEngine(t)

	// campaign completed but sanity below 50: no ultimate_survivor
	earned := e.HandleEvent("campaign_completed", map[string]interface{}{"sanity": 40})
	for _, rec := range earned {
		if rec.AchievementID == "ultimate_survivor" {
			t.Fatal("ultimate_survivor unlocked with low sanity")
		}
	}

	earned = e.HandleEvent("campaign_completed", map[string]interface{}{"sanity": 65})
	found := false
	for _, rec := range earned {
		if rec.AchievementID == "ultimate_survivor" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ultimate_survivor, got %v", earned)
	}
}

func TestEngine_ProgressIntrospection(t *testing.T) {
	e := newTestEngine(t)

	e.SetStat("sessions_played", 4)
	info, err := e.Progress("dedicated_investigator")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if info.Unlocked || info.Satisfied != 0 || info.Total != 1 {
		t.Fatalf("progress = %+v", info)
	}
	if info.NextCriterion != "Play ten sessions" {
		t.Fatalf("next criterion = %q", info.NextCriterion)
	}

	e.SetStat("sessions_played", 10)
	e.HandleEvent("session_ended", nil)
	info, _ = e.Progress("dedicated_investigator")
	if !info.Unlocked || info.Fraction != 1 {
		t.Fatalf("progress after unlock = %+v", info)
	}
}

func TestEngine_HiddenAchievement(t *testing.T) {
	e := newTestEngine(t)

	for _, info := range e.AllProgress() {
		if info.AchievementID == "fourth_wall" {
			t.Fatal("hidden achievement listed before unlock")
		}
	}

	info, _ := e.Progress("fourth_wall")
	if info.NextCriterion != "" {
		t.Fatalf("hidden achievement leaked hint %q", info.NextCriterion)
	}

	e.HandleEvent("fourth_wall_broken", nil)
	found := false
	for _, info := range e.AllProgress() {
		if info.AchievementID == "fourth_wall" {
			found = true
		}
	}
	if !found {
		t.Fatal("unlocked hidden achievement should be listed")
	}
}

func TestEngine_SequenceCriterion(t *testing.T) {
	defs := []Definition{{
		ID:     "pattern_reader",
		Name:   "Pattern Reader",
		Rarity: RarityRare,
		Points: 30,
		Criteria: []Criterion{
			{Trigger: TriggerSequenceCompletion, Key: "story_beats",
				Value: []string{"omen", "descent", "revelation"}},
		},
	}}
	e, err := NewEngine("p", defs, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	e.SetStat("story_beats", []string{"omen", "detour", "descent"})
	if earned := e.HandleEvent("beat", nil); len(earned) != 0 {
		t.Fatalf("incomplete sequence earned %v", earned)
	}

	e.SetStat("story_beats", []string{"omen", "detour", "descent", "revelation"})
	earned := e.HandleEvent("beat", nil)
	if len(earned) != 1 || earned[0].AchievementID != "pattern_reader" {
		t.Fatalf("expected pattern_reader, got %v", earned)
	}
}

func TestEngine_RarityWeightedCompletion(t *testing.T) {
	e := newTestEngine(t)
	if e.Completion() != 0 {
		t.Fatalf("fresh completion = %f", e.Completion())
	}

	e.RecordStat("sessions_survived", 1)
	e.HandleEvent("session_ended", nil)

	total := 0
	for _, d := range DefaultCatalog() {
		total += d.Rarity.Weight()
	}
	want := 100 * float64(RarityCommon.Weight()) / float64(total)
	if got := e.Completion(); got != want {
		t.Fatalf("completion = %f, want %f", got, want)
	}
}

func TestEngine_DuplicateDefinitionRejected(t *testing.T) {
	defs := []Definition{
		{ID: "dup", Name: "A", Criteria: []Criterion{{Trigger: TriggerEventOccurrence, Key: "x"}}},
		{ID: "dup", Name: "B", Criteria: []Criterion{{Trigger: TriggerEventOccurrence, Key: "y"}}},
	}
	if _, err := NewEngine("p", defs, nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

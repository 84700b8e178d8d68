package objective

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func TestSnapshot_RoundTripIdentity(t *testing.T) {
	o := NewShortTerm(Def{
		ID:        "round_trip",
		Title:     "Survive the night",
		Priority:  PriorityHigh,
		TimeLimit: 45 * time.Minute,
		Parent:    "campaign",
		Metadata:  map[string]interface{}{"location": "manor"},
	}, ShortTermConfig{MilestoneCount: 2})
	state := GameState{}
	o.Base().Activate(state)
	Tick(o, state, ActionData{"milestone_completed": true})

	snap := o.Base().Snapshot()
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored, err := FromSnapshot(decoded)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	c := restored.Base()

	if c.ID != "round_trip" || c.UUID != o.UUID {
		t.Errorf("identity lost: %s/%s", c.ID, c.UUID)
	}
	if c.Status != o.Status {
		t.Errorf("status lost: %s != %s", c.Status, o.Status)
	}
	if c.Progress != o.Progress {
		t.Errorf("progress lost: %v != %v", c.Progress, o.Progress)
	}
	if !c.CreatedAt.Equal(o.CreatedAt) || !c.ActivatedAt.Equal(o.ActivatedAt) {
		t.Errorf("timestamps lost")
	}
	if c.TimeLimit != 45*time.Minute {
		t.Errorf("time limit lost: %s", c.TimeLimit)
	}
	if c.Scope != ScopeShortTerm || c.Parent != "campaign" {
		t.Errorf("structure lost: %s %s", c.Scope, c.Parent)
	}
}

func TestSnapshot_WireFieldNames(t *testing.T) {
	o := NewImmediate(Def{ID: "wire", TimeLimit: 2 * time.Minute}, ImmediateConfig{})
	raw, err := json.Marshal(o.Base().Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	limit, ok := doc["time_limit"].(float64)
	if !ok || limit != 120 {
		t.Errorf("expected time_limit of 120 seconds, got %v", doc["time_limit"])
	}
	if _, ok := doc["events"]; !ok {
		t.Errorf("events field missing from snapshot document")
	}
	for _, stale := range []string{"time_limit_seconds", "recent_events"} {
		if _, found := doc[stale]; found {
			t.Errorf("unexpected field %q in snapshot document", stale)
		}
	}
}

func TestSnapshot_NullableTimestamps(t *testing.T) {
	o := NewImmediate(Def{ID: "never_started"}, ImmediateConfig{})
	snap := o.Base().Snapshot()
	if snap.ActivatedAt != nil || snap.CompletedAt != nil {
		t.Errorf("unstarted objective must have null activation/completion")
	}

	raw, _ := json.Marshal(snap)
	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := FromSnapshot(decoded)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.Base().ActivatedAt.IsZero() {
		t.Errorf("null activated_at restored as non-zero")
	}
}

func TestSnapshot_TruncatesEvents(t *testing.T) {
	o := NewImmediate(Def{ID: "chatty"}, ImmediateConfig{})
	for i := 0; i < 30; i++ {
		o.Base().logEvent("tick", nil)
	}
	snap := o.Base().Snapshot()
	if len(snap.Events) != SnapshotEventCount {
		t.Errorf("expected %d snapshot events, got %d", SnapshotEventCount, len(snap.Events))
	}
}

func TestManager_SaveAndLoad(t *testing.T) {
	m := newTestManager()
	addImmediate(t, m, "in_play", PriorityMedium)
	done := addImmediate(t, m, "finished", PriorityMedium)
	m.UpdateAll(GameState{}, ActionData{})
	done.Base().Complete(GameState{})

	path := filepath.Join(t.TempDir(), "session.json")
	if err := m.SaveToFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := newTestManager()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	total, active := loaded.Count()
	if total != 2 {
		t.Errorf("expected 2 restored, got %d", total)
	}
	if active != 1 {
		t.Errorf("expected 1 active restored, got %d", active)
	}
	o, ok := loaded.Get("finished")
	if !ok || o.Base().Status != StatusCompleted {
		t.Errorf("completed objective not restored")
	}
	if loaded.Stats().TotalCreated != m.Stats().TotalCreated {
		t.Errorf("statistics not restored")
	}
}

func TestManager_LoadRejectsGarbage(t *testing.T) {
	m := newTestManager()
	if err := m.LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

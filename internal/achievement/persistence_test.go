package achievement

import (
	"path/filepath"
	"testing"
)

func TestEngine_SaveLoadRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.RecordStat("sessions_survived", 1)
	e.RecordStat("sessions_played", 7)
	e.HandleEvent("session_ended", nil)

	path := filepath.Join(t.TempDir(), "achievements.json")
	if !e.SaveToFile(path) {
		t.Fatal("SaveToFile returned false")
	}

	restored := newTestEngine(t)
	if !restored.LoadFromFile(path) {
		t.Fatal("LoadFromFile returned false")
	}
	if !restored.IsUnlocked("first_survival") {
		t.Fatal("unlock lost across save/load")
	}
	if v, _ := toFloat(restored.Stats()["sessions_played"]); v != 7 {
		t.Fatalf("sessions_played = %v", restored.Stats()["sessions_played"])
	}
}

func TestEngine_SaveLoadFailuresReturnFalse(t *testing.T) {
	e := newTestEngine(t)
	if e.SaveToFile(filepath.Join(t.TempDir(), "missing", "nested.json")) {
		t.Fatal("save into missing directory should fail")
	}
	if e.LoadFromFile(filepath.Join(t.TempDir(), "absent.json")) {
		t.Fatal("loading a missing file should fail")
	}
}

func TestEngine_Statistics(t *testing.T) {
	e := newTestEngine(t)
	e.RecordStat("sessions_survived", 1)
	e.HandleEvent("session_ended", nil)
	e.HandleEvent("objective_completed", map[string]interface{}{"kind": "investigation"})

	stats := e.Statistics()
	if stats.Unlocked != 2 {
		t.Fatalf("unlocked = %d, want 2", stats.Unlocked)
	}
	if stats.ByCategory["survival"] != 1 || stats.ByCategory["investigation"] != 1 {
		t.Fatalf("by category = %v", stats.ByCategory)
	}
	if stats.ByRarity[RarityCommon] != 2 {
		t.Fatalf("by rarity = %v", stats.ByRarity)
	}
	if stats.Points != 20 {
		t.Fatalf("points = %d, want 20", stats.Points)
	}
	if stats.Completion <= 0 || stats.Completion >= 100 {
		t.Fatalf("completion = %f", stats.Completion)
	}
}

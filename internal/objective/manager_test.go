package objective

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager(DefaultManagerConfig(), nil, nil)
}

func addImmediate(t *testing.T, m *Manager, id string, prio Priority) *Immediate {
	t.Helper()
	o := NewImmediate(Def{ID: id, Priority: prio}, ImmediateConfig{RequiredActions: []string{"act"}})
	if err := m.Add(o); err != nil {
		t.Fatalf("add %s: %v", id, err)
	}
	return o
}

func TestManager_DuplicateID(t *testing.T) {
	m := newTestManager()
	addImmediate(t, m, "dup", PriorityMedium)
	err := m.Add(NewImmediate(Def{ID: "dup"}, ImmediateConfig{}))
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
	var me *ManagerError
	if !errors.As(err, &me) {
		t.Errorf("expected ManagerError, got %T", err)
	}
}

func TestManager_LogsStateTransitions(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	m := newTestManager()
	addImmediate(t, m, "logged", PriorityMedium)
	m.UpdateAll(GameState{}, ActionData{})
	m.UpdateAll(GameState{}, ActionData{"action_type": "act"})
	if !strings.Contains(buf.String(), "logged transitioned") ||
		!strings.Contains(buf.String(), "-> completed") {
		t.Errorf("terminal transition not logged:\n%s", buf.String())
	}

	buf.Reset()
	addImmediate(t, m, "paused", PriorityMedium)
	m.UpdateAll(GameState{}, ActionData{})
	if err := m.Suspend("paused", "resting"); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if !strings.Contains(buf.String(), "-> suspended") {
		t.Errorf("suspension not logged:\n%s", buf.String())
	}
}

func TestManager_ImmediateCap(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 7; i++ {
		addImmediate(t, m, fmt.Sprintf("imm_%d", i), PriorityMedium)
	}

	delta := m.UpdateAll(GameState{}, ActionData{})
	if len(delta.Activated) != 5 {
		t.Fatalf("expected 5 activations under the immediate cap, got %d", len(delta.Activated))
	}
	if _, active := m.Count(); active != 5 {
		t.Errorf("expected 5 active, got %d", active)
	}

	// Deferred candidates activate as slots free up.
	for _, id := range delta.Activated {
		if err := m.Abandon(id, "making room"); err != nil {
			t.Fatalf("abandon: %v", err)
		}
	}
	delta = m.UpdateAll(GameState{}, ActionData{})
	if len(delta.Activated) != 2 {
		t.Errorf("expected remaining 2 to activate, got %d", len(delta.Activated))
	}
}

func TestManager_ShortTermCap(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 12; i++ {
		o := NewShortTerm(Def{ID: fmt.Sprintf("st_%d", i)}, ShortTermConfig{MilestoneCount: 2})
		if err := m.Add(o); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	delta := m.UpdateAll(GameState{}, ActionData{})
	if len(delta.Activated) != 10 {
		t.Errorf("expected 10 activations under the short-term cap, got %d", len(delta.Activated))
	}
}

func TestManager_GlobalCapBindsEvenForCritical(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.MaxActive = 3
	cfg.MaxImmediate = 3
	m := NewManager(cfg, nil, nil)

	for i := 0; i < 3; i++ {
		addImmediate(t, m, fmt.Sprintf("filler_%d", i), PriorityMedium)
	}
	m.UpdateAll(GameState{}, ActionData{})

	// A critical candidate is an ordering hint, never a cap override.
	addImmediate(t, m, "urgent", PriorityCritical)
	delta := m.UpdateAll(GameState{}, ActionData{})
	if len(delta.Activated) != 0 {
		t.Errorf("critical priority must not break the cap: %v", delta.Activated)
	}
}

func TestManager_PriorityOrdersAdmission(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.MaxImmediate = 1
	m := NewManager(cfg, nil, nil)

	addImmediate(t, m, "mundane", PriorityLow)
	addImmediate(t, m, "urgent", PriorityCritical)

	delta := m.UpdateAll(GameState{}, ActionData{})
	if len(delta.Activated) != 1 || delta.Activated[0] != "urgent" {
		t.Errorf("expected the critical candidate to win the slot, got %v", delta.Activated)
	}
}

func TestManager_UpdateAllDelta(t *testing.T) {
	m := newTestManager()

	// Activates and completes within one cycle.
	one := NewImmediate(Def{ID: "one_shot"}, ImmediateConfig{RequiredActions: []string{"act"}})
	if err := m.Add(one); err != nil {
		t.Fatal(err)
	}
	// Activates and progresses without completing.
	two := NewShortTerm(Def{ID: "slow_burn"}, ShortTermConfig{MilestoneCount: 3})
	if err := m.Add(two); err != nil {
		t.Fatal(err)
	}

	delta := m.UpdateAll(GameState{}, ActionData{"action_type": "act", "milestone_completed": true})

	if len(delta.Activated) != 2 {
		t.Fatalf("expected both to activate, got %v", delta.Activated)
	}
	if len(delta.Completed) != 1 || delta.Completed[0] != "one_shot" {
		t.Errorf("expected one_shot completed, got %v", delta.Completed)
	}
	if len(delta.Updated) != 1 || delta.Updated[0] != "slow_burn" {
		t.Errorf("expected slow_burn updated, got %v", delta.Updated)
	}
	if len(delta.Failed) != 0 || len(delta.Expired) != 0 {
		t.Errorf("unexpected failures: %+v", delta)
	}
}

func TestManager_ExpiryReported(t *testing.T) {
	m := newTestManager()
	o := addImmediate(t, m, "stale", PriorityMedium)
	m.UpdateAll(GameState{}, ActionData{})

	o.ActivatedAt = time.Now().Add(-10 * time.Minute) // past the 5m default
	delta := m.UpdateAll(GameState{}, ActionData{})

	if len(delta.Expired) != 1 || delta.Expired[0] != "stale" {
		t.Fatalf("expected stale expired, got %+v", delta)
	}
	if o.Status != StatusExpired {
		t.Errorf("expected expired status, got %s", o.Status)
	}
	if _, active := m.Count(); active != 0 {
		t.Errorf("expired objective still counted active")
	}
}

// panicking variant for recovery tests
type bomb struct {
	*Core
}

func (b *bomb) UpdateProgress(state GameState, action ActionData) bool {
	panic("progress algorithm blew up")
}

func TestManager_PanicIsolatedToOneObjective(t *testing.T) {
	m := newTestManager()
	b := &bomb{Core: newCore(Def{ID: "broken"}, ScopeImmediate)}
	if err := m.Add(b); err != nil {
		t.Fatal(err)
	}
	healthy := NewShortTerm(Def{ID: "healthy"}, ShortTermConfig{MilestoneCount: 2})
	if err := m.Add(healthy); err != nil {
		t.Fatal(err)
	}

	delta := m.UpdateAll(GameState{}, ActionData{"milestone_completed": true})

	if b.Status != StatusFailed {
		t.Errorf("panicking objective must be forced to failure, got %s", b.Status)
	}
	if len(delta.Failed) != 1 || delta.Failed[0] != "broken" {
		t.Errorf("expected broken in failed list, got %v", delta.Failed)
	}
	// The rest of the turn proceeds untouched.
	if len(delta.Updated) != 1 || delta.Updated[0] != "healthy" {
		t.Errorf("healthy objective missed its update: %+v", delta)
	}
	if healthy.Progress != 0.5 {
		t.Errorf("expected healthy at 0.5, got %v", healthy.Progress)
	}
}

func TestManager_RetentionSweep(t *testing.T) {
	m := newTestManager()
	old := addImmediate(t, m, "ancient", PriorityMedium)
	fresh := addImmediate(t, m, "recent", PriorityMedium)
	m.UpdateAll(GameState{}, ActionData{})

	state := GameState{}
	old.Base().Complete(state)
	old.CompletedAt = time.Now().Add(-25 * time.Hour)
	fresh.Base().Fail(state, "test")
	fresh.LastUpdate = time.Now().Add(-1 * time.Hour)

	removed := m.Sweep()
	if removed != 1 {
		t.Fatalf("expected one eviction, got %d", removed)
	}
	if _, ok := m.Get("ancient"); ok {
		t.Errorf("ancient should have been swept")
	}
	if _, ok := m.Get("recent"); !ok {
		t.Errorf("recent terminal objective swept too early")
	}

	// Failed objectives age on last update.
	fresh.LastUpdate = time.Now().Add(-25 * time.Hour)
	if m.Sweep() != 1 {
		t.Errorf("expected recent to age out by last update")
	}
}

func TestManager_SuspendResumeRespectsCaps(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.MaxImmediate = 1
	m := NewManager(cfg, nil, nil)

	addImmediate(t, m, "first", PriorityMedium)
	addImmediate(t, m, "second", PriorityMedium)
	m.UpdateAll(GameState{}, ActionData{})

	if err := m.Suspend("first", "pausing"); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	// The freed slot admits the second objective.
	delta := m.UpdateAll(GameState{}, ActionData{})
	if len(delta.Activated) != 1 || delta.Activated[0] != "second" {
		t.Fatalf("expected second to take the slot, got %v", delta.Activated)
	}
	// Resuming while the cap is full is refused.
	if err := m.Resume("first"); err == nil {
		t.Errorf("resume must respect the cap")
	}
	m.Abandon("second", "done with it")
	if err := m.Resume("first"); err != nil {
		t.Errorf("resume after slot freed: %v", err)
	}
}

func TestManager_EventsEmitted(t *testing.T) {
	m := newTestManager()
	var seen []string
	m.Bus().Subscribe("*", func(ev BusEvent) { seen = append(seen, ev.Type) })

	addImmediate(t, m, "tracked", PriorityMedium)
	m.UpdateAll(GameState{}, ActionData{"action_type": "act"})

	want := map[string]bool{"objective_added": false, "objective_activated": false, "objective_completed": false}
	for _, ev := range seen {
		if _, ok := want[ev]; ok {
			want[ev] = true
		}
	}
	for ev, got := range want {
		if !got {
			t.Errorf("missing bus event %s (saw %v)", ev, seen)
		}
	}
}

func TestManager_ChildrenIndex(t *testing.T) {
	m := newTestManager()
	parent := NewLongTerm(Def{ID: "campaign"}, LongTermConfig{})
	if err := m.Add(parent); err != nil {
		t.Fatal(err)
	}
	child := NewShortTerm(Def{ID: "chapter", Parent: "campaign"}, ShortTermConfig{MilestoneCount: 1})
	if err := m.Add(child); err != nil {
		t.Fatal(err)
	}

	kids := m.Children("campaign")
	if len(kids) != 1 || kids[0].Base().ID != "chapter" {
		t.Fatalf("children index wrong: %v", kids)
	}
	if err := m.Remove("chapter"); err != nil {
		t.Fatal(err)
	}
	if len(m.Children("campaign")) != 0 {
		t.Errorf("child not unlinked on removal")
	}
}

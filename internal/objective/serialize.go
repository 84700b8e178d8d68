package objective

import (
	"encoding/json"
	"os"
	"sort"
	"time"
)

// SnapshotEventCount is how many trailing audit events a snapshot
// carries.
const SnapshotEventCount = 10

// Snapshot is the wire form of one objective's core state. Timestamps
// are RFC 3339; nullable ones are pointers.
type Snapshot struct {
	ObjectiveID  string                 `json:"objective_id"`
	UUID         string                 `json:"uuid"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Kind         string                 `json:"objective_type"`
	Scope        string                 `json:"scope"`
	Priority     int                    `json:"priority"`
	Status       string                 `json:"status"`
	Progress     float64                `json:"progress"`
	CreatedAt    time.Time              `json:"created_at"`
	ActivatedAt  *time.Time             `json:"activated_at"`
	CompletedAt  *time.Time             `json:"completed_at"`
	LastUpdate   time.Time              `json:"last_update"`
	TimeLimitSec *float64               `json:"time_limit"`
	Parent       string                 `json:"parent_objective,omitempty"`
	Children     []string               `json:"child_objectives"`
	Metadata     map[string]interface{} `json:"metadata"`
	AttemptCount int                    `json:"attempt_count"`
	Events       []Event                `json:"events"`
	Modifiers    []Modifier             `json:"modifiers,omitempty"`
}

// Snapshot captures the core state for persistence or display.
func (c *Core) Snapshot() Snapshot {
	s := Snapshot{
		ObjectiveID:  c.ID,
		UUID:         c.UUID,
		Title:        c.Title,
		Description:  c.Description,
		Kind:         string(c.Kind),
		Scope:        string(c.Scope),
		Priority:     int(c.Priority),
		Status:       string(c.Status),
		Progress:     c.Progress,
		CreatedAt:    c.CreatedAt,
		LastUpdate:   c.LastUpdate,
		Parent:       c.Parent,
		Children:     append([]string(nil), c.Children...),
		Metadata:     c.Metadata,
		AttemptCount: c.AttemptCount,
		Modifiers:    c.Modifiers(),
	}
	if !c.ActivatedAt.IsZero() {
		t := c.ActivatedAt
		s.ActivatedAt = &t
	}
	if !c.CompletedAt.IsZero() {
		t := c.CompletedAt
		s.CompletedAt = &t
	}
	if c.TimeLimit > 0 {
		sec := c.TimeLimit.Seconds()
		s.TimeLimitSec = &sec
	}
	events := c.Events
	if len(events) > SnapshotEventCount {
		events = events[len(events)-SnapshotEventCount:]
	}
	s.Events = append([]Event(nil), events...)
	return s
}

// restore overwrites the core from a snapshot.
func (c *Core) restore(s Snapshot) {
	c.ID = s.ObjectiveID
	if s.UUID != "" {
		c.UUID = s.UUID
	}
	c.Title = s.Title
	c.Description = s.Description
	c.Kind = Kind(s.Kind)
	c.Scope = Scope(s.Scope)
	c.Priority = clampPriority(Priority(s.Priority))
	c.Status = Status(s.Status)
	c.Progress = s.Progress
	c.CreatedAt = s.CreatedAt
	c.LastUpdate = s.LastUpdate
	if s.ActivatedAt != nil {
		c.ActivatedAt = *s.ActivatedAt
	}
	if s.CompletedAt != nil {
		c.CompletedAt = *s.CompletedAt
	}
	if s.TimeLimitSec != nil {
		c.TimeLimit = time.Duration(*s.TimeLimitSec * float64(time.Second))
	}
	c.Parent = s.Parent
	c.Children = append([]string(nil), s.Children...)
	if s.Metadata != nil {
		c.Metadata = s.Metadata
	}
	c.AttemptCount = s.AttemptCount
	c.Events = append([]Event(nil), s.Events...)
	c.modifiers = append([]Modifier(nil), s.Modifiers...)
}

// FromSnapshot rebuilds an objective of the snapshot's scope with its
// core state restored. Variant-specific tallies are not persisted;
// restored objectives resume from their recorded progress.
func FromSnapshot(s Snapshot) (Objective, error) {
	def := Def{ID: s.ObjectiveID}
	var o Objective
	switch Scope(s.Scope) {
	case ScopeImmediate:
		o = NewImmediate(def, ImmediateConfig{})
	case ScopeShortTerm:
		o = NewShortTerm(def, ShortTermConfig{})
	case ScopeMidTerm:
		o = NewMidTerm(def, MidTermConfig{})
	case ScopeLongTerm:
		o = NewLongTerm(def, LongTermConfig{})
	case ScopeMeta:
		o = NewMeta(def, MetaConfig{})
	default:
		return nil, &ManagerError{Op: "restore", ID: s.ObjectiveID, Reason: "unknown scope " + s.Scope}
	}
	o.Base().restore(s)
	return o, nil
}

// saveDocument is the on-disk session format.
type saveDocument struct {
	SavedAt    time.Time  `json:"saved_at"`
	Statistics Stats      `json:"statistics"`
	Objectives []Snapshot `json:"objectives"`
	Active     []string   `json:"active"`
}

// SaveToFile writes the whole population to disk.
func (m *Manager) SaveToFile(path string) error {
	doc := saveDocument{
		SavedAt:    time.Now(),
		Statistics: m.stats,
		Active:     m.activeSnapshot(),
	}
	for _, id := range m.sortedIDs() {
		doc.Objectives = append(doc.Objectives, m.objectives[id].Base().Snapshot())
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		m.logger.LogError("save", err, map[string]interface{}{"path": path})
		return &ManagerError{Op: "save", Reason: "marshal failed", Err: err}
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		m.logger.LogError("save", err, map[string]interface{}{"path": path})
		return &ManagerError{Op: "save", Reason: "write failed", Err: err}
	}
	return nil
}

// LoadFromFile replaces the population with the saved one.
func (m *Manager) LoadFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		m.logger.LogError("load", err, map[string]interface{}{"path": path})
		return &ManagerError{Op: "load", Reason: "read failed", Err: err}
	}
	var doc saveDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		m.logger.LogError("load", err, map[string]interface{}{"path": path})
		return &ManagerError{Op: "load", Reason: "unmarshal failed", Err: err}
	}

	objectives := make(map[string]Objective, len(doc.Objectives))
	children := make(map[string][]string)
	for _, snap := range doc.Objectives {
		o, err := FromSnapshot(snap)
		if err != nil {
			return err
		}
		objectives[snap.ObjectiveID] = o
		if snap.Parent != "" {
			children[snap.Parent] = append(children[snap.Parent], snap.ObjectiveID)
		}
	}
	active := make(map[string]bool, len(doc.Active))
	for _, id := range doc.Active {
		if o, ok := objectives[id]; ok && o.Base().IsActive() {
			active[id] = true
		}
	}

	m.objectives = objectives
	m.children = children
	m.active = active
	m.stats = doc.Statistics
	return nil
}

func (m *Manager) sortedIDs() []string {
	ids := make([]string, 0, len(m.objectives))
	for id := range m.objectives {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

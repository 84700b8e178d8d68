package objective

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an objective.
type Status string

const (
	StatusInactive   Status = "inactive"
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusExpired    Status = "expired"
	StatusAbandoned  Status = "abandoned"
	StatusSuspended  Status = "suspended"
)

// Kind is the narrative category of an objective.
type Kind string

const (
	KindSurvival      Kind = "survival"
	KindInvestigation Kind = "investigation"
	KindSanity        Kind = "sanity_preservation"
	KindKnowledge     Kind = "knowledge_seeking"
	KindEscape        Kind = "escape"
	KindRescue        Kind = "rescue"
	KindBanishment    Kind = "banishment"
	KindDiscovery     Kind = "discovery"
	KindPersonal      Kind = "personal"
	KindCosmic        Kind = "cosmic_understanding"
)

// Scope is the time horizon an objective lives on. It decides which
// progress algorithm applies and which activation cap it counts against.
type Scope string

const (
	ScopeImmediate Scope = "immediate"
	ScopeShortTerm Scope = "short_term"
	ScopeMidTerm   Scope = "mid_term"
	ScopeLongTerm  Scope = "long_term"
	ScopeMeta      Scope = "meta"
)

// Priority orders activation candidates. Critical and above are an
// ordering hint only; caps still apply.
type Priority int

const (
	PriorityTrivial  Priority = 1
	PriorityLow      Priority = 2
	PriorityMedium   Priority = 3
	PriorityHigh     Priority = 4
	PriorityCritical Priority = 5
	PriorityVital    Priority = 6
)

func (p Priority) String() string {
	switch p {
	case PriorityTrivial:
		return "trivial"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	case PriorityVital:
		return "vital"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ClampPriority converts arbitrary arithmetic back into the valid band.
func ClampPriority(p int) Priority {
	return clampPriority(Priority(p))
}

// clampPriority keeps modifier arithmetic inside the valid band.
func clampPriority(p Priority) Priority {
	if p < PriorityTrivial {
		return PriorityTrivial
	}
	if p > PriorityVital {
		return PriorityVital
	}
	return p
}

// GameState is the game's current world snapshot as loosely typed
// key/value data. Progress algorithms read it, never write it, except
// for the sanity variants which own a few well-known keys.
type GameState map[string]interface{}

// ActionData describes the player action driving one update cycle.
type ActionData map[string]interface{}

// Condition is a named predicate over game state. When Check is nil the
// fallback compares state[ID] against RequiredValue.
type Condition struct {
	ID            string
	Description   string
	Check         func(state GameState, required interface{}) bool
	RequiredValue interface{}
	Metadata      map[string]interface{}
}

// Evaluate runs the condition against the given state.
func (c Condition) Evaluate(state GameState) bool {
	if c.Check != nil {
		return c.Check(state, c.RequiredValue)
	}
	if c.RequiredValue == nil {
		return false
	}
	got, ok := state[c.ID]
	if !ok {
		return false
	}
	return looseEqual(got, c.RequiredValue)
}

// LocationCondition holds when the player stands in the named location.
func LocationCondition(location string) Condition {
	return Condition{
		ID:            "at_" + location,
		Description:   "Be at " + location,
		RequiredValue: location,
		Check: func(state GameState, required interface{}) bool {
			return stateString(state, "location", "") == required
		},
	}
}

// InventoryCondition holds when the named item is carried.
func InventoryCondition(item string) Condition {
	return Condition{
		ID:            "has_" + item,
		Description:   "Carry " + item,
		RequiredValue: item,
		Check: func(state GameState, required interface{}) bool {
			for _, held := range stateStrings(state, "inventory") {
				if held == required {
					return true
				}
			}
			return false
		},
	}
}

// MinSanityCondition holds while sanity is at or above the floor.
func MinSanityCondition(floor int) Condition {
	return Condition{
		ID:            "min_sanity",
		Description:   fmt.Sprintf("Keep sanity at %d or above", floor),
		RequiredValue: floor,
		Check: func(state GameState, required interface{}) bool {
			f, _ := toFloat(required)
			return float64(SanityValue(state)) >= f
		},
	}
}

// RewardType classifies what an objective pays out.
type RewardType string

const (
	RewardExperience  RewardType = "experience"
	RewardItem        RewardType = "item"
	RewardKnowledge   RewardType = "knowledge"
	RewardSanity      RewardType = "sanity_restoration"
	RewardSkill       RewardType = "skill_improvement"
	RewardStoryUnlock RewardType = "story_unlock"
	RewardRelation    RewardType = "character_relationship"
)

// Reward is granted once when an objective completes.
type Reward struct {
	Type        RewardType             `json:"reward_type"`
	Value       interface{}            `json:"value"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (r Reward) String() string {
	if r.Description != "" {
		return r.Description
	}
	return fmt.Sprintf("%s: %v", r.Type, r.Value)
}

// ConsequenceType classifies what failing or expiring costs.
type ConsequenceType string

const (
	ConsequenceSanLoss       ConsequenceType = "san_loss"
	ConsequenceHealthLoss    ConsequenceType = "health_loss"
	ConsequenceStoryBranch   ConsequenceType = "story_branch"
	ConsequenceItemLoss      ConsequenceType = "item_loss"
	ConsequenceRelationShift ConsequenceType = "relationship_change"
	ConsequenceTimePenalty   ConsequenceType = "time_penalty"
)

// Consequence is applied once when an objective fails or expires.
type Consequence struct {
	Type        ConsequenceType        `json:"consequence_type"`
	Severity    int                    `json:"severity"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (c Consequence) String() string {
	if c.Description != "" {
		return c.Description
	}
	return fmt.Sprintf("%s (severity %d)", c.Type, c.Severity)
}

// Event is one entry in an objective's bounded audit log.
type Event struct {
	Timestamp   time.Time              `json:"timestamp"`
	Type        string                 `json:"event_type"`
	ObjectiveID string                 `json:"objective_id"`
	Status      Status                 `json:"status"`
	Progress    float64                `json:"progress"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// ManagerError is the error type for all orchestration failures.
type ManagerError struct {
	Op     string
	ID     string
	Reason string
	Err    error
}

func (e *ManagerError) Error() string {
	msg := "objective " + e.Op
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ManagerError) Unwrap() error { return e.Err }

// looseEqual compares state values the way JSON round-trips leave them:
// numbers as float64, everything else by direct equality.
func looseEqual(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// State accessors. GameState and ActionData carry JSON-shaped values,
// so every read goes through a tolerant converter with a default.

func stateFloat(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return def
}

func stateInt(m map[string]interface{}, key string, def int) int {
	if v, ok := m[key]; ok {
		if f, ok := toFloat(v); ok {
			return int(f)
		}
	}
	return def
}

func stateString(m map[string]interface{}, key string, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func stateBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func stateStrings(m map[string]interface{}, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stateMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mm, ok := v.(map[string]interface{}); ok {
			return mm
		}
	}
	return nil
}

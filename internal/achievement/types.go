package achievement

import "fmt"

// Rarity weights an achievement's contribution to overall completion.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Weight returns the completion weight for a rarity.
func (r Rarity) Weight() int {
	switch r {
	case RarityUncommon:
		return 2
	case RarityRare:
		return 3
	case RarityLegendary:
		return 5
	default:
		return 1
	}
}

// TriggerType names what kind of signal a criterion listens for.
type TriggerType string

const (
	TriggerStatThreshold       TriggerType = "stat_threshold"
	TriggerObjectiveCompletion TriggerType = "objective_completion"
	TriggerEventOccurrence     TriggerType = "event_occurrence"
	TriggerConditionMet        TriggerType = "condition_met"
	TriggerSequenceCompletion  TriggerType = "sequence_completion"
)

// Operator compares an observed value against a criterion's target.
type Operator string

const (
	OpEq       Operator = "eq"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
	OpCountGte Operator = "count_gte"
	OpCountEq  Operator = "count_eq"
)

// Criterion is one condition toward an unlock. All of an achievement's
// criteria must hold simultaneously.
type Criterion struct {
	Trigger     TriggerType `json:"trigger"`
	Key         string      `json:"key"`
	Operator    Operator    `json:"operator"`
	Value       interface{} `json:"value"`
	Description string      `json:"description"`
}

func (c Criterion) String() string {
	if c.Description != "" {
		return c.Description
	}
	return fmt.Sprintf("%s %s %s %v", c.Trigger, c.Key, c.Operator, c.Value)
}

// Definition is one achievement: identity, display, gating and criteria.
type Definition struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Rarity        Rarity      `json:"rarity"`
	Points        int         `json:"points"`
	Hidden        bool        `json:"hidden"`
	Prerequisites []string    `json:"prerequisites,omitempty"`
	Criteria      []Criterion `json:"criteria"`
}

// ProgressInfo describes how close a player is to one achievement.
type ProgressInfo struct {
	AchievementID string  `json:"achievement_id"`
	Name          string  `json:"name"`
	Unlocked      bool    `json:"unlocked"`
	Satisfied     int     `json:"satisfied"`
	Total         int     `json:"total"`
	Fraction      float64 `json:"fraction"`
	NextCriterion string  `json:"next_criterion,omitempty"`
	Blocked       bool    `json:"blocked"` // prerequisites not yet met
}

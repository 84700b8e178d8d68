package ai

import (
	"context"
	"time"

	"go-mythos/internal/objective"
)

// BehaviorPattern labels the dominant play style read from action history.
type BehaviorPattern string

const (
	PatternCautious      BehaviorPattern = "cautious"
	PatternAggressive    BehaviorPattern = "aggressive"
	PatternInvestigative BehaviorPattern = "investigative"
	PatternSocial        BehaviorPattern = "social"
	PatternExplorer      BehaviorPattern = "explorer"
	PatternSurvival      BehaviorPattern = "survival"
	PatternPuzzleSolver  BehaviorPattern = "puzzle_solver"
	PatternHorrorSeeker  BehaviorPattern = "horror_seeker"
)

// BehaviorProfile is the analyzer's output: normalized scores per pattern
// plus the dominant one.
type BehaviorProfile struct {
	Primary    BehaviorPattern             `json:"primary"`
	Scores     map[BehaviorPattern]float64 `json:"scores"`
	Confidence float64                     `json:"confidence"`
	Refined    bool                        `json:"refined"` // true when an LLM pass adjusted it
}

// Suggestion is one proposed objective for the player.
type Suggestion struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Kind        objective.Kind     `json:"kind"`
	Scope       objective.Scope    `json:"scope"`
	Priority    objective.Priority `json:"priority"`
	Confidence  float64            `json:"confidence"`
	Source      string             `json:"source"` // pacing | preference | coverage
	Reason      string             `json:"reason"`
	CreatedAt   time.Time          `json:"created_at"`
}

// LLMService is the slice of the LLM client the analyzer needs. Failures
// are absorbed; the heuristics always stand on their own.
type LLMService interface {
	Call(ctx context.Context, url string, payload map[string]interface{}) ([]byte, error)
}

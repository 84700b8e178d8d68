package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"go-mythos/internal/objective"
)

const (
	suggestionCacheKey = "mythos:ai:suggestions"
	actionHistoryKey   = "mythos:ai:actions"
	maxActionHistory   = 200
	maxSuggestionLog   = 50
)

// CoordinatorConfig wires the AI pipeline together. LLM and Redis are
// both optional; absent, analysis stays heuristic and caching in-memory.
type CoordinatorConfig struct {
	Generator     GeneratorConfig
	Adjuster      AdjusterConfig
	LLM           LLMService
	LLMURL        string
	Redis         *redis.Client
	SuggestionTTL time.Duration
}

// Coordinator glues analyzer, generator and difficulty adjuster and
// keeps the session's action histogram and suggestion history.
type Coordinator struct {
	mu        sync.Mutex
	analyzer  *Analyzer
	generator *Generator
	adjuster  *DifficultyAdjuster
	cfg       CoordinatorConfig
	logger    *log.Logger

	actionCounts  map[string]int
	recentActions []string
	history       []Suggestion

	cached   []Suggestion
	cachedAt time.Time
}

func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	if cfg.SuggestionTTL <= 0 {
		cfg.SuggestionTTL = 5 * time.Minute
	}
	return &Coordinator{
		analyzer:     NewAnalyzer(),
		generator:    NewGenerator(cfg.Generator),
		adjuster:     NewDifficultyAdjuster(cfg.Adjuster),
		cfg:          cfg,
		logger:       log.Default(),
		actionCounts: make(map[string]int),
	}
}

// Adjuster exposes the difficulty loop for objective construction.
func (c *Coordinator) Adjuster() *DifficultyAdjuster { return c.adjuster }

// RecordAction feeds one player action into the session histogram and,
// when redis is configured, the shared rolling history.
func (c *Coordinator) RecordAction(ctx context.Context, actionType string) {
	if actionType == "" {
		return
	}
	c.mu.Lock()
	c.actionCounts[actionType]++
	c.recentActions = append(c.recentActions, actionType)
	if len(c.recentActions) > maxActionHistory {
		c.recentActions = c.recentActions[len(c.recentActions)-maxActionHistory:]
	}
	c.cached = nil // histogram changed, cached suggestions are stale
	c.mu.Unlock()

	if c.cfg.Redis != nil {
		pipe := c.cfg.Redis.Pipeline()
		pipe.RPush(ctx, actionHistoryKey, actionType)
		pipe.LTrim(ctx, actionHistoryKey, -maxActionHistory, -1)
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Printf("[AI][WARN][HISTORY] redis append failed: %v", err)
		}
	}
}

// RecordOutcome feeds a terminal objective result into the difficulty loop.
func (c *Coordinator) RecordOutcome(success bool) {
	c.adjuster.Record(success)
}

// Suggest returns the current suggestion list, serving a cached copy
// within the TTL. The LLM refinement pass is bounded by ctx and fails
// silently back to the heuristic profile.
func (c *Coordinator) Suggest(ctx context.Context, mgr *objective.Manager, state objective.GameState) []Suggestion {
	if cached := c.loadCache(ctx); cached != nil {
		return cached
	}

	c.mu.Lock()
	counts := make(map[string]int, len(c.actionCounts))
	for k, v := range c.actionCounts {
		counts[k] = v
	}
	recent := make([]string, len(c.recentActions))
	copy(recent, c.recentActions)
	c.mu.Unlock()

	profile := c.analyzer.Analyze(counts)
	profile = c.analyzer.Refine(ctx, c.cfg.LLM, c.cfg.LLMURL, profile, tail(recent, 20))
	c.logger.Printf("[AI][INFO][SUGGEST] profile %s (%.2f) scores: %s",
		profile.Primary, profile.Confidence, sortedScores(profile.Scores))

	suggestions := c.generator.Generate(mgr, profile, state)
	c.storeCache(ctx, suggestions)

	c.mu.Lock()
	c.history = append(c.history, suggestions...)
	if len(c.history) > maxSuggestionLog {
		c.history = c.history[len(c.history)-maxSuggestionLog:]
	}
	c.mu.Unlock()
	return suggestions
}

// History returns the suggestion log, oldest first.
func (c *Coordinator) History() []Suggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Suggestion, len(c.history))
	copy(out, c.history)
	return out
}

// Implement turns a suggestion into a live objective, scaled by the
// difficulty loop and registered with the manager. Admission happens on
// the next update cycle like any other objective.
func (c *Coordinator) Implement(mgr *objective.Manager, s Suggestion) (objective.Objective, error) {
	def := objective.Def{
		ID:          "suggested_" + s.ID,
		Title:       s.Title,
		Description: s.Description,
		Kind:        s.Kind,
		Priority:    s.Priority,
	}
	c.adjuster.ApplyToDef(&def)

	obj, err := mgr.Registry().Create(string(s.Scope), def, nil)
	if err != nil {
		return nil, fmt.Errorf("building suggested objective: %w", err)
	}
	if err := mgr.Add(obj); err != nil {
		return nil, fmt.Errorf("registering suggested objective: %w", err)
	}
	c.logger.Printf("[AI][INFO][SUGGEST] implemented %q as %s/%s", s.Title, s.Scope, s.Kind)
	return obj, nil
}

func (c *Coordinator) loadCache(ctx context.Context) []Suggestion {
	if c.cfg.Redis != nil {
		raw, err := c.cfg.Redis.Get(ctx, suggestionCacheKey).Bytes()
		if err == nil {
			var out []Suggestion
			if json.Unmarshal(raw, &out) == nil {
				return out
			}
		} else if err != redis.Nil {
			c.logger.Printf("[AI][WARN][CACHE] redis read failed: %v", err)
		}
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil && time.Since(c.cachedAt) < c.cfg.SuggestionTTL {
		out := make([]Suggestion, len(c.cached))
		copy(out, c.cached)
		return out
	}
	return nil
}

func (c *Coordinator) storeCache(ctx context.Context, suggestions []Suggestion) {
	if c.cfg.Redis != nil {
		raw, err := json.Marshal(suggestions)
		if err == nil {
			err = c.cfg.Redis.Set(ctx, suggestionCacheKey, raw, c.cfg.SuggestionTTL).Err()
		}
		if err != nil {
			c.logger.Printf("[AI][WARN][CACHE] redis write failed: %v", err)
		}
		return
	}
	c.mu.Lock()
	c.cached = append([]Suggestion(nil), suggestions...)
	c.cachedAt = time.Now()
	c.mu.Unlock()
}

func tail(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

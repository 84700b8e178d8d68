package achievement

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Store persists unlocks and cross-session counters. The engine works
// without one; a nil store keeps everything in memory.
type Store interface {
	SaveUnlock(u *Unlock) error
	LoadUnlocks(playerID string) ([]Unlock, error)
	SaveStats(playerID string, stats map[string]interface{}) error
	LoadStats(playerID string) (map[string]interface{}, error)
}

// UnlockRecord is the in-memory view of one earned achievement.
type UnlockRecord struct {
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	Points        int       `json:"points"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// Engine evaluates gameplay signals against the achievement catalog.
type Engine struct {
	mu       sync.RWMutex
	playerID string
	defs     map[string]Definition
	order    []string
	unlocked map[string]UnlockRecord
	stats    map[string]interface{}
	store    Store
	logger   *log.Logger
}

// NewEngine builds an engine over the given catalog. Passing nil defs
// loads the default catalog. Previously earned unlocks and counters are
// restored from the store when one is provided.
func NewEngine(playerID string, defs []Definition, store Store) (*Engine, error) {
	if defs == nil {
		defs = DefaultCatalog()
	}
	e := &Engine{
		playerID: playerID,
		defs:     make(map[string]Definition, len(defs)),
		unlocked: make(map[string]UnlockRecord),
		stats:    make(map[string]interface{}),
		store:    store,
		logger:   log.Default(),
	}
	for _, d := range defs {
		if _, dup := e.defs[d.ID]; dup {
			return nil, fmt.Errorf("duplicate achievement id %q", d.ID)
		}
		e.defs[d.ID] = d
		e.order = append(e.order, d.ID)
	}
	if store != nil {
		rows, err := store.LoadUnlocks(playerID)
		if err != nil {
			return nil, fmt.Errorf("loading unlocks: %w", err)
		}
		for _, row := range rows {
			name := row.AchievementID
			if d, ok := e.defs[row.AchievementID]; ok {
				name = d.Name
			}
			e.unlocked[row.AchievementID] = UnlockRecord{
				AchievementID: row.AchievementID,
				Name:          name,
				Points:        row.Points,
				UnlockedAt:    row.UnlockedAt,
			}
		}
		stats, err := store.LoadStats(playerID)
		if err != nil {
			return nil, fmt.Errorf("loading stats: %w", err)
		}
		if stats != nil {
			e.stats = stats
		}
	}
	return e, nil
}

// RecordStat bumps a cumulative counter by delta.
func (e *Engine) RecordStat(key string, delta float64) {
	e.mu.Lock()
	cur, _ := toFloat(e.stats[key])
	e.stats[key] = cur + delta
	e.mu.Unlock()
}

// SetStat overwrites a counter or flag.
func (e *Engine) SetStat(key string, value interface{}) {
	e.mu.Lock()
	e.stats[key] = value
	e.mu.Unlock()
}

// Stats returns a copy of the cumulative counters.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]interface{}, len(e.stats))
	for k, v := range e.stats {
		out[k] = v
	}
	return out
}

// HandleEvent evaluates every locked achievement against the signal and
// returns the records unlocked by it, in catalog order. Unlocking is
// idempotent: an already-earned achievement is never re-awarded.
func (e *Engine) HandleEvent(eventType string, data map[string]interface{}) []UnlockRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	sig := Signal{Type: eventType, Data: data, Stats: e.stats}
	var earned []UnlockRecord
	for _, id := range e.order {
		def := e.defs[id]
		if _, done := e.unlocked[id]; done {
			continue
		}
		if !e.prereqsMet(def) {
			continue
		}
		if !allSatisfied(def.Criteria, sig) {
			continue
		}
		rec := e.award(def)
		earned = append(earned, rec)
	}
	if len(earned) > 0 && e.store != nil {
		if err := e.store.SaveStats(e.playerID, e.stats); err != nil {
			e.logger.Printf("[Achievements][WARN][STORE] saving stats: %v", err)
		}
	}
	return earned
}

func (e *Engine) award(def Definition) UnlockRecord {
	rec := UnlockRecord{
		AchievementID: def.ID,
		Name:          def.Name,
		Points:        def.Points,
		UnlockedAt:    time.Now(),
	}
	e.unlocked[def.ID] = rec
	e.logger.Printf("[Achievements][INFO][UNLOCK] %s (%s, %d pts)", def.Name, def.Rarity, def.Points)
	if e.store != nil {
		row := &Unlock{
			PlayerID:      e.playerID,
			AchievementID: def.ID,
			UnlockedAt:    rec.UnlockedAt,
			Points:        def.Points,
		}
		if err := e.store.SaveUnlock(row); err != nil {
			e.logger.Printf("[Achievements][WARN][STORE] saving unlock %s: %v", def.ID, err)
		}
	}
	return rec
}

func (e *Engine) prereqsMet(def Definition) bool {
	for _, pre := range def.Prerequisites {
		if _, ok := e.unlocked[pre]; !ok {
			return false
		}
	}
	return true
}

func allSatisfied(criteria []Criterion, sig Signal) bool {
	if len(criteria) == 0 {
		return false
	}
	for _, c := range criteria {
		if !c.satisfied(sig) {
			return false
		}
	}
	return true
}

// IsUnlocked reports whether the player has earned the achievement.
func (e *Engine) IsUnlocked(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.unlocked[id]
	return ok
}

// Unlocked returns earned records sorted by unlock time.
func (e *Engine) Unlocked() []UnlockRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]UnlockRecord, 0, len(e.unlocked))
	for _, rec := range e.unlocked {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UnlockedAt.Equal(out[j].UnlockedAt) {
			return out[i].UnlockedAt.Before(out[j].UnlockedAt)
		}
		return out[i].AchievementID < out[j].AchievementID
	})
	return out
}

// Progress reports how close the player is to the achievement. Hidden
// achievements report no next-criterion hint while locked.
func (e *Engine) Progress(id string) (ProgressInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	def, ok := e.defs[id]
	if !ok {
		return ProgressInfo{}, fmt.Errorf("unknown achievement %q", id)
	}
	info := ProgressInfo{
		AchievementID: def.ID,
		Name:          def.Name,
		Total:         len(def.Criteria),
	}
	if _, done := e.unlocked[id]; done {
		info.Unlocked = true
		info.Satisfied = info.Total
		info.Fraction = 1
		return info, nil
	}
	if !e.prereqsMet(def) {
		info.Blocked = true
	}
	sig := Signal{Stats: e.stats}
	for _, c := range def.Criteria {
		if c.satisfied(sig) {
			info.Satisfied++
		} else if info.NextCriterion == "" && !def.Hidden {
			info.NextCriterion = c.String()
		}
	}
	if info.Total > 0 {
		info.Fraction = float64(info.Satisfied) / float64(info.Total)
	}
	return info, nil
}

// AllProgress returns progress for every visible achievement plus any
// hidden ones already earned, in catalog order.
func (e *Engine) AllProgress() []ProgressInfo {
	e.mu.RLock()
	ids := make([]string, len(e.order))
	copy(ids, e.order)
	e.mu.RUnlock()

	var out []ProgressInfo
	for _, id := range ids {
		e.mu.RLock()
		def := e.defs[id]
		_, done := e.unlocked[id]
		e.mu.RUnlock()
		if def.Hidden && !done {
			continue
		}
		info, err := e.Progress(id)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Completion returns the rarity-weighted completion percentage in [0,100].
func (e *Engine) Completion() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	total, earned := 0, 0
	for _, id := range e.order {
		w := e.defs[id].Rarity.Weight()
		total += w
		if _, done := e.unlocked[id]; done {
			earned += w
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(earned) / float64(total)
}

// TotalPoints sums the points of earned achievements.
func (e *Engine) TotalPoints() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sum := 0
	for _, rec := range e.unlocked {
		sum += rec.Points
	}
	return sum
}

// Persist writes the cumulative counters to the store, when present.
func (e *Engine) Persist() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.store == nil {
		return nil
	}
	return e.store.SaveStats(e.playerID, e.stats)
}

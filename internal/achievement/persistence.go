package achievement

import (
	"encoding/json"
	"os"
	"time"
)

// Statistics breaks unlock counts down by category and rarity.
type Statistics struct {
	Unlocked   int            `json:"unlocked"`
	Total      int            `json:"total"`
	Points     int            `json:"points"`
	Completion float64        `json:"completion_pct"`
	ByCategory map[string]int `json:"by_category"`
	ByRarity   map[Rarity]int `json:"by_rarity"`
}

// Statistics summarizes earned achievements.
func (e *Engine) Statistics() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	stats := Statistics{
		Total:      len(e.order),
		ByCategory: make(map[string]int),
		ByRarity:   make(map[Rarity]int),
	}
	for id := range e.unlocked {
		def, ok := e.defs[id]
		if !ok {
			continue
		}
		stats.Unlocked++
		stats.Points += def.Points
		stats.ByCategory[def.Category]++
		stats.ByRarity[def.Rarity]++
	}
	totalWeight, earnedWeight := 0, 0
	for _, id := range e.order {
		w := e.defs[id].Rarity.Weight()
		totalWeight += w
		if _, done := e.unlocked[id]; done {
			earnedWeight += w
		}
	}
	if totalWeight > 0 {
		stats.Completion = 100 * float64(earnedWeight) / float64(totalWeight)
	}
	return stats
}

type saveDocument struct {
	SavedAt  time.Time              `json:"saved_at"`
	Unlocked []UnlockRecord         `json:"unlocked"`
	Stats    map[string]interface{} `json:"stats"`
}

// SaveToFile writes earned achievements and counters as JSON. Returns
// false on any failure; the in-memory state stays authoritative.
func (e *Engine) SaveToFile(path string) bool {
	e.mu.RLock()
	doc := saveDocument{SavedAt: time.Now(), Stats: make(map[string]interface{}, len(e.stats))}
	for _, rec := range e.unlocked {
		doc.Unlocked = append(doc.Unlocked, rec)
	}
	for k, v := range e.stats {
		doc.Stats[k] = v
	}
	e.mu.RUnlock()

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		e.logger.Printf("[Achievements][ERROR][SAVE] encoding: %v", err)
		return false
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		e.logger.Printf("[Achievements][ERROR][SAVE] writing %s: %v", path, err)
		return false
	}
	return true
}

// LoadFromFile restores earned achievements and counters from a save.
// Unknown achievement ids are kept (a newer save may carry entries this
// build's catalog lacks). Returns false on any failure.
func (e *Engine) LoadFromFile(path string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		e.logger.Printf("[Achievements][ERROR][LOAD] reading %s: %v", path, err)
		return false
	}
	var doc saveDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		e.logger.Printf("[Achievements][ERROR][LOAD] decoding %s: %v", path, err)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.unlocked = make(map[string]UnlockRecord, len(doc.Unlocked))
	for _, rec := range doc.Unlocked {
		e.unlocked[rec.AchievementID] = rec
	}
	e.stats = doc.Stats
	if e.stats == nil {
		e.stats = make(map[string]interface{})
	}
	return true
}

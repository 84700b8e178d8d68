package objective

import (
	"fmt"
	"time"
)

// DisplayInfo is the player-facing rendering of one objective.
type DisplayInfo struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Scope         string  `json:"scope"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	ProgressPct   int     `json:"progress_pct"`
	ProgressBar   string  `json:"progress_bar"`
	TimeRemaining string  `json:"time_remaining,omitempty"`
	Progress      float64 `json:"progress"`
}

// Display renders the core for the objective journal.
func (c *Core) Display() DisplayInfo {
	info := DisplayInfo{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Scope:       string(c.Scope),
		Status:      string(c.Status),
		Priority:    c.EffectivePriority().String(),
		Progress:    c.Progress,
		ProgressPct: int(c.Progress * 100),
		ProgressBar: progressBar(c.Progress, 10),
	}
	if rem := c.TimeRemaining(); rem > 0 {
		info.TimeRemaining = formatRemaining(rem)
	}
	return info
}

// DisplaySummary renders the journal: active objectives by priority
// plus headline counters.
func (m *Manager) DisplaySummary() map[string]interface{} {
	active := m.Active()
	entries := make([]DisplayInfo, 0, len(active))
	for _, o := range active {
		entries = append(entries, o.Base().Display())
	}
	total, inPlay := m.Count()
	return map[string]interface{}{
		"active":       entries,
		"active_count": inPlay,
		"total_count":  total,
		"statistics":   m.stats,
	}
}

func progressBar(p float64, width int) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p * float64(width))
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func formatRemaining(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

package objective

import "time"

// Modifier is one read-time adjustment layered over an objective's
// immutable base definition. Madness effects push modifiers instead of
// rewriting base fields, so lifting an effect is a pop, not a guess at
// what the original values were.
type Modifier struct {
	Source         string        `json:"source"`
	PriorityDelta  int           `json:"priority_delta,omitempty"`
	TimeLimitDelta time.Duration `json:"time_limit_delta,omitempty"`
	ExtraActions   []string      `json:"extra_actions,omitempty"`
	AppliedAt      time.Time     `json:"applied_at"`
}

// PushModifier layers a new adjustment on top of the stack.
func (c *Core) PushModifier(m Modifier) {
	if m.AppliedAt.IsZero() {
		m.AppliedAt = time.Now()
	}
	c.modifiers = append(c.modifiers, m)
	c.logEvent("modifier_applied", map[string]interface{}{
		"source":           m.Source,
		"priority_delta":   m.PriorityDelta,
		"time_limit_delta": m.TimeLimitDelta.Seconds(),
		"extra_actions":    m.ExtraActions,
	})
}

// RemoveModifiers pops every modifier from the given source and reports
// how many were removed.
func (c *Core) RemoveModifiers(source string) int {
	kept := c.modifiers[:0]
	removed := 0
	for _, m := range c.modifiers {
		if m.Source == source {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	c.modifiers = kept
	if removed > 0 {
		c.logEvent("modifier_removed", map[string]interface{}{
			"source": source,
			"count":  removed,
		})
	}
	return removed
}

// Modifiers returns a copy of the active stack, oldest first.
func (c *Core) Modifiers() []Modifier {
	return append([]Modifier(nil), c.modifiers...)
}

// EffectivePriority is base priority plus stacked deltas, clamped to
// the valid band.
func (c *Core) EffectivePriority() Priority {
	p := int(c.Priority)
	for _, m := range c.modifiers {
		p += m.PriorityDelta
	}
	return clampPriority(Priority(p))
}

// EffectiveTimeLimit is the base limit plus stacked deltas. An
// unlimited base stays unlimited; a limited base never drops below one
// minute.
func (c *Core) EffectiveTimeLimit() time.Duration {
	if c.TimeLimit <= 0 {
		return c.TimeLimit
	}
	limit := c.TimeLimit
	for _, m := range c.modifiers {
		limit += m.TimeLimitDelta
	}
	if limit < time.Minute {
		limit = time.Minute
	}
	return limit
}

// ExtraRequiredActions collects compulsion actions contributed by the
// stack, in application order.
func (c *Core) ExtraRequiredActions() []string {
	var out []string
	for _, m := range c.modifiers {
		out = append(out, m.ExtraActions...)
	}
	return out
}

package ai

import (
	"math"
	"sync"
	"time"

	"go-mythos/internal/objective"
)

// DefaultHistoryWindow is how many outcomes the adjuster remembers.
const DefaultHistoryWindow = 10

// AdjusterConfig tunes the feedback loop.
type AdjusterConfig struct {
	TargetSuccessRate float64
	Sensitivity       float64
	Window            int
}

func DefaultAdjusterConfig() AdjusterConfig {
	return AdjusterConfig{TargetSuccessRate: 0.7, Sensitivity: 0.1, Window: DefaultHistoryWindow}
}

// DifficultyAdjuster keeps a rolling window of objective outcomes and
// derives a difficulty delta. Negative values harden the game (the
// player is succeeding above target), positive values soften it.
type DifficultyAdjuster struct {
	mu       sync.Mutex
	cfg      AdjusterConfig
	outcomes []bool
}

func NewDifficultyAdjuster(cfg AdjusterConfig) *DifficultyAdjuster {
	if cfg.Window <= 0 {
		cfg.Window = DefaultHistoryWindow
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = 0.1
	}
	if cfg.TargetSuccessRate <= 0 || cfg.TargetSuccessRate > 1 {
		cfg.TargetSuccessRate = 0.7
	}
	return &DifficultyAdjuster{cfg: cfg}
}

// Record appends one outcome, evicting the oldest past the window.
func (d *DifficultyAdjuster) Record(success bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes = append(d.outcomes, success)
	if len(d.outcomes) > d.cfg.Window {
		d.outcomes = d.outcomes[len(d.outcomes)-d.cfg.Window:]
	}
}

// Adjustment returns the current delta in [-1, 1]. With no history it
// is zero: never tune the game on guesswork.
func (d *DifficultyAdjuster) Adjustment() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.outcomes)
	if n == 0 {
		return 0
	}
	rate := successRate(d.outcomes)
	trend := successRate(d.outcomes[n/2:]) - successRate(d.outcomes[:n/2])
	return computeAdjustment(rate, d.cfg.TargetSuccessRate, d.cfg.Sensitivity, trend)
}

// computeAdjustment is the core formula: deviation from the target rate
// doubled (it is the stronger signal), plus the recent trend, both scaled
// by sensitivity, clamped to [-1, 1].
func computeAdjustment(rate, target, sensitivity, trend float64) float64 {
	adj := -(rate-target)*sensitivity*2 - trend*sensitivity
	if adj > 1 {
		return 1
	}
	if adj < -1 {
		return -1
	}
	return adj
}

func successRate(outcomes []bool) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	wins := 0
	for _, ok := range outcomes {
		if ok {
			wins++
		}
	}
	return float64(wins) / float64(len(outcomes))
}

// ApplyToDef scales a definition's knobs by the current adjustment
// before construction. Harder means less time and, past |0.5|, a
// priority step.
func (d *DifficultyAdjuster) ApplyToDef(def *objective.Def) {
	adj := d.Adjustment()
	if def.TimeLimit > 0 {
		scaled := time.Duration(float64(def.TimeLimit) * (1 + adj))
		if scaled < time.Minute {
			scaled = time.Minute
		}
		def.TimeLimit = scaled
	}
	switch {
	case adj < -0.5:
		def.Priority = objective.ClampPriority(int(def.Priority) + 1)
	case adj > 0.5:
		def.Priority = objective.ClampPriority(int(def.Priority) - 1)
	}
}

// AdjustCount scales an integer knob (milestone counts, required
// actions) the opposite way from time: harder means more of them.
func (d *DifficultyAdjuster) AdjustCount(count int) int {
	if count <= 0 {
		return count
	}
	scaled := int(math.Round(float64(count) * (1 - d.Adjustment())))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// AdjustRisk shifts a 1..10 risk level: harder raises it.
func (d *DifficultyAdjuster) AdjustRisk(risk int) int {
	adj := d.Adjustment()
	switch {
	case adj < -0.3:
		risk++
	case adj > 0.3:
		risk--
	}
	if risk < 1 {
		risk = 1
	}
	if risk > 10 {
		risk = 10
	}
	return risk
}

// Outcomes returns a copy of the recorded window, oldest first.
func (d *DifficultyAdjuster) Outcomes() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]bool, len(d.outcomes))
	copy(out, d.outcomes)
	return out
}

package ai

import (
	"math"
	"testing"
	"time"

	"go-mythos/internal/objective"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeAdjustment(t *testing.T) {
	cases := []struct {
		name                            string
		rate, target, sensitivity, trend float64
		want                            float64
	}{
		{"succeeding above target", 0.9, 0.7, 0.1, 0, -0.04},
		{"on target, flat", 0.7, 0.7, 0.1, 0, 0},
		{"failing below target", 0.4, 0.7, 0.1, 0, 0.06},
		{"improving trend hardens further", 0.9, 0.7, 0.1, 0.4, -0.08},
		{"declining trend softens", 0.7, 0.7, 0.1, -0.5, 0.05},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeAdjustment(tc.rate, tc.target, tc.sensitivity, tc.trend)
			if !almostEqual(got, tc.want) {
				t.Fatalf("adjustment = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestComputeAdjustment_Clamped(t *testing.T) {
	if got := computeAdjustment(1, 0, 10, 1); got != -1 {
		t.Fatalf("lower clamp: %f", got)
	}
	if got := computeAdjustment(0, 1, 10, -1); got != 1 {
		t.Fatalf("upper clamp: %f", got)
	}
}

func TestAdjuster_EmptyHistoryIsNeutral(t *testing.T) {
	d := NewDifficultyAdjuster(DefaultAdjusterConfig())
	if got := d.Adjustment(); got != 0 {
		t.Fatalf("adjustment with no history = %f", got)
	}
}

func TestAdjuster_WindowEviction(t *testing.T) {
	d := NewDifficultyAdjuster(AdjusterConfig{TargetSuccessRate: 0.7, Sensitivity: 0.1, Window: 4})
	for i := 0; i < 10; i++ {
		d.Record(false)
	}
	for i := 0; i < 4; i++ {
		d.Record(true)
	}
	if got := len(d.Outcomes()); got != 4 {
		t.Fatalf("window length = %d, want 4", got)
	}
	// window is all successes: rate 1.0, trend 0
	want := computeAdjustment(1.0, 0.7, 0.1, 0)
	if got := d.Adjustment(); !almostEqual(got, want) {
		t.Fatalf("adjustment = %f, want %f", got, want)
	}
}

func TestAdjuster_TrendFromHalves(t *testing.T) {
	d := NewDifficultyAdjuster(DefaultAdjusterConfig())
	// first half 1/5 successes, second half 4/5: rate 0.5, trend +0.6
	for _, ok := range []bool{true, false, false, false, false, true, true, true, true, false} {
		d.Record(ok)
	}
	want := computeAdjustment(0.5, 0.7, 0.1, 0.6)
	if got := d.Adjustment(); !almostEqual(got, want) {
		t.Fatalf("adjustment = %f, want %f", got, want)
	}
}

func TestAdjuster_ApplyToDef(t *testing.T) {
	d := NewDifficultyAdjuster(AdjusterConfig{TargetSuccessRate: 0.5, Sensitivity: 1, Window: 10})
	for i := 0; i < 10; i++ {
		d.Record(true) // rate 1.0, trend 0 -> adjustment -1
	}
	if got := d.Adjustment(); got != -1 {
		t.Fatalf("adjustment = %f, want -1", got)
	}

	def := objective.Def{TimeLimit: 30 * time.Minute, Priority: objective.PriorityMedium}
	d.ApplyToDef(&def)
	// time scaled by (1 + adj) = 0 but floored at a minute
	if def.TimeLimit != time.Minute {
		t.Fatalf("time limit = %v", def.TimeLimit)
	}
	if def.Priority != objective.PriorityHigh {
		t.Fatalf("priority = %v, want high", def.Priority)
	}

	if got := d.AdjustCount(3); got != 6 {
		t.Fatalf("count = %d, want 6", got)
	}
	if got := d.AdjustRisk(10); got != 10 {
		t.Fatalf("risk stays clamped, got %d", got)
	}
	if got := d.AdjustRisk(4); got != 5 {
		t.Fatalf("risk = %d, want 5", got)
	}
}

func TestAdjuster_UnlimitedTimeStaysUnlimited(t *testing.T) {
	d := NewDifficultyAdjuster(DefaultAdjusterConfig())
	for i := 0; i < 10; i++ {
		d.Record(true)
	}
	def := objective.Def{TimeLimit: 0, Priority: objective.PriorityLow}
	d.ApplyToDef(&def)
	if def.TimeLimit != 0 {
		t.Fatalf("time limit = %v, want 0", def.TimeLimit)
	}
}

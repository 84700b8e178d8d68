package achievement

import (
	"fmt"
	"strings"
)

// Signal is one gameplay event fed to the engine. Stats carry the
// player's cumulative counters; Data is event-local payload.
type Signal struct {
	Type  string
	Data  map[string]interface{}
	Stats map[string]interface{}
}

func (c Criterion) satisfied(sig Signal) bool {
	switch c.Trigger {
	case TriggerStatThreshold:
		return compare(c.Operator, sig.Stats[c.Key], c.Value)
	case TriggerObjectiveCompletion:
		if isCountOp(c.Operator) {
			return compare(c.Operator, sig.Stats[c.Key], c.Value)
		}
		if sig.Type != "objective_completed" {
			return false
		}
		return compare(c.Operator, sig.Data[c.Key], c.Value)
	case TriggerEventOccurrence:
		if isCountOp(c.Operator) {
			return compare(c.Operator, sig.Stats[c.Key], c.Value)
		}
		return sig.Type == c.Key
	case TriggerConditionMet:
		got := sig.Stats[c.Key]
		if got == nil {
			got = sig.Data[c.Key]
		}
		return compare(c.Operator, got, c.Value)
	case TriggerSequenceCompletion:
		return containsSequence(sig.Stats[c.Key], c.Value)
	default:
		return false
	}
}

func isCountOp(op Operator) bool {
	return op == OpCountGte || op == OpCountEq
}

func compare(op Operator, got, want interface{}) bool {
	switch op {
	case OpEq:
		return looseEqual(got, want)
	case OpGt, OpGte, OpLt, OpLte, OpCountGte, OpCountEq:
		g, gok := toFloat(got)
		w, wok := toFloat(want)
		if !gok {
			// count variants also accept a collection whose length is counted
			if n, ok := collectionLen(got); ok && isCountOp(op) {
				g, gok = float64(n), true
			}
		}
		if !gok || !wok {
			return false
		}
		switch op {
		case OpGt:
			return g > w
		case OpGte, OpCountGte:
			return g >= w
		case OpLt:
			return g < w
		case OpLte:
			return g <= w
		case OpCountEq:
			return g == w
		}
		return false
	case OpIn:
		items, ok := toSlice(want)
		if !ok {
			return false
		}
		for _, item := range items {
			if looseEqual(got, item) {
				return true
			}
		}
		return false
	case OpContains:
		if s, ok := got.(string); ok {
			w, _ := want.(string)
			return w != "" && strings.Contains(s, w)
		}
		items, ok := toSlice(got)
		if !ok {
			return false
		}
		for _, item := range items {
			if looseEqual(item, want) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// containsSequence checks that want's elements appear in got in order,
// not necessarily adjacent.
func containsSequence(got, want interface{}) bool {
	g, gok := toSlice(got)
	w, wok := toSlice(want)
	if !gok || !wok || len(w) == 0 {
		return false
	}
	i := 0
	for _, item := range g {
		if looseEqual(item, w[i]) {
			i++
			if i == len(w) {
				return true
			}
		}
	}
	return false
}

func looseEqual(got, want interface{}) bool {
	if got == want {
		return true
	}
	if g, ok := toFloat(got); ok {
		if w, ok := toFloat(want); ok {
			return g == w
		}
	}
	return fmt.Sprintf("%v", got) == fmt.Sprintf("%v", want) && got != nil && want != nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

func toSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []string:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func collectionLen(v interface{}) (int, bool) {
	if s, ok := toSlice(v); ok {
		return len(s), true
	}
	if m, ok := v.(map[string]interface{}); ok {
		return len(m), true
	}
	return 0, false
}

package ai

import (
	"context"
	"errors"
	"testing"
)

func TestAnalyzer_DominantPattern(t *testing.T) {
	a := NewAnalyzer()
	profile := a.Analyze(map[string]int{
		"investigate": 6,
		"examine":     3,
		"attack":      1,
		"unknowable":  4, // unmapped actions are ignored
	})
	if profile.Primary != PatternInvestigative {
		t.Fatalf("primary = %s, want investigative", profile.Primary)
	}
	if profile.Confidence <= 0.5 {
		t.Fatalf("confidence = %f, want > 0.5", profile.Confidence)
	}

	sum := 0.0
	for _, s := range profile.Scores {
		sum += s
	}
	if !almostEqual(sum, 1) {
		t.Fatalf("scores sum = %f, want 1", sum)
	}
}

func TestAnalyzer_EmptyHistory(t *testing.T) {
	a := NewAnalyzer()
	profile := a.Analyze(nil)
	if profile.Primary != PatternCautious || profile.Confidence != 0 {
		t.Fatalf("empty profile = %+v", profile)
	}
}

type fakeLLM struct {
	body []byte
	err  error
}

func (f *fakeLLM) Call(_ context.Context, _ string, _ map[string]interface{}) ([]byte, error) {
	return f.body, f.err
}

func TestAnalyzer_RefineFailsSilently(t *testing.T) {
	a := NewAnalyzer()
	base := a.Analyze(map[string]int{"attack": 5})

	got := a.Refine(context.Background(), &fakeLLM{err: errors.New("down")}, "http://llm", base, nil)
	if got.Refined || got.Primary != base.Primary {
		t.Fatalf("failed refinement must not change the profile: %+v", got)
	}

	got = a.Refine(context.Background(), nil, "", base, nil)
	if got.Refined {
		t.Fatal("nil service must not refine")
	}
}

func TestAnalyzer_RefineAppliesModelAnswer(t *testing.T) {
	a := NewAnalyzer()
	base := a.Analyze(map[string]int{"attack": 5})

	svc := &fakeLLM{body: []byte("Here you go:\n```json\n{\"primary\": \"horror_seeker\", \"confidence\": 0.85}\n```\n")}
	got := a.Refine(context.Background(), svc, "http://llm", base, []string{"attack", "ritual"})
	if !got.Refined || got.Primary != PatternHorrorSeeker || got.Confidence != 0.85 {
		t.Fatalf("refined = %+v", got)
	}

	// an invalid pattern name is rejected
	svc = &fakeLLM{body: []byte(`{"primary": "speedrunner", "confidence": 0.9}`)}
	got = a.Refine(context.Background(), svc, "http://llm", base, nil)
	if got.Refined || got.Primary != base.Primary {
		t.Fatalf("invalid pattern accepted: %+v", got)
	}
}

func TestParseStructuredResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
		key  string
		want interface{}
	}{
		{"bare json", `{"primary": "cautious"}`, "primary", "cautious"},
		{"fenced json", "The answer:\n```json\n{\"primary\": \"social\"}\n```", "primary", "social"},
		{"plain fence", "```\n{\"x\": 1}\n```", "x", float64(1)},
		{"prose around object", "I think {\"primary\": \"explorer\"} fits best.", "primary", "explorer"},
		{"backend envelope", `{"response": "{\"primary\": \"survival\"}"}`, "primary", "survival"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseStructuredResponse([]byte(tc.body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got[tc.key] != tc.want {
				t.Fatalf("%s = %v, want %v", tc.key, got[tc.key], tc.want)
			}
		})
	}

	if _, err := parseStructuredResponse([]byte("no json here")); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// patternWeights maps action types to the patterns they evidence.
var patternWeights = map[string]map[BehaviorPattern]float64{
	"investigate": {PatternInvestigative: 1.0},
	"search":      {PatternInvestigative: 0.8, PatternExplorer: 0.2},
	"examine":     {PatternInvestigative: 0.8},
	"research":    {PatternInvestigative: 0.6, PatternPuzzleSolver: 0.4},
	"attack":      {PatternAggressive: 1.0},
	"confront":    {PatternAggressive: 0.7, PatternSocial: 0.3},
	"threaten":    {PatternAggressive: 0.8},
	"retreat":     {PatternCautious: 1.0},
	"hide":        {PatternCautious: 0.9},
	"wait":        {PatternCautious: 0.6},
	"rest":        {PatternCautious: 0.4, PatternSurvival: 0.6},
	"talk":        {PatternSocial: 1.0},
	"persuade":    {PatternSocial: 0.9},
	"ask":         {PatternSocial: 0.7, PatternInvestigative: 0.3},
	"travel":      {PatternExplorer: 0.9},
	"explore":     {PatternExplorer: 1.0},
	"enter":       {PatternExplorer: 0.6, PatternCautious: -0.1},
	"heal":        {PatternSurvival: 1.0},
	"fortify":     {PatternSurvival: 0.8, PatternCautious: 0.2},
	"supply":      {PatternSurvival: 0.7},
	"decode":      {PatternPuzzleSolver: 1.0},
	"solve":       {PatternPuzzleSolver: 0.9},
	"cipher":      {PatternPuzzleSolver: 0.8},
	"ritual":      {PatternHorrorSeeker: 1.0},
	"occult":      {PatternHorrorSeeker: 0.9},
	"forbidden":   {PatternHorrorSeeker: 0.8},
}

var allPatterns = []BehaviorPattern{
	PatternAggressive, PatternCautious, PatternExplorer, PatternHorrorSeeker,
	PatternInvestigative, PatternPuzzleSolver, PatternSocial, PatternSurvival,
}

// Analyzer reduces action histograms to a behavior profile.
type Analyzer struct {
	logger *log.Logger
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{logger: log.Default()}
}

// Analyze scores the histogram of action types. Scores are normalized to
// sum 1; confidence is the primary pattern's share.
func (a *Analyzer) Analyze(actionCounts map[string]int) BehaviorProfile {
	scores := make(map[BehaviorPattern]float64, len(allPatterns))
	for action, n := range actionCounts {
		weights, ok := patternWeights[strings.ToLower(action)]
		if !ok {
			continue
		}
		for p, w := range weights {
			scores[p] += w * float64(n)
		}
	}

	total := 0.0
	for _, s := range scores {
		if s > 0 {
			total += s
		}
	}
	profile := BehaviorProfile{Primary: PatternCautious, Scores: make(map[BehaviorPattern]float64)}
	if total == 0 {
		return profile
	}
	for p, s := range scores {
		if s < 0 {
			s = 0
		}
		profile.Scores[p] = s / total
	}

	// deterministic winner: highest share, alphabetical tie-break
	best := BehaviorPattern("")
	for _, p := range allPatterns {
		if best == "" || profile.Scores[p] > profile.Scores[best] {
			best = p
		}
	}
	profile.Primary = best
	profile.Confidence = profile.Scores[best]
	return profile
}

// Refine asks the LLM to second-guess the heuristic profile. Any failure
// (no service, timeout, unparseable output) returns the heuristic profile
// untouched; this call never blocks a turn beyond ctx.
func (a *Analyzer) Refine(ctx context.Context, svc LLMService, url string, profile BehaviorProfile, recentActions []string) BehaviorProfile {
	if svc == nil || url == "" {
		return profile
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	payload := map[string]interface{}{
		"prompt": fmt.Sprintf(
			"Given recent player actions %v and heuristic play-style scores %v, "+
				"answer with a JSON object {\"primary\": <pattern>, \"confidence\": <0..1>} "+
				"choosing from %v.", recentActions, profile.Scores, allPatterns),
		"stream": false,
	}
	body, err := svc.Call(ctx, url, payload)
	if err != nil {
		a.logger.Printf("[AI][WARN][ANALYZE] refinement skipped: %v", err)
		return profile
	}
	parsed, err := parseStructuredResponse(body)
	if err != nil {
		a.logger.Printf("[AI][WARN][ANALYZE] unparseable refinement: %v", err)
		return profile
	}
	primary, _ := parsed["primary"].(string)
	if !validPattern(BehaviorPattern(primary)) {
		return profile
	}
	refined := profile
	refined.Primary = BehaviorPattern(primary)
	if c, ok := parsed["confidence"].(float64); ok && c >= 0 && c <= 1 {
		refined.Confidence = c
	}
	refined.Refined = true
	return refined
}

func validPattern(p BehaviorPattern) bool {
	for _, known := range allPatterns {
		if p == known {
			return true
		}
	}
	return false
}

// parseStructuredResponse pulls a JSON object out of model output, which
// tends to wrap it in a fenced code block or surround it with prose.
func parseStructuredResponse(body []byte) (map[string]interface{}, error) {
	text := string(body)

	// some backends wrap the generation in a response envelope
	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Response != "" {
		text = envelope.Response
	}

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("decoding response JSON: %w", err)
	}
	return out, nil
}

// sortedScores is a debugging aid for log lines.
func sortedScores(scores map[BehaviorPattern]float64) string {
	keys := make([]string, 0, len(scores))
	for p := range scores {
		keys = append(keys, string(p))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.2f", k, scores[BehaviorPattern(k)])
	}
	return strings.Join(parts, " ")
}

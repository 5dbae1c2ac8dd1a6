package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed prompts/score-system-prompt.md
var scoreSystemPrompt string

//go:embed prompts/score-schema.json
var scoreSchema string

// ScoreResult is either (Score, Feedback) or a Failure
type ScoreResult struct {
	Score    int
	Feedback string
	Failure  *Failure
}

// OK reports whether the evaluator produced a usable score
func (r ScoreResult) OK() bool { return r.Failure == nil }

// ScoreArticle rates content against the rule set. The rule texts are
// space-joined into the system prompt; the evaluator must answer through the
// score_article schema with a required integer score in [1,100].
func (c *Client) ScoreArticle(content string, rules []string) ScoreResult {
	systemPrompt := strings.ReplaceAll(scoreSystemPrompt, "{{.rules}}", strings.Join(rules, " "))

	text, failure := c.call(systemPrompt, content, scoreSchema)
	if failure != nil {
		return ScoreResult{Failure: failure}
	}

	var out struct {
		Score      *int   `json:"score"`
		Suggestion string `json:"suggestion"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return ScoreResult{Failure: &Failure{
			Reason: FailureMalformed,
			Err:    fmt.Errorf("parsing score response: %w", err),
		}}
	}
	if out.Score == nil {
		return ScoreResult{Failure: &Failure{
			Reason: FailureMalformed,
			Err:    fmt.Errorf("score response is missing the required score field"),
		}}
	}
	if *out.Score < 1 || *out.Score > 100 {
		return ScoreResult{Failure: &Failure{
			Reason: FailureMalformed,
			Err:    fmt.Errorf("score %d is outside [1,100]", *out.Score),
		}}
	}

	// Suggestion отдают не всегда - тогда фидбек пустой
	return ScoreResult{Score: *out.Score, Feedback: out.Suggestion}
}

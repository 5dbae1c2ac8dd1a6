package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed prompts/sync-system-prompt.md
var syncSystemPrompt string

//go:embed prompts/sync-schema.json
var syncSchema string

// SyncResult is either (SyncLevel, Suggestion) or a Failure
type SyncResult struct {
	SyncLevel  int
	Suggestion string
	Failure    *Failure
}

// OK reports whether the evaluator produced a usable sync level
func (r SyncResult) OK() bool { return r.Failure == nil }

// SyncArticle rates how stylistically close candidate is to reference.
// The evaluator must answer through the sync_article schema with a required
// integer sync_level in [1,100].
func (c *Client) SyncArticle(reference, candidate string) SyncResult {
	userPrompt := fmt.Sprintf("Benchmark text:\n%s\n\nNew submission:\n%s", reference, candidate)

	text, failure := c.call(syncSystemPrompt, userPrompt, syncSchema)
	if failure != nil {
		return SyncResult{Failure: failure}
	}

	var out struct {
		SyncLevel  *int   `json:"sync_level"`
		Suggestion string `json:"sync_suggestion"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return SyncResult{Failure: &Failure{
			Reason: FailureMalformed,
			Err:    fmt.Errorf("parsing sync response: %w", err),
		}}
	}
	if out.SyncLevel == nil {
		return SyncResult{Failure: &Failure{
			Reason: FailureMalformed,
			Err:    fmt.Errorf("sync response is missing the required sync_level field"),
		}}
	}
	if *out.SyncLevel < 1 || *out.SyncLevel > 100 {
		return SyncResult{Failure: &Failure{
			Reason: FailureMalformed,
			Err:    fmt.Errorf("sync_level %d is outside [1,100]", *out.SyncLevel),
		}}
	}

	return SyncResult{SyncLevel: *out.SyncLevel, Suggestion: out.Suggestion}
}

// Package ai wraps the external text evaluator. Both clients share the same
// contract: a typed result that is either values or a Failure, never an error
// surfaced to the caller.
package ai

import (
	"fmt"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// FailureReason classifies why an evaluator call produced no result
type FailureReason string

const (
	FailureTimeout   FailureReason = "timeout"
	FailureTransport FailureReason = "transport"
	FailureMalformed FailureReason = "malformed-response"
)

// Failure carries the reason and the underlying error for logs
type Failure struct {
	Reason FailureReason
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("evaluator failure (%s): %v", f.Reason, f.Err)
}

// Prompter is the single seam to the external service. The real implementation
// calls Anthropic through llmkit; tests substitute a deterministic fake.
type Prompter interface {
	Prompt(systemPrompt, userPrompt, schema string) (string, error)
}

type anthropicPrompter struct {
	apiKey   string
	settings types.RequestSettings
}

func (p *anthropicPrompter) Prompt(systemPrompt, userPrompt, schema string) (string, error) {
	response, err := anthropic.PromptWithSettings(systemPrompt, userPrompt, schema, p.apiKey, p.settings)
	if err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in evaluator response")
	}
	return response.Content[0].Text, nil
}

// Client is the injectable handle to the scoring/sync evaluator
type Client struct {
	prompter Prompter
	timeout  time.Duration
}

const defaultTimeout = 30 * time.Second

// New creates a Client talking to Anthropic
func New(apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	settings := types.RequestSettings{
		Model:       model,
		MaxTokens:   1000,
		Temperature: 0.0,
	}
	return &Client{
		prompter: &anthropicPrompter{apiKey: apiKey, settings: settings},
		timeout:  timeout,
	}, nil
}

// NewWithPrompter creates a Client over a custom Prompter (used in tests)
func NewWithPrompter(p Prompter, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{prompter: p, timeout: timeout}
}

// call runs one evaluator round trip under the bounded timeout.
// A hung remote call must not stall the save forever.
func (c *Client) call(systemPrompt, userPrompt, schema string) (string, *Failure) {
	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		text, err := c.prompter.Prompt(systemPrompt, userPrompt, schema)
		done <- outcome{text: text, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return "", &Failure{Reason: FailureTransport, Err: o.err}
		}
		return o.text, nil
	case <-time.After(c.timeout):
		return "", &Failure{Reason: FailureTimeout, Err: fmt.Errorf("evaluator call exceeded %s", c.timeout)}
	}
}

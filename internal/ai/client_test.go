package ai

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promptFunc func(systemPrompt, userPrompt, schema string) (string, error)

func (f promptFunc) Prompt(systemPrompt, userPrompt, schema string) (string, error) {
	return f(systemPrompt, userPrompt, schema)
}

func TestScoreArticle(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		err          error
		wantScore    int
		wantFeedback string
		wantReason   FailureReason
	}{
		{
			name:         "score with suggestion",
			response:     `{"score": 80, "suggestion": "use shorter sentences"}`,
			wantScore:    80,
			wantFeedback: "use shorter sentences",
		},
		{
			name:         "suggestion is optional",
			response:     `{"score": 100}`,
			wantScore:    100,
			wantFeedback: "",
		},
		{
			name:       "missing required score",
			response:   `{"suggestion": "nice try"}`,
			wantReason: FailureMalformed,
		},
		{
			name:       "score below range",
			response:   `{"score": 0}`,
			wantReason: FailureMalformed,
		},
		{
			name:       "score above range",
			response:   `{"score": 101}`,
			wantReason: FailureMalformed,
		},
		{
			name:       "free text instead of structured call",
			response:   "Great article, I would rate it 90 out of 100.",
			wantReason: FailureMalformed,
		},
		{
			name:       "transport error",
			err:        fmt.Errorf("connection refused"),
			wantReason: FailureTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewWithPrompter(promptFunc(func(string, string, string) (string, error) {
				return tt.response, tt.err
			}), time.Second)

			result := client.ScoreArticle("some article text", []string{"be brief"})

			if tt.wantReason != "" {
				require.False(t, result.OK())
				assert.Equal(t, tt.wantReason, result.Failure.Reason)
				return
			}

			require.True(t, result.OK())
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantFeedback, result.Feedback)
		})
	}
}

func TestScoreArticlePromptContents(t *testing.T) {
	var gotSystem, gotUser, gotSchema string

	client := NewWithPrompter(promptFunc(func(systemPrompt, userPrompt, schema string) (string, error) {
		gotSystem, gotUser, gotSchema = systemPrompt, userPrompt, schema
		return `{"score": 50}`, nil
	}), time.Second)

	rules := []string{"no passive voice", "short paragraphs"}
	client.ScoreArticle("the article body", rules)

	// Правила склеиваются через пробел и попадают в системный промпт
	assert.Contains(t, gotSystem, "no passive voice short paragraphs")
	assert.NotContains(t, gotSystem, "{{.rules}}")
	assert.Equal(t, "the article body", gotUser)
	assert.Contains(t, gotSchema, `"score_article"`)
	assert.Contains(t, gotSchema, `"required": ["score"]`)
}

func TestScoreArticleTimeout(t *testing.T) {
	client := NewWithPrompter(promptFunc(func(string, string, string) (string, error) {
		time.Sleep(200 * time.Millisecond)
		return `{"score": 80}`, nil
	}), 20*time.Millisecond)

	result := client.ScoreArticle("slow", nil)

	require.False(t, result.OK())
	assert.Equal(t, FailureTimeout, result.Failure.Reason)
}

func TestSyncArticle(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		err            error
		wantLevel      int
		wantSuggestion string
		wantReason     FailureReason
	}{
		{
			name:           "level with suggestion",
			response:       `{"sync_level": 70, "sync_suggestion": "shorten the intro"}`,
			wantLevel:      70,
			wantSuggestion: "shorten the intro",
		},
		{
			name:           "suggestion is optional",
			response:       `{"sync_level": 100}`,
			wantLevel:      100,
			wantSuggestion: "",
		},
		{
			name:       "missing required sync_level",
			response:   `{"sync_suggestion": "close enough"}`,
			wantReason: FailureMalformed,
		},
		{
			name:       "level outside range",
			response:   `{"sync_level": 150}`,
			wantReason: FailureMalformed,
		},
		{
			name:       "transport error",
			err:        fmt.Errorf("tls handshake failed"),
			wantReason: FailureTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewWithPrompter(promptFunc(func(string, string, string) (string, error) {
				return tt.response, tt.err
			}), time.Second)

			result := client.SyncArticle("benchmark text", "candidate text")

			if tt.wantReason != "" {
				require.False(t, result.OK())
				assert.Equal(t, tt.wantReason, result.Failure.Reason)
				return
			}

			require.True(t, result.OK())
			assert.Equal(t, tt.wantLevel, result.SyncLevel)
			assert.Equal(t, tt.wantSuggestion, result.Suggestion)
		})
	}
}

func TestSyncArticlePromptContents(t *testing.T) {
	var gotUser, gotSchema string

	client := NewWithPrompter(promptFunc(func(_, userPrompt, schema string) (string, error) {
		gotUser, gotSchema = userPrompt, schema
		return `{"sync_level": 60}`, nil
	}), time.Second)

	client.SyncArticle("the best article", "the new article")

	// Оба текста уходят в один промпт, эталон первым
	require.Contains(t, gotUser, "the best article")
	require.Contains(t, gotUser, "the new article")
	assert.Less(t, strings.Index(gotUser, "the best article"), strings.Index(gotUser, "the new article"))
	assert.Contains(t, gotSchema, `"sync_article"`)
	assert.Contains(t, gotSchema, `"required": ["sync_level"]`)
}

func TestNew(t *testing.T) {
	_, err := New("", "claude-sonnet-4-20250514", time.Second)
	assert.Error(t, err)

	client, err := New("test-key", "claude-sonnet-4-20250514", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, client.timeout)
}

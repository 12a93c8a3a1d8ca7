package crag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ecosage/ecosage/internal/llm"
)

// LLMGrader grades document relevance with a constrained single-key JSON
// completion, greedy decoding.
type LLMGrader struct {
	provider llm.Provider
}

func NewLLMGrader(provider llm.Provider) *LLMGrader {
	return &LLMGrader{provider: provider}
}

// Grade returns whether doc is relevant to question. A grading call that
// fails or returns an unparseable verdict is an error, never a silent
// "irrelevant": the caller decides what a failed grade means.
func (g *LLMGrader) Grade(ctx context.Context, question string, doc Document) (bool, error) {
	system := fmt.Sprintf(graderSystemPrompt, doc.Content)
	user := fmt.Sprintf("Here is the user question: %s", question)

	out, err := g.provider.Complete(ctx, system, user, llm.WithTemperature(0), llm.WithMaxTokens(32))
	if err != nil {
		return false, fmt.Errorf("grading call failed: %w", err)
	}

	var verdict struct {
		Score string `json:"score"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(out)), &verdict); err != nil {
		return false, fmt.Errorf("grader returned malformed verdict %q: %w", out, err)
	}

	switch strings.ToLower(strings.TrimSpace(verdict.Score)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, fmt.Errorf("grader returned unexpected score %q", verdict.Score)
	}
}

// extractJSONObject trims markdown fences and any preamble around the first
// top-level JSON object in s. Returns s unchanged when no braces are found so
// that json.Unmarshal reports the original text.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

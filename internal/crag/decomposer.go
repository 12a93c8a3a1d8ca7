package crag

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecosage/ecosage/internal/llm"
)

// Decomposition is the tagged result of query decomposition. Passthrough is
// set when the query went through verbatim: card mode, the model's
// no-decomposition sentinel, or a defensive fallback on empty output.
type Decomposition struct {
	Passthrough bool
	Questions   []string
}

// LLMDecomposer splits a query into self-contained sub-questions. In card
// mode it never calls the model.
type LLMDecomposer struct {
	provider llm.Provider
}

func NewLLMDecomposer(provider llm.Provider) *LLMDecomposer {
	return &LLMDecomposer{provider: provider}
}

func (d *LLMDecomposer) Decompose(ctx context.Context, req Request) (Decomposition, error) {
	if req.Mode == ModeCard {
		return Decomposition{Passthrough: true, Questions: []string{req.Query}}, nil
	}

	user := fmt.Sprintf("Question: %s\nDecompositions:", req.Query)
	out, err := d.provider.Complete(ctx, decomposerSystemPrompt, user, llm.WithTemperature(0))
	if err != nil {
		return Decomposition{}, fmt.Errorf("decomposition call failed: %w", err)
	}

	return parseDecomposition(req.Query, out), nil
}

// parseDecomposition turns the raw multi-line model output into a
// Decomposition. Empty lines and stray whitespace are dropped defensively
// even though the prompt forbids them.
func parseDecomposition(query, raw string) Decomposition {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
	}

	if len(questions) == 0 {
		// Model produced nothing usable; answer the query as-is.
		return Decomposition{Passthrough: true, Questions: []string{query}}
	}
	if questions[0] == DecompositionSentinel {
		return Decomposition{Passthrough: true, Questions: []string{query}}
	}
	return Decomposition{Questions: questions}
}

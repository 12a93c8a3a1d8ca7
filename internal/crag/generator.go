package crag

import (
	"context"
	"fmt"

	"github.com/ecosage/ecosage/internal/llm"
)

// LLMGenerator produces sub-answers and the consolidated final answer. The
// two operations use distinct prompts: sub-answers are grounded in passages,
// consolidation is grounded in question/answer pairs.
type LLMGenerator struct {
	provider llm.Provider
}

func NewLLMGenerator(provider llm.Provider) *LLMGenerator {
	return &LLMGenerator{provider: provider}
}

// SubAnswer answers one sub-question from its accumulated documents.
func (g *LLMGenerator) SubAnswer(ctx context.Context, question string, docs []Document, req Request) (string, error) {
	system := fmt.Sprintf(subAnswerSystemPrompt, renderDocuments(docs))
	user := fmt.Sprintf("Question: %s", question)

	out, err := g.provider.Complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("sub-answer generation failed: %w", err)
	}
	return out, nil
}

// Consolidate synthesizes the final answer for the original query from the
// sub-question/sub-answer pairs, honoring the request mode and location.
func (g *LLMGenerator) Consolidate(ctx context.Context, req Request, pairs []QAPair) (string, error) {
	prompt := consolidateMarkdownSystemPrompt
	if req.Mode == ModeCard {
		prompt = consolidateCardSystemPrompt
	}
	system := fmt.Sprintf(prompt,
		renderQAPairs(pairs),
		renderCoordinate(req.Latitude),
		renderCoordinate(req.Longitude),
	)
	user := fmt.Sprintf("Question: %s", req.Query)

	out, err := g.provider.Complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("consolidation generation failed: %w", err)
	}
	return out, nil
}

package crag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecosage/ecosage/apimodels"
	"github.com/ecosage/ecosage/internal/llm"
)

// ErrInvalidCard reports that the formatting model could not produce a card
// matching the schema even after a stricter retry.
var ErrInvalidCard = errors.New("card response failed validation")

// LLMFormatter reshapes a consolidated answer into the fixed card schema.
// Schema violations are detected here, never forwarded: one stricter retry,
// then the error surfaces.
type LLMFormatter struct {
	provider llm.Provider
}

func NewLLMFormatter(provider llm.Provider) *LLMFormatter {
	return &LLMFormatter{provider: provider}
}

func (f *LLMFormatter) Format(ctx context.Context, text string) (*apimodels.Card, error) {
	user := fmt.Sprintf("Unstructured Answer:\n%s", text)

	out, err := f.provider.Complete(ctx, formatterSystemPrompt, user, llm.WithTemperature(0), llm.WithMaxTokens(1500))
	if err != nil {
		return nil, fmt.Errorf("card formatting call failed: %w", err)
	}

	card, verr := parseCard(out)
	if verr == nil {
		return card, nil
	}

	// One retry with a stricter prompt before giving up.
	out, err = f.provider.Complete(ctx, formatterSystemPrompt+formatterRetryNotice, user, llm.WithTemperature(0), llm.WithMaxTokens(1500))
	if err != nil {
		return nil, fmt.Errorf("card formatting retry failed: %w", err)
	}
	card, verr = parseCard(out)
	if verr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, verr)
	}
	return card, nil
}

// rawRecommendation accepts both the plain-string and the {"text": ...}
// shapes the model has been observed to emit.
type rawRecommendation string

func (r *rawRecommendation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = rawRecommendation(s)
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = rawRecommendation(obj.Text)
	return nil
}

type rawCard struct {
	Rating             float64             `json:"rating"`
	Text               string              `json:"text"`
	Citations          []string            `json:"citations"`
	Recommendations    []rawRecommendation `json:"recommendations"`
	SuggestedQuestions []string            `json:"suggestedQuestions"`
}

// parseCard decodes and validates the model output against the card schema.
// The rating is clamped to [0,100] by contract; an empty citations list or a
// recommendations count outside 2-3 rejects the output.
func parseCard(out string) (*apimodels.Card, error) {
	var raw rawCard
	if err := json.Unmarshal([]byte(extractJSONObject(out)), &raw); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}

	if raw.Text == "" {
		return nil, errors.New("missing text field")
	}
	if len(raw.Citations) == 0 {
		return nil, errors.New("citations must contain at least one entry")
	}
	if len(raw.Recommendations) < 2 || len(raw.Recommendations) > 3 {
		return nil, fmt.Errorf("expected 2-3 recommendations, got %d", len(raw.Recommendations))
	}

	rating := int(raw.Rating)
	if rating < 0 {
		rating = 0
	}
	if rating > 100 {
		rating = 100
	}

	recs := make([]string, 0, len(raw.Recommendations))
	for _, r := range raw.Recommendations {
		if r != "" {
			recs = append(recs, string(r))
		}
	}
	if len(recs) < 2 {
		return nil, errors.New("recommendations contain empty entries")
	}

	return &apimodels.Card{
		Rating:             rating,
		Text:               raw.Text,
		Citations:          raw.Citations,
		Recommendations:    recs,
		SuggestedQuestions: raw.SuggestedQuestions,
	}, nil
}

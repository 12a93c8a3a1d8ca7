// Package crag implements the corrective retrieval-augmented generation
// pipeline: query decomposition, a retrieve/grade/search/generate cycle per
// sub-question, consolidation of the sub-answers, and card formatting.
package crag

import (
	"context"

	"github.com/ecosage/ecosage/apimodels"
)

// Mode selects the response shape for a request.
type Mode int

const (
	// ModeCard returns the structured JSON card.
	ModeCard Mode = 1
	// ModeMarkdown returns a free-form markdown answer.
	ModeMarkdown Mode = 2
)

// Document is a retrieved or web-searched passage. Source is empty for
// passages from the local index without an origin URL.
type Document struct {
	Content string
	Source  string
}

// Request carries the immutable inputs for one pipeline run.
type Request struct {
	Query     string
	Mode      Mode
	Latitude  *float64
	Longitude *float64
}

// QAPair pairs a sub-question with its generated sub-answer. QAPairs are the
// consolidation context for the final generation call.
type QAPair struct {
	Question string
	Answer   string
}

// Result is the final outcome of a run: a card in card mode, markdown text
// otherwise.
type Result struct {
	Markdown string
	Card     *apimodels.Card
}

// Payload returns the wire representation for the result field of the
// response body.
func (r Result) Payload() any {
	if r.Card != nil {
		return r.Card
	}
	return r.Markdown
}

// Retriever returns candidate passages from the local vector index.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]Document, error)
}

// Searcher runs a live web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Document, error)
}

// Grader classifies a passage as relevant to a question or not.
type Grader interface {
	Grade(ctx context.Context, question string, doc Document) (bool, error)
}

// Generator produces sub-answers and the consolidated final answer.
type Generator interface {
	SubAnswer(ctx context.Context, question string, docs []Document, req Request) (string, error)
	Consolidate(ctx context.Context, req Request, pairs []QAPair) (string, error)
}

// QueryDecomposer splits a query into self-contained sub-questions.
type QueryDecomposer interface {
	Decompose(ctx context.Context, req Request) (Decomposition, error)
}

// CardFormatter reshapes a consolidated answer into the card schema.
type CardFormatter interface {
	Format(ctx context.Context, text string) (*apimodels.Card, error)
}

// SubQuestionRunner runs the corrective cycle for one sub-question.
type SubQuestionRunner interface {
	Run(ctx context.Context, question string, req Request, trace *Trace) (string, error)
}

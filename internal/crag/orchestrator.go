package crag

import (
	"context"
	"fmt"
	"log/slog"
)

// Orchestrator is the outer graph: decompose the query, run one corrective
// cycle per sub-question in order, consolidate the sub-answers, and in card
// mode reshape the result. There is no branching at this level.
type Orchestrator struct {
	decomposer QueryDecomposer
	cycle      SubQuestionRunner
	generator  Generator
	formatter  CardFormatter
}

func NewOrchestrator(decomposer QueryDecomposer, cycle SubQuestionRunner, generator Generator, formatter CardFormatter) *Orchestrator {
	return &Orchestrator{
		decomposer: decomposer,
		cycle:      cycle,
		generator:  generator,
		formatter:  formatter,
	}
}

// Answer runs the whole pipeline for one request. The trace is shared across
// every stage and only ever grows.
func (o *Orchestrator) Answer(ctx context.Context, req Request, trace *Trace) (Result, error) {
	slog.Info("decomposing the query", "query", req.Query, "mode", int(req.Mode))
	trace.Append(StepTransformQuery)

	decomposition, err := o.decomposer.Decompose(ctx, req)
	if err != nil {
		return Result{}, err
	}
	subQuestions := decomposition.Questions
	if !decomposition.Passthrough {
		slog.Info("decomposed query", "subQuestions", len(subQuestions))
	}

	trace.Append(StepEnterCRAG)
	subAnswers := make([]string, 0, len(subQuestions))
	for _, q := range subQuestions {
		slog.Info("handling sub-question", "question", q)
		answer, err := o.cycle.Run(ctx, q, req, trace)
		if err != nil {
			return Result{}, fmt.Errorf("sub-question %q: %w", q, err)
		}
		subAnswers = append(subAnswers, answer)
	}

	pairs := zipQAPairs(subQuestions, subAnswers)

	slog.Info("consolidating response", "pairs", len(pairs))
	trace.Append(StepFinalAnswer)
	consolidated, err := o.generator.Consolidate(ctx, req, pairs)
	if err != nil {
		return Result{}, err
	}

	if req.Mode != ModeCard {
		return Result{Markdown: consolidated}, nil
	}

	card, err := o.formatter.Format(ctx, consolidated)
	if err != nil {
		return Result{}, err
	}
	return Result{Card: card}, nil
}

// zipQAPairs pairs questions with answers positionally, truncating to the
// shorter list. Divergent lengths indicate a dropped sub-answer upstream;
// policy is to proceed with what paired up, loudly.
func zipQAPairs(questions, answers []string) []QAPair {
	n := len(questions)
	if len(answers) < n {
		n = len(answers)
	}
	if len(questions) != len(answers) {
		slog.Warn("sub-question/sub-answer count mismatch, truncating",
			"questions", len(questions), "answers", len(answers))
	}
	pairs := make([]QAPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = QAPair{Question: questions[i], Answer: answers[i]}
	}
	return pairs
}

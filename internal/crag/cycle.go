package crag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// cycleState names the states of the per-sub-question corrective cycle.
type cycleState int

const (
	stateRetrieve cycleState = iota
	stateGrade
	stateWebSearch
	stateGenerate
	stateDone
)

func (s cycleState) String() string {
	switch s {
	case stateRetrieve:
		return "retrieve"
	case stateGrade:
		return "grade"
	case stateWebSearch:
		return "web_search"
	case stateGenerate:
		return "generate"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Cycle runs the corrective retrieval loop for one sub-question:
// Retrieve -> Grade -> {Generate | WebSearch -> Generate} -> Done.
// Any adapter failure aborts the sub-question and propagates.
type Cycle struct {
	retriever      Retriever
	grader         Grader
	searcher       Searcher
	generator      Generator
	trustedDomains []string
	adapterTimeout time.Duration
}

func NewCycle(retriever Retriever, grader Grader, searcher Searcher, generator Generator, trustedDomains []string, adapterTimeout time.Duration) *Cycle {
	return &Cycle{
		retriever:      retriever,
		grader:         grader,
		searcher:       searcher,
		generator:      generator,
		trustedDomains: trustedDomains,
		adapterTimeout: adapterTimeout,
	}
}

// cycleRun is the mutable state threaded between transitions. Documents are
// owned by this run and never shared across sub-questions.
type cycleRun struct {
	question    string
	documents   []Document
	needsSearch bool
	answer      string
}

// Run executes the cycle to completion and returns the sub-answer.
func (c *Cycle) Run(ctx context.Context, question string, req Request, trace *Trace) (string, error) {
	run := &cycleRun{question: question}
	state := stateRetrieve

	for state != stateDone {
		var (
			next cycleState
			err  error
		)
		switch state {
		case stateRetrieve:
			next, err = c.retrieve(ctx, run, trace)
		case stateGrade:
			next, err = c.grade(ctx, run, trace)
		case stateWebSearch:
			next, err = c.webSearch(ctx, run, req, trace)
		case stateGenerate:
			next, err = c.generate(ctx, run, req, trace)
		default:
			return "", fmt.Errorf("invalid cycle state %v", state)
		}
		if err != nil {
			return "", fmt.Errorf("cycle failed in state %v: %w", state, err)
		}
		state = next
	}

	return run.answer, nil
}

func (c *Cycle) retrieve(ctx context.Context, run *cycleRun, trace *Trace) (cycleState, error) {
	slog.Info("retrieving documents", "question", run.question)
	trace.Append(StepRetrieve)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	docs, err := c.retriever.Retrieve(ctx, run.question)
	if err != nil {
		return stateDone, err
	}
	run.documents = docs
	// An empty result set still goes through grading; with nothing graded
	// relevant the decision below falls through to web search.
	if len(docs) == 0 {
		run.needsSearch = true
	}
	return stateGrade, nil
}

// grade partitions retrieved documents into kept and discarded. A single
// irrelevant hit forces web-search supplementation even when others were
// kept: precision over recall.
func (c *Cycle) grade(ctx context.Context, run *cycleRun, trace *Trace) (cycleState, error) {
	slog.Info("grading retrieved documents", "count", len(run.documents))
	trace.Append(StepGrade)

	kept := make([]Document, 0, len(run.documents))
	for _, doc := range run.documents {
		gctx, cancel := c.callCtx(ctx)
		relevant, err := c.grader.Grade(gctx, run.question, doc)
		cancel()
		if err != nil {
			return stateDone, err
		}
		if relevant {
			kept = append(kept, doc)
		} else {
			run.needsSearch = true
		}
	}
	run.documents = kept

	if run.needsSearch {
		slog.Info("at decision edge", "next", "web_search", "kept", len(kept))
		return stateWebSearch, nil
	}
	slog.Info("at decision edge", "next", "generate", "kept", len(kept))
	return stateGenerate, nil
}

// webSearch supplements the kept documents with live results. Web results are
// appended ungraded and the cycle always proceeds to generation; there is no
// loop back to grading.
func (c *Cycle) webSearch(ctx context.Context, run *cycleRun, req Request, trace *Trace) (cycleState, error) {
	query := c.searchQuery(run.question, req)
	slog.Info("searching the web", "query", query)
	trace.Append(StepWebSearch)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	results, err := c.searcher.Search(ctx, query)
	if err != nil {
		return stateDone, err
	}
	run.documents = append(run.documents, results...)
	return stateGenerate, nil
}

func (c *Cycle) generate(ctx context.Context, run *cycleRun, req Request, trace *Trace) (cycleState, error) {
	slog.Info("generating sub-answer", "question", run.question, "documents", len(run.documents))
	trace.Append(StepSubAnswer)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	answer, err := c.generator.SubAnswer(ctx, run.question, run.documents, req)
	if err != nil {
		return stateDone, err
	}
	run.answer = answer
	return stateDone, nil
}

// searchQuery appends the trusted-domain allowlist as a site-restricted
// OR-query in card mode.
func (c *Cycle) searchQuery(question string, req Request) string {
	if req.Mode != ModeCard || len(c.trustedDomains) == 0 {
		return question
	}
	sites := make([]string, len(c.trustedDomains))
	for i, d := range c.trustedDomains {
		sites[i] = "site:" + d
	}
	return question + " " + strings.Join(sites, " OR ")
}

func (c *Cycle) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.adapterTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.adapterTimeout)
}

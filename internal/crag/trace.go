package crag

import "sync"

// Step labels appended to the trace, one per pipeline stage.
const (
	StepTransformQuery = "transform_query"
	StepEnterCRAG      = "entering iterative CRAG for sub questions"
	StepRetrieve       = "retrieve_documents"
	StepGrade          = "grade_document_retrieval"
	StepWebSearch      = "web_search"
	StepSubAnswer      = "generating sub-answer"
	StepFinalAnswer    = "generating final answer"
)

// Trace is the append-only audit log for one request. Every pipeline stage
// appends a step label; entries are never reordered or removed. It is safe
// for concurrent appends, though the pipeline itself runs sequentially.
type Trace struct {
	mu    sync.Mutex
	steps []string
	sink  func(string)
}

// NewTrace creates a trace seeded with any steps supplied by the caller.
// Seed entries are not forwarded to a sink.
func NewTrace(initial ...string) *Trace {
	return &Trace{steps: append([]string(nil), initial...)}
}

// SetSink registers an observer invoked for each subsequently appended step.
// Used by the streaming transports to forward progress as it happens.
func (t *Trace) SetSink(fn func(step string)) {
	t.mu.Lock()
	t.sink = fn
	t.mu.Unlock()
}

// Append records one step.
func (t *Trace) Append(step string) {
	t.mu.Lock()
	t.steps = append(t.steps, step)
	sink := t.sink
	t.mu.Unlock()
	if sink != nil {
		sink(step)
	}
}

// Steps returns a copy of the recorded steps in append order.
func (t *Trace) Steps() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.steps...)
}

// Len reports how many steps have been recorded.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}

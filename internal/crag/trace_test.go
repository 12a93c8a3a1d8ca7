package crag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceAppendsInOrder(t *testing.T) {
	trace := NewTrace("from_request")
	trace.Append(StepTransformQuery)
	trace.Append(StepEnterCRAG)

	assert.Equal(t, []string{"from_request", StepTransformQuery, StepEnterCRAG}, trace.Steps())
	assert.Equal(t, 3, trace.Len())
}

func TestTraceStepsReturnsCopy(t *testing.T) {
	trace := NewTrace()
	trace.Append("a")

	steps := trace.Steps()
	steps[0] = "mutated"

	assert.Equal(t, []string{"a"}, trace.Steps())
}

func TestTraceSinkSeesOnlyNewSteps(t *testing.T) {
	trace := NewTrace("seeded")
	var seen []string
	trace.SetSink(func(s string) { seen = append(seen, s) })

	trace.Append("one")
	trace.Append("two")

	assert.Equal(t, []string{"one", "two"}, seen)
}

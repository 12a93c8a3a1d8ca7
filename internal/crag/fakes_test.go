package crag

import (
	"context"
	"errors"

	"github.com/ecosage/ecosage/internal/llm"
)

// fakeProvider replays canned completions and records prompts.
type fakeProvider struct {
	responses []string
	err       error
	calls     int
	systems   []string
	users     []string
}

func (f *fakeProvider) Complete(ctx context.Context, system, user string, opts ...llm.Option) (string, error) {
	f.calls++
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeProvider: no responses left")
	}
	out := f.responses[0]
	f.responses = f.responses[1:]
	return out, nil
}

type fakeRetriever struct {
	docs  []Document
	err   error
	calls int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, question string) ([]Document, error) {
	f.calls++
	return f.docs, f.err
}

// fakeGrader grades by a per-content verdict map; ungraded content is
// relevant by default.
type fakeGrader struct {
	verdicts map[string]bool
	err      error
	calls    int
}

func (f *fakeGrader) Grade(ctx context.Context, question string, doc Document) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if v, ok := f.verdicts[doc.Content]; ok {
		return v, nil
	}
	return true, nil
}

type fakeSearcher struct {
	docs    []Document
	err     error
	calls   int
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]Document, error) {
	f.calls++
	f.queries = append(f.queries, query)
	return f.docs, f.err
}

type fakeGenerator struct {
	subAnswer   string
	finalAnswer string
	err         error

	subCalls         int
	subDocs          [][]Document
	consolidateCalls int
	pairs            []QAPair
}

func (f *fakeGenerator) SubAnswer(ctx context.Context, question string, docs []Document, req Request) (string, error) {
	f.subCalls++
	f.subDocs = append(f.subDocs, docs)
	if f.err != nil {
		return "", f.err
	}
	return f.subAnswer, nil
}

func (f *fakeGenerator) Consolidate(ctx context.Context, req Request, pairs []QAPair) (string, error) {
	f.consolidateCalls++
	f.pairs = pairs
	if f.err != nil {
		return "", f.err
	}
	return f.finalAnswer, nil
}

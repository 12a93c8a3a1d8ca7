package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosage/ecosage/apimodels"
	"github.com/ecosage/ecosage/internal/config"
	"github.com/ecosage/ecosage/internal/crag"
)

const testAPIKey = "secret-key"

type fakeAnswerer struct {
	result crag.Result
	err    error
	calls  int
	req    crag.Request
}

func (f *fakeAnswerer) Answer(ctx context.Context, req crag.Request, trace *crag.Trace) (crag.Result, error) {
	f.calls++
	f.req = req
	if f.err != nil {
		return crag.Result{}, f.err
	}
	trace.Append(crag.StepTransformQuery)
	trace.Append(crag.StepFinalAnswer)
	return f.result, nil
}

func newTestServer(answerer Answerer) *Server {
	cfg := config.ServerConfig{
		Port:           "0",
		Host:           "127.0.0.1",
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		RequestTimeout: time.Second,
		APIKey:         testAPIKey,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	return New(cfg, answerer)
}

func postAsk(t *testing.T, s *Server, path, apiKey, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestAskRejectsWrongAPIKey(t *testing.T) {
	answerer := &fakeAnswerer{}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", "wrong", `{"user_query": "q", "type": 2}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, answerer.calls, "no pipeline work before authentication")

	var body apimodels.DetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body.Detail)
}

func TestAskRejectsMissingAPIKey(t *testing.T) {
	answerer := &fakeAnswerer{}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", "", `{"user_query": "q"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, answerer.calls)
}

func TestAskMissingUserQuery(t *testing.T) {
	answerer := &fakeAnswerer{}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", testAPIKey, `{"type": 2}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, answerer.calls, "no adapter calls for an empty query")

	var body apimodels.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user_query is required", body.Error)
}

func TestAskMarkdownSuccess(t *testing.T) {
	answerer := &fakeAnswerer{result: crag.Result{Markdown: "# answer"}}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", testAPIKey, `{"user_query": "why is the ocean acidifying?", "type": 2, "steps": ["seeded"]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result string   `json:"result"`
		Steps  []string `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "# answer", body.Result)
	assert.Equal(t, []string{"seeded", crag.StepTransformQuery, crag.StepFinalAnswer}, body.Steps)

	assert.Equal(t, crag.ModeMarkdown, answerer.req.Mode)
	assert.Equal(t, "why is the ocean acidifying?", answerer.req.Query)
}

func TestAskCardSuccess(t *testing.T) {
	card := &apimodels.Card{
		Rating:          70,
		Text:            "impactful",
		Citations:       []string{"[unep](https://www.unep.org)"},
		Recommendations: []string{"a", "b"},
	}
	answerer := &fakeAnswerer{result: crag.Result{Card: card}}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", testAPIKey, `{"user_query": "rate this bottle", "type": 1, "latitude": 51.5, "longitude": -0.1}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result apimodels.Card `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 70, body.Result.Rating)

	assert.Equal(t, crag.ModeCard, answerer.req.Mode)
	require.NotNil(t, answerer.req.Latitude)
	assert.InDelta(t, 51.5, *answerer.req.Latitude, 0.001)
}

func TestAskUnknownTypeDefaultsToMarkdown(t *testing.T) {
	answerer := &fakeAnswerer{result: crag.Result{Markdown: "m"}}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", testAPIKey, `{"user_query": "q"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, crag.ModeMarkdown, answerer.req.Mode)
}

func TestAskInternalErrorIs500(t *testing.T) {
	answerer := &fakeAnswerer{err: errors.New("llm unreachable")}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", testAPIKey, `{"user_query": "q", "type": 2}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body apimodels.DetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal error: llm unreachable", body.Detail)
}

func TestAskMalformedBodyIs400(t *testing.T) {
	answerer := &fakeAnswerer{}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask", testAPIKey, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, answerer.calls)
}

func TestAskStreamEmitsTraceThenResult(t *testing.T) {
	answerer := &fakeAnswerer{result: crag.Result{Markdown: "streamed answer"}}
	s := newTestServer(answerer)

	rec := postAsk(t, s, "/ask/stream", testAPIKey, `{"user_query": "q", "type": 2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	out := rec.Body.String()
	sepIdx := strings.Index(out, resultSeparator)
	require.NotEqual(t, -1, sepIdx, "stream must contain the result separator")

	logs := out[:sepIdx]
	assert.Contains(t, logs, crag.StepTransformQuery)
	assert.Contains(t, logs, crag.StepFinalAnswer)

	var body struct {
		Result string `json:"result"`
	}
	jsonPart := strings.TrimSpace(out[sepIdx+len(resultSeparator):])
	require.NoError(t, json.Unmarshal([]byte(jsonPart), &body))
	assert.Equal(t, "streamed answer", body.Result)
}

func TestHealthzNeedsNoKey(t *testing.T) {
	s := newTestServer(&fakeAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

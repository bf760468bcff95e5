// Package testutil provides a fake OpenAI-compatible upstream for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// Upstream is an httptest server speaking the streaming chat completion
// protocol. It replies with Chunks as SSE events followed by [DONE].
type Upstream struct {
	*httptest.Server

	Chunks []string
	// Status, when non-zero, is returned instead of a stream.
	Status int

	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
}

// NewUpstream starts a fake upstream that is closed with the test.
func NewUpstream(t *testing.T, chunks ...string) *Upstream {
	t.Helper()
	u := &Upstream{Chunks: chunks}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// BaseURL is the value to configure as the client's base URL.
func (u *Upstream) BaseURL() string {
	return u.URL + "/v1"
}

// Requests returns the decoded requests received so far.
func (u *Upstream) Requests() []openai.ChatCompletionRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), u.requests...)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	var req openai.ChatCompletionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	u.mu.Lock()
	u.requests = append(u.requests, req)
	u.mu.Unlock()

	if u.Status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.Status)
		fmt.Fprintf(w, `{"error":{"message":"upstream says %d","type":"invalid_request_error"}}`, u.Status)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	flusher, _ := w.(http.Flusher)

	// role preamble without content, like real providers send
	writeEvent(w, openai.ChatCompletionStreamChoiceDelta{Role: openai.ChatMessageRoleAssistant})
	for _, c := range u.Chunks {
		writeEvent(w, openai.ChatCompletionStreamChoiceDelta{Content: c})
		if flusher != nil {
			flusher.Flush()
		}
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func writeEvent(w http.ResponseWriter, delta openai.ChatCompletionStreamChoiceDelta) {
	chunk := openai.ChatCompletionStreamResponse{
		ID:      "chatcmpl-test",
		Object:  "chat.completion.chunk",
		Created: 1,
		Model:   "test-model",
		Choices: []openai.ChatCompletionStreamChoice{{Index: 0, Delta: delta}},
	}
	b, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", b)
}

package llm

import (
	"context"
	"strings"
	"sync"
)

// MockClient is a test double for Client. It records every request it
// receives so tests can inspect the contents sent on each call.
type MockClient struct {
	ProviderName string
	StreamFunc   func(ctx context.Context, req Request) (<-chan StreamEvent, error)

	mu       sync.Mutex
	requests []Request
}

func (m *MockClient) Name() string { return m.ProviderName }

func (m *MockClient) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	m.mu.Lock()
	req.Contents = append([]Message(nil), req.Contents...)
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req)
	}
	return ScriptedStream("mock ", "response"), nil
}

// Requests returns the requests received so far.
func (m *MockClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// ScriptedStream returns a closed, buffered channel holding one delta per
// fragment followed by a done event.
func ScriptedStream(fragments ...string) <-chan StreamEvent {
	ch := make(chan StreamEvent, len(fragments)+1)
	for _, f := range fragments {
		ch <- StreamEvent{Type: EventDelta, Content: f}
	}
	ch <- StreamEvent{
		Type:     EventDone,
		Response: &Response{Content: strings.Join(fragments, ""), FinishReason: "STOP", Chunks: len(fragments)},
	}
	close(ch)
	return ch
}

// FailingStream returns a channel that emits the given fragments and then
// an error event.
func FailingStream(msg string, fragments ...string) <-chan StreamEvent {
	ch := make(chan StreamEvent, len(fragments)+1)
	for _, f := range fragments {
		ch <- StreamEvent{Type: EventDelta, Content: f}
	}
	ch <- StreamEvent{Type: EventError, Error: msg}
	close(ch)
	return ch
}

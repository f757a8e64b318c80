package llm

import (
	"context"
	"sync"
)

// MockProvider replays canned responses in order. Once they run out it
// returns Fallback, or ErrEmptyResponse when Fallback is empty.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Request

	Fallback string
}

type MockResponse struct {
	Text string
	Err  error
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.responses) == 0 {
		if m.Fallback == "" {
			return "", ErrEmptyResponse
		}
		return m.Fallback, nil
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r.Text, r.Err
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Close() error { return nil }

func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockGenerator replays canned responses and records every request.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, req Request) (string, error)

	responses []string
	err       error
	calls     []Request
	mu        sync.Mutex
}

// NewMockGenerator returns a mock that answers with responses in order.
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{responses: responses}
}

// Generate pops the next canned response.
func (m *MockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("%w: %w from mock", ErrGenerationFailed, ErrEmptyResponse)
	}
	text := m.responses[0]
	m.responses = m.responses[1:]
	return text, nil
}

// SetError makes every following call fail with err.
func (m *MockGenerator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Push queues more responses.
func (m *MockGenerator) Push(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// Calls returns a copy of the recorded requests.
func (m *MockGenerator) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Request, len(m.calls))
	copy(calls, m.calls)
	return calls
}

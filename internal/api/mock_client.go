package api

import (
	"context"
	"sync"
)

// MockAnswerer is a mock implementation of Answerer for testing
type MockAnswerer struct {
	// Mock return values
	Answer string
	Err    error

	// Release, when non-nil, holds every Ask call until a value is received
	// or the channel is closed, keeping the request "in flight".
	Release chan struct{}

	mu    sync.Mutex
	calls []string
}

// Ensure MockAnswerer implements Answerer
var _ Answerer = (*MockAnswerer)(nil)

// NewMockAnswerer creates a MockAnswerer that answers every prompt with answer
func NewMockAnswerer(answer string) *MockAnswerer {
	return &MockAnswerer{Answer: answer}
}

// NewMockAnswererWithError creates a MockAnswerer that fails every prompt with err
func NewMockAnswererWithError(err error) *MockAnswerer {
	return &MockAnswerer{Err: err}
}

// Ask records the prompt and returns the configured answer or error
func (m *MockAnswerer) Ask(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	release := m.Release
	m.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return m.Answer, m.Err
}

// Calls returns the prompts received so far, in order
func (m *MockAnswerer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Ask was called
func (m *MockAnswerer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

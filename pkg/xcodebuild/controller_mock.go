package xcodebuild

import (
	"context"
	"sync"
)

// MockController is a mock implementation of Controller for testing. It
// records every request and returns the scripted error.
type MockController struct {
	MockError error

	mu       sync.Mutex
	requests []BuildRequest
}

func (m *MockController) Build(ctx context.Context, req BuildRequest) error {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.MockError
}

// Requests returns the recorded build requests in invocation order
func (m *MockController) Requests() []BuildRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BuildRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

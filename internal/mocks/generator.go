package mocks

import (
	"context"
	"sync"

	"github.com/gradaid/gradaid-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, req generation.Request) (string, error)

	// Default response values
	Content string
	Err     error

	mu       sync.Mutex
	requests []generation.Request
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.Content, m.Err
}

// Requests returns a copy of every request passed to Generate.
func (m *MockGenerator) Requests() []generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]generation.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

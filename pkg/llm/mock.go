package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock implements Generator for testing.
type Mock struct {
	// NameVal is returned by Name. Defaults to "mock".
	NameVal string

	// AvailableFunc is called when Available is invoked.
	AvailableFunc func(ctx context.Context) error

	// InitializeFunc is called when Initialize is invoked.
	InitializeFunc func(ctx context.Context) error

	// GenerateFunc is called when Generate is invoked.
	GenerateFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Prompt string
	Time   time.Time
}

// NewMock creates a mock backend that is always available and echoes
// prompts back.
func NewMock() *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
			return fmt.Sprintf("Mock response to: %s", prompt), nil
		},
	}
}

// MockWithError returns a mock whose probe and generation both fail
// with the given error.
func MockWithError(err error) *Mock {
	return &Mock{
		AvailableFunc: func(ctx context.Context) error {
			return err
		},
		InitializeFunc: func(ctx context.Context) error {
			return err
		},
		GenerateFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
			return "", err
		},
	}
}

// Name returns NameVal or "mock".
func (m *Mock) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Available calls AvailableFunc and records the call.
func (m *Mock) Available(ctx context.Context) error {
	m.record("Available", "")
	if m.AvailableFunc != nil {
		return m.AvailableFunc(ctx)
	}
	return nil
}

// Initialize calls InitializeFunc and records the call.
func (m *Mock) Initialize(ctx context.Context) error {
	m.record("Initialize", "")
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx)
	}
	return nil
}

// Generate calls GenerateFunc and records the call.
func (m *Mock) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.record("Generate", prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxTokens)
	}
	return "", WrapError(m.Name(), ErrNotInitialized)
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// record adds a call to the tracking list.
func (m *Mock) record(method, prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Prompt: prompt, Time: time.Now()})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Generator at compile time.
var _ Generator = (*Mock)(nil)

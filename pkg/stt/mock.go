package stt

import (
	"context"
	"sync"
	"time"
)

// Mock implements Transcriber for testing.
type Mock struct {
	// NameVal is returned by Name. Defaults to "mock".
	NameVal string

	// InitializeFunc is called when Initialize is invoked.
	InitializeFunc func(ctx context.Context) error

	// TranscribeFunc is called when Transcribe is invoked.
	TranscribeFunc func(ctx context.Context, provided string) (string, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method   string
	Provided string
	Time     time.Time
}

// NewMock creates a mock transcriber that echoes provided text.
func NewMock() *Mock {
	return &Mock{
		TranscribeFunc: func(ctx context.Context, provided string) (string, error) {
			return provided, nil
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

// Initialize calls InitializeFunc and records the call.
func (m *Mock) Initialize(ctx context.Context) error {
	m.record("Initialize", "")
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx)
	}
	return nil
}

// Transcribe calls TranscribeFunc and records the call.
func (m *Mock) Transcribe(ctx context.Context, provided string) (string, error) {
	m.record("Transcribe", provided)
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, provided)
	}
	return "", nil
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
func (m *Mock) record(method, provided string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Provided: provided, Time: time.Now()})
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

// Verify Mock implements Transcriber at compile time.
var _ Transcriber = (*Mock)(nil)

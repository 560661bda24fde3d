package tts

import (
	"context"
	"sync"
	"time"
)

// Mock implements Speaker for testing.
type Mock struct {
	// NameVal is returned by Name. Defaults to "mock".
	NameVal string

	// SpeakFunc is called when Speak is invoked.
	SpeakFunc func(ctx context.Context, text string) error

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Text   string
	Time   time.Time
}

// NewMock creates a mock speaker that accepts everything.
func NewMock() *Mock {
	return &Mock{}
}

// Name returns NameVal or "mock".
func (m *Mock) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Speak calls SpeakFunc and records the call.
func (m *Mock) Speak(ctx context.Context, text string) error {
	m.record("Speak", text)
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
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
func (m *Mock) record(method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Text: text, Time: time.Now()})
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

// Spoken returns the texts passed to Speak, in order.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		if c.Method == "Speak" {
			out = append(out, c.Text)
		}
	}
	return out
}

// Verify Mock implements Speaker at compile time.
var _ Speaker = (*Mock)(nil)

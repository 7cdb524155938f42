package converter

import (
	"sync"

	"github.com/ZaguanLabs/translit"
)

// MockConverter is a configurable converter for testing.
type MockConverter struct {
	ConverterName string            // Name reported to the engine (default: "mock")
	Outputs       map[string]string // Map of input text to output
	Err           error             // Returned from every call when set
	Unavailable   bool              // Reported through Available
	Panic         bool              // Panic inside Convert

	mu        sync.Mutex
	callCount int
	lastRules string
}

// NewMockConverter creates a mock converter with a few canned outputs.
// Unknown inputs are returned in brackets.
func NewMockConverter() *MockConverter {
	return &MockConverter{
		Outputs: map[string]string{
			"café":  "cafe",
			"héllo": "hello",
		},
	}
}

// Name returns the configured name.
func (m *MockConverter) Name() string {
	if m.ConverterName == "" {
		return "mock"
	}
	return m.ConverterName
}

// Available reports whether the mock is enabled.
func (m *MockConverter) Available() bool {
	return !m.Unavailable
}

// Convert returns the mapped output, or the bracketed input when unmapped.
func (m *MockConverter) Convert(text, rules string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRules = rules
	m.mu.Unlock()

	if m.Panic {
		panic("mock converter panic")
	}
	if m.Err != nil {
		return "", m.Err
	}
	if out, ok := m.Outputs[text]; ok {
		return out, nil
	}
	return "[" + text + "]", nil
}

// CallCount returns the number of Convert calls.
func (m *MockConverter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRules returns the rules passed to the most recent Convert call.
func (m *MockConverter) LastRules() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRules
}

// Reset resets the call count and last rules.
func (m *MockConverter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRules = ""
}

// Verify MockConverter implements Converter and Availability
var (
	_ Converter             = (*MockConverter)(nil)
	_ translit.Availability = (*MockConverter)(nil)
)

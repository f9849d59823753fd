package mock

import (
	"context"
	"fmt"
	"hash/fnv"
)

// MockCaptioner is a test double for ai.Captioner.
// It allows custom behavior injection via a function field.
type MockCaptioner struct {
	// CaptionFunc is called by Caption if set.
	// If nil, uses default deterministic behavior.
	CaptionFunc func(ctx context.Context, image []byte) (string, error)

	callCount int
}

// NewMockCaptioner creates a mock captioner with default deterministic behavior.
func NewMockCaptioner() *MockCaptioner {
	return &MockCaptioner{}
}

// Caption returns a deterministic description derived from the image bytes.
func (m *MockCaptioner) Caption(ctx context.Context, image []byte) (string, error) {
	m.callCount++

	if m.CaptionFunc != nil {
		return m.CaptionFunc(ctx, image)
	}

	h := fnv.New32a()
	h.Write(image)
	return fmt.Sprintf("mock description %08x", h.Sum32()), nil
}

// CallCount returns the number of times Caption was called.
func (m *MockCaptioner) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCaptioner) Reset() {
	m.callCount = 0
	m.CaptionFunc = nil
}

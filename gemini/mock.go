package gemini

import (
	"context"
	"sync"
)

// MockGenerator answers without a network call. It records every prompt it sees.
type MockGenerator struct {
	// Reply returns the answer for a prompt. When nil the answer is "ok".
	Reply func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Reply == nil {
		return "ok", nil
	}
	return m.Reply(prompt)
}

// Calls reports how many prompts reached the generator.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

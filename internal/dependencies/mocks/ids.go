package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/matchawards/internal/dependencies/ids"
)

// MockIDs is a deterministic Generator for testing
type MockIDs struct {
	mu     sync.Mutex
	prefix string
	queue  []string
	next   int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a generator returning "<prefix>-1", "<prefix>-2", ...
func NewMockIDs(prefix string) *MockIDs {
	return &MockIDs{prefix: prefix}
}

// NewID returns the next queued ID, falling back to a sequential one
func (g *MockIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}

// Queue adds IDs to be returned before sequential ones
func (g *MockIDs) Queue(values ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, values...)
}

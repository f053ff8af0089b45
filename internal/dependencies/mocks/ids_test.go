package mocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockIDs_QueuedThenSequential(t *testing.T) {
	g := NewMockIDs("vote")
	g.Queue("fixed")

	assert.Equal(t, "fixed", g.NewID())
	assert.Equal(t, "vote-1", g.NewID())
	assert.Equal(t, "vote-2", g.NewID())
}

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "queued", Name(Queued))
	assert.Equal(t, "processing", Name(Processing))
	assert.Equal(t, "done", Name(Done))
	assert.Equal(t, "error", Name(Failed))
}

func TestFrom(t *testing.T) {
	assert.Equal(t, Queued, From("queued"))
	assert.Equal(t, Processing, From("processing"))
	assert.Equal(t, Done, From("done"))
	assert.Equal(t, Failed, From("error"))
	assert.Equal(t, Status(0), From("olia"))
}

func TestTerminal(t *testing.T) {
	assert.False(t, Terminal(Queued))
	assert.False(t, Terminal(Processing))
	assert.True(t, Terminal(Done))
	assert.True(t, Terminal(Failed))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(Queued, Processing))
	assert.True(t, CanTransition(Processing, Done))
	assert.True(t, CanTransition(Processing, Failed))

	assert.False(t, CanTransition(Queued, Done))
	assert.False(t, CanTransition(Processing, Queued))
	assert.False(t, CanTransition(Done, Processing))
	assert.False(t, CanTransition(Failed, Processing))
	assert.False(t, CanTransition(Done, Failed))
}

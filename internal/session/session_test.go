package session

import (
	"testing"

	"github.com/soyeahso/voli/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionIsEmpty(t *testing.T) {
	s := New()
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Turns())
}

func TestAppendKeepsOrder(t *testing.T) {
	s := New()
	s.AppendUser("I feel terrible today.")
	s.AppendModel("What happened?")
	s.AppendUser("Thanks.")

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, Turn{Role: llm.RoleUser, Text: "I feel terrible today."}, turns[0])
	assert.Equal(t, Turn{Role: llm.RoleModel, Text: "What happened?"}, turns[1])
	assert.Equal(t, Turn{Role: llm.RoleUser, Text: "Thanks."}, turns[2])
}

func TestTurnsReturnsCopy(t *testing.T) {
	s := New()
	s.AppendUser("hello")

	turns := s.Turns()
	turns[0].Text = "changed"
	_ = append(turns, Turn{Role: llm.RoleModel, Text: "extra"})

	assert.Equal(t, "hello", s.Turns()[0].Text)
	assert.Equal(t, 1, s.Len())
}

func TestSessionsAreDistinct(t *testing.T) {
	a, b := New(), New()
	a.AppendUser("only in a")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}

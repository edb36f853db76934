// Package session holds the per-connection conversation transcript.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/voli/internal/llm"
)

// Turn is a single role-tagged entry in a conversation.
type Turn = llm.Message

// Session owns the ordered, append-only turn sequence of one connection.
// It is not safe for concurrent use; the owning connection serializes access.
type Session struct {
	ID        string
	CreatedAt time.Time

	turns []Turn
}

// New creates an empty session.
func New() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
}

// AppendUser records an inbound user message.
func (s *Session) AppendUser(text string) {
	s.turns = append(s.turns, Turn{Role: llm.RoleUser, Text: text})
}

// AppendModel records a completed model reply.
func (s *Session) AppendModel(text string) {
	s.turns = append(s.turns, Turn{Role: llm.RoleModel, Text: text})
}

// Turns returns a copy of the transcript in order.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of recorded turns.
func (s *Session) Len() int { return len(s.turns) }

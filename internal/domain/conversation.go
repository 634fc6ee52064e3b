package domain

import "strings"

// Turn is one message in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// ConversationLog is the append-only transcript of a session.
type ConversationLog struct {
	turns []Turn
}

// NewConversationLog creates a log seeded with turns (copied).
func NewConversationLog(turns ...Turn) *ConversationLog {
	l := &ConversationLog{}
	l.turns = append(l.turns, turns...)
	return l
}

func (l *ConversationLog) Append(role Role, content string) {
	l.turns = append(l.turns, Turn{Role: role, Content: content})
}

func (l *ConversationLog) Len() int { return len(l.turns) }

// Turns returns a copy of every turn.
func (l *ConversationLog) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Tail returns a copy of the last n turns. n <= 0 returns everything.
func (l *ConversationLog) Tail(n int) []Turn {
	if n <= 0 || n >= len(l.turns) {
		return l.Turns()
	}
	out := make([]Turn, n)
	copy(out, l.turns[len(l.turns)-n:])
	return out
}

// Transcript flattens turns into "role: content" pairs joined by spaces.
func Transcript(turns []Turn) string {
	parts := make([]string, len(turns))
	for i, t := range turns {
		parts[i] = string(t.Role) + ": " + t.Content
	}
	return strings.Join(parts, " ")
}

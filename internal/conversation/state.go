// Package conversation owns the chat log and the single in-flight request.
//
// A Controller accepts draft edits and submissions from a presentation
// layer, calls the answering service, and notifies subscribers after every
// mutation. It knows nothing about how the conversation is drawn.
package conversation

import "github.com/diogo/askchat/internal/models"

// State is a snapshot of the conversation.
type State struct {
	Messages []models.Message
	Pending  bool
	Draft    string
	// Version increases by one on every mutation. Observers use it to
	// drop snapshots that arrive after a newer one.
	Version uint64
}

// Len returns the number of messages in the log
func (s State) Len() int {
	return len(s.Messages)
}

// Last returns the newest message and whether the log is non-empty
func (s State) Last() (models.Message, bool) {
	if len(s.Messages) == 0 {
		return models.Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastAnswer returns the newest assistant message content, or ""
func (s State) LastAnswer() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == models.RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}

// clone copies the message slice so callers cannot alias controller state
func (s State) clone() State {
	out := s
	out.Messages = make([]models.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

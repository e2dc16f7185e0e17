// Package models holds the conversation data types shared by the controller,
// the answering-service client and the terminal UI.
package models

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FallbackAnswer replaces the assistant reply whenever a request fails.
const FallbackAnswer = "Sorry, something went wrong. Please try again."

// ThinkingLabel is shown as a transient assistant entry while a request is pending.
const ThinkingLabel = "Thinking..."

// Message represents a chat message. Messages are never modified after
// they are appended to a conversation.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// UserMessage creates a message authored by the user.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message authored by the assistant.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Package domain contains core domain types for the Portafina backend.
package domain

// Message roles accepted by the chat relay.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single normalized conversation turn: the provider-agnostic
// shape passed from the relay to the model client. Conversations are
// ephemeral. They live only in the caller's memory for the current
// session and are never persisted.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

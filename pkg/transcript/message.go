// Package transcript holds the in-memory message log for a single
// conversation with the downtime assistant. The Transcript owns every
// mutation rule for the in-flight assistant message: chunk accumulation,
// conversation-id binding, and the terminal transitions that end a turn.
package transcript

// Message roles. The assistant service only ever produces these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn entry in a conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// Loading is true while an assistant message is still receiving tokens.
	// It is cleared exactly once, when the turn reaches a terminal state.
	Loading bool `json:"loading,omitempty"`

	// Error marks the message as failed. Loading is always false once
	// Error is set by a terminal transition.
	Error bool `json:"error,omitempty"`
}

package transcript

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Transcript is the ordered message log of one conversation. All operations
// are safe for use from a streaming pipeline that resumes on every incoming
// frame; a single mutex guarantees events apply in arrival order.
//
// A turn is in flight while the last message is an assistant placeholder with
// Loading set. Exactly one of CompleteTurn, FailTurn, or FailTransport ends a
// turn; operations arriving after that are ignored so a misbehaving server
// emitting frames past its terminal event cannot reopen the turn.
type Transcript struct {
	mu             sync.Mutex
	conversationID string
	messages       []Message

	// firstToken is set by BeginTurn and consumed by the first AppendChunk of
	// the turn, which strips leading whitespace (model "thinking" padding).
	firstToken bool
}

// New returns an empty, unidentified transcript. The conversation id is
// assigned later by the server, mid-stream, on the first turn.
func New() *Transcript {
	return &Transcript{}
}

// ConversationID returns the server-assigned conversation id, or "" while the
// conversation has not been created server-side yet.
func (t *Transcript) ConversationID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conversationID
}

// Messages returns a snapshot copy of the message log.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// InFlight reports whether a turn is currently streaming.
func (t *Transcript) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight()
}

func (t *Transcript) inFlight() bool {
	if len(t.messages) == 0 {
		return false
	}
	last := t.messages[len(t.messages)-1]
	return last.Role == RoleAssistant && last.Loading
}

// BeginTurn appends the user message and an empty assistant placeholder in a
// single critical section, so observers never see one without the other.
// Returns false (and appends nothing) if a turn is already in flight.
func (t *Transcript) BeginTurn(userText string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inFlight() {
		return false
	}

	t.messages = append(t.messages,
		Message{Role: RoleUser, Content: userText},
		Message{Role: RoleAssistant, Loading: true},
	)
	t.firstToken = true
	return true
}

// AppendChunk appends streamed token text to the in-flight assistant message
// and returns the text actually appended, after two display transforms:
//
//   - the first chunk of a turn has its leading whitespace stripped;
//   - a bullet character not already at the start of a line is moved onto
//     its own line, so inline "a• b• c" renders as a list.
//
// Chunks arriving outside an in-flight turn are dropped and "" is returned.
func (t *Transcript) AppendChunk(text string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inFlight() {
		return ""
	}

	if t.firstToken {
		text = strings.TrimLeftFunc(text, unicode.IsSpace)
		t.firstToken = false
	}

	last := &t.messages[len(t.messages)-1]
	text = reflowBullets(text, lastRune(last.Content))
	last.Content += text
	return text
}

// BindConversationID records the server-assigned conversation id. The first
// bind reports first=true so the caller can raise its new-conversation
// notification exactly once. Binding the same id again is a no-op. Binding a
// different id over an existing one is a protocol violation and returns an
// error instead of silently overwriting.
func (t *Transcript) BindConversationID(id string) (first bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.conversationID == "":
		t.conversationID = id
		return true, nil
	case t.conversationID == id:
		return false, nil
	default:
		return false, fmt.Errorf("conversation already bound to %q, server sent conflicting id %q", t.conversationID, id)
	}
}

// CompleteTurn marks the in-flight assistant message as finished. The
// accumulated content stands as the final response.
func (t *Transcript) CompleteTurn() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inFlight() {
		return
	}
	t.messages[len(t.messages)-1].Loading = false
}

// FailTurn ends the in-flight turn with a server-reported error. The partial
// content accumulated so far is replaced by the error message: tokens
// received before an in-band error are known-incomplete and untrustworthy.
func (t *Transcript) FailTurn(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inFlight() {
		return
	}
	last := &t.messages[len(t.messages)-1]
	last.Loading = false
	last.Error = true
	last.Content = message
}

// FailTransport ends the in-flight turn after a network-level failure
// (connection refused, mid-stream read error, bad status). The assistant slot
// gets a synthesized error string; the distinction from FailTurn is the
// source of the message, not the observable end state.
func (t *Transcript) FailTransport(err error) {
	t.FailTurn(fmt.Sprintf("Error: %v", err))
}

// Replace swaps in a conversation loaded from the server's history endpoint.
// The existing log is discarded wholesale; history is never merged.
func (t *Transcript) Replace(conversationID string, messages []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.conversationID = conversationID
	t.messages = make([]Message, len(messages))
	copy(t.messages, messages)
	t.firstToken = false
}

// lastRune returns the final rune of s, or 0 for an empty string.
func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// reflowBullets rewrites every "•" that is not already preceded by a newline
// to start its own line. prev is the rune immediately before s in the
// accumulated content, so the transform stays correct across chunk
// boundaries. All other characters pass through untouched.
func reflowBullets(s string, prev rune) string {
	if !strings.ContainsRune(s, '•') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if r == '•' && prev != '\n' {
			b.WriteString("\n •")
			prev = r
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

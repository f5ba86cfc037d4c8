// Package agent is the streaming protocol client for the downtime assistant
// service. It classifies SSE frame payloads into a closed set of typed
// events, drives one request/response turn against a transcript, and wraps
// the service's conversation, feedback, and known-issue endpoints.
package agent

import (
	"encoding/json"
	"strings"
)

// Kind discriminates the closed set of protocol events the service emits.
// The set is fixed by the wire protocol; unrecognized payloads degrade to
// KindChunk rather than extending it.
type Kind int

const (
	// KindChunk carries an incremental slice of assistant response text.
	KindChunk Kind = iota

	// KindDone is the terminal success signal for a turn.
	KindDone

	// KindError is an in-band server error; the turn fails with the
	// server-supplied message.
	KindError

	// KindConversationID is the server assigning an id to a conversation
	// that the client started without one.
	KindConversationID
)

func (k Kind) String() string {
	switch k {
	case KindChunk:
		return "chunk"
	case KindDone:
		return "done"
	case KindError:
		return "error"
	case KindConversationID:
		return "conversation_id"
	}
	return "unknown"
}

// Event is one classified protocol event. Exactly one payload field is
// meaningful, selected by Kind: Content for chunks, Message for errors,
// ID for conversation-id assignments.
type Event struct {
	Kind    Kind
	Content string
	Message string
	ID      string
}

// doneSentinel is the literal terminal frame some upstream providers emit
// in place of a typed done event.
const doneSentinel = "[DONE]"

// wireEvent is the JSON shape of a typed frame. Payload fields are decoded
// as any so a frame with the right type but a wrong payload type (e.g. a
// numeric content) falls back to literal-text handling instead of failing.
type wireEvent struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
	Message any    `json:"message"`
	ID      any    `json:"id"`
}

// Classify maps one SSE frame's data payload to a typed event.
//
// Precedence: the [DONE] sentinel, then JSON objects with a recognized type
// discriminator, then everything else as a literal text chunk. The fallback
// is deliberate — upstream providers sometimes push plain-text errors or
// unstructured content through the stream, and dropping those frames would
// lose data the user should see.
//
// Blank frames are skipped entirely: ok is false and the event is invalid.
func Classify(raw string) (ev Event, ok bool) {
	data := strings.TrimSpace(raw)
	if data == "" {
		return Event{}, false
	}

	if data == doneSentinel {
		return Event{Kind: KindDone}, true
	}

	if strings.HasPrefix(data, "{") && strings.HasSuffix(data, "}") {
		var w wireEvent
		if err := json.Unmarshal([]byte(data), &w); err == nil {
			if ev, ok := classifyWire(w); ok {
				return ev, true
			}
		}
		// Unknown JSON shape or parse failure: fall through to literal text.
	}

	return Event{Kind: KindChunk, Content: data}, true
}

// classifyWire dispatches a decoded JSON frame by its type discriminator.
// ok is false when the shape is not recognized and the raw text should be
// surfaced as a chunk instead.
func classifyWire(w wireEvent) (Event, bool) {
	switch w.Type {
	case "chunk":
		if content, isStr := w.Content.(string); isStr {
			return Event{Kind: KindChunk, Content: content}, true
		}
	case "done":
		return Event{Kind: KindDone}, true
	case "error":
		if message, isStr := w.Message.(string); isStr {
			return Event{Kind: KindError, Message: message}, true
		}
	case "conversation_id":
		if id, isStr := w.ID.(string); isStr {
			return Event{Kind: KindConversationID, ID: id}, true
		}
	}
	return Event{}, false
}

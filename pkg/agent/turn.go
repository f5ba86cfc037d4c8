package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/plantworksco/foreman/pkg/transcript"
)

// TurnState is the session controller's per-turn state machine:
// Idle → Sending → Streaming → {Completed | Failed}. Terminal states are
// never re-entered; every turn starts fresh from Idle.
type TurnState int

const (
	TurnIdle TurnState = iota
	TurnSending
	TurnStreaming
	TurnCompleted
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnSending:
		return "sending"
	case TurnStreaming:
		return "streaming"
	case TurnCompleted:
		return "completed"
	case TurnFailed:
		return "failed"
	}
	return "unknown"
}

// TurnHooks are optional observation points for a running turn. Both fields
// may be nil. OnChunk receives the text actually appended to the transcript
// (post display transforms) so a streaming UI can echo tokens as they land.
// OnNewConversation fires at most once per turn, when the server assigns an
// id to a conversation that started without one; title is the turn's user
// message, which the conversation list uses as the initial title.
type TurnHooks struct {
	OnChunk           func(text string)
	OnNewConversation func(conversationID, title string)
}

// RunTurn executes one full turn against tr: submit the user text, stream
// the response, and land the assistant message in a terminal state.
//
// Empty input (after trimming) and submission while a turn is already in
// flight are both silent no-ops returning TurnIdle. Transport failures and
// in-band error events both return TurnFailed with the transcript already
// updated; the error return carries the cause for logging. A stream that
// closes without an explicit done event completes normally — transports may
// use connection close as their terminal signal.
//
// Events always apply to tr, the transcript the turn started on, regardless
// of which conversation the UI is showing when they arrive.
func (c *Client) RunTurn(ctx context.Context, tr *transcript.Transcript, sessionID, input string, hooks TurnHooks) (TurnState, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return TurnIdle, nil
	}

	if !tr.BeginTurn(text) {
		c.log.Debug("turn already in flight, submit ignored")
		return TurnIdle, nil
	}

	startedUnidentified := tr.ConversationID() == ""

	body, err := c.openStream(ctx, queryRequest{
		Query:          text,
		ConversationID: tr.ConversationID(),
		SessionID:      sessionID,
		ModelID:        c.modelID,
	})
	if err != nil {
		tr.FailTransport(err)
		return TurnFailed, err
	}
	defer body.Close()

	stream := NewStream(body)
	for {
		ev, err := stream.Next()
		if err != nil {
			tr.FailTransport(err)
			return TurnFailed, fmt.Errorf("reading stream: %w", err)
		}
		if ev == nil {
			// Clean close without an explicit done event: implicit done.
			tr.CompleteTurn()
			return TurnCompleted, nil
		}

		switch ev.Kind {
		case KindConversationID:
			first, err := tr.BindConversationID(ev.ID)
			if err != nil {
				tr.FailTurn(err.Error())
				return TurnFailed, err
			}
			if first && startedUnidentified {
				c.log.Debug("conversation created", "conversation_id", ev.ID)
				if hooks.OnNewConversation != nil {
					hooks.OnNewConversation(ev.ID, text)
				}
			}

		case KindChunk:
			appended := tr.AppendChunk(ev.Content)
			if appended != "" && hooks.OnChunk != nil {
				hooks.OnChunk(appended)
			}

		case KindError:
			tr.FailTurn(ev.Message)
			return TurnFailed, fmt.Errorf("agent error: %s", ev.Message)

		case KindDone:
			tr.CompleteTurn()
			return TurnCompleted, nil
		}
	}
}

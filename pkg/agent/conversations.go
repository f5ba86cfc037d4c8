package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/plantworksco/foreman/pkg/transcript"
)

// Conversation is one entry in a session's conversation list.
type Conversation struct {
	ID    string `json:"conversation_id"`
	Title string `json:"title"`
}

// ListConversations returns every conversation recorded for the session,
// newest first (server ordering is preserved).
func (c *Client) ListConversations(ctx context.Context, sessionID string) ([]Conversation, error) {
	var out struct {
		Conversations []Conversation `json:"conversations"`
	}

	u := c.target + "/conversations/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, u, &out); err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return out.Conversations, nil
}

// History fetches the ordered message log of a conversation. Callers feed
// the result straight into Transcript.Replace; the client never merges.
func (c *Client) History(ctx context.Context, conversationID, sessionID string) ([]transcript.Message, error) {
	var out struct {
		Messages []transcript.Message `json:"messages"`
	}

	u := fmt.Sprintf("%s/conversations?conversation_id=%s&session_id=%s",
		c.target, url.QueryEscape(conversationID), url.QueryEscape(sessionID))
	if err := c.doJSON(ctx, http.MethodGet, u, &out); err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	return out.Messages, nil
}

// CreateConversation explicitly creates an empty conversation. Normally the
// server creates one implicitly on the first turn and announces it with a
// conversation_id event; this exists for pre-naming a conversation.
func (c *Client) CreateConversation(ctx context.Context, sessionID, title string) (Conversation, error) {
	var out Conversation

	u := fmt.Sprintf("%s/conversations/create?session_id=%s&title=%s",
		c.target, url.QueryEscape(sessionID), url.QueryEscape(title))
	if err := c.doJSON(ctx, http.MethodPost, u, &out); err != nil {
		return Conversation{}, fmt.Errorf("creating conversation: %w", err)
	}
	return out, nil
}

// DeleteConversation removes one conversation from the session.
func (c *Client) DeleteConversation(ctx context.Context, sessionID, conversationID string) error {
	u := c.target + "/conversations/" + url.PathEscape(sessionID) + "/" + url.PathEscape(conversationID)
	if err := c.doJSON(ctx, http.MethodDelete, u, nil); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}

// DeleteAllConversations clears the session's entire conversation list.
func (c *Client) DeleteAllConversations(ctx context.Context, sessionID string) error {
	u := c.target + "/conversations/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodDelete, u, nil); err != nil {
		return fmt.Errorf("deleting conversations: %w", err)
	}
	return nil
}

// RenameConversation updates a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, sessionID, conversationID, title string) error {
	u := fmt.Sprintf("%s/conversations?session_id=%s&conversation_id=%s&title=%s",
		c.target, url.QueryEscape(sessionID), url.QueryEscape(conversationID), url.QueryEscape(title))
	if err := c.doJSON(ctx, http.MethodPut, u, nil); err != nil {
		return fmt.Errorf("renaming conversation: %w", err)
	}
	return nil
}

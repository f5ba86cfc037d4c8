package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// feedbackRequest rates one completed assistant message within a
// conversation. MessageIndex is the zero-based position in the transcript.
type feedbackRequest struct {
	ConversationID string `json:"conversation_id"`
	MessageIndex   int    `json:"message_index"`
	Rating         string `json:"rating"`
}

// SendFeedback submits a rating for a completed assistant message. The call
// is fire-and-forget from the transcript's point of view: nothing in the
// conversation state depends on the outcome, callers typically just log a
// returned error.
func (c *Client) SendFeedback(ctx context.Context, conversationID string, messageIndex int, rating string) error {
	body, err := json.Marshal(feedbackRequest{
		ConversationID: conversationID,
		MessageIndex:   messageIndex,
		Rating:         rating,
	})
	if err != nil {
		return fmt.Errorf("marshaling feedback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+"/feedback", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sending feedback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

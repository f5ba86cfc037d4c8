package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// KnownIssue is one entry in the service's known-issues knowledge base,
// curated by operators and consulted by the assistant when answering
// downtime questions.
type KnownIssue struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Solution    string `json:"solution"`
	Author      string `json:"author"`
}

// ListKnownIssues returns the full known-issues list.
func (c *Client) ListKnownIssues(ctx context.Context) ([]KnownIssue, error) {
	var out struct {
		KnownIssues []KnownIssue `json:"known_issues"`
	}

	if err := c.doJSON(ctx, http.MethodGet, c.target+"/known_issues/", &out); err != nil {
		return nil, fmt.Errorf("listing known issues: %w", err)
	}
	return out.KnownIssues, nil
}

// AddKnownIssue records a new known issue and returns it with the
// server-assigned id.
func (c *Client) AddKnownIssue(ctx context.Context, issue KnownIssue) (KnownIssue, error) {
	var out KnownIssue

	u := fmt.Sprintf("%s/known_issues/?%s", c.target, issueParams(issue))
	if err := c.doJSON(ctx, http.MethodPost, u, &out); err != nil {
		return KnownIssue{}, fmt.Errorf("adding known issue: %w", err)
	}
	return out, nil
}

// UpdateKnownIssue replaces the fields of an existing known issue.
func (c *Client) UpdateKnownIssue(ctx context.Context, issue KnownIssue) error {
	u := fmt.Sprintf("%s/known_issues/%d?%s", c.target, issue.ID, issueParams(issue))
	if err := c.doJSON(ctx, http.MethodPut, u, nil); err != nil {
		return fmt.Errorf("updating known issue: %w", err)
	}
	return nil
}

// DeleteKnownIssue removes a known issue by id.
func (c *Client) DeleteKnownIssue(ctx context.Context, id int) error {
	u := c.target + "/known_issues/" + strconv.Itoa(id)
	if err := c.doJSON(ctx, http.MethodDelete, u, nil); err != nil {
		return fmt.Errorf("deleting known issue: %w", err)
	}
	return nil
}

// issueParams encodes issue fields as query parameters, the service's
// expected format for known-issue writes.
func issueParams(issue KnownIssue) string {
	params := url.Values{}
	params.Set("title", issue.Title)
	params.Set("description", issue.Description)
	params.Set("solution", issue.Solution)
	params.Set("author", issue.Author)
	return params.Encode()
}

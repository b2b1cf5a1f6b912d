package github

import (
	"context"
	"encoding/json"
	"fmt"

	"alertbridge/internal"

	gh "github.com/google/go-github/v57/github"
)

// DefaultDispatchEvent is the versioned event type downstream workflows
// filter on.
const DefaultDispatchEvent = "dependabot-alert-v1"

// DispatchClient raises repository_dispatch events carrying normalized
// alert payloads. It holds no credentials; the caller supplies the
// installation token for each call.
type DispatchClient struct {
	eventType string
	baseURL   string
}

func NewDispatchClient(eventType, baseURL string) *DispatchClient {
	if eventType == "" {
		eventType = DefaultDispatchEvent
	}
	return &DispatchClient{eventType: eventType, baseURL: baseURL}
}

// Dispatch issues exactly one repository_dispatch call for owner/repo
// with the payload attached as client_payload. Success is GitHub's
// acceptance of the call; whether any workflow runs is not tracked.
func (c *DispatchClient) Dispatch(ctx context.Context, token, owner, repo string, payload internal.DispatchPayload) error {
	client, err := NewAPIClient(ctx, token, c.baseURL)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	attachment := json.RawMessage(raw)
	_, _, err = client.Repositories.Dispatch(ctx, owner, repo, gh.DispatchRequestOptions{
		EventType:     c.eventType,
		ClientPayload: &attachment,
	})
	if err != nil {
		return fmt.Errorf("repository dispatch %s/%s: %w", owner, repo, err)
	}
	return nil
}

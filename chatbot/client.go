// Package chatbot fetches conversational replies from a Brainshop-style
// HTTP API. Replies are best effort: a failure drops the reply and is never
// retried here.
package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"popcat/models"
)

// DefaultBaseURL is the public Brainshop endpoint the relay talks to.
const DefaultBaseURL = "http://api.brainshop.ai"

// Client talks to the chat API. BrainID and APIKey identify the configured
// brain; both are required.
type Client struct {
	baseURL    string
	brainID    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a chat client. Pass nil for a default HTTP client; the
// caller is expected to supply one with a bounded timeout.
func NewClient(baseURL, brainID, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		brainID:    brainID,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type replyResponse struct {
	Content string `json:"cnt"`
}

// Reply fetches the bot's answer to one user message. The user ID keys the
// conversation so the brain keeps per-user context.
func (c *Client) Reply(ctx context.Context, userID int64, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: empty message", models.ErrValidation)
	}

	params := url.Values{}
	params.Set("bid", c.brainID)
	params.Set("key", c.apiKey)
	params.Set("uid", strconv.FormatInt(userID, 10))
	params.Set("msg", message)

	endpoint := fmt.Sprintf("%s/get?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: chat fetch: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: chat fetch: status %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var raw replyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("%w: chat decode: %v", models.ErrUpstreamUnavailable, err)
	}

	if raw.Content == "" {
		return "", fmt.Errorf("%w: empty chat reply", models.ErrUpstreamUnavailable)
	}
	return raw.Content, nil
}

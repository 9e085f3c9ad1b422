package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JSONbored/directory-relay/dispatch"
	"github.com/JSONbored/directory-relay/retry"
)

/* Client delivers notifications to a Discord-compatible webhook. Create
 * posts with wait=true so the API returns the created message object,
 * whose id is the handle later updates address. Update patches the
 * message in place; a 404 means it was deleted out-of-band and maps to
 * dispatch.ErrMessageNotFound so the reconciler can recover.
 */
type Client struct {
	webhookURL string
	exec       *retry.Executor
}

func NewClient(webhookURL string, exec *retry.Executor) (*Client, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("webhook url must be http or https")
	}
	if exec == nil {
		exec = retry.New(nil)
	}
	return &Client{
		webhookURL: strings.TrimRight(webhookURL, "/"),
		exec:       exec,
	}, nil
}

// message is the slice of the API's message object we need
type message struct {
	ID string `json:"id"`
}

func (c *Client) Create(ctx context.Context, payload json.RawMessage) (string, error) {
	// wait=true makes the API respond with the message object instead of 204
	target := c.webhookURL + "?wait=true"
	res, err := c.exec.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return newJSONRequest(ctx, http.MethodPost, target, payload)
	})
	if err != nil {
		return "", fmt.Errorf("creating webhook message: %w", err)
	}
	defer res.Response.Body.Close()

	var msg message
	if err := json.NewDecoder(res.Response.Body).Decode(&msg); err != nil {
		return "", fmt.Errorf("decoding webhook response: %w", err)
	}
	if msg.ID == "" {
		return "", fmt.Errorf("webhook response missing message id")
	}
	return msg.ID, nil
}

func (c *Client) Update(ctx context.Context, messageID string, payload json.RawMessage) error {
	target := c.webhookURL + "/messages/" + url.PathEscape(messageID)
	res, err := c.exec.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return newJSONRequest(ctx, http.MethodPatch, target, payload)
	})
	if err != nil {
		var status *retry.StatusError
		if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
			return dispatch.ErrMessageNotFound
		}
		return fmt.Errorf("updating webhook message: %w", err)
	}
	res.Response.Body.Close()
	return nil
}

func newJSONRequest(ctx context.Context, method, target string, payload json.RawMessage) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

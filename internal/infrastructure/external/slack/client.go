// Package slack implements a Slack incoming-webhook client.
// This package handles the outbound notifications of the BerryLearn Badge
// Hub: sharing selected submissions to the student showcase channel and
// announcing freshly unlocked badges.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/berrylearn/badge-hub/pkg/circuitbreaker"
	"github.com/berrylearn/badge-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Slack webhook client.
type ClientConfig struct {
	// WebhookURL is the Slack incoming-webhook endpoint
	WebhookURL string

	// BotName is the display name messages are posted under
	BotName string

	// IconEmoji is the bot avatar, e.g. ":female-teacher:"
	IconEmoji string

	// DefaultChannel is used when a message names no channel
	DefaultChannel string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(webhookURL string) ClientConfig {
	return ClientConfig{
		WebhookURL:     webhookURL,
		BotName:        "Student Projects Bot",
		IconEmoji:      ":female-teacher:",
		DefaultChannel: "#student-projects",
		Timeout:        10 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Attachment is one colored message block.
type Attachment struct {
	Color     string `json:"color,omitempty"`
	Title     string `json:"title,omitempty"`
	Text      string `json:"text,omitempty"`
	Footer    string `json:"footer,omitempty"`
	Timestamp int64  `json:"ts,omitempty"`
}

// Message is an incoming-webhook payload.
type Message struct {
	Channel     string       `json:"channel,omitempty"`
	Username    string       `json:"username,omitempty"`
	IconEmoji   string       `json:"icon_emoji,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client posts messages to a Slack incoming webhook. Calls go through a
// retrier and a circuit breaker: Slack being down must never take the
// evaluation path down with it.
type Client struct {
	config         ClientConfig
	httpClient     *http.Client
	logger         *slog.Logger
	retrier        *retry.Retrier
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a new Slack webhook client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  config.Logger,
		retrier: retry.WebhookRetrier(),
	}

	c.circuitBreaker = circuitbreaker.WebhookBreaker(func(name string, from, to circuitbreaker.State) {
		c.logger.Warn("slack circuit breaker state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		)
	})

	return c
}

// Post sends one message to the webhook, filling in the configured bot
// identity and default channel where the message leaves them blank.
func (c *Client) Post(ctx context.Context, msg Message) error {
	if msg.Channel == "" {
		msg.Channel = c.config.DefaultChannel
	}
	if msg.Username == "" {
		msg.Username = c.config.BotName
	}
	if msg.IconEmoji == "" {
		msg.IconEmoji = c.config.IconEmoji
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	return c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			return c.post(ctx, body)
		})
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	if c.config.Debug {
		c.logger.Debug("posting slack message", "payload", string(body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	// Slack returns 429 and 5xx transiently; everything else means the
	// payload or webhook itself is bad and retrying cannot help.
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return retry.Retryable(fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, respBody))
	}
	return retry.Permanent(fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, respBody))
}

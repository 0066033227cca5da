package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrSlackDisabled = errors.New("slack notifier disabled")

// Slack mirrors notices to an incoming webhook so operators see check
// outcomes outside the panel.
type Slack struct {
	Webhook  string
	Username string
	Client   *http.Client
}

// NewSlack returns nil when webhook is empty so callers can skip it in a Multi.
func NewSlack(webhook string) *Slack {
	webhook = strings.TrimSpace(webhook)
	if webhook == "" {
		return nil
	}
	return &Slack{
		Webhook:  webhook,
		Username: "docsync",
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Username string `json:"username,omitempty"`
	Text     string `json:"text"`
}

func (s *Slack) Send(ctx context.Context, title, text string) error {
	if s == nil || s.Webhook == "" {
		return ErrSlackDisabled
	}
	msg := slackMessage{Username: s.Username, Text: text}
	if title != "" {
		msg.Text = fmt.Sprintf("*%s*: %s", title, text)
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("slack: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}

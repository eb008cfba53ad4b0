package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vertilift/vertilift-backend/pkg/config"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
)

// Email is one outbound message. Plain text only; notification templates keep
// to customer-visible quote and order data.
type Email struct {
	To      []string `json:"to"`
	From    string   `json:"from"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Sender is what the notification dispatcher depends on.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Client talks to a Resend-compatible HTTP API.
type Client struct {
	cfg        config.MailerConfig
	httpClient *http.Client
}

func NewClient(cfg config.MailerConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("mailer base url is required")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "email recipient is required")
	}
	if email.From == "" {
		email.From = c.cfg.FromAddress
	}

	body, err := json.Marshal(email)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "email provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("email provider returned %d: %s", resp.StatusCode, string(snippet)))
	}
	return nil
}

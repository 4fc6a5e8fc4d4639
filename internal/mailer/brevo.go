package mailer

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

const defaultBaseURL = "https://api.brevo.com/v3"

// Client sends transactional email through the Brevo HTTP API. A nil Client
// is safe to call; sends fail with an error, which lets the notifier run in
// environments without mail credentials.
type Client struct {
	apiKey      string
	senderEmail string
	senderName  string
	baseURL     string
	httpClient  *http.Client
}

func New(apiKey, senderEmail, senderName, baseURL string) *Client {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(senderEmail) == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

// SendHTML sends one HTML email and returns the provider message id.
func (c *Client) SendHTML(ctx context.Context, toEmail, toName, subject, htmlBody string) (string, error) {
	if c == nil {
		return "", errors.New("mailer not configured")
	}
	if strings.TrimSpace(toEmail) == "" {
		return "", errors.New("missing recipient email")
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("missing subject")
	}

	payload := sendRequest{
		Sender:      sender{Name: c.senderName, Email: c.senderEmail},
		To:          []recipient{{Email: toEmail, Name: toName}},
		Subject:     subject,
		HTMLContent: htmlBody,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/smtp/email", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("mail send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode mail response: %w", err)
	}
	return out.MessageID, nil
}

type sendRequest struct {
	Sender      sender      `json:"sender"`
	To          []recipient `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent,omitempty"`
}

type sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

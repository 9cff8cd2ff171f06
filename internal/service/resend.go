package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var ErrEmailDisabled = errors.New("email sending disabled")

type ResendClient struct {
	apiKey   string
	from     string
	fromName string
	http     *http.Client
}

func NewResendClient() *ResendClient {
	return &ResendClient{
		apiKey:   os.Getenv("RESEND_API_KEY"),
		from:     os.Getenv("RESEND_FROM_EMAIL"),
		fromName: os.Getenv("RESEND_FROM_NAME"),
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *ResendClient) Enabled() bool {
	return r != nil && r.apiKey != "" && r.from != ""
}

// SendNewsletter delivers one test email and returns the provider's
// email id for the delivery record.
func (r *ResendClient) SendNewsletter(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if !r.Enabled() {
		return "", ErrEmailDisabled
	}

	body, _ := json.Marshal(map[string]any{
		"from":    r.formattedFrom(),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.resend.com/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("resend: status %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("resend: decode response: %w", err)
	}
	return out.ID, nil
}

func (r *ResendClient) formattedFrom() string {
	addr := strings.TrimSpace(r.from)
	if addr == "" {
		return ""
	}
	if strings.Contains(addr, "<") && strings.Contains(addr, ">") {
		return addr
	}
	name := strings.TrimSpace(r.fromName)
	if name == "" {
		name = "NewsletterAI"
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

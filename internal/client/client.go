// Package client talks to the stack API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/a2a"
	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ResponseError is a non-2xx reply from the API.
type ResponseError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Is lets callers match API errors against the apierr sentinels.
func (e *ResponseError) Is(target error) bool {
	switch target {
	case apierr.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case apierr.ErrInvalidArgument:
		return e.StatusCode == http.StatusBadRequest
	case apierr.ErrUnavailable:
		return e.StatusCode == http.StatusServiceUnavailable
	}
	return false
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "OK" {
		return &ResponseError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected health response %d %q", resp.StatusCode, body)}
	}
	return nil
}

func (c *Client) GenerateStack(ctx context.Context, req models.GenerateStackRequest) (*models.GenerateStackResponse, error) {
	var out models.GenerateStackResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate-stack", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStack(ctx context.Context, profileID string) (*models.StackResult, error) {
	var out models.StackResult
	if err := c.do(ctx, http.MethodGet, "/api/stack/"+url.PathEscape(profileID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentIntent returns the client secret. A nil amount lets the server
// pick its default.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount *int64) (string, error) {
	var out models.PaymentIntentResponse
	if err := c.do(ctx, http.MethodPost, "/api/create-payment-intent", models.PaymentIntentRequest{Amount: amount}, &out); err != nil {
		return "", err
	}
	return out.ClientSecret, nil
}

func (c *Client) AgentCard(ctx context.Context) (*a2a.AgentCard, error) {
	var out a2a.AgentCard
	if err := c.do(ctx, http.MethodGet, "/.well-known/agent.json", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := &ResponseError{StatusCode: resp.StatusCode}
		var eb struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if json.Unmarshal(raw, &eb) == nil {
			rerr.Message, rerr.Code = eb.Message, eb.Code
		}
		return rerr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

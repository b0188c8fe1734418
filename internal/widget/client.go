package widget

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

	"github.com/sidmandirwala/portafina/internal/domain"
)

// ErrRateLimited is returned when the server answers 429.
var ErrRateLimited = errors.New("too many requests")

// HTTPRelay talks to POST /api/chat. The HTTP client carries no global
// timeout: replies stream for as long as the model talks, bounded only
// by the caller's context.
type HTTPRelay struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRelay creates a relay client for the given server base URL.
func NewHTTPRelay(baseURL string) *HTTPRelay {
	return &HTTPRelay{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Stream posts the conversation and returns the streaming answer body.
func (c *HTTPRelay) Stream(ctx context.Context, messages []domain.Message) (io.ReadCloser, error) {
	payload, err := json.Marshal(map[string]interface{}{"messages": messages})
	if err != nil {
		return nil, fmt.Errorf("marshal conversation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post conversation: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// HTTPLeads talks to POST /api/leads. The honeypot field is sent empty
// and loadedAt is fixed at client construction, standing in for the
// page-load timestamp.
type HTTPLeads struct {
	baseURL  string
	client   *http.Client
	loadedAt time.Time
}

// NewHTTPLeads creates a lead form client for the given server base URL.
func NewHTTPLeads(baseURL string) *HTTPLeads {
	return &HTTPLeads{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
		loadedAt: time.Now(),
	}
}

// Send submits the lead form.
func (c *HTTPLeads) Send(ctx context.Context, name, email string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"email":     email,
		"website":   "",
		"loaded_at": c.loadedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/leads", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post lead: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return errors.New(body.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

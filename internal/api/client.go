package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/flashdeck/internal"
)

// maxBodySize bounds how much of a response is read into memory. Larger
// responses are rejected rather than truncated.
var maxBodySize int64 = 20 * 1024 * 1024

// Config holds the server connection settings
type Config struct {
	BaseURL string
	Token   string        // optional bearer token
	Timeout time.Duration // per request

	// Circuit breaker settings
	MaxFailures uint32        // consecutive failures before the breaker opens
	OpenTimeout time.Duration // how long the breaker stays open

	HTTPClient *http.Client // optional, mostly for tests
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8080",
		Timeout:     15 * time.Second,
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

// Client talks to the vocabulary server
type Client struct {
	base    *url.URL
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a new server client
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("server base URL is required")
	}

	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server base URL: unsupported scheme %q", base.Scheme)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	maxFailures := config.MaxFailures
	if maxFailures == 0 {
		maxFailures = DefaultConfig().MaxFailures
	}

	c := &Client{
		base:  base,
		token: config.Token,
		http:  httpClient,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "flashdeck-api",
		Timeout: config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A 4xx is an answer, not an outage, and a request the caller
		// cancelled says nothing about the server.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && se.IsClientError()
		},
	})

	return c, nil
}

// BreakerState reports the circuit breaker state ("closed", "open", "half-open").
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

type response struct {
	status      int
	contentType string
	body        []byte
}

// do sends one request through the breaker. It never retries.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) (*response, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, method, path, query, in)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
		}
		return nil, err
	}
	return out.(*response), nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any) (*response, error) {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "flashdeck/"+internal.Version)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %w", ErrNetwork, method, path, err)
	}
	if int64(len(data)) > maxBodySize {
		return nil, fmt.Errorf("%w: %s %s: response too large (over %d bytes)", ErrServer, method, path, maxBodySize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// errorMessage pulls {"message": ...} out of an error body, falling back to
// the trimmed text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func decode(resp *response, out any) error {
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%w: malformed response: %w", ErrServer, err)
	}
	return nil
}

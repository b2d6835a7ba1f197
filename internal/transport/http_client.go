package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HTTPClient provides the JSON request plumbing shared by list fetchers
type HTTPClient struct {
	client  *http.Client
	baseURL string
	name    string // client name for logging and User-Agent
	headers map[string]string
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(name string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		name:    name,
		headers: map[string]string{},
	}
}

// SetBaseURL sets the base URL for all requests
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetBearerToken adds an Authorization header to every request
func (c *HTTPClient) SetBearerToken(token string) {
	if token == "" {
		delete(c.headers, "Authorization")
		return
	}
	c.headers["Authorization"] = "Bearer " + token
}

// PostJSON makes a POST request with JSON payload
func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, payload any) (*HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Get makes a GET request with the given query parameters
func (c *HTTPClient) Get(ctx context.Context, endpoint string, params url.Values) (*HTTPResponse, error) {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*HTTPResponse, error) {
	requestID := uuid.NewString()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("listkit/%s", c.name))
	req.Header.Set("X-Request-ID", requestID)
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	log.Debug().
		Str("client", c.name).
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("url", req.URL.Path).
		Msg("making HTTP request")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().
			Str("client", c.name).
			Str("request_id", requestID).
			Str("url", req.URL.Path).
			Err(err).
			Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	return c.handleResponse(resp, requestID)
}

// handleResponse processes the HTTP response
func (c *HTTPClient) handleResponse(resp *http.Response, requestID string) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("client", c.name).
		Str("request_id", requestID).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received HTTP response")

	return &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		RequestID:  requestID,
	}, nil
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

// IsSuccess checks if the response indicates success (2xx status code)
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON unmarshals the response body into the provided value
func (r *HTTPResponse) UnmarshalJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// String returns the response body as a string
func (r *HTTPResponse) String() string {
	return string(r.Body)
}

// Package client is a Go consumer of the finbook REST API. It owns the
// per-resource fetch state (loading, error, current data) and the
// mutation facades the page controllers compose.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the server's error body.
// FieldErrors is populated when the server returned validation details.
type APIError struct {
	Status      int
	Code        string
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// HasFieldErrors reports whether the server attached field-level details.
func (e *APIError) HasFieldErrors() bool { return len(e.FieldErrors) > 0 }

// Client talks to the finbook API. It is safe for use from a single
// page controller; resources built on it guard against stale responses.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
		if len(body.Error.Details) > 0 {
			apiErr.FieldErrors = make(map[string]string, len(body.Error.Details))
			for _, d := range body.Error.Details {
				apiErr.FieldErrors[d.Field] = d.Message
			}
		}
	}
	return apiErr
}

// internal/surveyclient/client.go
//
// Package surveyclient drives the canopyhub survey API from the client side:
// saving an edited survey and checking the stored copy, adding areas and
// moving between the areas of a collection.
package surveyclient

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

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds one HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 << 20

	surveysPath     = "/api/surveys/kitchenSurveys"
	collectionsPath = "/api/surveys/collections"
	priceListPath   = "/api/priceList"
)

// Client talks to one canopyhub server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

// New returns a Client for baseURL. A zero timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Log:     logger,
	}
}

// envelope mirrors the server's response body.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.message())
}

// message returns the envelope error text when the body is an envelope.
func (e *APIError) message() string {
	var env envelope
	if err := json.Unmarshal([]byte(e.Body), &env); err == nil && env.Error != "" {
		return env.Error
	}
	return e.Body
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

type response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, header http.Header) (response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Error("HTTP request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return response{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > MaxResponseSize {
		return response{}, fmt.Errorf("response body too large (max %d bytes)", MaxResponseSize)
	}

	c.Log.Debug("HTTP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// doJSON sends in as JSON (when non-nil) and decodes the envelope data of a
// 2xx answer into out (when non-nil). It returns the status code.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, header http.Header) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		if header == nil {
			header = http.Header{}
		}
		header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(ctx, method, path, body, header)
	if err != nil {
		return 0, err
	}
	if resp.Status < 200 || resp.Status > 299 {
		return resp.Status, &APIError{Method: method, Path: path, Status: resp.Status, Body: string(resp.Body)}
	}
	if out == nil {
		return resp.Status, nil
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return resp.Status, fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return resp.Status, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return resp.Status, fmt.Errorf("decode response data: %w", err)
	}
	return resp.Status, nil
}

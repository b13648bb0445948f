// Package client calls a running preview server
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/LingHeChen/datevar/preview"
)

// Response is a raw server response
type Response struct {
	StatusCode  int           // HTTP status code
	ContentType string        // Content-Type header
	Body        []byte        // response body
	Duration    time.Duration // time taken by the request
}

// String returns the body as a string
func (r *Response) String() string {
	return string(r.Body)
}

// Client talks to a preview server
type Client struct {
	baseURL    string
	httpClient *fasthttp.Client
	timeout    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithDial replaces the dialer, e.g. with an in-memory listener
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *Client) {
		c.httpClient.Dial = dial
	}
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &fasthttp.Client{Name: "datevar"},
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends a request to path. A non-nil form is sent url-encoded.
func (c *Client) Do(ctx context.Context, method, path string, form map[string]string, accept string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if accept != "" {
		req.Header.Set(fasthttp.HeaderAccept, accept)
	}
	if form != nil {
		args := fasthttp.AcquireArgs()
		defer fasthttp.ReleaseArgs(args)
		for k, v := range form {
			args.Set(k, v)
		}
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBody(args.QueryString())
	}

	deadline := start.Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return &Response{
		StatusCode:  resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        body,
		Duration:    time.Since(start),
	}, nil
}

// Preview renders content against dateParam on the server. An empty or
// invalid dateParam renders against the server's today.
func (c *Client) Preview(ctx context.Context, content, dateParam string) (*preview.Result, error) {
	resp, err := c.Do(ctx, fasthttp.MethodPost, "/preview", map[string]string{
		"content": content,
		"date":    dateParam,
	}, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != fasthttp.StatusOK {
		return nil, fmt.Errorf("preview: unexpected status %d: %s", resp.StatusCode, resp.String())
	}
	var res preview.Result
	if err := json.Unmarshal(resp.Body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode preview: %w", err)
	}
	return &res, nil
}

// Health reports whether the server answers /healthz
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.Do(ctx, fasthttp.MethodGet, "/healthz", nil, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != fasthttp.StatusOK {
		return fmt.Errorf("health: unexpected status %d", resp.StatusCode)
	}
	return nil
}

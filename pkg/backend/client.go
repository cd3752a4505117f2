package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxResponseBytes = 1 << 20

// Request is the body posted to the assistant endpoint.
type Request struct {
	Prompt string `json:"prompt"`
}

// Response is the body returned by the assistant endpoint. Only Response is
// required; Status is advisory and Detail is only meaningful on failures.
type Response struct {
	Status   string  `json:"status,omitempty"`
	Response *string `json:"response,omitempty"`
	Detail   string  `json:"detail,omitempty"`
}

// Client talks to a single assistant endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = strings.TrimSpace(ua)
	}
}

// NewClient validates endpoint and returns a client for it. The default http
// client has no timeout: a request lasts as long as the caller's context.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "parse endpoint %q", endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, errors.Errorf("endpoint %q: missing host", endpoint)
	}

	c := &Client{
		url:        endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) URL() string { return c.url }

// Ask posts prompt and returns the reply text.
//
// Errors are *HTTPError for non-2xx statuses, ErrMalformedBody for undecodable
// 2xx bodies, ErrMissingReply when the reply field is absent, null or empty,
// and a wrapped transport error otherwise.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(Request{Prompt: prompt})
	if err != nil {
		return "", errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug().Str("url", c.url).Int("prompt_len", len(prompt)).Msg("posting prompt")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "post prompt")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newHTTPError(resp.StatusCode, body)
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", errors.Wrapf(ErrMalformedBody, "status %d: %v", resp.StatusCode, err)
	}

	if decoded.Status != "" && decoded.Status != "success" {
		log.Debug().Str("status", decoded.Status).Msg("backend status is not success, using reply anyway")
	}

	if decoded.Response == nil || strings.TrimSpace(*decoded.Response) == "" {
		return "", ErrMissingReply
	}

	return *decoded.Response, nil
}

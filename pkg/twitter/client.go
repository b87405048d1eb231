// Package twitter is a minimal X (Twitter) API v2 client able to create posts on behalf of
// a user. Requests are signed with OAuth 1.0a user context. The client waits for a shared
// posting quota before each request and, on HTTP 429, waits for the window reset reported
// by the API before trying again.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API endpoint
const DefaultBaseURL = "https://api.twitter.com"

// Credentials are the four user-context secrets needed to post
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four values are set
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// Secrets returns non-empty values, for log masking
func (c Credentials) Secrets() []string {
	res := []string{}
	for _, s := range []string{c.APIKey, c.APISecret, c.AccessToken, c.AccessSecret} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

// Tweet is a created post
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// APIError is a non-successful response from the API
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// RateLimitError is returned on HTTP 429, Reset is the time the window opens again
type RateLimitError struct {
	APIError
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited until %s: %s", e.Reset.Format(time.RFC3339), e.APIError.Error())
}

// Params to make Client
type Params struct {
	Credentials Credentials
	BaseURL     string        // default DefaultBaseURL
	Limiter     *rate.Limiter // shared posting quota, nil disables client-side limiting
	MaxAttempts int           // attempts on rate limit responses, default 3
	Timeout     time.Duration // per-request timeout, default 30s
	Transport   http.RoundTripper
}

// Client posts to the API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *rate.Limiter
	maxAttempts int
}

// New makes Client. Credentials must be complete.
func New(p Params) (*Client, error) {
	if !p.Credentials.Complete() {
		return nil, errors.New("incomplete credentials")
	}
	if p.BaseURL == "" {
		p.BaseURL = DefaultBaseURL
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}

	// oauth1 takes the base transport from the client in context
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{Transport: p.Transport})
	cfg := oauth1.NewConfig(p.Credentials.APIKey, p.Credentials.APISecret)
	httpClient := cfg.Client(ctx, oauth1.NewToken(p.Credentials.AccessToken, p.Credentials.AccessSecret))
	httpClient.Timeout = p.Timeout

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(p.BaseURL, "/"),
		limiter:     p.Limiter,
		maxAttempts: p.MaxAttempts,
	}, nil
}

// CreateTweet posts text and returns the created tweet
func (c *Client) CreateTweet(ctx context.Context, text string) (*Tweet, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for posting quota: %w", err)
		}
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var tweet *Tweet
	var permanentErr error
	attempt := 0
	retrier := repeater.NewBackoff(c.maxAttempts, 10*time.Millisecond, repeater.WithMaxDelay(time.Second))
	err = retrier.Do(ctx, func() error {
		attempt++
		t, e := c.send(ctx, body)
		if e == nil {
			tweet = t
			return nil
		}
		var rlErr *RateLimitError
		if !errors.As(e, &rlErr) {
			permanentErr = e
			return nil // not retriable, stop
		}
		if attempt >= c.maxAttempts {
			permanentErr = e // no attempts left, don't wait for the reset
			return nil
		}
		if werr := waitUntil(ctx, rlErr.Reset); werr != nil {
			permanentErr = fmt.Errorf("%w: %w", e, werr)
			return nil
		}
		return e // retry after the window reset
	})
	if err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}
	if permanentErr != nil {
		return nil, fmt.Errorf("create tweet: %w", permanentErr)
	}
	return tweet, nil
}

func (c *Client) send(ctx context.Context, body []byte) (*Tweet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("make request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		rlErr := &RateLimitError{APIError: decodeAPIError(resp.StatusCode, data), Reset: resetTime(resp.Header)}
		lgr.Printf("[WARN] %v", rlErr)
		return nil, rlErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, data)
		return nil, &apiErr
	}

	var res struct {
		Data Tweet `json:"data"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if res.Data.ID == "" {
		return nil, fmt.Errorf("no tweet id in response: %s", string(data))
	}
	lgr.Printf("[DEBUG] created tweet %s", res.Data.ID)
	return &res.Data, nil
}

// decodeAPIError extracts problem details, both v2 problem and legacy errors shapes are understood
func decodeAPIError(code int, data []byte) APIError {
	res := APIError{StatusCode: code}
	var body struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		res.Detail = strings.TrimSpace(string(data))
		return res
	}
	res.Title, res.Detail = body.Title, body.Detail
	if res.Detail == "" && len(body.Errors) > 0 {
		res.Detail = body.Errors[0].Message
	}
	return res
}

// resetTime reads x-rate-limit-reset (unix seconds), falls back to a minute from now
func resetTime(h http.Header) time.Time {
	if v := h.Get("x-rate-limit-reset"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(secs, 0)
		}
	}
	return time.Now().Add(time.Minute)
}

// waitUntil sleeps until t, fails right away if ctx deadline comes first
func waitUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}
	if deadline, ok := ctx.Deadline(); ok && deadline.Before(t) {
		return fmt.Errorf("rate limit reset at %s is past the deadline", t.Format(time.RFC3339))
	}
	lgr.Printf("[INFO] rate limited, waiting %v", d.Round(time.Second))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Package remote is the REST client every screen talks to the backend
// through. One call is one round trip; GETs may be retried, POSTs never.
package remote

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

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"agroverse/auth"
	"agroverse/config"
	"agroverse/errx"
	"agroverse/logx"
	"agroverse/utils"
)

const (
	networkMessage  = "Network request failed. Please check your connection."
	decodeMessage   = "Invalid response from server."
	requestIDHeader = "X-Request-ID"
)

type Options struct {
	BaseURL string
	Session *auth.Session
	Timeout time.Duration
	Retry   config.Retry
	// HTTPClient overrides the instrumented default.
	HTTPClient *http.Client
}

type Client struct {
	base    *url.URL
	session *auth.Session
	http    *http.Client
	retry   config.Retry
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	if opts.Session == nil {
		return nil, errors.New("remote: session is required")
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry.MaxAttempts = 1
	}
	if retry.InitialDelay <= 0 {
		retry.InitialDelay = 200 * time.Millisecond
	}
	if retry.MaxDelay < retry.InitialDelay {
		retry.MaxDelay = retry.InitialDelay
	}
	return &Client{base: base, session: opts.Session, http: hc, retry: retry}, nil
}

func (c *Client) Session() *auth.Session {
	return c.session
}

// call describes one logical request.
type call struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// authorized calls attach the bearer token and fail locally without one.
	authorized bool
	loginMsg   string
	// bearerIfAny attaches the token when there is one but never requires it.
	bearerIfAny bool
	// public calls are the auth endpoints, where 401 means bad credentials.
	public bool
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do runs cl and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	var token string
	if cl.authorized {
		if token = c.session.Token(); token == "" {
			return errx.NotAuthenticated(cl.loginMsg)
		}
	} else if cl.bearerIfAny {
		token = c.session.Token()
	}

	if cl.method != http.MethodGet {
		return c.roundTrip(ctx, cl, token, out, 1)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialDelay
	b.MaxInterval = c.retry.MaxDelay
	b.RandomizationFactor = 0.5

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.roundTrip(ctx, cl, token, out, attempt)
		if err != nil && !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.retry.MaxAttempts))

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	if err != nil && !errors.Is(err, errx.ErrTransport) && !errors.Is(err, errx.ErrSessionExpired) {
		err = errx.Transport(0, networkMessage, err)
	}
	return err
}

func retryable(err error) bool {
	if !errors.Is(err, errx.ErrTransport) {
		return false
	}
	status := errx.StatusOf(err)
	return status == 0 || status == http.StatusTooManyRequests || status >= 500
}

func (c *Client) roundTrip(ctx context.Context, cl call, token string, out any, attempt int) error {
	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(cl.path, cl.query), body)
	if err != nil {
		return errx.Transport(0, networkMessage, err)
	}
	reqID := utils.GetUUID()
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logx.Debug().Err(err).Str("method", cl.method).Str("path", cl.path).
			Str("request_id", reqID).Int("attempt", attempt).Msg("remote call failed")
		return errx.Transport(0, networkMessage, err)
	}
	defer resp.Body.Close()

	logx.Debug().Str("method", cl.method).Str("path", cl.path).Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).Str("request_id", reqID).Int("attempt", attempt).Msg("remote call")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errx.Transport(0, networkMessage, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !cl.public {
		c.session.Invalidate("unauthorized")
		return errx.Expired()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errx.Transport(resp.StatusCode, serverMessage(raw),
			fmt.Errorf("%s %s: status %d", cl.method, cl.path, resp.StatusCode))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errx.Transport(resp.StatusCode, decodeMessage, err)
	}
	return nil
}

// serverMessage pulls a human message out of an error body.
func serverMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return errx.UnknownErrorMessage
}

func jsonCall(method string, res Resource, payload any) (call, error) {
	cl := call{method: method, path: string(res)}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return cl, fmt.Errorf("encode %s payload: %w", res, err)
		}
		cl.body = b
		cl.contentType = "application/json"
	}
	return cl, nil
}

package canvas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/matzehuels/placer/pkg/errors"
	"github.com/matzehuels/placer/pkg/httputil"
	"github.com/matzehuels/placer/pkg/observability"
)

// Default client settings.
const (
	DefaultBaseURL      = "https://www.reddit.com"
	DefaultUserAgent    = "PlacePlacer"
	DefaultProbeTimeout = 5 * time.Second

	// maxErrorBody caps how much of an error response is kept for logging.
	maxErrorBody = 512
)

// Config configures a Client. Zero values select the defaults above.
type Config struct {
	BaseURL      string
	UserAgent    string
	ProbeTimeout time.Duration
	Retries      int           // transport attempts per request
	RetryDelay   time.Duration // initial transport backoff
	Transport    http.RoundTripper
}

// Client provides shared HTTP functionality for canvas API calls.
type Client struct {
	http         *http.Client
	base         *url.URL
	userAgent    string
	probeTimeout time.Duration
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}

	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid base URL %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create cookie jar")
	}

	transport := &httputil.RetryTransport{
		Base:     cfg.Transport,
		Attempts: cfg.Retries,
		Delay:    cfg.RetryDelay,
	}

	return &Client{
		http:         &http.Client{Transport: transport, Jar: jar},
		base:         base,
		userAgent:    cfg.UserAgent,
		probeTimeout: cfg.ProbeTimeout,
	}, nil
}

// BaseURL returns the service root requests are resolved against.
func (c *Client) BaseURL() string { return c.base.String() }

// newRequest builds a request for path relative to the base URL. A non-nil
// form is sent as an url-encoded POST body.
func (c *Client) newRequest(ctx context.Context, method, path string, query, form url.Values) (*http.Request, error) {
	u := *c.base
	u.Path = c.base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// do sends req and reports it to the HTTP hooks.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "%s %s", req.Method, path)
		}
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "%s %s", req.Method, path)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// StatusError reports a response with an unexpected HTTP status. It carries
// the TRANSPORT code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP status %d: %s", e.StatusCode, e.Body)
}

// Code implements the coded-error interface of pkg/errors.
func (e *StatusError) Code() errors.Code { return errors.ErrCodeTransport }

// statusError drains a bounded prefix of resp's body into a StatusError.
func statusError(resp *http.Response) *StatusError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
}

package canvas

import (
	"context"
	"net/http"
	"net/url"
)

// modhashHeader carries the anti-CSRF token on authenticated requests.
const modhashHeader = "X-Modhash"

// Session is an authenticated handle. It is immutable; the login cookie lives
// in the owning Client's cookie jar.
type Session struct {
	client   *Client
	username string
	modhash  string
}

// Username returns the account the session belongs to.
func (s *Session) Username() string { return s.username }

// Modhash returns the anti-CSRF token obtained at login.
func (s *Session) Modhash() string { return s.modhash }

// Cookies returns the cookies the client holds for the service.
func (s *Session) Cookies() []*http.Cookie {
	return s.client.http.Jar.Cookies(s.client.base)
}

// Resume rebuilds a session from a previously obtained modhash and cookies
// without contacting the service.
func (c *Client) Resume(username, modhash string, cookies []*http.Cookie) *Session {
	if len(cookies) > 0 {
		c.http.Jar.SetCookies(c.base, cookies)
	}
	return &Session{client: c, username: username, modhash: modhash}
}

// newRequest builds a request carrying the session's headers.
func (s *Session) newRequest(ctx context.Context, method, path string, query, form url.Values) (*http.Request, error) {
	req, err := s.client.newRequest(ctx, method, path, query, form)
	if err != nil {
		return nil, err
	}
	if s.modhash != "" {
		req.Header.Set(modhashHeader, s.modhash)
	}
	return req, nil
}

package httputil

import (
	"errors"
	"net"
	"net/http"
	"time"
)

// Default transport retry policy.
const (
	DefaultAttempts = 5
	DefaultDelay    = 500 * time.Millisecond
)

var errBodyNotReplayable = errors.New("request body cannot be replayed")

// RetryTransport is an http.RoundTripper that re-sends requests whose round
// trip fails with a network error. Requests with a non-idempotent method are
// only re-sent when the connection could not be dialed, since any later
// failure may come after the server acted on them.
type RetryTransport struct {
	Base     http.RoundTripper // nil means http.DefaultTransport
	Attempts int               // total attempts; <= 0 means DefaultAttempts
	Delay    time.Duration     // initial backoff; <= 0 means DefaultDelay
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var (
		resp *http.Response
		sent int
	)
	err := Retry(req.Context(), t.attempts(), t.delay(), func() error {
		r := req
		if sent > 0 {
			var err error
			if r, err = rewind(req); err != nil {
				return err
			}
		}
		sent++

		var err error
		resp, err = t.base().RoundTrip(r)
		if err != nil {
			if req.Context().Err() != nil || !replayable(req, err) {
				return err
			}
			return &RetryableError{Err: err}
		}
		return nil
	})
	if err != nil {
		var re *RetryableError
		if errors.As(err, &re) {
			return nil, re.Err
		}
		return nil, err
	}
	return resp, nil
}

func (t *RetryTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RetryTransport) attempts() int {
	if t.Attempts <= 0 {
		return DefaultAttempts
	}
	return t.Attempts
}

func (t *RetryTransport) delay() time.Duration {
	if t.Delay <= 0 {
		return DefaultDelay
	}
	return t.Delay
}

// rewind clones req with a fresh body for another attempt.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return r, nil
	}
	if req.GetBody == nil {
		return nil, errBodyNotReplayable
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r.Body = body
	return r, nil
}

// replayable reports whether req may be sent again after err.
func replayable(req *http.Request, err error) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete:
		return true
	}
	var op *net.OpError
	return errors.As(err, &op) && op.Op == "dial"
}

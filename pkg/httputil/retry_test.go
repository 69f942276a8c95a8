package httputil

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var errFlaky = errors.New("connection reset")

var errDial = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first try", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("err = %v, calls = %d; want nil, 1", err, calls)
		}
	})

	t.Run("non-retryable stops immediately", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return errFlaky
		})
		if err != errFlaky || calls != 1 {
			t.Errorf("err = %v, calls = %d; want errFlaky, 1", err, calls)
		}
	})

	t.Run("retryable retries", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return &RetryableError{Err: errFlaky}
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d; want nil, 3", err, calls)
		}
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, time.Millisecond, func() error {
			calls++
			return &RetryableError{Err: errFlaky}
		})
		if !errors.Is(err, errFlaky) || calls != 2 {
			t.Errorf("err = %v, calls = %d; want errFlaky, 2", err, calls)
		}
	})

	t.Run("zero attempts runs once", func(t *testing.T) {
		calls := 0
		_ = Retry(ctx, 0, time.Millisecond, func() error {
			calls++
			return nil
		})
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errFlaky}
	})
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRetryTransportRetriesNetworkErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}))
	defer server.Close()

	failures := 2
	var bodies []string
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if failures > 0 {
			failures--
			return nil, errDial
		}
		r.Body = io.NopCloser(strings.NewReader(string(b)))
		return http.DefaultTransport.RoundTrip(r)
	})

	client := &http.Client{Transport: &RetryTransport{Base: base, Attempts: 5, Delay: time.Millisecond}}
	resp, err := client.Post(server.URL, "application/x-www-form-urlencoded", strings.NewReader("x=1&y=2"))
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	defer resp.Body.Close()

	got, _ := io.ReadAll(resp.Body)
	if string(got) != "x=1&y=2" {
		t.Errorf("echoed body = %q, want %q", got, "x=1&y=2")
	}
	if len(bodies) != 3 {
		t.Fatalf("attempts = %d, want 3", len(bodies))
	}
	for i, b := range bodies {
		if b != "x=1&y=2" {
			t.Errorf("attempt %d sent body %q", i, b)
		}
	}
}

func TestRetryTransportGivesUp(t *testing.T) {
	calls := 0
	base := roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errFlaky
	})

	client := &http.Client{Transport: &RetryTransport{Base: base, Attempts: 3, Delay: time.Millisecond}}
	_, err := client.Get("http://canvas.invalid/api/place/pixel.json")
	if !errors.Is(err, errFlaky) {
		t.Errorf("Get() error = %v, want errFlaky", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryTransportReplaysPostOnlyBeforeDial(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		err       error
		wantCalls int
	}{
		{"post dial failure", http.MethodPost, errDial, 3},
		{"post read failure", http.MethodPost, io.ErrUnexpectedEOF, 1},
		{"get read failure", http.MethodGet, io.ErrUnexpectedEOF, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			base := roundTripFunc(func(*http.Request) (*http.Response, error) {
				calls++
				return nil, tt.err
			})

			client := &http.Client{Transport: &RetryTransport{Base: base, Attempts: 3, Delay: time.Millisecond}}
			req, _ := http.NewRequest(tt.method, "http://canvas.invalid/api/place/draw.json", strings.NewReader("x=1"))
			_, err := client.Do(req)
			if !errors.Is(err, tt.err) {
				t.Errorf("Do() error = %v, want %v", err, tt.err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryTransportDoesNotRetryStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := &http.Client{Transport: &RetryTransport{Attempts: 5}}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway || calls != 1 {
		t.Errorf("status = %d, calls = %d; want 502, 1", resp.StatusCode, calls)
	}
}

func TestRewindWithoutGetBody(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "http://canvas.invalid", io.NopCloser(strings.NewReader("a")))
	req.GetBody = nil
	if _, err := rewind(req); !errors.Is(err, errBodyNotReplayable) {
		t.Errorf("rewind() error = %v, want errBodyNotReplayable", err)
	}

	get, _ := http.NewRequest(http.MethodGet, "http://canvas.invalid", nil)
	if _, err := rewind(get); err != nil {
		t.Errorf("rewind(GET) error = %v", err)
	}
}

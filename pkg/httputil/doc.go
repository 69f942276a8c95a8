// Package httputil provides HTTP transport utilities for the canvas client.
//
// # Retry
//
// [Retry] runs a function with bounded attempts and exponential backoff. Only
// errors wrapped in [RetryableError] trigger another attempt:
//
//	err := httputil.Retry(ctx, 5, 500*time.Millisecond, func() error {
//	    return fetch()
//	})
//
// # Transport
//
// [RetryTransport] applies the same policy at the connection level: a request
// whose round trip fails with a network error is re-sent, up to the configured
// number of attempts. HTTP status codes are never retried here; interpreting a
// 4xx or 5xx response is left to the caller. Requests with a body are only
// re-sent when the body can be replayed (http.Request.GetBody).
//
// # Configuration
//
// Default settings:
//
//   - Attempts: 5
//   - Base backoff: 500 milliseconds, doubling after each failure
package httputil

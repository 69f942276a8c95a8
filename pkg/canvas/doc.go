// Package canvas is a client for the collaborative canvas web API.
//
// # Overview
//
// [Client] owns the HTTP transport: a cookie jar for the login cookie and a
// [httputil.RetryTransport] that re-sends requests on network failures.
// [Client.Login] performs the credential handshake and returns an immutable
// [Session] holding the modhash (anti-CSRF token):
//
//	client, err := canvas.NewClient(canvas.Config{BaseURL: "https://www.reddit.com"})
//	sess, err := client.Login(ctx, "user", "pass")
//	state, err := sess.Pixel(ctx, 890, 850)
//	result, err := sess.Draw(ctx, 890, 850, 5)
//
// Every request built from a Session carries the User-Agent and X-Modhash
// headers. Sessions are never refreshed; a remembered session can be
// re-attached with [Client.Resume].
//
// # Endpoints
//
//   - POST /api/login/{user}    form user, passwd, api_type=json
//   - GET  /api/place/pixel.json?x=&y=
//   - POST /api/place/draw.json form x, y, color
//
// # Errors
//
// Non-200 responses and network failures are reported as TRANSPORT errors
// (see [StatusError] for the status code and body). Rejected credentials are
// AUTH_FAILED errors whose user message is the service's own message.
package canvas

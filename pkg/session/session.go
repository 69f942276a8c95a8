// Package session remembers authenticated canvas sessions between runs.
//
// A remembered session holds the anti-CSRF modhash and the login cookies
// returned by the service, so a restarted bot can resume without sending
// the password again. Two backends implement [Store]:
//   - [FileStore]: JSON files under ~/.config/placer/sessions/ (the default)
//   - [RedisStore]: Redis keys with a TTL, for bots sharing one account store
//
// # Usage
//
//	store, err := session.Open(ctx, "")             // file store
//	store, err := session.Open(ctx, "redis://host") // redis store
//
//	sess := session.New("alice", modhash, cookies, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, "alice")
//	if sess == nil {
//	    // not remembered or expired: log in again
//	}
package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/placer/pkg/errors"
)

// Session is a remembered login for one account.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Modhash   string    `json:"modhash"`
	Cookies   []Cookie  `json:"cookies"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Cookie is the persisted part of an HTTP cookie.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// HTTPCookies converts the stored cookies for a cookie jar.
func (s *Session) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves the session remembered for username.
	// Returns nil, nil if none exists or it has expired.
	Get(ctx context.Context, username string) (*Session, error)

	// Set stores a session under its username.
	Set(ctx context.Context, session *Session) error

	// Delete forgets the session for username.
	Delete(ctx context.Context, username string) error

	// Cleanup removes expired sessions (no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long a remembered session is trusted.
const DefaultTTL = 24 * time.Hour

// New creates a session for username with the given token and cookies.
func New(username, modhash string, cookies []*http.Cookie, ttl time.Duration) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		Modhash:   modhash,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	for _, c := range cookies {
		sess.Cookies = append(sess.Cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	return sess
}

// Open returns the store named by spec: empty or "file" selects the default
// file store, "file:<dir>" a file store rooted at dir, and a redis:// or
// rediss:// URL a Redis store.
func Open(ctx context.Context, spec string) (Store, error) {
	switch {
	case spec == "" || spec == "file":
		return NewFileStore("")
	case strings.HasPrefix(spec, "file:"):
		return NewFileStore(strings.TrimPrefix(spec, "file:"))
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		return NewRedisStore(ctx, spec)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown session store %q", spec)
	}
}

package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/matzehuels/placer/pkg/errors"
)

type loginResponse struct {
	JSON *struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Modhash string `json:"modhash"`
		} `json:"data"`
	} `json:"json"`
}

// Login submits credentials and returns an authenticated session.
// There is no retry at this layer beyond the transport's network retries.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := errors.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := errors.ValidatePassword(password); err != nil {
		return nil, err
	}

	form := url.Values{
		"user":     {username},
		"passwd":   {password},
		"api_type": {"json"},
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/login/"+url.PathEscape(username), nil, form)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(errors.ErrCodeTransport, statusError(resp), "HTTP status %d", resp.StatusCode)
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAuthFailed, err, "malformed login response")
	}
	if body.JSON == nil {
		return nil, errors.New(errors.ErrCodeAuthFailed, "malformed login response: missing json envelope")
	}
	if len(body.JSON.Errors) > 0 {
		return nil, errors.New(errors.ErrCodeAuthFailed, "%s", loginErrorMessage(body.JSON.Errors[0]))
	}
	if body.JSON.Data.Modhash == "" {
		return nil, errors.New(errors.ErrCodeAuthFailed, "malformed login response: missing modhash")
	}

	return &Session{client: c, username: username, modhash: body.JSON.Data.Modhash}, nil
}

// loginErrorMessage picks the human-readable part of a [code, message, field]
// error tuple, falling back to the code.
func loginErrorMessage(tuple []any) string {
	if len(tuple) > 1 {
		if msg, ok := tuple[1].(string); ok && msg != "" {
			return msg
		}
	}
	if len(tuple) > 0 {
		return fmt.Sprint(tuple[0])
	}
	return "login rejected"
}

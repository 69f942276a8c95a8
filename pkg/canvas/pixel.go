package canvas

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/placer/pkg/errors"
)

// PixelState is the current content of one canvas pixel.
type PixelState struct {
	Color    int
	UserName string
	HasColor bool // false when the service reported no color
	HasUser  bool
}

// Owner returns the user who set the pixel, or "<nobody>".
func (p *PixelState) Owner() string {
	if !p.HasUser {
		return "<nobody>"
	}
	return p.UserName
}

type pixelResponse struct {
	Color    *int    `json:"color"`
	UserName *string `json:"user_name"`
}

// Pixel reads the state of the pixel at absolute (x, y). The request is bounded
// by the client's probe timeout.
func (s *Session) Pixel(ctx context.Context, x, y int) (*PixelState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.client.probeTimeout)
	defer cancel()

	query := url.Values{"x": {strconv.Itoa(x)}, "y": {strconv.Itoa(y)}}
	req, err := s.newRequest(ctx, http.MethodGet, "/api/place/pixel.json", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var body pixelResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "decode pixel state")
	}

	// A missing color is read as index 0 (background). This can also hide
	// a response the service failed to fill in; HasColor keeps the difference.
	state := &PixelState{}
	if body.Color != nil {
		state.Color, state.HasColor = *body.Color, true
	}
	if body.UserName != nil {
		state.UserName, state.HasUser = *body.UserName, true
	}
	return state, nil
}

// DrawResult is the service's answer to a write.
type DrawResult struct {
	Rejected    bool   // the response carried an error field; the write was not applied
	Reason      string // raw error value when Rejected
	WaitSeconds int    // cooldown before this account may write again
}

// Draw submits a write of palette index color at absolute (x, y). Unlike the
// probe, the write has no timeout of its own.
func (s *Session) Draw(ctx context.Context, x, y, color int) (*DrawResult, error) {
	form := url.Values{
		"x":     {strconv.Itoa(x)},
		"y":     {strconv.Itoa(y)},
		"color": {strconv.Itoa(color)},
	}
	req, err := s.newRequest(ctx, http.MethodPost, "/api/place/draw.json", nil, form)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Cooldown rejections may arrive with a non-200 status but still carry
	// a JSON body, so the body is decoded first.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "read draw response")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data))}
	}

	result := &DrawResult{}
	if raw, ok := fields["error"]; ok {
		result.Rejected = true
		result.Reason = string(raw)
	}
	if raw, ok := fields["wait_seconds"]; ok {
		wait, err := parseSeconds(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTransport, err, "draw: bad wait_seconds %s", raw)
		}
		result.WaitSeconds = wait
	}
	return result, nil
}

// parseSeconds accepts a JSON number or numeric string and truncates it.
func parseSeconds(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
